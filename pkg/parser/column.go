package parser

import "strings"

type (
	// ColumnDef is a single column definition: name, type, and trailing
	// options in any order.
	ColumnDef struct {
		Name    *NameSegment    `parser:"@@"`
		Type    *DataType       `parser:"@@"`
		Options []*ColumnOption `parser:"@@*"`
	}

	// DataType is a column type: one of the composite forms or a simple
	// named type with optional parameters.
	DataType struct {
		Struct *StructType `parser:"@@"`
		Array  *ArrayType  `parser:"| @@"`
		Map    *MapType    `parser:"| @@"`
		Simple *SimpleType `parser:"| @@"`
	}

	// StructType is STRUCT<name: type, ...>. The field-name colon is
	// optional to match the dialects that omit it.
	StructType struct {
		Fields []*StructField `parser:"'STRUCT' '<' @@ (',' @@)* '>'"`
	}

	// StructField is one field of a STRUCT type.
	StructField struct {
		Name string    `parser:"(@Ident | @BacktickIdent | @QuotedIdent) ':'?"`
		Type *DataType `parser:"@@"`
	}

	// ArrayType is ARRAY<type>.
	ArrayType struct {
		Element *DataType `parser:"'ARRAY' '<' @@ '>'"`
	}

	// MapType is MAP<key, value>.
	MapType struct {
		Key   *DataType `parser:"'MAP' '<' @@ ','"`
		Value *DataType `parser:"@@ '>'"`
	}

	// SimpleType is a named scalar type, optionally multi-word
	// (DOUBLE PRECISION, TIMESTAMP WITH TIME ZONE), parameterized, and
	// sign-qualified.
	SimpleType struct {
		Name     string   `parser:"@Ident"`
		Extra    []string `parser:"@('PRECISION' | 'VARYING')*"`
		TimeZone []string `parser:"(@('WITH' | 'WITHOUT') @'TIME' @'ZONE')?"`
		Params   []string `parser:"('(' @(Number | Ident | String) (',' @(Number | Ident | String))* ')')?"`
		Unsigned bool     `parser:"@'UNSIGNED'?"`
	}

	// ColumnOption is a trailing column qualifier. The set is closed:
	// a qualifier outside it fails the statement and routes the input to
	// the text-scanning fallback, which tolerates anything.
	ColumnOption struct {
		NotNull       bool           `parser:"@('NOT' 'NULL')"`
		Null          bool           `parser:"| @'NULL'"`
		PrimaryKey    bool           `parser:"| @('PRIMARY' 'KEY')"`
		Unique        bool           `parser:"| @'UNIQUE'"`
		AutoIncrement bool           `parser:"| @('AUTO_INCREMENT' | 'AUTOINCREMENT')"`
		Identity      *ParenExpr     `parser:"| 'IDENTITY' @@?"`
		Default       *DefaultValue  `parser:"| 'DEFAULT' @@"`
		OnUpdate      *DefaultValue  `parser:"| 'ON' 'UPDATE' @@"`
		References    *ReferencesDef `parser:"| @@"`
		Comment       *string        `parser:"| 'COMMENT' (@String | @QuotedIdent)"`
		Collate       *NameSegment   `parser:"| 'COLLATE' @@"`
		Check         *CheckDef      `parser:"| @@"`
	}

	// DefaultValue is the expression after DEFAULT: a literal, a bare
	// identifier (CURRENT_TIMESTAMP), or a function call with balanced
	// parentheses.
	DefaultValue struct {
		Expr  *ParenExpr `parser:"@@"`
		Value *string    `parser:"| @'-'? (@String | @Number | @'NULL' | @'TRUE' | @'FALSE')"`
		Func  *FuncCall  `parser:"| @@"`
	}

	// FuncCall is an identifier optionally followed by a balanced
	// argument list.
	FuncCall struct {
		Name string     `parser:"@Ident"`
		Args *ParenExpr `parser:"@@?"`
	}

	// ParenExpr captures a balanced parenthesized token sequence without
	// interpreting it.
	ParenExpr struct {
		Items []*ParenItem `parser:"'(' @@* ')'"`
	}

	// ParenItem is one token or nested group inside a ParenExpr.
	ParenItem struct {
		Nested *ParenExpr `parser:"@@"`
		Token  string     `parser:"| @(~(')' | '('))"`
	}
)

// TypeName renders the type the way it appeared, with composite forms
// reassembled from their parts: STRUCT<a: T, ...>, ARRAY<T>, MAP<K, V>, or
// NAME(params) for simple types.
func (d *DataType) TypeName() string {
	switch {
	case d.Struct != nil:
		fields := make([]string, 0, len(d.Struct.Fields))
		for _, f := range d.Struct.Fields {
			fields = append(fields, f.Name+": "+f.Type.TypeName())
		}
		return "STRUCT<" + strings.Join(fields, ", ") + ">"
	case d.Array != nil:
		return "ARRAY<" + d.Array.Element.TypeName() + ">"
	case d.Map != nil:
		return "MAP<" + d.Map.Key.TypeName() + ", " + d.Map.Value.TypeName() + ">"
	case d.Simple != nil:
		return d.Simple.TypeName()
	}
	return ""
}

// FieldName returns the struct field's name with identifier quoting
// stripped, so backticked or double-quoted fields build the same dot paths
// as bare ones.
func (f *StructField) FieldName() string {
	return unquote(f.Name)
}

// TypeName renders the simple type as written, parameters included.
func (s *SimpleType) TypeName() string {
	name := s.Name
	if len(s.Extra) > 0 {
		name += " " + strings.Join(s.Extra, " ")
	}
	if len(s.TimeZone) > 0 {
		name += " " + strings.Join(s.TimeZone, " ")
	}
	if len(s.Params) > 0 {
		name += "(" + strings.Join(s.Params, ", ") + ")"
	}
	if s.Unsigned {
		name += " UNSIGNED"
	}
	return name
}

// IsNotNull reports whether the column carries an explicit NOT NULL.
func (c *ColumnDef) IsNotNull() bool {
	for _, o := range c.Options {
		if o.NotNull {
			return true
		}
	}
	return false
}

// IsPrimaryKey reports whether the column carries an inline PRIMARY KEY.
func (c *ColumnDef) IsPrimaryKey() bool {
	for _, o := range c.Options {
		if o.PrimaryKey {
			return true
		}
	}
	return false
}

// CommentText returns the inline COMMENT string, unquoted, or empty.
func (c *ColumnDef) CommentText() string {
	for _, o := range c.Options {
		if o.Comment != nil {
			return unquote(*o.Comment)
		}
	}
	return ""
}

// ForeignRef returns the inline REFERENCES clause, or nil.
func (c *ColumnDef) ForeignRef() *ReferencesDef {
	for _, o := range c.Options {
		if o.References != nil {
			return o.References
		}
	}
	return nil
}
