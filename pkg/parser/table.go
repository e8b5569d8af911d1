package parser

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

type (
	// CreateTableStmt is a parsed CREATE TABLE statement. Pos and EndPos
	// span the statement in the normalized input so callers can recover
	// the raw text of a statement for clause-level inspection.
	CreateTableStmt struct {
		Pos    lexer.Position
		EndPos lexer.Position

		OrReplace   bool            `parser:"'CREATE' @('OR' 'REPLACE')?"`
		Temporary   bool            `parser:"@('TEMP' | 'TEMPORARY')?"`
		External    bool            `parser:"@'EXTERNAL'? 'TABLE'"`
		IfNotExists bool            `parser:"@('IF' 'NOT' 'EXISTS')?"`
		Name        *TableName      `parser:"@@"`
		Elements    []*TableElement `parser:"('(' @@ (',' @@)* ','? ')')?"`
		Options     []*TableOption  `parser:"@@*"`
		Semicolon   bool            `parser:"@';'?"`
	}

	// TableName is a possibly qualified name: one or more segments joined
	// by dots, each optionally quoted or a :bind variable.
	TableName struct {
		Segments []*NameSegment `parser:"@@ ('.' @@)*"`
	}

	// NameSegment is one component of a qualified name.
	NameSegment struct {
		Bind    bool   `parser:"@':'?"`
		Ident   string `parser:"( @Ident"`
		Quoted  string `parser:"| @QuotedIdent | @BacktickIdent | @BracketIdent"`
		Literal string `parser:"| @String )"`
	}

	// TableElement is one entry of the parenthesized element list: either
	// a table-level constraint or a column definition. Constraints come
	// first so a column named like a constraint keyword never shadows one.
	TableElement struct {
		PrimaryKey *PrimaryKeyDef `parser:"@@"`
		ForeignKey *ForeignKeyDef `parser:"| @@"`
		Constraint *ConstraintDef `parser:"| @@"`
		Unique     *UniqueDef     `parser:"| @@"`
		Check      *CheckDef      `parser:"| @@"`
		Column     *ColumnDef     `parser:"| @@"`
	}

	// PrimaryKeyDef is a table-level PRIMARY KEY (a, b) constraint.
	PrimaryKeyDef struct {
		Columns []*NameSegment `parser:"'PRIMARY' 'KEY' '(' @@ (',' @@)* ')'"`
	}

	// ForeignKeyDef is a table-level FOREIGN KEY constraint.
	ForeignKeyDef struct {
		Columns    []*NameSegment `parser:"'FOREIGN' 'KEY' '(' @@ (',' @@)* ')'"`
		References *ReferencesDef `parser:"@@"`
	}

	// ConstraintDef is a named table constraint wrapping one of the
	// unnamed forms.
	ConstraintDef struct {
		Name       *NameSegment   `parser:"'CONSTRAINT' @@"`
		PrimaryKey *PrimaryKeyDef `parser:"( @@"`
		ForeignKey *ForeignKeyDef `parser:"| @@"`
		Unique     *UniqueDef     `parser:"| @@"`
		Check      *CheckDef      `parser:"| @@ )"`
	}

	// UniqueDef is a table-level UNIQUE (a, b) constraint.
	UniqueDef struct {
		Columns []*NameSegment `parser:"'UNIQUE' ('KEY' Ident?)? '(' @@ (',' @@)* ')'"`
	}

	// CheckDef is a CHECK constraint; the expression is captured as
	// balanced tokens and not interpreted.
	CheckDef struct {
		Expr *ParenExpr `parser:"'CHECK' @@"`
	}

	// ReferencesDef is the REFERENCES clause of a foreign key, at table
	// or column level.
	ReferencesDef struct {
		Table    *TableName     `parser:"'REFERENCES' @@"`
		Columns  []*NameSegment `parser:"('(' @@ (',' @@)* ')')?"`
		OnDelete []string       `parser:"('ON' 'DELETE' @('CASCADE' | 'RESTRICT' | ('SET' ('NULL' | 'DEFAULT')) | ('NO' 'ACTION')))?"`
		OnUpdate []string       `parser:"('ON' 'UPDATE' @('CASCADE' | 'RESTRICT' | ('SET' ('NULL' | 'DEFAULT')) | ('NO' 'ACTION')))?"`
	}

	// TableOption is a clause trailing the element list: storage format,
	// engine, comment, property maps, partitioning, or location. Anything
	// else before the statement terminator is consumed as raw tokens so
	// vendor clauses never fail the parse.
	TableOption struct {
		Using       *NameSegment    `parser:"'USING' @@"`
		Engine      *NameSegment    `parser:"| 'ENGINE' '='? @@"`
		Comment     *string         `parser:"| 'COMMENT' '='? (@String | @QuotedIdent)"`
		Properties  *PropertyList   `parser:"| @@"`
		Partitioned []*NameSegment  `parser:"| 'PARTITIONED' 'BY' '(' @@ (',' @@)* ')'"`
		Location    *string         `parser:"| 'LOCATION' @String"`
		RawExpr     *ParenExpr      `parser:"| @@"`
		Raw         []string        `parser:"| @(~(';' | 'CREATE' | ')'))"`
	}

	// PropertyList is a TBLPROPERTIES or OPTIONS clause of key value
	// pairs.
	PropertyList struct {
		Keyword string      `parser:"@('TBLPROPERTIES' | 'OPTIONS')"`
		Pairs   []*Property `parser:"'(' @@ (',' @@)* ')'"`
	}

	// Property is one 'key' = 'value' pair.
	Property struct {
		Key   string `parser:"(@String | @QuotedIdent | @Ident)"`
		Value string `parser:"'=' (@String | @QuotedIdent | @Ident | @Number)"`
	}
)

// Value returns the segment text with quoting stripped.
func (s *NameSegment) Value() string {
	switch {
	case s.Ident != "":
		return s.Ident
	case s.Quoted != "":
		return unquote(s.Quoted)
	case s.Literal != "":
		return unquote(s.Literal)
	}
	return ""
}

// String returns the dotted, unquoted form of the name.
func (n *TableName) String() string {
	parts := make([]string, 0, len(n.Segments))
	for _, s := range n.Segments {
		v := s.Value()
		if s.Bind {
			v = ":" + v
		}
		parts = append(parts, v)
	}
	return strings.Join(parts, ".")
}

// Comment returns the statement's table comment option, if present.
func (c *CreateTableStmt) Comment() string {
	for _, opt := range c.Options {
		if opt.Comment != nil {
			return unquote(*opt.Comment)
		}
	}
	return ""
}

// Properties returns all key value pairs from TBLPROPERTIES and OPTIONS
// clauses, in order.
func (c *CreateTableStmt) Properties() []*Property {
	var pairs []*Property
	for _, opt := range c.Options {
		if opt.Properties != nil {
			pairs = append(pairs, opt.Properties.Pairs...)
		}
	}
	return pairs
}

func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	switch {
	case s[0] == '\'' && s[len(s)-1] == '\'',
		s[0] == '"' && s[len(s)-1] == '"',
		s[0] == '`' && s[len(s)-1] == '`':
		return s[1 : len(s)-1]
	case s[0] == '[' && s[len(s)-1] == ']':
		return s[1 : len(s)-1]
	}
	return s
}
