package sqlimport

import (
	"github.com/schemabridge/schemabridge/pkg/dialect"
	"github.com/schemabridge/schemabridge/pkg/parser"
	"github.com/schemabridge/schemabridge/pkg/schema"
)

// flattenColumnType expands one parsed column type into flat columns with
// dot-path names, appending in pre-order: the composite column itself, then
// its fields depth-first. STRUCT parents report the bare type STRUCT and
// ARRAY parents the bare type ARRAY; an ARRAY of STRUCT flattens the
// element's fields directly under the array's own path, since each path
// names one field per element. MAP stays a single column carrying its full
// type literal. Types outside the canonical vocabulary degrade to OBJECT
// with a warning rather than failing the table.
func flattenColumnType(name string, dt *parser.DataType, out *[]schema.Column, issues *[]schema.Issue) {
	switch {
	case dt.Struct != nil:
		*out = append(*out, schema.Column{Name: name, DataType: "STRUCT", Nullable: true})
		for _, f := range dt.Struct.Fields {
			flattenColumnType(name+"."+f.FieldName(), f.Type, out, issues)
		}
	case dt.Array != nil:
		*out = append(*out, schema.Column{Name: name, DataType: "ARRAY", Nullable: true})
		if elem := dt.Array.Element; elem.Struct != nil {
			for _, f := range elem.Struct.Fields {
				flattenColumnType(name+"."+f.FieldName(), f.Type, out, issues)
			}
		}
	case dt.Map != nil:
		*out = append(*out, schema.Column{Name: name, DataType: canonicalType(dt), Nullable: true})
	case dt.Simple != nil:
		typeName := dt.Simple.TypeName()
		if !dialect.Known(typeName) {
			*issues = append(*issues, schema.Issue{
				Type:    schema.IssueUnknownType,
				Field:   name,
				Message: "unrecognized data type " + typeName + ", stored as OBJECT",
			})
			*out = append(*out, schema.Column{Name: name, DataType: "OBJECT", Nullable: true})
			return
		}
		*out = append(*out, schema.Column{Name: name, DataType: dialect.CanonicalType(typeName), Nullable: true})
	}
}

// canonicalType renders a parsed type with scalar leaves normalized to
// their canonical names, recursing through composite forms. Used for the
// embedded type literals of MAP columns.
func canonicalType(dt *parser.DataType) string {
	switch {
	case dt.Struct != nil:
		s := "STRUCT<"
		for i, f := range dt.Struct.Fields {
			if i > 0 {
				s += ", "
			}
			s += f.FieldName() + ": " + canonicalType(f.Type)
		}
		return s + ">"
	case dt.Array != nil:
		return "ARRAY<" + canonicalType(dt.Array.Element) + ">"
	case dt.Map != nil:
		return "MAP<" + canonicalType(dt.Map.Key) + ", " + canonicalType(dt.Map.Value) + ">"
	case dt.Simple != nil:
		return dialect.CanonicalType(dt.Simple.TypeName())
	}
	return ""
}
