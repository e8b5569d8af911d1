// Package schema defines the table/column model produced by a DDL import.
//
// Tables and columns are plain value objects: an import run builds them once,
// hands them to the caller, and never touches them again. Anything that went
// wrong during extraction but did not abort the table is recorded as an Issue
// on the owning table rather than returned as an error.
package schema

import (
	"strings"

	"github.com/google/uuid"
)

const (
	// LayerBronze marks raw/landing tables.
	LayerBronze Layer = "bronze"
	// LayerSilver marks cleaned/conformed tables.
	LayerSilver Layer = "silver"
	// LayerGold marks consumption-ready tables.
	LayerGold Layer = "gold"
	// LayerOperational marks operational/system tables.
	LayerOperational Layer = "operational"
)

const (
	// IssueUnknownType records a field whose declared type could not be
	// understood and was degraded to a placeholder type.
	IssueUnknownType IssueType = "unknown_type"
	// IssueSkippedColumn records a column definition that was dropped
	// because no usable name or type could be extracted from it.
	IssueSkippedColumn IssueType = "skipped_column"
	// IssueMalformedClause records a trailing clause (properties, comment)
	// that could not be fully parsed.
	IssueMalformedClause IssueType = "malformed_clause"
)

type (
	// Table is a single table extracted from a CREATE TABLE statement.
	Table struct {
		// ID is a fresh UUID assigned at extraction time, so repeated
		// imports of the same script yield distinct table identities.
		ID           string            `yaml:"id" json:"id"`
		Name         string            `yaml:"name" json:"name"`
		DatabaseType string            `yaml:"database_type,omitempty" json:"database_type,omitempty"`
		Columns      []Column          `yaml:"columns" json:"columns"`
		Layers       []Layer           `yaml:"layers,omitempty" json:"layers,omitempty"`
		Properties   []Property        `yaml:"properties,omitempty" json:"properties,omitempty"`
		Metadata     map[string]string `yaml:"metadata,omitempty" json:"metadata,omitempty"`
		RequiresName bool              `yaml:"requires_name,omitempty" json:"requires_name,omitempty"`
		Issues       []Issue           `yaml:"issues,omitempty" json:"issues,omitempty"`
	}

	// Column is a single column, including columns synthesized by
	// flattening composite types. Nested fields use dot-path names
	// ("address.city", "order.items.sku") to unlimited depth.
	Column struct {
		Name         string      `yaml:"name" json:"name"`
		DataType     string      `yaml:"data_type" json:"data_type"`
		Nullable     bool        `yaml:"nullable" json:"nullable"`
		PrimaryKey   bool        `yaml:"primary_key,omitempty" json:"primary_key,omitempty"`
		SecondaryKey bool        `yaml:"secondary_key,omitempty" json:"secondary_key,omitempty"`
		ForeignKey   *ForeignKey `yaml:"foreign_key,omitempty" json:"foreign_key,omitempty"`
		Description  string      `yaml:"description,omitempty" json:"description,omitempty"`
		ColumnOrder  int         `yaml:"column_order" json:"column_order"`
	}

	// ForeignKey is an inline reference to another table's column.
	ForeignKey struct {
		Table  string `yaml:"table" json:"table"`
		Column string `yaml:"column" json:"column"`
	}

	// Property is one key/value pair from a vendor property clause
	// (e.g. TBLPROPERTIES('quality' = 'gold')). All pairs are retained
	// verbatim, whether or not they were recognized.
	Property struct {
		Property string `yaml:"property" json:"property"`
		Value    string `yaml:"value" json:"value"`
	}

	// NameRequirement flags a table whose name expression could not be
	// resolved statically. TableIndex points into the table list returned
	// by the same Extract call so a caller can substitute a user-chosen
	// name at that position.
	NameRequirement struct {
		TableIndex    int    `yaml:"table_index" json:"table_index"`
		SuggestedName string `yaml:"suggested_name" json:"suggested_name"`
		Expression    string `yaml:"expression" json:"expression"`
	}

	// Issue is a non-fatal problem encountered while extracting a table.
	Issue struct {
		Type    IssueType `yaml:"type" json:"type"`
		Field   string    `yaml:"field,omitempty" json:"field,omitempty"`
		Message string    `yaml:"message" json:"message"`
	}

	// IssueType categorizes an Issue.
	IssueType string

	// Layer is a classification tag derived from vendor table metadata.
	Layer string
)

// NewTable returns a table with a fresh identity and an initialized
// metadata map. Columns are appended by the importer.
func NewTable(name string) *Table {
	return &Table{
		ID:       uuid.NewString(),
		Name:     name,
		Metadata: map[string]string{},
	}
}

// AddIssue appends a non-fatal extraction problem to the table.
func (t *Table) AddIssue(typ IssueType, field, message string) {
	t.Issues = append(t.Issues, Issue{Type: typ, Field: field, Message: message})
}

// Column returns the column with the given (dot-path) name, or nil.
func (t *Table) Column(name string) *Column {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// LayerFromString maps a classification value from table metadata onto a
// Layer tag. Only the fixed vocabulary is recognized; anything else returns
// false and is kept as a generic property record by the caller.
func LayerFromString(s string) (Layer, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bronze":
		return LayerBronze, true
	case "silver":
		return LayerSilver, true
	case "gold":
		return LayerGold, true
	case "operational":
		return LayerOperational, true
	default:
		return "", false
	}
}

// NormalizeDataType uppercases a data type literal while preserving the
// inner content of composite STRUCT<...>/ARRAY<...>/MAP<...> signatures,
// which may contain case-sensitive field names.
func NormalizeDataType(dataType string) string {
	if dataType == "" {
		return dataType
	}

	upper := strings.ToUpper(dataType)
	for _, prefix := range []string{"STRUCT", "ARRAY", "MAP"} {
		if !strings.HasPrefix(upper, prefix) {
			continue
		}
		start := strings.Index(dataType, "<")
		end := strings.LastIndex(dataType, ">")
		if start >= 0 && end > start {
			return prefix + "<" + dataType[start+1:end] + ">"
		}
		return prefix + dataType[len(prefix):]
	}

	return upper
}
