// Package sqlimport extracts table schemas from SQL DDL scripts. It runs a
// grammar parse first and falls back to text scanning when the grammar
// rejects the input, so messy real-world scripts still yield tables. An
// extraction only fails when neither path finds anything in a non-empty
// input.
package sqlimport

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/schemabridge/schemabridge/pkg/dialect"
	"github.com/schemabridge/schemabridge/pkg/parser"
	"github.com/schemabridge/schemabridge/pkg/schema"
)

// ErrNoTables is returned when a non-empty input yields no tables on
// either extraction path.
var ErrNoTables = errors.New("no tables found in SQL input")

// Importer extracts schemas for one dialect. The zero value is not usable;
// construct with New.
type Importer struct {
	dialect dialect.Dialect
}

// Result is the outcome of one extraction. NameRequests lists tables whose
// statements used dynamic name expressions; each entry indexes into Tables.
type Result struct {
	Tables       []*schema.Table          `json:"tables" yaml:"tables"`
	NameRequests []schema.NameRequirement `json:"name_requests,omitempty" yaml:"name_requests,omitempty"`
}

// New returns an Importer for the named dialect. Unknown names resolve to
// the generic dialect, so New never fails.
func New(dialectName string) *Importer {
	return &Importer{dialect: dialect.Resolve(dialectName)}
}

// Dialect returns the resolved dialect the importer extracts for.
func (imp *Importer) Dialect() dialect.Dialect {
	return imp.dialect
}

// Extract parses sql and returns every table it describes, in statement
// order. Empty input is a successful extraction of zero tables.
func (imp *Importer) Extract(sql string) (*Result, error) {
	if strings.TrimSpace(sql) == "" {
		return &Result{}, nil
	}

	liquibase := isLiquibase(sql)

	pre, originals := parser.ReplaceTemplatedIdentifiers(sql)
	ast, err := parser.ParseString(pre)
	if err == nil {
		res := imp.fromAST(ast, pre, originals)
		if len(res.Tables) > 0 {
			imp.finish(res, liquibase)
			return res, nil
		}
	}

	tables, reqs := scanStatements(sql, imp.dialect)
	if len(tables) == 0 {
		return nil, ErrNoTables
	}
	res := &Result{Tables: tables, NameRequests: reqs}
	imp.finish(res, liquibase)
	return res, nil
}

// fromAST builds the result from a successful grammar parse.
func (imp *Importer) fromAST(ast *parser.SQL, pre string, originals []string) *Result {
	res := &Result{}
	norm := parser.Normalized(pre)

	for _, stmt := range ast.Statements {
		if stmt.CreateTable == nil {
			continue
		}
		t := imp.buildTable(stmt.CreateTable, norm, originals, len(res.Tables), &res.NameRequests)
		res.Tables = append(res.Tables, t)
	}
	return res
}

func (imp *Importer) buildTable(ct *parser.CreateTableStmt, norm string, originals []string, tableIndex int, reqs *[]schema.NameRequirement) *schema.Table {
	t := schema.NewTable("")
	t.DatabaseType = imp.dialect.DatabaseType

	imp.applyName(t, ct, originals, tableIndex, reqs)
	imp.applyElements(t, ct.Elements)
	imp.applyOptions(t, ct, norm)
	return t
}

// applyName resolves the statement's table name. Placeholder segments from
// ReplaceTemplatedIdentifiers and :bind segments mark the table as needing
// a real name from the caller.
func (imp *Importer) applyName(t *schema.Table, ct *parser.CreateTableStmt, originals []string, tableIndex int, reqs *[]schema.NameRequirement) {
	expr := ""
	for _, seg := range ct.Name.Segments {
		if idx, ok := parser.DynamicPlaceholderIndex(seg.Value()); ok && idx < len(originals) {
			expr = originals[idx]
			break
		}
		if seg.Bind {
			expr = ct.Name.String()
			break
		}
	}

	if expr != "" {
		name, ok := suggestName(expr)
		if !ok {
			name = "unnamed_table"
		}
		t.Name = name
		t.RequiresName = true
		*reqs = append(*reqs, schema.NameRequirement{
			TableIndex:    tableIndex,
			SuggestedName: name,
			Expression:    expr,
		})
		layersFromName(t, expr)
		return
	}

	qualified := ct.Name.String()
	t.Name = simpleName(qualified)
	layersFromName(t, qualified)
}

// applyElements turns the parsed element list into flat columns, then
// applies the table-level constraints to the columns they name.
func (imp *Importer) applyElements(t *schema.Table, elements []*parser.TableElement) {
	order := 0
	for _, el := range elements {
		def := el.Column
		if def == nil {
			continue
		}

		var cols []schema.Column
		var issues []schema.Issue
		flattenColumnType(def.Name.Value(), def.Type, &cols, &issues)
		t.Issues = append(t.Issues, issues...)
		if len(cols) == 0 {
			continue
		}

		if def.IsNotNull() {
			cols[0].Nullable = false
		}
		if def.IsPrimaryKey() {
			cols[0].PrimaryKey = true
			cols[0].Nullable = false
		}
		cols[0].Description = def.CommentText()
		if ref := def.ForeignRef(); ref != nil {
			cols[0].ForeignKey = foreignKey(ref)
		}

		for i := range cols {
			cols[i].ColumnOrder = order
			order++
			t.Columns = append(t.Columns, cols[i])
		}
	}

	for _, el := range elements {
		pk, fk, uniq := el.PrimaryKey, el.ForeignKey, el.Unique
		if c := el.Constraint; c != nil {
			pk, fk, uniq = c.PrimaryKey, c.ForeignKey, c.Unique
		}

		if pk != nil {
			for _, seg := range pk.Columns {
				if c := t.Column(seg.Value()); c != nil {
					c.PrimaryKey = true
					c.Nullable = false
				}
			}
		}
		if fk != nil && fk.References != nil {
			ref := foreignKey(fk.References)
			for _, seg := range fk.Columns {
				if c := t.Column(seg.Value()); c != nil {
					c.ForeignKey = ref
				}
			}
		}
		if uniq != nil {
			for _, seg := range uniq.Columns {
				if c := t.Column(seg.Value()); c != nil {
					c.SecondaryKey = true
				}
			}
		}
	}
}

// applyOptions records table options as properties and metadata. The
// statement's normalized text is re-scanned as a safety net for property
// clauses the grammar consumed as raw tokens.
func (imp *Importer) applyOptions(t *schema.Table, ct *parser.CreateTableStmt, norm string) {
	var props []schema.Property
	for _, p := range ct.Properties() {
		props = append(props, schema.Property{Property: unquoteToken(p.Key), Value: unquoteToken(p.Value)})
	}

	stmt := statementText(ct, norm)
	if len(props) == 0 {
		props = scanProperties(stmt)
	}
	applyProperties(t, props)
	markUnreadableProperties(t, stmt, props)

	if c := ct.Comment(); c != "" {
		t.Metadata["description"] = c
	} else if c := scanTableComment(stmt); c != "" && t.Metadata["description"] == "" {
		t.Metadata["description"] = c
	}

	for _, opt := range ct.Options {
		switch {
		case opt.Using != nil:
			t.Metadata["format"] = opt.Using.Value()
		case opt.Engine != nil:
			t.Metadata["engine"] = opt.Engine.Value()
		case opt.Location != nil:
			t.Metadata["location"] = unquoteToken(*opt.Location)
		case len(opt.Partitioned) > 0:
			names := make([]string, 0, len(opt.Partitioned))
			for _, seg := range opt.Partitioned {
				names = append(names, seg.Value())
			}
			t.Metadata["partitioned_by"] = strings.Join(names, ", ")
		}
	}
}

// finish applies cross-cutting result decoration. Liquibase changelogs
// manage table naming through their own changesets, so dynamic-name
// requests are dropped for them and the suggested names stand.
func (imp *Importer) finish(res *Result, liquibase bool) {
	if !liquibase {
		return
	}
	res.NameRequests = nil
	for _, t := range res.Tables {
		t.RequiresName = false
		t.Metadata["source"] = "liquibase"
	}
}

// statementText slices the statement's span out of the normalized input.
func statementText(ct *parser.CreateTableStmt, norm string) string {
	start, end := ct.Pos.Offset, ct.EndPos.Offset
	if start < 0 || end > len(norm) || start >= end {
		return ""
	}
	return norm[start:end]
}

// unquoteToken strips one level of quoting from a whole token, dots and
// all, unlike unquoteName which treats dots as segment separators.
func unquoteToken(s string) string {
	if len(s) >= 2 {
		switch {
		case s[0] == '\'' && s[len(s)-1] == '\'',
			s[0] == '"' && s[len(s)-1] == '"',
			s[0] == '`' && s[len(s)-1] == '`':
			return s[1 : len(s)-1]
		}
	}
	return s
}

func foreignKey(ref *parser.ReferencesDef) *schema.ForeignKey {
	fk := &schema.ForeignKey{Table: ref.Table.String()}
	if len(ref.Columns) > 0 {
		fk.Column = ref.Columns[0].Value()
	}
	return fk
}

// isLiquibase reports whether the script is a Liquibase changelog: the
// formatted-SQL header, changeset or lbschema comment markers, or an XML
// changelog preamble.
func isLiquibase(sql string) bool {
	head := strings.ToLower(strings.TrimSpace(sql))
	if strings.HasPrefix(head, "<?xml") || strings.Contains(head, "<databasechangelog") {
		return true
	}
	for _, marker := range []string{
		"--liquibase formatted sql",
		"-- liquibase formatted sql",
		"--changeset",
		"--lbschema",
	} {
		if strings.Contains(head, marker) {
			return true
		}
	}
	return false
}
