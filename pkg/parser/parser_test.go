package parser_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	. "github.com/schemabridge/schemabridge/pkg/parser"
)

// parseOne parses sql and returns its single CREATE TABLE statement.
func parseOne(t *testing.T, sql string) *CreateTableStmt {
	t.Helper()

	parsed, err := ParseString(sql)
	require.NoError(t, err)
	require.Len(t, parsed.Statements, 1)
	require.NotNil(t, parsed.Statements[0].CreateTable)
	return parsed.Statements[0].CreateTable
}

func TestParseSimpleTable(t *testing.T) {
	t.Parallel()

	ct := parseOne(t, "CREATE TABLE users (id INT PRIMARY KEY, name VARCHAR(255) NOT NULL);")

	require.Equal(t, "users", ct.Name.String())
	require.Len(t, ct.Elements, 2)

	id := ct.Elements[0].Column
	require.NotNil(t, id)
	require.Equal(t, "id", id.Name.Value())
	require.Equal(t, "INT", id.Type.TypeName())
	require.True(t, id.IsPrimaryKey())

	name := ct.Elements[1].Column
	require.NotNil(t, name)
	require.Equal(t, "VARCHAR(255)", name.Type.TypeName())
	require.True(t, name.IsNotNull())
}

func TestParseLowercaseKeywords(t *testing.T) {
	t.Parallel()

	ct := parseOne(t, "create table if not exists t (id int not null)")
	require.True(t, ct.IfNotExists)
	require.Equal(t, "t", ct.Name.String())
	require.True(t, ct.Elements[0].Column.IsNotNull())
}

func TestParseQualifiedAndQuotedNames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		sql      string
		expected string
	}{
		{"dotted", "CREATE TABLE analytics.bronze.events (id INT)", "analytics.bronze.events"},
		{"backticks", "CREATE TABLE `my db`.`events` (id INT)", "my db.events"},
		{"double quotes", `CREATE TABLE "Events" (id INT)`, "Events"},
		{"brackets", "CREATE TABLE [dbo].[Events] (id INT)", "dbo.Events"},
		{"bind variable", "CREATE TABLE :target (id INT)", ":target"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ct := parseOne(t, tt.sql)
			require.Equal(t, tt.expected, ct.Name.String())
		})
	}
}

func TestParseCompositeTypes(t *testing.T) {
	t.Parallel()

	ct := parseOne(t, `CREATE TABLE t (
		s STRUCT<a: INT, b: STRUCT<c: STRING>>,
		arr ARRAY<STRUCT<sku: STRING, qty: INT>>,
		m MAP<STRING, INT>
	)`)

	require.Equal(t, "STRUCT<a: INT, b: STRUCT<c: STRING>>", ct.Elements[0].Column.Type.TypeName())
	require.Equal(t, "ARRAY<STRUCT<sku: STRING, qty: INT>>", ct.Elements[1].Column.Type.TypeName())
	require.Equal(t, "MAP<STRING, INT>", ct.Elements[2].Column.Type.TypeName())
}

func TestParseStructFieldsWithoutColons(t *testing.T) {
	t.Parallel()

	ct := parseOne(t, "CREATE TABLE t (s STRUCT<a INT, b STRING>)")

	st := ct.Elements[0].Column.Type.Struct
	require.NotNil(t, st)
	require.Len(t, st.Fields, 2)
	require.Equal(t, "a", st.Fields[0].Name)
	require.Equal(t, "b", st.Fields[1].Name)
}

func TestParseMultiWordTypes(t *testing.T) {
	t.Parallel()

	ct := parseOne(t, "CREATE TABLE t (d DOUBLE PRECISION, ts TIMESTAMP WITH TIME ZONE, n INT UNSIGNED)")

	require.Equal(t, "DOUBLE PRECISION", ct.Elements[0].Column.Type.TypeName())
	require.Equal(t, "TIMESTAMP WITH TIME ZONE", ct.Elements[1].Column.Type.TypeName())
	require.Equal(t, "INT UNSIGNED", ct.Elements[2].Column.Type.TypeName())
}

func TestParseColumnOptions(t *testing.T) {
	t.Parallel()

	ct := parseOne(t, `CREATE TABLE orders (
		id BIGINT PRIMARY KEY AUTO_INCREMENT,
		user_id INT REFERENCES users (id),
		status VARCHAR(20) DEFAULT 'open',
		note STRING COMMENT 'Free-form Note Text'
	)`)

	ref := ct.Elements[1].Column.ForeignRef()
	require.NotNil(t, ref)
	require.Equal(t, "users", ref.Table.String())
	require.Equal(t, "id", ref.Columns[0].Value())

	require.Equal(t, "Free-form Note Text", ct.Elements[3].Column.CommentText())
}

func TestParseTableConstraints(t *testing.T) {
	t.Parallel()

	ct := parseOne(t, `CREATE TABLE t (
		a INT,
		b INT,
		PRIMARY KEY (a, b),
		CONSTRAINT fk_b FOREIGN KEY (b) REFERENCES other (id) ON DELETE CASCADE,
		UNIQUE (a)
	)`)

	require.Len(t, ct.Elements, 5)

	pk := ct.Elements[2].PrimaryKey
	require.NotNil(t, pk)
	require.Len(t, pk.Columns, 2)

	cons := ct.Elements[3].Constraint
	require.NotNil(t, cons)
	require.NotNil(t, cons.ForeignKey)
	require.Equal(t, "other", cons.ForeignKey.References.Table.String())

	require.NotNil(t, ct.Elements[4].Unique)
}

func TestParseTableOptions(t *testing.T) {
	t.Parallel()

	ct := parseOne(t, `CREATE TABLE events (id INT)
		USING DELTA
		COMMENT 'Event Stream'
		TBLPROPERTIES ('quality' = 'gold', 'delta.appendOnly' = 'true')`)

	require.Equal(t, "Event Stream", ct.Comment())

	props := ct.Properties()
	require.Len(t, props, 2)
	require.Equal(t, "'quality'", props[0].Key)
	require.Equal(t, "'gold'", props[0].Value)
}

func TestParseMultipleStatements(t *testing.T) {
	t.Parallel()

	parsed, err := ParseString(`
		CREATE TABLE one (id INT);
		CREATE TABLE two (id INT);
	`)
	require.NoError(t, err)

	var names []string
	for _, stmt := range parsed.Statements {
		if stmt.CreateTable != nil {
			names = append(names, stmt.CreateTable.Name.String())
		}
	}
	require.Equal(t, []string{"one", "two"}, names)
}

func TestParseRejectsNonSQL(t *testing.T) {
	t.Parallel()

	_, err := ParseString("this is not a table definition")
	require.Error(t, err)
}

func TestParseFromReader(t *testing.T) {
	t.Parallel()

	parsed, err := Parse(strings.NewReader("CREATE TABLE r (id INT)"))
	require.NoError(t, err)
	require.Len(t, parsed.Statements, 1)
}

func TestNormalizedLeavesStringsAlone(t *testing.T) {
	t.Parallel()

	norm := Normalized("create table t (c int comment 'create table stays lower')")
	require.Contains(t, norm, "CREATE TABLE t")
	require.Contains(t, norm, "'create table stays lower'")
}

func TestReplaceTemplatedIdentifiers(t *testing.T) {
	t.Parallel()

	sql := "CREATE TABLE IDENTIFIER(:catalog || '.bronze.orders') (id INT)"
	replaced, originals := ReplaceTemplatedIdentifiers(sql)

	require.Len(t, originals, 1)
	require.Equal(t, "IDENTIFIER(:catalog || '.bronze.orders')", originals[0])
	require.NotContains(t, replaced, "IDENTIFIER")

	ct := parseOne(t, replaced)
	idx, ok := DynamicPlaceholderIndex(ct.Name.Segments[0].Value())
	require.True(t, ok)
	require.Zero(t, idx)
}

func TestReplaceTemplatedIdentifiersNested(t *testing.T) {
	t.Parallel()

	sql := "CREATE TABLE identifier(concat(:db, '.orders')) (id INT); CREATE TABLE IDENTIFIER(:x) (id INT)"
	replaced, originals := ReplaceTemplatedIdentifiers(sql)

	require.Len(t, originals, 2)
	require.Equal(t, "identifier(concat(:db, '.orders'))", originals[0])
	require.Equal(t, "IDENTIFIER(:x)", originals[1])
	require.NotContains(t, replaced, "concat")
}

func TestDynamicPlaceholderIndex(t *testing.T) {
	t.Parallel()

	_, ok := DynamicPlaceholderIndex("orders")
	require.False(t, ok)

	_, ok = DynamicPlaceholderIndex("__dynamic_name_x__")
	require.False(t, ok)
}
