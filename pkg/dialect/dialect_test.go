package dialect_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/schemabridge/schemabridge/pkg/dialect"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
		kind     dialect.Kind
	}{
		{"canonical name", "postgres", "postgres", dialect.KindPostgres},
		{"alias", "postgresql", "postgres", dialect.KindPostgres},
		{"mixed case", "MySQL", "mysql", dialect.KindMySQL},
		{"surrounding space", "  snowflake  ", "snowflake", dialect.KindSnowflake},
		{"sqlserver alias", "sql_server", "mssql", dialect.KindMSSQL},
		{"databricks alias", "databricks_delta", "databricks", dialect.KindDatabricks},
		{"oracle degrades to generic", "oracle", "oracle", dialect.KindGeneric},
		{"glue alias", "glue", "aws_glue", dialect.KindGeneric},
		{"unknown name", "dbase", "generic", dialect.KindGeneric},
		{"empty name", "", "generic", dialect.KindGeneric},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := dialect.Resolve(tt.input)
			require.Equal(t, tt.expected, d.Name)
			require.Equal(t, tt.kind, d.Kind)
		})
	}
}

func TestResolveDatabaseType(t *testing.T) {
	t.Parallel()

	require.Equal(t, "databricks_delta", dialect.Resolve("databricks").DatabaseType)
	require.Equal(t, "sqlserver", dialect.Resolve("mssql").DatabaseType)
	require.Equal(t, "aws_glue", dialect.Resolve("aws_glue").DatabaseType)
	require.Empty(t, dialect.Resolve("generic").DatabaseType)
	require.Empty(t, dialect.Resolve("duckdb").DatabaseType)
}

func TestNames(t *testing.T) {
	t.Parallel()

	names := dialect.Names()
	require.NotEmpty(t, names)
	require.IsIncreasing(t, names)
	require.Contains(t, names, "generic")
	require.Contains(t, names, "databricks")
	require.Contains(t, names, "clickhouse")
}
