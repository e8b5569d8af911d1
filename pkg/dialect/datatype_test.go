package dialect_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/schemabridge/schemabridge/pkg/dialect"
)

func TestCanonicalType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"int", "INTEGER"},
		{"INT", "INTEGER"},
		{"serial", "INTEGER"},
		{"int8", "BIGINT"},
		{"bigserial", "BIGINT"},
		{"bool", "BOOLEAN"},
		{"text", "STRING"},
		{"clob", "STRING"},
		{"real", "FLOAT"},
		{"float8", "DOUBLE"},
		{"datetime2", "TIMESTAMP"},
		{"timestamp_ntz", "TIMESTAMP"},
		{"timestamptz", "TIMESTAMP"},
		{"bytea", "BINARY"},
		{"jsonb", "JSON"},
		{"variant", "OBJECT"},

		// Multi-word spellings collapse onto their base family.
		{"double precision", "DOUBLE"},
		{"character varying(40)", "VARCHAR(40)"},
		{"timestamp with time zone", "TIMESTAMP"},
		{"timestamp without time zone", "TIMESTAMP"},
		{"time with time zone", "TIME"},
		{"int unsigned", "INTEGER"},
		{"bigint unsigned", "BIGINT"},

		// Parameters survive on parametric families only.
		{"varchar(255)", "VARCHAR(255)"},
		{"nvarchar(100)", "VARCHAR(100)"},
		{"decimal(10, 2)", "DECIMAL(10, 2)"},
		{"numeric(18,4)", "DECIMAL(18,4)"},
		{"char(8)", "CHAR(8)"},
		{"float(53)", "FLOAT"},
		{"datetime2(7)", "TIMESTAMP"},

		// Unknown types pass through uppercased.
		{"geography", "GEOGRAPHY"},
		{"hyperloglog(12)", "HYPERLOGLOG(12)"},
		{"", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tt.expected, dialect.CanonicalType(tt.input))
		})
	}
}

func TestKnown(t *testing.T) {
	t.Parallel()

	require.True(t, dialect.Known("int"))
	require.True(t, dialect.Known("varchar(255)"))
	require.True(t, dialect.Known("double precision"))
	require.False(t, dialect.Known("geography"))
	require.False(t, dialect.Known(""))
}
