// Package dialect maps user-supplied SQL dialect names onto the closed set
// of dialects the parser understands, and maps native scalar type tokens
// onto the canonical type vocabulary of the table model.
package dialect

import (
	"sort"
	"strings"
)

const (
	// KindGeneric is the default dialect used for unknown names and for
	// dialects whose syntax the grammar cannot express directly (oracle).
	KindGeneric Kind = iota
	KindPostgres
	KindMySQL
	KindMSSQL
	KindDatabricks
	KindDuckDB
	KindBigQuery
	KindRedshift
	KindSnowflake
	KindClickHouse
	KindHive
	KindSQLite
)

type (
	// Dialect is the capability value selected for a parse run. It is a
	// plain value: resolving a dialect never fails and never allocates
	// shared state, so independent parser instances can be used
	// concurrently.
	Dialect struct {
		// Name is the canonical dialect name ("postgres", "databricks", ...).
		Name string
		// Kind is the dialect family the name resolved to. Aliases of the
		// same family share a Kind.
		Kind Kind
		// DatabaseType tags produced tables with the backing engine, when
		// one is known for the dialect. Empty otherwise.
		DatabaseType string
	}

	// Kind enumerates the supported dialect variants. The set is fixed;
	// callers never extend it at runtime.
	Kind int
)

// Generic is the fallback dialect for unrecognized names.
var Generic = Dialect{Name: "generic", Kind: KindGeneric}

var dialects = map[string]Dialect{
	"generic":          Generic,
	"other":            Generic,
	"ansi":             Generic,
	"postgres":         {Name: "postgres", Kind: KindPostgres, DatabaseType: "postgres"},
	"postgresql":       {Name: "postgres", Kind: KindPostgres, DatabaseType: "postgres"},
	"mysql":            {Name: "mysql", Kind: KindMySQL, DatabaseType: "mysql"},
	"mssql":            {Name: "mssql", Kind: KindMSSQL, DatabaseType: "sqlserver"},
	"sqlserver":        {Name: "mssql", Kind: KindMSSQL, DatabaseType: "sqlserver"},
	"sql_server":       {Name: "mssql", Kind: KindMSSQL, DatabaseType: "sqlserver"},
	"databricks":       {Name: "databricks", Kind: KindDatabricks, DatabaseType: "databricks_delta"},
	"databricks_delta": {Name: "databricks", Kind: KindDatabricks, DatabaseType: "databricks_delta"},
	"duckdb":           {Name: "duckdb", Kind: KindDuckDB},
	"bigquery":         {Name: "bigquery", Kind: KindBigQuery},
	"redshift":         {Name: "redshift", Kind: KindRedshift},
	"snowflake":        {Name: "snowflake", Kind: KindSnowflake},
	"clickhouse":       {Name: "clickhouse", Kind: KindClickHouse},
	"hive":             {Name: "hive", Kind: KindHive},
	"sqlite":           {Name: "sqlite", Kind: KindSQLite},

	// Oracle syntax is not modeled by the grammar; degrade to generic but
	// keep the caller's name for reporting.
	"oracle": {Name: "oracle", Kind: KindGeneric},

	// Glue catalogs speak Hive-flavored generic DDL; keep the engine tag.
	"glue":     {Name: "aws_glue", Kind: KindGeneric, DatabaseType: "aws_glue"},
	"aws_glue": {Name: "aws_glue", Kind: KindGeneric, DatabaseType: "aws_glue"},
}

// Resolve maps a dialect name (case-insensitive) onto a Dialect value.
// Unrecognized names deterministically resolve to the generic dialect;
// this function never fails.
func Resolve(name string) Dialect {
	if d, ok := dialects[strings.ToLower(strings.TrimSpace(name))]; ok {
		return d
	}
	return Generic
}

// Names returns the recognized dialect names in sorted order.
func Names() []string {
	names := make([]string, 0, len(dialects))
	for alias := range dialects {
		names = append(names, alias)
	}
	sort.Strings(names)
	return names
}
