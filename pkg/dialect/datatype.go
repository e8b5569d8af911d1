package dialect

import "strings"

// canonicalNames maps native scalar type tokens, uppercased, onto the
// canonical type vocabulary. Tokens absent from this table pass through
// uppercased so unrecognized vendor types remain visible to the caller.
var canonicalNames = map[string]string{
	"INT":           "INTEGER",
	"INT4":          "INTEGER",
	"INTEGER":       "INTEGER",
	"MEDIUMINT":     "INTEGER",
	"SERIAL":        "INTEGER",
	"INT8":          "BIGINT",
	"INT64":         "BIGINT",
	"BIGINT":        "BIGINT",
	"BIGSERIAL":     "BIGINT",
	"INT2":          "SMALLINT",
	"SMALLINT":      "SMALLINT",
	"SMALLSERIAL":   "SMALLINT",
	"TINYINT":       "TINYINT",
	"FLOAT":         "FLOAT",
	"FLOAT4":        "FLOAT",
	"REAL":          "FLOAT",
	"DOUBLE":        "DOUBLE",
	"FLOAT8":        "DOUBLE",
	"FLOAT64":       "DOUBLE",
	"BOOL":          "BOOLEAN",
	"BOOLEAN":       "BOOLEAN",
	"DECIMAL":       "DECIMAL",
	"DEC":           "DECIMAL",
	"NUMERIC":       "DECIMAL",
	"NUMBER":        "DECIMAL",
	"CHAR":          "CHAR",
	"NCHAR":         "CHAR",
	"CHARACTER":     "CHAR",
	"VARCHAR":       "VARCHAR",
	"NVARCHAR":      "VARCHAR",
	"VARCHAR2":      "VARCHAR",
	"STRING":        "STRING",
	"TEXT":          "STRING",
	"NTEXT":         "STRING",
	"CLOB":          "STRING",
	"DATE":          "DATE",
	"TIME":          "TIME",
	"TIMETZ":        "TIME",
	"DATETIME":      "TIMESTAMP",
	"DATETIME2":     "TIMESTAMP",
	"TIMESTAMP":     "TIMESTAMP",
	"TIMESTAMPTZ":   "TIMESTAMP",
	"TIMESTAMP_NTZ": "TIMESTAMP",
	"TIMESTAMP_LTZ": "TIMESTAMP",
	"TIMESTAMP_TZ":  "TIMESTAMP",
	"BINARY":        "BINARY",
	"VARBINARY":     "BINARY",
	"BYTEA":         "BINARY",
	"BYTES":         "BINARY",
	"BLOB":          "BINARY",
	"JSON":          "JSON",
	"JSONB":         "JSON",
	"UUID":          "UUID",
	"VARIANT":       "OBJECT",
	"OBJECT":        "OBJECT",

	// Multi-word spellings. Inner whitespace is collapsed before lookup.
	"DOUBLE PRECISION":            "DOUBLE",
	"CHARACTER VARYING":           "VARCHAR",
	"CHAR VARYING":                "VARCHAR",
	"TIMESTAMP WITH TIME ZONE":    "TIMESTAMP",
	"TIMESTAMP WITHOUT TIME ZONE": "TIMESTAMP",
	"TIME WITH TIME ZONE":         "TIME",
	"TIME WITHOUT TIME ZONE":      "TIME",
}

// parametric canonical types keep their (precision/size) suffix; everything
// else drops it because the vendor parameters are not part of the canonical
// vocabulary.
var keepsParams = map[string]bool{
	"CHAR":    true,
	"VARCHAR": true,
	"DECIMAL": true,
}

// CanonicalType maps a native scalar type token (optionally carrying a
// parenthesized size/precision suffix, e.g. "nvarchar(255)") onto the
// canonical type string. The mapped family is always preserved; unknown
// tokens are uppercased and returned as-is.
func CanonicalType(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}

	name := raw
	params := ""
	if open := strings.IndexByte(raw, '('); open >= 0 {
		name = strings.TrimSpace(raw[:open])
		if close := strings.LastIndexByte(raw, ')'); close > open {
			params = raw[open : close+1]
		}
	}

	canonical, ok := canonicalNames[baseToken(name)]
	if !ok {
		return strings.ToUpper(strings.TrimSpace(raw))
	}
	if params != "" && keepsParams[canonical] {
		return canonical + strings.ToUpper(params)
	}
	return canonical
}

// Known reports whether a type token belongs to the canonical vocabulary.
// Tokens outside it are degraded to a placeholder type by the extractor and
// recorded as warnings, so "unknown" is a decision this package owns.
func Known(raw string) bool {
	name := raw
	if open := strings.IndexByte(raw, '('); open >= 0 {
		name = raw[:open]
	}
	_, ok := canonicalNames[baseToken(name)]
	return ok
}

// baseToken uppercases a type name, collapses inner whitespace, and drops a
// trailing sign qualifier so spelling variants hit the same map entry.
func baseToken(name string) string {
	upper := strings.ToUpper(strings.Join(strings.Fields(name), " "))
	return strings.TrimSuffix(upper, " UNSIGNED")
}
