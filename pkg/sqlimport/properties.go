package sqlimport

import (
	"regexp"
	"strings"

	"github.com/schemabridge/schemabridge/pkg/schema"
)

var (
	tblPropertiesRE = regexp.MustCompile(`(?is)(?:TBLPROPERTIES|OPTIONS)\s*\(([^)]*)\)`)
	propertyPairRE  = regexp.MustCompile(`'([^']+)'\s*=\s*'([^']+)'`)
	tableCommentRE  = regexp.MustCompile(`(?is)\)\s*COMMENT\s*=?\s*['"]([^'"]*)['"]`)
)

// scanProperties pulls 'key' = 'value' pairs out of TBLPROPERTIES and
// OPTIONS clauses by text inspection. Used when a statement never made it
// through the grammar, and as a safety net when it did but the clause was
// consumed as raw tokens.
func scanProperties(stmt string) []schema.Property {
	var props []schema.Property
	for _, clause := range tblPropertiesRE.FindAllStringSubmatch(stmt, -1) {
		for _, pair := range propertyPairRE.FindAllStringSubmatch(clause[1], -1) {
			props = append(props, schema.Property{Property: pair[1], Value: pair[2]})
		}
	}
	return props
}

// scanTableComment finds a table-level COMMENT clause after the closing
// parenthesis of the column list.
func scanTableComment(stmt string) string {
	if m := tableCommentRE.FindStringSubmatch(stmt); m != nil {
		return m[1]
	}
	return ""
}

// markUnreadableProperties records an issue when the statement carries a
// property clause that yielded no key/value pairs on either path.
func markUnreadableProperties(t *schema.Table, stmt string, props []schema.Property) {
	if len(props) == 0 && tblPropertiesRE.MatchString(stmt) {
		t.AddIssue(schema.IssueMalformedClause, "",
			"property clause has no readable 'key' = 'value' pairs")
	}
}

// applyProperties records property pairs on the table and derives layer
// tags and metadata from the well-known keys. The quality property carries
// the medallion layer in Delta pipelines.
func applyProperties(t *schema.Table, props []schema.Property) {
	for _, p := range props {
		t.Properties = append(t.Properties, p)

		switch strings.ToLower(p.Property) {
		case "quality", "layer", "medallion":
			if layer, ok := schema.LayerFromString(p.Value); ok {
				addLayer(t, layer)
			}
		case "comment", "description":
			if t.Metadata["description"] == "" {
				t.Metadata["description"] = p.Value
			}
		default:
			t.Metadata[p.Property] = p.Value
		}
	}
}

// addLayer appends a layer tag, keeping the list free of duplicates.
func addLayer(t *schema.Table, layer schema.Layer) {
	for _, l := range t.Layers {
		if l == layer {
			return
		}
	}
	t.Layers = append(t.Layers, layer)
}

// layersFromName tags layers found in the dotted segments of a table's
// qualified name, so bronze.orders lands in the bronze layer even without
// properties.
func layersFromName(t *schema.Table, qualified string) {
	for _, seg := range strings.Split(qualified, ".") {
		if layer, ok := schema.LayerFromString(seg); ok {
			addLayer(t, layer)
		}
	}
}
