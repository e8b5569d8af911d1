package sqlimport

import (
	"regexp"
	"strings"
)

var (
	bindVarRE    = regexp.MustCompile(`:(\w+)`)
	quotedPartRE = regexp.MustCompile(`'([^']*)'`)
)

// layerKeywords are medallion layer names that show up as schema segments in
// templated table expressions. They make poor table names, so the suggestion
// heuristic skips them.
var layerKeywords = map[string]bool{
	"bronze": true,
	"silver": true,
	"gold":   true,
}

// suggestName derives a human-readable table name from a dynamic name
// expression such as IDENTIFIER(:catalog || '.bronze.orders'). It prefers
// the last dot-separated segment of the first quoted string that is not a
// layer keyword; when every segment is a layer keyword the last one is used
// anyway. Failing that, the first bind variable is prefixed with "table_".
// The bool reports whether anything usable was found.
func suggestName(expr string) (string, bool) {
	for _, quoted := range quotedPartRE.FindAllStringSubmatch(expr, -1) {
		segments := strings.Split(quoted[1], ".")
		last := ""
		for j := len(segments) - 1; j >= 0; j-- {
			seg := strings.TrimSpace(segments[j])
			if seg == "" {
				continue
			}
			if last == "" {
				last = seg
			}
			if !layerKeywords[strings.ToLower(seg)] {
				return seg, true
			}
		}
		if last != "" {
			return last, true
		}
	}

	if m := bindVarRE.FindStringSubmatch(expr); m != nil {
		return "table_" + m[1], true
	}

	return "", false
}

// simpleName returns the final segment of a dotted qualified name. Schema
// and catalog qualifiers are dropped from the table's display name.
func simpleName(qualified string) string {
	if i := strings.LastIndexByte(qualified, '.'); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}
