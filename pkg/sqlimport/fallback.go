package sqlimport

import (
	"regexp"
	"strings"

	"github.com/schemabridge/schemabridge/pkg/dialect"
	"github.com/schemabridge/schemabridge/pkg/schema"
)

// The fallback scanner recovers tables from SQL the grammar cannot parse:
// vendor clauses, truncated statements, prose mixed into scripts. It never
// fails; statements it cannot make sense of become tables with recorded
// issues, or are skipped entirely.

// commonWords are English words that show up as the first token of a
// "column definition" when prose or a comment leaks into the column list.
// A definition starting with one of these is only kept if a plausible
// identifier-before-type pair can be rescued from the rest of the text.
var commonWords = map[string]bool{
	"BY": true, "EITHER": true, "OR": true, "AND": true, "THE": true,
	"WILL": true, "TO": true, "NO": true, "NOT": true, "IS": true,
	"AS": true, "ON": true, "IN": true, "AT": true, "FOR": true,
	"OF": true, "FROM": true, "WITH": true, "THAT": true, "THIS": true,
	"WHEN": true, "WHICH": true, "WHERE": true, "THEN": true,
	"ELSE": true, "IF": true, "WHILE": true, "DO": true, "BE": true,
	"HAVE": true, "HAS": true, "HAD": true, "WAS": true, "WERE": true,
	"ARE": true, "CAN": true, "MAY": true, "MUST": true, "SHOULD": true,
	"WOULD": true, "COULD": true, "INDICATING": true, "DISMISSING": true,
	"BUT": true,
}

var (
	lineCommentRE = regexp.MustCompile(`--[^\r\n]*`)
	rescuePairRE  = regexp.MustCompile(`(?i)\b([a-zA-Z_][a-zA-Z0-9_]*)\s+` +
		`(STRUCT|ARRAY|MAP|INT|INTEGER|BIGINT|SMALLINT|TINYINT|FLOAT|DOUBLE|DECIMAL|NUMERIC|` +
		`BOOLEAN|BOOL|STRING|TEXT|VARCHAR|CHAR|DATE|TIMESTAMP|DATETIME|TIME|BINARY|JSON|UUID)\b`)
	inlineCommentRE = regexp.MustCompile(`(?i)\bCOMMENT\s+'([^']*)'`)
)

// scanStatements locates CREATE TABLE statements by text scanning and
// builds tables from them. Offsets into the upper-cased copy are valid in
// the original because ASCII upper-casing never changes byte positions.
func scanStatements(sql string, d dialect.Dialect) ([]*schema.Table, []schema.NameRequirement) {
	var (
		tables []*schema.Table
		reqs   []schema.NameRequirement
	)

	upper := asciiUpper(sql)
	pos := 0
	for {
		idx := indexWord(upper, "CREATE", pos)
		if idx < 0 {
			break
		}
		pos = idx + len("CREATE")

		cur := skipSpace(sql, pos)
		for _, opt := range []string{"OR", "REPLACE", "TEMP", "TEMPORARY", "EXTERNAL"} {
			if hasWordAt(upper, opt, cur) {
				cur = skipSpace(sql, cur+len(opt))
			}
		}
		if !hasWordAt(upper, "TABLE", cur) {
			continue
		}
		cur = skipSpace(sql, cur+len("TABLE"))
		if hasWordAt(upper, "IF", cur) {
			cur = skipSpace(sql, cur+len("IF"))
			if hasWordAt(upper, "NOT", cur) {
				cur = skipSpace(sql, cur+len("NOT"))
			}
			if hasWordAt(upper, "EXISTS", cur) {
				cur = skipSpace(sql, cur+len("EXISTS"))
			}
		}

		nameExpr, listStart := scanNameExpr(sql, upper, cur)
		if nameExpr == "" {
			continue
		}

		// A statement without a locatable column list yields no table;
		// the rest of the script is still scanned.
		if listStart < 0 {
			pos = statementEnd(sql, upper, cur)
			continue
		}

		t := schema.NewTable("")
		t.DatabaseType = d.DatabaseType
		resolveTableName(t, nameExpr, len(tables), &reqs)

		body, end := balancedParens(sql, listStart)
		stmtEnd := statementEnd(sql, upper, end)
		fallbackColumns(t, body)
		pos = end

		stmt := sql[idx:stmtEnd]
		props := scanProperties(stmt)
		applyProperties(t, props)
		markUnreadableProperties(t, stmt, props)
		if c := scanTableComment(stmt); c != "" && t.Metadata["description"] == "" {
			t.Metadata["description"] = c
		}

		tables = append(tables, t)
	}

	return tables, reqs
}

// scanNameExpr reads the table-name expression starting at cur. A plain
// name ends at the column-list parenthesis; a dynamic-name call owns its
// parentheses, so IDENTIFIER( groups are consumed as part of the name and
// the next top-level parenthesis starts the column list. Returns the
// expression and the index of the column-list '(' (-1 when absent).
func scanNameExpr(sql, upper string, cur int) (string, int) {
	start := cur
	i := cur
	for i < len(sql) {
		switch sql[i] {
		case '(':
			if strings.HasSuffix(strings.TrimRight(upper[start:i], " \t\r\n"), "IDENTIFIER") {
				_, end := balancedParens(sql, i)
				i = end
				continue
			}
			return strings.TrimSpace(sql[start:i]), i
		case ';':
			return strings.TrimSpace(sql[start:i]), -1
		}
		i++
	}
	return strings.TrimSpace(sql[start:]), -1
}

// resolveTableName fills in the table name from a raw name expression.
// Dynamic expressions (IDENTIFIER calls, bind variables) become a name
// requirement with a suggested name; plain names are unquoted and tagged
// with any layer their schema segments imply.
func resolveTableName(t *schema.Table, nameExpr string, tableIndex int, reqs *[]schema.NameRequirement) {
	dynamic := strings.Contains(asciiUpper(nameExpr), "IDENTIFIER") || strings.Contains(nameExpr, ":")
	if dynamic {
		name, ok := suggestName(nameExpr)
		if !ok {
			name = "unnamed_table"
		}
		t.Name = name
		t.RequiresName = true
		*reqs = append(*reqs, schema.NameRequirement{
			TableIndex:    tableIndex,
			SuggestedName: name,
			Expression:    nameExpr,
		})
		layersFromName(t, nameExpr)
		return
	}

	qualified := unquoteName(nameExpr)
	t.Name = simpleName(qualified)
	layersFromName(t, qualified)
}

// fallbackColumns splits the column-list body on top-level commas and
// parses each definition independently, so one mangled definition never
// costs the rest of the table.
func fallbackColumns(t *schema.Table, body string) {
	order := 0
	for _, def := range splitColumnDefs(body) {
		cols, pk, issues := parseColumnDef(def)
		t.Issues = append(t.Issues, issues...)
		for i := range cols {
			cols[i].ColumnOrder = order
			order++
			t.Columns = append(t.Columns, cols[i])
		}
		for _, name := range pk {
			if c := t.Column(name); c != nil {
				c.PrimaryKey = true
				c.Nullable = false
			}
		}
	}
}

// splitColumnDefs splits on commas that sit outside quotes, parentheses,
// and angle brackets, so composite types and parameterized types stay
// whole.
func splitColumnDefs(body string) []string {
	var (
		defs  []string
		start int
		paren int
		angle int
		quote byte
	)

	for i := 0; i < len(body); i++ {
		ch := body[i]
		if quote != 0 {
			if ch == '\\' && i+1 < len(body) {
				i++
			} else if ch == quote {
				quote = 0
			}
			continue
		}
		switch ch {
		case '\'', '"', '`':
			quote = ch
		case '(':
			paren++
		case ')':
			paren--
		case '<':
			angle++
		case '>':
			if angle > 0 {
				angle--
			}
		case ',':
			if paren == 0 && angle == 0 {
				if def := strings.TrimSpace(body[start:i]); def != "" {
					defs = append(defs, def)
				}
				start = i + 1
			}
		}
	}
	if def := strings.TrimSpace(body[start:]); def != "" {
		defs = append(defs, def)
	}
	return defs
}

// parseColumnDef turns one definition into flat columns. Table-level
// PRIMARY KEY rows return the key column names instead; other constraint
// rows and unusable text return nothing, with an issue when the text
// looked like it was meant to be a column.
func parseColumnDef(def string) ([]schema.Column, []string, []schema.Issue) {
	def = strings.TrimSpace(lineCommentRE.ReplaceAllString(def, ""))
	if def == "" {
		return nil, nil, nil
	}

	upper := asciiUpper(def)
	switch {
	case strings.HasPrefix(upper, "PRIMARY KEY"):
		return nil, primaryKeyColumns(def), nil
	case strings.HasPrefix(upper, "FOREIGN KEY"),
		strings.HasPrefix(upper, "CONSTRAINT"),
		strings.HasPrefix(upper, "UNIQUE"),
		strings.HasPrefix(upper, "CHECK"),
		strings.HasPrefix(upper, "INDEX"),
		strings.HasPrefix(upper, "KEY "):
		return nil, nil, nil
	}

	name, rest := splitFirstWord(def)
	name = unquoteName(name)
	if name == "" {
		return nil, nil, nil
	}

	if commonWords[asciiUpper(name)] {
		m := rescuePairRE.FindStringSubmatch(def)
		if m == nil {
			return nil, nil, []schema.Issue{{
				Type:    schema.IssueSkippedColumn,
				Field:   name,
				Message: "definition starts with a non-identifier word and no column could be recovered",
			}}
		}
		name = m[1]
		rest = def[strings.Index(def, m[0])+len(m[1]):]
	}

	typeText, opts := splitTypeText(rest)
	if typeText == "" {
		return nil, nil, []schema.Issue{{
			Type:    schema.IssueSkippedColumn,
			Field:   name,
			Message: "column has no data type",
		}}
	}

	var (
		cols   []schema.Column
		issues []schema.Issue
	)
	flattenTypeText(name, typeText, &cols, &issues)

	optsUpper := asciiUpper(opts)
	if strings.Contains(optsUpper, "NOT NULL") {
		cols[0].Nullable = false
	}
	if strings.Contains(optsUpper, "PRIMARY KEY") {
		cols[0].PrimaryKey = true
		cols[0].Nullable = false
	}
	if m := inlineCommentRE.FindStringSubmatch(opts); m != nil {
		cols[0].Description = m[1]
	}

	return cols, nil, issues
}

// splitTypeText separates the type expression from trailing options. The
// type runs through one balanced angle-bracket or parenthesis group; after
// that the first space starts the options.
func splitTypeText(rest string) (string, string) {
	rest = strings.TrimSpace(rest)
	var (
		paren int
		angle int
	)
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case '(':
			paren++
		case ')':
			paren--
		case '<':
			angle++
		case '>':
			if angle > 0 {
				angle--
			}
		case ' ', '\t', '\r', '\n':
			if paren == 0 && angle == 0 {
				return strings.TrimSpace(rest[:i]), strings.TrimSpace(rest[i:])
			}
		}
	}
	return rest, ""
}

// flattenTypeText mirrors the grammar path's flattening for textual types:
// pre-order, STRUCT parents typed STRUCT, ARRAY parents typed ARRAY with
// struct elements flattened under the array's own path, MAP as a single
// literal. Unknown scalars degrade to OBJECT with a warning.
func flattenTypeText(name, typeText string, out *[]schema.Column, issues *[]schema.Issue) {
	typeText = strings.TrimSpace(typeText)
	upper := asciiUpper(typeText)

	switch {
	case strings.HasPrefix(upper, "STRUCT<") && strings.HasSuffix(typeText, ">"):
		*out = append(*out, schema.Column{Name: name, DataType: "STRUCT", Nullable: true})
		inner := typeText[len("STRUCT<") : len(typeText)-1]
		for _, field := range splitColumnDefs(inner) {
			fname, ftype := splitStructField(field)
			if fname == "" || ftype == "" {
				continue
			}
			flattenTypeText(name+"."+fname, ftype, out, issues)
		}
	case strings.HasPrefix(upper, "ARRAY<") && strings.HasSuffix(typeText, ">"):
		*out = append(*out, schema.Column{Name: name, DataType: "ARRAY", Nullable: true})
		inner := strings.TrimSpace(typeText[len("ARRAY<") : len(typeText)-1])
		if strings.HasPrefix(asciiUpper(inner), "STRUCT<") {
			fields := inner[len("STRUCT<") : len(inner)-1]
			for _, field := range splitColumnDefs(fields) {
				fname, ftype := splitStructField(field)
				if fname == "" || ftype == "" {
					continue
				}
				flattenTypeText(name+"."+fname, ftype, out, issues)
			}
		}
	case strings.HasPrefix(upper, "MAP<") && strings.HasSuffix(typeText, ">"):
		inner := typeText[len("MAP<") : len(typeText)-1]
		parts := splitColumnDefs(inner)
		if len(parts) == 2 {
			*out = append(*out, schema.Column{
				Name:     name,
				DataType: "MAP<" + canonicalTypeText(parts[0]) + ", " + canonicalTypeText(parts[1]) + ">",
				Nullable: true,
			})
		} else {
			*out = append(*out, schema.Column{Name: name, DataType: schema.NormalizeDataType(typeText), Nullable: true})
		}
	case !dialect.Known(typeText):
		*issues = append(*issues, schema.Issue{
			Type:    schema.IssueUnknownType,
			Field:   name,
			Message: "unrecognized data type " + typeText + ", stored as OBJECT",
		})
		*out = append(*out, schema.Column{Name: name, DataType: "OBJECT", Nullable: true})
	default:
		*out = append(*out, schema.Column{
			Name:     name,
			DataType: dialect.CanonicalType(typeText),
			Nullable: true,
		})
	}
}

// canonicalTypeText canonicalizes a textual type, recursing into nested
// composites.
func canonicalTypeText(typeText string) string {
	typeText = strings.TrimSpace(typeText)
	upper := asciiUpper(typeText)
	switch {
	case strings.HasPrefix(upper, "ARRAY<") && strings.HasSuffix(typeText, ">"):
		return "ARRAY<" + canonicalTypeText(typeText[len("ARRAY<"):len(typeText)-1]) + ">"
	case strings.HasPrefix(upper, "MAP<") && strings.HasSuffix(typeText, ">"):
		inner := typeText[len("MAP<") : len(typeText)-1]
		if parts := splitColumnDefs(inner); len(parts) == 2 {
			return "MAP<" + canonicalTypeText(parts[0]) + ", " + canonicalTypeText(parts[1]) + ">"
		}
		return schema.NormalizeDataType(typeText)
	case strings.HasPrefix(upper, "STRUCT<") && strings.HasSuffix(typeText, ">"):
		inner := typeText[len("STRUCT<") : len(typeText)-1]
		parts := splitColumnDefs(inner)
		rendered := make([]string, 0, len(parts))
		for _, p := range parts {
			fname, ftype := splitStructField(p)
			if fname == "" {
				continue
			}
			rendered = append(rendered, fname+": "+canonicalTypeText(ftype))
		}
		return "STRUCT<" + strings.Join(rendered, ", ") + ">"
	default:
		return dialect.CanonicalType(typeText)
	}
}

// splitStructField splits "name: type" or "name type" into its parts.
func splitStructField(field string) (string, string) {
	field = strings.TrimSpace(field)
	if i := strings.Index(field, ":"); i >= 0 {
		return unquoteName(strings.TrimSpace(field[:i])), strings.TrimSpace(field[i+1:])
	}
	name, rest := splitFirstWord(field)
	return unquoteName(name), strings.TrimSpace(rest)
}

// primaryKeyColumns extracts the column names of a PRIMARY KEY (a, b) row.
func primaryKeyColumns(def string) []string {
	open := strings.IndexByte(def, '(')
	if open < 0 {
		return nil
	}
	body, _ := balancedParens(def, open)
	var names []string
	for _, part := range strings.Split(body, ",") {
		if n := unquoteName(strings.TrimSpace(part)); n != "" {
			names = append(names, n)
		}
	}
	return names
}

// balancedParens returns the content of the parenthesized group opening at
// open, quote-aware, plus the index just past the closing parenthesis. An
// unterminated group runs to the end of the string.
func balancedParens(s string, open int) (string, int) {
	depth := 0
	var quote byte
	for i := open; i < len(s); i++ {
		ch := s[i]
		if quote != 0 {
			if ch == '\\' && i+1 < len(s) {
				i++
			} else if ch == quote {
				quote = 0
			}
			continue
		}
		switch ch {
		case '\'', '"', '`':
			quote = ch
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return s[open+1 : i], i + 1
			}
		}
	}
	return s[open+1:], len(s)
}

// statementEnd finds where the statement ends: the next semicolon or the
// next CREATE, whichever comes first.
func statementEnd(sql, upper string, from int) int {
	end := len(sql)
	if i := strings.IndexByte(sql[from:], ';'); i >= 0 {
		end = from + i + 1
	}
	if i := indexWord(upper, "CREATE", from); i >= 0 && i < end {
		end = i
	}
	return end
}

// splitFirstWord splits off the leading whitespace-delimited token.
func splitFirstWord(s string) (string, string) {
	s = strings.TrimSpace(s)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\r', '\n':
			return s[:i], s[i:]
		}
	}
	return s, ""
}

// unquoteName strips one level of identifier quoting from each dot segment.
func unquoteName(name string) string {
	segs := strings.Split(name, ".")
	for i, seg := range segs {
		seg = strings.TrimSpace(seg)
		if len(seg) >= 2 {
			switch {
			case seg[0] == '`' && seg[len(seg)-1] == '`',
				seg[0] == '"' && seg[len(seg)-1] == '"',
				seg[0] == '\'' && seg[len(seg)-1] == '\'':
				seg = seg[1 : len(seg)-1]
			case seg[0] == '[' && seg[len(seg)-1] == ']':
				seg = seg[1 : len(seg)-1]
			}
		}
		segs[i] = seg
	}
	return strings.Join(segs, ".")
}

// asciiUpper upper-cases ASCII letters only, keeping byte offsets aligned
// with the source text.
func asciiUpper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}

// indexWord finds the next occurrence of word at or after from that is not
// part of a larger identifier.
func indexWord(upper, word string, from int) int {
	for {
		i := strings.Index(upper[from:], word)
		if i < 0 {
			return -1
		}
		i += from
		before := i == 0 || !isWordByte(upper[i-1])
		afterIdx := i + len(word)
		after := afterIdx >= len(upper) || !isWordByte(upper[afterIdx])
		if before && after {
			return i
		}
		from = i + 1
	}
}

// hasWordAt reports whether word starts exactly at pos as a whole word.
func hasWordAt(upper, word string, pos int) bool {
	if pos+len(word) > len(upper) || upper[pos:pos+len(word)] != word {
		return false
	}
	if pos > 0 && isWordByte(upper[pos-1]) {
		return false
	}
	end := pos + len(word)
	return end >= len(upper) || !isWordByte(upper[end])
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// skipSpace advances past whitespace.
func skipSpace(s string, i int) int {
	for i < len(s) {
		switch s[i] {
		case ' ', '\t', '\r', '\n':
			i++
		default:
			return i
		}
	}
	return i
}
