// Package parser implements the grammar-based path for turning CREATE TABLE
// text into an AST. The grammar is a single participle parser covering the
// common surface of the supported dialects: dotted and quoted table names,
// bind-variable name segments, angle-bracket composite types
// (STRUCT/ARRAY/MAP), column options, table constraints, and trailing
// vendor option clauses.
//
// Dialect-specific dynamic-name functions (IDENTIFIER(...)) cannot be
// tokenized where an identifier is expected, so callers replace them with
// placeholder identifiers via ReplaceTemplatedIdentifiers before parsing and
// resolve the original expressions afterwards.
package parser

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
)

var (
	// SQL keywords used as literal terminals in the grammar. Input is
	// normalized so these compare uppercase regardless of source casing.
	sqlKeywords = []string{
		"CREATE", "TABLE", "IF", "NOT", "EXISTS", "OR", "REPLACE",
		"TEMP", "TEMPORARY", "EXTERNAL", "NULL", "PRIMARY", "KEY",
		"FOREIGN", "REFERENCES", "CONSTRAINT", "UNIQUE", "CHECK",
		"DEFAULT", "COMMENT", "STRUCT", "ARRAY", "MAP", "UNSIGNED",
		"ON", "DELETE", "UPDATE", "CASCADE", "RESTRICT", "ACTION",
		"NO", "SET", "WITH", "WITHOUT", "TIME", "ZONE", "TRUE", "FALSE",
		"PRECISION", "VARYING", "AUTO_INCREMENT",
		"AUTOINCREMENT", "IDENTITY", "COLLATE", "USING", "ENGINE",
		"TBLPROPERTIES", "OPTIONS", "PARTITIONED", "BY", "LOCATION",
	}

	keywordSet = func() map[string]bool {
		m := make(map[string]bool, len(sqlKeywords))
		for _, kw := range sqlKeywords {
			m[kw] = true
		}
		return m
	}()

	// ddlLexer tokenizes the supported DDL surface. Double-quoted text is
	// lexed as a quoted identifier; dialects that use it for string
	// literals (comments, property values) are handled by accepting
	// QuotedIdent wherever String is accepted.
	ddlLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Comment", Pattern: `--[^\r\n]*`},
		{Name: "MultilineComment", Pattern: `/\*[^*]*\*+([^/*][^*]*\*+)*/`},
		{Name: "String", Pattern: `'([^'\\]|\\.)*'`},
		{Name: "QuotedIdent", Pattern: `"([^"\\]|\\.)*"`},
		{Name: "BacktickIdent", Pattern: "`([^`\\\\]|\\\\.)*`"},
		{Name: "BracketIdent", Pattern: `\[[^\]\r\n]*\]`},
		{Name: "Number", Pattern: `\d+(\.\d*)?`},
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_$]*`},
		{Name: "Punct", Pattern: `[(),.;=+\-*/%<>:!|&]`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	ddlParser = participle.MustBuild[SQL](
		participle.Lexer(ddlLexer),
		participle.Elide("Comment", "MultilineComment", "Whitespace"),
		participle.UseLookahead(4),
	)
)

const dynamicNamePrefix = "__dynamic_name_"

type (
	// SQL is the parse result: zero or more statements.
	SQL struct {
		Statements []*Statement `parser:"@@*"`
	}

	// Statement is a single parsed statement. Only CREATE TABLE is
	// extracted into a structured form; stray semicolons are tolerated so
	// scripts with blank statements still parse.
	Statement struct {
		CreateTable *CreateTableStmt `parser:"@@"`
		Empty       bool             `parser:"| @';'"`
	}
)

// ReplaceTemplatedIdentifiers rewrites dialect dynamic-name function calls
// (IDENTIFIER(...), including nested parentheses and string concatenation)
// as unique placeholder identifiers the grammar can parse. It returns the
// rewritten text plus the original expressions in replacement order; the
// placeholder encodes the index into that slice. The argument list is
// matched by parenthesis depth with quotes skipped, so nested calls like
// IDENTIFIER(concat(:db, '.orders')) are replaced whole.
func ReplaceTemplatedIdentifiers(sql string) (string, []string) {
	var (
		out       strings.Builder
		originals []string
	)
	out.Grow(len(sql))

	i := 0
	for i < len(sql) {
		start := indexIdentifierWord(sql, i)
		if start < 0 {
			break
		}
		open := start + len(identifierWord)
		for open < len(sql) && (sql[open] == ' ' || sql[open] == '\t' || sql[open] == '\r' || sql[open] == '\n') {
			open++
		}
		if open >= len(sql) || sql[open] != '(' {
			out.WriteString(sql[i:open])
			i = open
			continue
		}
		end := matchParen(sql, open)
		if end < 0 {
			break
		}
		out.WriteString(sql[i:start])
		originals = append(originals, sql[start:end])
		fmt.Fprintf(&out, "%s%d__", dynamicNamePrefix, len(originals)-1)
		i = end
	}
	out.WriteString(sql[i:])

	return out.String(), originals
}

const identifierWord = "IDENTIFIER"

// indexIdentifierWord finds the next whole-word IDENTIFIER at or after from,
// case-insensitively, or -1.
func indexIdentifierWord(sql string, from int) int {
	for i := from; i+len(identifierWord) <= len(sql); i++ {
		match := true
		for k := 0; k < len(identifierWord); k++ {
			c := sql[i+k]
			if c >= 'a' && c <= 'z' {
				c -= 'a' - 'A'
			}
			if c != identifierWord[k] {
				match = false
				break
			}
		}
		if !match {
			continue
		}
		if i > 0 && isIdentByte(sql[i-1]) {
			continue
		}
		if after := i + len(identifierWord); after < len(sql) && isIdentByte(sql[after]) {
			continue
		}
		return i
	}
	return -1
}

// matchParen returns the index just past the parenthesized group opening at
// open, skipping quoted strings, or -1 when the group never closes.
func matchParen(sql string, open int) int {
	depth := 0
	var quote byte
	for i := open; i < len(sql); i++ {
		ch := sql[i]
		if quote != 0 {
			if ch == '\\' && i+1 < len(sql) {
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
				return i + 1
			}
		}
	}
	return -1
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' || (c >= '0' && c <= '9') ||
		(c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// DynamicPlaceholderIndex reports whether a name segment is a placeholder
// produced by ReplaceTemplatedIdentifiers, and if so which original
// expression it stands for.
func DynamicPlaceholderIndex(segment string) (int, bool) {
	if !strings.HasPrefix(segment, dynamicNamePrefix) || !strings.HasSuffix(segment, "__") {
		return 0, false
	}
	n, err := strconv.Atoi(segment[len(dynamicNamePrefix) : len(segment)-2])
	if err != nil {
		return 0, false
	}
	return n, true
}

// normalizeKeywords uppercases grammar keywords outside of string literals,
// quoted identifiers, and comments, so the literal terminals in the grammar
// match regardless of the source casing. Identifiers that are not keywords
// are left untouched.
func normalizeKeywords(sql string) string {
	var (
		out   strings.Builder
		word  strings.Builder
		quote byte
	)
	out.Grow(len(sql))

	flush := func() {
		if word.Len() == 0 {
			return
		}
		w := word.String()
		if upper := strings.ToUpper(w); keywordSet[upper] {
			out.WriteString(upper)
		} else {
			out.WriteString(w)
		}
		word.Reset()
	}

	for i := 0; i < len(sql); i++ {
		ch := sql[i]

		if quote != 0 {
			out.WriteByte(ch)
			if ch == '\\' && quote != '[' && i+1 < len(sql) {
				i++
				out.WriteByte(sql[i])
				continue
			}
			if (quote == '[' && ch == ']') || (quote != '[' && ch == quote) {
				quote = 0
			}
			continue
		}

		switch {
		case ch == '\'' || ch == '"' || ch == '`' || ch == '[':
			flush()
			quote = ch
			out.WriteByte(ch)
		case ch == '-' && i+1 < len(sql) && sql[i+1] == '-':
			flush()
			end := strings.IndexAny(sql[i:], "\r\n")
			if end < 0 {
				end = len(sql) - i
			}
			out.WriteString(sql[i : i+end])
			i += end - 1
		case ch == '/' && i+1 < len(sql) && sql[i+1] == '*':
			flush()
			end := strings.Index(sql[i+2:], "*/")
			if end < 0 {
				end = len(sql) - i - 2
			}
			out.WriteString(sql[i : i+end+4])
			i += end + 3
		case ch == '_' || ch == '$' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9'):
			word.WriteByte(ch)
		default:
			flush()
			out.WriteByte(ch)
		}
	}
	flush()

	return out.String()
}

// Parse parses DDL statements from an io.Reader.
func Parse(r io.Reader) (*SQL, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read SQL")
	}
	return ParseString(string(b))
}

// ParseString parses DDL statements from a string. The input is keyword
// normalized first; callers that need dynamic-name support must run
// ReplaceTemplatedIdentifiers before calling this. A grammar error fails
// the whole document - partial statement lists are never returned.
func ParseString(sql string) (*SQL, error) {
	normalized := normalizeKeywords(sql)
	res, err := ddlParser.ParseString("", normalized)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse SQL")
	}
	return res, nil
}

// Normalized returns the keyword-normalized form of sql. Statement
// positions reported by the parser refer to this text.
func Normalized(sql string) string {
	return normalizeKeywords(sql)
}
