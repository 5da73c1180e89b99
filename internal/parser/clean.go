package parser

// clean.go scrubs the artifacts spreadsheet exports leave in raw text
// before any token reaches type coercion: UTF-8 BOMs, Excel formula
// wrappers (="value"), and typographic quotes.

import "strings"

// bom is the UTF-8 byte order mark some exporters prepend to the first cell.
const bom = "\ufeff"

// CleanCell normalizes a raw CSV cell. It strips a leading BOM, unwraps
// Excel formula syntax, and converts smart quotes to plain ASCII quotes.
// It does not trim whitespace; trimming is a parser option.
func CleanCell(s string) string {
	s = strings.TrimPrefix(s, bom)

	// Excel exports sometimes wrap values as ="12345" to force text.
	if strings.HasPrefix(s, `="`) && strings.HasSuffix(s, `"`) && len(s) >= 3 {
		s = s[2 : len(s)-1]
	}

	s = strings.NewReplacer(
		"“", `"`, // left double quote
		"”", `"`, // right double quote
		"‘", "'", // left single quote
		"’", "'", // right single quote
	).Replace(s)

	return s
}

// CleanHeader normalizes a header cell for use as a field name: cleaned
// like any cell, then trimmed. Header matching is whitespace-insensitive.
func CleanHeader(s string) string {
	return strings.TrimSpace(CleanCell(s))
}
