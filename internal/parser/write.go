package parser

// write.go serializes a dataset back to delimited text. Fields containing
// the delimiter, a double quote, or a line break are wrapped in quotes
// with embedded quotes doubled, so output reparses to the same records.

import (
	"strings"

	"github.com/prepline/prepline/internal/dataset"
)

// WriteCSV renders the dataset as delimited text using the same options
// the parser accepts. The header row is emitted when opts.HasHeader is
// set. Null values render as empty fields.
func WriteCSV(d dataset.Dataset, opts CSVOptions) string {
	delim := opts.Delimiter
	if delim == "" {
		delim = ","
	}

	var b strings.Builder

	if opts.HasHeader {
		for i, col := range d.Columns {
			if i > 0 {
				b.WriteString(delim)
			}
			b.WriteString(quoteField(col, delim))
		}
		b.WriteString("\n")
	}

	for _, row := range d.Rows {
		for i, col := range d.Columns {
			if i > 0 {
				b.WriteString(delim)
			}
			b.WriteString(quoteField(row[col].String(), delim))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// quoteField wraps the field in double quotes when it contains characters
// that would otherwise change the parse.
func quoteField(s, delim string) string {
	if strings.Contains(s, delim) || strings.ContainsAny(s, "\"\n\r") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
