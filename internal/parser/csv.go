// Package parser turns raw text payloads into typed datasets.
//
// Two formats are supported: delimited text (CSV) and structured
// JSON-like text. CSV parsing is best-effort: a malformed line is recorded
// as a RowError and parsing continues with the next line. Structured
// parsing is all-or-nothing: any failure invalidates the whole payload.
//
// Known limitation: lines are split on line breaks before quote-aware
// field splitting, so a quoted field containing an embedded newline is not
// supported and surfaces as one or more RowErrors.
package parser

import (
	"fmt"
	"strings"

	"github.com/prepline/prepline/internal/dataset"
	"github.com/prepline/prepline/internal/value"
)

// CSVOptions configures delimited-text parsing.
type CSVOptions struct {
	// Delimiter separates fields. Defaults to "," when empty.
	Delimiter string `json:"delimiter"`

	// HasHeader consumes the first line as column names and produces
	// records; without it rows stay ordered value sequences.
	HasHeader bool `json:"hasHeader"`

	// SkipEmptyLines drops lines that are empty after trimming.
	SkipEmptyLines bool `json:"skipEmptyLines"`

	// Trim removes surrounding whitespace from text cells.
	Trim bool `json:"trim"`
}

// RowError describes one malformed line. Parsing continues past it.
type RowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
	Raw     string `json:"raw"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// CSVResult is the outcome of parsing delimited text. Data is populated
// when a header row was configured; Rows otherwise.
type CSVResult struct {
	Headers []string        `json:"headers,omitempty"`
	Data    dataset.Dataset `json:"data"`
	Rows    [][]value.Value `json:"rows,omitempty"`
	Errors  []RowError      `json:"errors"`
}

// ParseCSV parses delimited text into typed rows. Each data line is parsed
// independently; failures are collected in the result's Errors and never
// abort the remaining lines.
func ParseCSV(text string, opts CSVOptions) CSVResult {
	delim := opts.Delimiter
	if delim == "" {
		delim = ","
	}

	var result CSVResult
	coerce := value.CoerceOptions{Trim: opts.Trim}

	lines := splitLines(text)
	headerPending := opts.HasHeader

	for lineNo, raw := range lines {
		displayLine := lineNo + 1

		if opts.SkipEmptyLines && strings.TrimSpace(raw) == "" {
			continue
		}

		fields, err := splitFields(raw, delim)
		if err != nil {
			result.Errors = append(result.Errors, RowError{
				Line:    displayLine,
				Message: err.Error(),
				Raw:     raw,
			})
			continue
		}

		if headerPending {
			headerPending = false
			result.Headers = make([]string, len(fields))
			for i, h := range fields {
				result.Headers[i] = CleanHeader(h)
			}
			result.Data = dataset.New(result.Headers...)
			continue
		}

		if opts.HasHeader {
			if len(fields) != len(result.Headers) {
				result.Errors = append(result.Errors, RowError{
					Line:    displayLine,
					Message: fmt.Sprintf("row has %d fields, expected %d", len(fields), len(result.Headers)),
					Raw:     raw,
				})
				continue
			}
			row := make(dataset.Record, len(fields))
			for i, f := range fields {
				row[result.Headers[i]] = value.Coerce(CleanCell(f), coerce)
			}
			result.Data.Rows = append(result.Data.Rows, row)
			continue
		}

		row := make([]value.Value, len(fields))
		for i, f := range fields {
			row[i] = value.Coerce(CleanCell(f), coerce)
		}
		result.Rows = append(result.Rows, row)
	}

	return result
}

// splitLines splits raw text on line breaks, tolerating CRLF endings.
// A single trailing newline does not produce a phantom empty line.
func splitLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// splitFields performs quote-aware field splitting of a single line.
// A field may be wrapped in double quotes; inside quotes the delimiter
// loses its meaning and a doubled quote ("") is an escaped literal quote.
func splitFields(line, delim string) ([]string, error) {
	var (
		fields   []string
		field    strings.Builder
		inQuotes bool
	)

	runes := []rune(line)
	delimRunes := []rune(delim)

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if inQuotes {
			if r == '"' {
				if i+1 < len(runes) && runes[i+1] == '"' {
					field.WriteRune('"') // escaped literal quote
					i++
					continue
				}
				inQuotes = false
				continue
			}
			field.WriteRune(r)
			continue
		}

		if r == '"' {
			inQuotes = true
			continue
		}

		if hasRunePrefix(runes[i:], delimRunes) {
			fields = append(fields, field.String())
			field.Reset()
			i += len(delimRunes) - 1
			continue
		}

		field.WriteRune(r)
	}

	if inQuotes {
		return nil, fmt.Errorf("unterminated quoted field")
	}

	fields = append(fields, field.String())
	return fields, nil
}

func hasRunePrefix(s, prefix []rune) bool {
	if len(s) < len(prefix) {
		return false
	}
	for i := range prefix {
		if s[i] != prefix[i] {
			return false
		}
	}
	return true
}
