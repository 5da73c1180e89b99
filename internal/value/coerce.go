package value

// coerce.go converts raw string tokens into typed Values.
//
// The check order is a contract, not an implementation detail:
//
//	empty/whitespace -> Null
//	true/false       -> Bool
//	numeric grammar  -> Number
//	YYYY-MM-DD       -> Date
//	anything else    -> Text
//
// A token must be checked as a number before being checked as a date, so
// that purely numeric tokens are never misclassified.

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// numericPattern is the numeric grammar: optional sign, digits, optional
// fractional part. Compiled once; coercion runs per cell.
var numericPattern = regexp.MustCompile(`^[+-]?\d+(\.\d+)?$`)

// datePrefixPattern matches a leading YYYY-MM-DD. The match is only a
// candidate; the token must still parse to a valid calendar date.
var datePrefixPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// CoerceOptions controls token handling during coercion.
type CoerceOptions struct {
	// Trim removes surrounding whitespace from tokens that end up as Text.
	// Classification always works on the trimmed token regardless.
	Trim bool
}

// Coerce converts a single text token to a Value using the fixed check
// order documented above.
func Coerce(token string, opts CoerceOptions) Value {
	trimmed := strings.TrimSpace(token)

	if trimmed == "" {
		return Null()
	}

	switch strings.ToLower(trimmed) {
	case "true":
		return NewBool(true)
	case "false":
		return NewBool(false)
	}

	if numericPattern.MatchString(trimmed) {
		f, err := strconv.ParseFloat(trimmed, 64)
		if err == nil {
			return NewNumber(f)
		}
	}

	if m := datePrefixPattern.FindString(trimmed); m != "" {
		t, err := time.Parse(DateLayout, m)
		if err == nil {
			return NewDate(t)
		}
	}

	if opts.Trim {
		return NewText(trimmed)
	}
	return NewText(token)
}
