// Package value defines the tagged value type produced by type coercion
// and shared by every pipeline stage.
//
// A Value is one of five kinds: Null, Bool, Number, Text, or Date. Numbers
// and dates are parsed eagerly at coercion time, never lazily, so downstream
// stages can rely on the kind tag without re-parsing.
package value

import (
	"fmt"
	"strconv"
	"time"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindText
	KindDate
)

// DateLayout is the calendar date format accepted by coercion and used
// when serializing Date values.
const DateLayout = "2006-01-02"

// Value is a tagged union over the types a dataset cell can hold.
// The zero Value is Null.
type Value struct {
	Kind   Kind
	Bool   bool
	Number float64
	Text   string
	Date   time.Time
}

// Null returns the missing-value sentinel.
func Null() Value {
	return Value{Kind: KindNull}
}

// NewBool wraps a bool.
func NewBool(b bool) Value {
	return Value{Kind: KindBool, Bool: b}
}

// NewNumber wraps a float64.
func NewNumber(f float64) Value {
	return Value{Kind: KindNumber, Number: f}
}

// NewText wraps a string.
func NewText(s string) Value {
	return Value{Kind: KindText, Text: s}
}

// NewDate wraps a calendar date.
func NewDate(t time.Time) Value {
	return Value{Kind: KindDate, Date: t}
}

// IsMissing reports whether the value is Null.
func (v Value) IsMissing() bool {
	return v.Kind == KindNull
}

// Numeric returns the value as a float64 when it qualifies as numeric:
// either a Number, or a Text token that matches the numeric grammar.
// The second return is false for everything else, including Null.
func (v Value) Numeric() (float64, bool) {
	switch v.Kind {
	case KindNumber:
		return v.Number, true
	case KindText:
		if numericPattern.MatchString(v.Text) {
			f, err := strconv.ParseFloat(v.Text, 64)
			if err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

// String renders the value for display and CSV serialization.
// Null renders as the empty string.
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return ""
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case KindDate:
		return v.Date.Format(DateLayout)
	default:
		return v.Text
	}
}

// Equal reports whether two values have the same kind and payload.
// Dates compare by calendar day.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindBool:
		return v.Bool == o.Bool
	case KindNumber:
		return v.Number == o.Number
	case KindDate:
		return v.Date.Equal(o.Date)
	default:
		return v.Text == o.Text
	}
}

// Key returns a deterministic grouping key for the value. Values of
// different kinds never share a key.
func (v Value) Key() string {
	switch v.Kind {
	case KindNull:
		return "\x00null"
	case KindBool:
		return "b:" + strconv.FormatBool(v.Bool)
	case KindNumber:
		return "n:" + strconv.FormatFloat(v.Number, 'g', -1, 64)
	case KindDate:
		return "d:" + v.Date.Format(DateLayout)
	default:
		return "t:" + v.Text
	}
}

// MarshalJSON serializes the value as its natural JSON type:
// null, boolean, number, or string (dates as YYYY-MM-DD).
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return strconv.AppendBool(nil, v.Bool), nil
	case KindNumber:
		return strconv.AppendFloat(nil, v.Number, 'f', -1, 64), nil
	case KindDate:
		return strconv.AppendQuote(nil, v.Date.Format(DateLayout)), nil
	default:
		return strconv.AppendQuote(nil, v.Text), nil
	}
}

// UnmarshalJSON maps JSON types onto value kinds. Strings are kept as
// Text; callers that want token coercion should use Coerce instead.
func (v *Value) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("empty JSON value")
	}
	switch data[0] {
	case 'n':
		*v = Null()
		return nil
	case 't', 'f':
		b, err := strconv.ParseBool(string(data))
		if err != nil {
			return fmt.Errorf("invalid JSON bool: %w", err)
		}
		*v = NewBool(b)
		return nil
	case '"':
		s, err := strconv.Unquote(string(data))
		if err != nil {
			return fmt.Errorf("invalid JSON string: %w", err)
		}
		*v = NewText(s)
		return nil
	default:
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("invalid JSON number: %w", err)
		}
		*v = NewNumber(f)
		return nil
	}
}
