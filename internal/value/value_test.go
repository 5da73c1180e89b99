package value

import (
	"testing"
	"time"
)

func date(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  Value
	}{
		// Null
		{
			name:  "empty string",
			token: "",
			want:  Null(),
		},
		{
			name:  "whitespace only",
			token: "   \t ",
			want:  Null(),
		},

		// Bool
		{
			name:  "true",
			token: "true",
			want:  NewBool(true),
		},
		{
			name:  "false mixed case",
			token: "False",
			want:  NewBool(false),
		},
		{
			name:  "padded bool",
			token: "  TRUE  ",
			want:  NewBool(true),
		},

		// Number
		{
			name:  "integer",
			token: "42",
			want:  NewNumber(42),
		},
		{
			name:  "negative decimal",
			token: "-3.25",
			want:  NewNumber(-3.25),
		},
		{
			name:  "explicit plus sign",
			token: "+7",
			want:  NewNumber(7),
		},
		{
			name:  "digits only, no separators",
			token: "20240115",
			want:  NewNumber(20240115),
		},

		// Date
		{
			name:  "calendar date",
			token: "2024-01-15",
			want:  NewDate(date("2024-01-15")),
		},
		{
			name:  "timestamp keeps date prefix",
			token: "2024-01-15T10:30:00Z",
			want:  NewDate(date("2024-01-15")),
		},
		{
			name:  "date-shaped but invalid",
			token: "1234-56-78",
			want:  NewText("1234-56-78"),
		},

		// Text
		{
			name:  "plain word",
			token: "hello",
			want:  NewText("hello"),
		},
		{
			name:  "scientific notation stays text",
			token: "1e5",
			want:  NewText("1e5"),
		},
		{
			name:  "thousands separator stays text",
			token: "1,234",
			want:  NewText("1,234"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Coerce(tt.token, CoerceOptions{})
			if !got.Equal(tt.want) {
				t.Errorf("Coerce(%q) = %+v, want %+v", tt.token, got, tt.want)
			}
		})
	}
}

func TestCoerce_TrimOption(t *testing.T) {
	// Classification ignores padding either way; only the Text payload
	// depends on the option.
	padded := "  widget  "

	got := Coerce(padded, CoerceOptions{})
	if got.Text != padded {
		t.Errorf("without trim Text = %q, want %q", got.Text, padded)
	}

	got = Coerce(padded, CoerceOptions{Trim: true})
	if got.Text != "widget" {
		t.Errorf("with trim Text = %q, want %q", got.Text, "widget")
	}

	if v := Coerce("  42  ", CoerceOptions{}); !v.Equal(NewNumber(42)) {
		t.Errorf("padded number = %+v, want Number(42)", v)
	}
}

func TestNumeric(t *testing.T) {
	tests := []struct {
		name   string
		v      Value
		want   float64
		wantOK bool
	}{
		{"number", NewNumber(2.5), 2.5, true},
		{"numeric text", NewText("17"), 17, true},
		{"negative numeric text", NewText("-4.5"), -4.5, true},
		{"plain text", NewText("abc"), 0, false},
		{"null", Null(), 0, false},
		{"bool", NewBool(true), 0, false},
		{"date", NewDate(date("2024-01-15")), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.v.Numeric()
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Numeric() = (%g, %v), want (%g, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"null is empty", Null(), ""},
		{"bool", NewBool(true), "true"},
		{"whole number has no fraction", NewNumber(3), "3"},
		{"fractional number", NewNumber(0.5), "0.5"},
		{"date", NewDate(date("2024-01-15")), "2024-01-15"},
		{"text", NewText("abc"), "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKey_DistinguishesKinds(t *testing.T) {
	// A numeric 1 and the text "1" must never group together.
	pairs := []struct {
		name string
		a, b Value
	}{
		{"number vs text", NewNumber(1), NewText("1")},
		{"bool vs text", NewBool(true), NewText("true")},
		{"date vs text", NewDate(date("2024-01-15")), NewText("2024-01-15")},
		{"null vs empty text", Null(), NewText("")},
	}

	for _, tt := range pairs {
		t.Run(tt.name, func(t *testing.T) {
			if tt.a.Key() == tt.b.Key() {
				t.Errorf("Key collision: %+v and %+v both map to %q", tt.a, tt.b, tt.a.Key())
			}
		})
	}
}

func TestValueJSONRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		json string
	}{
		{"null", Null(), "null"},
		{"bool", NewBool(false), "false"},
		{"number", NewNumber(2.5), "2.5"},
		{"text", NewText("abc"), `"abc"`},
		{"date", NewDate(date("2024-01-15")), `"2024-01-15"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.v.MarshalJSON()
			if err != nil {
				t.Fatalf("MarshalJSON() error = %v", err)
			}
			if string(got) != tt.json {
				t.Errorf("MarshalJSON() = %s, want %s", got, tt.json)
			}
		})
	}

	// Strings deserialize as Text, never re-coerced.
	var v Value
	if err := v.UnmarshalJSON([]byte(`"42"`)); err != nil {
		t.Fatalf("UnmarshalJSON() error = %v", err)
	}
	if v.Kind != KindText || v.Text != "42" {
		t.Errorf("UnmarshalJSON(\"42\") = %+v, want Text(42)", v)
	}
}
