package parser

import (
	"reflect"
	"testing"

	"github.com/prepline/prepline/internal/value"
)

func TestParseCSV_WithHeader(t *testing.T) {
	text := "name,age,joined\nalice,30,2024-01-15\nbob,25,2023-06-01\n"

	result := ParseCSV(text, CSVOptions{HasHeader: true})

	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if want := []string{"name", "age", "joined"}; !reflect.DeepEqual(result.Headers, want) {
		t.Fatalf("Headers = %v, want %v", result.Headers, want)
	}
	if result.Data.Len() != 2 {
		t.Fatalf("rows = %d, want 2", result.Data.Len())
	}

	row := result.Data.Rows[0]
	if row["name"].Kind != value.KindText || row["name"].Text != "alice" {
		t.Errorf("name = %+v, want Text(alice)", row["name"])
	}
	if row["age"].Kind != value.KindNumber || row["age"].Number != 30 {
		t.Errorf("age = %+v, want Number(30)", row["age"])
	}
	if row["joined"].Kind != value.KindDate {
		t.Errorf("joined = %+v, want a Date", row["joined"])
	}
}

func TestParseCSV_Headerless(t *testing.T) {
	result := ParseCSV("1,x\n2,y\n", CSVOptions{})

	if result.Headers != nil {
		t.Errorf("Headers = %v, want nil", result.Headers)
	}
	if len(result.Rows) != 2 {
		t.Fatalf("Rows = %d, want 2", len(result.Rows))
	}
	if !result.Rows[0][0].Equal(value.NewNumber(1)) {
		t.Errorf("Rows[0][0] = %+v, want Number(1)", result.Rows[0][0])
	}
	if !result.Rows[1][1].Equal(value.NewText("y")) {
		t.Errorf("Rows[1][1] = %+v, want Text(y)", result.Rows[1][1])
	}
}

func TestParseCSV_QuotedFields(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{
			name: "delimiter inside quotes",
			line: `"last, first",ok`,
			want: []string{"last, first", "ok"},
		},
		{
			name: "escaped quote",
			line: `"say ""hi""",x`,
			want: []string{`say "hi"`, "x"},
		},
		{
			name: "empty quoted field",
			line: `"",x`,
			want: []string{"", "x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := splitFields(tt.line, ",")
			if err != nil {
				t.Fatalf("splitFields() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitFields() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseCSV_BestEffortErrors(t *testing.T) {
	// Line 3 has the wrong field count, line 4 an unterminated quote.
	// Both are recorded and the surrounding lines still parse.
	text := "a,b\n1,2\n3\n\"oops,5\n6,7\n"

	result := ParseCSV(text, CSVOptions{HasHeader: true})

	if result.Data.Len() != 2 {
		t.Errorf("parsed rows = %d, want 2", result.Data.Len())
	}
	if len(result.Errors) != 2 {
		t.Fatalf("errors = %d, want 2: %v", len(result.Errors), result.Errors)
	}
	if result.Errors[0].Line != 3 {
		t.Errorf("first error line = %d, want 3", result.Errors[0].Line)
	}
	if result.Errors[1].Line != 4 {
		t.Errorf("second error line = %d, want 4", result.Errors[1].Line)
	}
	if result.Errors[1].Raw != "\"oops,5" {
		t.Errorf("second error raw = %q, want the offending line", result.Errors[1].Raw)
	}
}

func TestParseCSV_Options(t *testing.T) {
	text := "a;b\n\n1; x \n"

	result := ParseCSV(text, CSVOptions{
		Delimiter:      ";",
		HasHeader:      true,
		SkipEmptyLines: true,
		Trim:           true,
	})

	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if result.Data.Len() != 1 {
		t.Fatalf("rows = %d, want 1", result.Data.Len())
	}
	if got := result.Data.Rows[0]["b"]; !got.Equal(value.NewText("x")) {
		t.Errorf("b = %+v, want trimmed Text(x)", got)
	}
}

func TestParseCSV_CRLF(t *testing.T) {
	result := ParseCSV("a,b\r\n1,2\r\n", CSVOptions{HasHeader: true})

	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if result.Data.Len() != 1 {
		t.Errorf("rows = %d, want 1", result.Data.Len())
	}
}

func TestCleanCell(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bom stripped", "\ufeffname", "name"},
		{"excel formula wrapper", `="00123"`, "00123"},
		{"smart quotes", "“quoted”", `"quoted"`},
		{"whitespace preserved", "  padded  ", "  padded  "},
		{"plain passthrough", "hello", "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanCell(tt.input); got != tt.want {
				t.Errorf("CleanCell(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanHeader_Trims(t *testing.T) {
	if got := CleanHeader(" \ufeff name "); got != "name" {
		t.Errorf("CleanHeader() = %q, want %q", got, "name")
	}
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	text := "name,note\n\"last, first\",\"say \"\"hi\"\"\"\nbob,\n"

	first := ParseCSV(text, CSVOptions{HasHeader: true})
	if len(first.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", first.Errors)
	}

	out := WriteCSV(first.Data, CSVOptions{HasHeader: true})
	second := ParseCSV(out, CSVOptions{HasHeader: true})
	if len(second.Errors) != 0 {
		t.Fatalf("reparse errors: %v", second.Errors)
	}

	if !reflect.DeepEqual(first.Headers, second.Headers) {
		t.Errorf("headers changed: %v vs %v", first.Headers, second.Headers)
	}
	if first.Data.Len() != second.Data.Len() {
		t.Fatalf("row count changed: %d vs %d", first.Data.Len(), second.Data.Len())
	}
	for i := range first.Data.Rows {
		for _, col := range first.Data.Columns {
			a, b := first.Data.Rows[i][col], second.Data.Rows[i][col]
			if !a.Equal(b) {
				t.Errorf("row %d col %s: %+v vs %+v", i, col, a, b)
			}
		}
	}
}
