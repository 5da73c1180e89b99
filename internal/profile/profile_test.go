package profile

import (
	"strings"
	"testing"

	"github.com/prepline/prepline/internal/dataset"
	"github.com/prepline/prepline/internal/value"
)

func numbers(col string, vals ...float64) dataset.Dataset {
	d := dataset.New(col)
	for _, v := range vals {
		d.Rows = append(d.Rows, dataset.Record{col: value.NewNumber(v)})
	}
	return d
}

func TestValidate_NumericClassification(t *testing.T) {
	tests := []struct {
		name     string
		cells    []value.Value
		wantType string
	}{
		{
			name: "all numeric",
			cells: []value.Value{
				value.NewNumber(1), value.NewNumber(2), value.NewNumber(3),
				value.NewNumber(4), value.NewNumber(5),
			},
			wantType: "numeric",
		},
		{
			name: "numeric text counts toward the share",
			cells: []value.Value{
				value.NewText("1"), value.NewText("2"), value.NewNumber(3),
				value.NewNumber(4), value.NewText("oops"),
			},
			wantType: "numeric", // 4 of 5 non-null qualify
		},
		{
			name: "just below the share",
			cells: []value.Value{
				value.NewNumber(1), value.NewNumber(2), value.NewNumber(3),
				value.NewText("a"), value.NewText("b"),
			},
			wantType: "categorical", // 3 of 5
		},
		{
			name: "nulls excluded from the denominator",
			cells: []value.Value{
				value.NewNumber(1), value.NewNumber(2), value.NewNumber(3),
				value.NewNumber(4), value.Null(), value.Null(),
			},
			wantType: "numeric", // 4 of 4 non-null
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := dataset.New("v")
			for _, c := range tt.cells {
				d.Rows = append(d.Rows, dataset.Record{"v": c})
			}

			report := Validate(d, Options{})
			prof := report.Statistics["v"]
			if prof.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", prof.Type, tt.wantType)
			}
		})
	}
}

func TestValidate_NumericStats(t *testing.T) {
	d := numbers("v", 10, 20, 30)

	report := Validate(d, Options{})
	prof := report.Statistics["v"]
	if prof.Numeric == nil {
		t.Fatal("Numeric stats missing")
	}
	if prof.Numeric.Min != 10 || prof.Numeric.Max != 30 || prof.Numeric.Mean != 20 {
		t.Errorf("stats = %+v, want min 10, max 30, mean 20", prof.Numeric)
	}
}

func TestValidate_RequiredColumns(t *testing.T) {
	d := numbers("present", 1, 2)

	report := Validate(d, Options{RequiredColumns: []string{"present", "absent"}})
	if report.IsValid {
		t.Error("report should be invalid when a required column is missing")
	}
	found := false
	for _, e := range report.Errors {
		if strings.Contains(e, "absent") {
			found = true
		}
	}
	if !found {
		t.Errorf("errors should name the missing column: %v", report.Errors)
	}
}

func TestValidate_RowCountBounds(t *testing.T) {
	d := numbers("v", 1, 2, 3)

	// Below MinRows flips validity but statistics are still computed.
	report := Validate(d, Options{MinRows: 10})
	if report.IsValid {
		t.Error("report should be invalid below MinRows")
	}
	if _, ok := report.Statistics["v"]; !ok {
		t.Error("statistics should be computed even when validation fails")
	}

	// Above MaxRows is only a warning.
	report = Validate(d, Options{MaxRows: 2})
	if !report.IsValid {
		t.Error("exceeding MaxRows should not invalidate the report")
	}
	if len(report.Warnings) == 0 {
		t.Error("exceeding MaxRows should produce a warning")
	}
}

func TestValidate_ExpectedNumericMismatch(t *testing.T) {
	d := dataset.New("label")
	for _, s := range []string{"a", "b", "a"} {
		d.Rows = append(d.Rows, dataset.Record{"label": value.NewText(s)})
	}

	report := Validate(d, Options{NumericColumns: []string{"label"}})
	if !report.IsValid {
		t.Error("a type mismatch should stay a warning")
	}
	if len(report.Warnings) == 0 {
		t.Error("expected a warning about the non-numeric column")
	}
}

func TestValidate_Recommendations(t *testing.T) {
	// Column half-missing plus an identifier-like column, on a small dataset.
	d := dataset.New("id", "score")
	for i := 0; i < 4; i++ {
		row := dataset.Record{"id": value.NewText(strings.Repeat("x", i+1))}
		if i < 1 {
			row["score"] = value.NewNumber(float64(i))
		} else {
			row["score"] = value.Null()
		}
		d.Rows = append(d.Rows, row)
	}

	report := Validate(d, Options{})

	var gotMissing, gotIdentifier, gotSmall bool
	for _, rec := range report.Recommendations {
		switch {
		case rec.Column == "score" && strings.Contains(rec.Message, "missing"):
			gotMissing = true
			if rec.Severity != "warning" {
				t.Errorf("75%% missing should be a warning, got %q", rec.Severity)
			}
		case rec.Column == "id" && strings.Contains(rec.Message, "identifier"):
			gotIdentifier = true
		case rec.Column == "" && strings.Contains(rec.Message, "rows"):
			gotSmall = true
		}
	}

	if !gotMissing {
		t.Error("expected a missing-values recommendation for score")
	}
	if !gotIdentifier {
		t.Error("expected an identifier recommendation for id")
	}
	if !gotSmall {
		t.Error("expected a small-dataset recommendation")
	}
}

func TestValidate_NumericShareOverride(t *testing.T) {
	// 3 of 5 qualify: categorical at the default share, numeric at 0.5.
	d := dataset.New("v")
	cells := []value.Value{
		value.NewNumber(1), value.NewNumber(2), value.NewNumber(3),
		value.NewText("a"), value.NewText("b"),
	}
	for _, c := range cells {
		d.Rows = append(d.Rows, dataset.Record{"v": c})
	}

	report := Validate(d, Options{NumericShare: 0.5})
	if got := report.Statistics["v"].Type; got != "numeric" {
		t.Errorf("Type with share 0.5 = %q, want numeric", got)
	}
}
