package preprocess

import (
	"math/rand"
	"testing"

	"github.com/prepline/prepline/internal/dataset"
	"github.com/prepline/prepline/internal/value"
)

func seeded() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

func TestSample_SizeCoversDataset(t *testing.T) {
	d := numericData("v", 1, 2, 3)

	for _, size := range []int{3, 10} {
		out, err := Sample(d, size, SampleRandom, seeded())
		if err != nil {
			t.Fatalf("Sample(size=%d) error = %v", size, err)
		}
		if out.Len() != 3 {
			t.Errorf("Sample(size=%d) rows = %d, want all 3", size, out.Len())
		}
		for i, row := range out.Rows {
			if f, _ := row["v"].Numeric(); f != float64(i+1) {
				t.Errorf("row order changed at %d: %g", i, f)
			}
		}
	}
}

func TestSample_InvalidSize(t *testing.T) {
	d := numericData("v", 1, 2, 3)

	for _, size := range []int{0, -1} {
		if _, err := Sample(d, size, SampleRandom, seeded()); err == nil {
			t.Errorf("Sample(size=%d) expected error", size)
		}
	}
}

func TestSample_Random(t *testing.T) {
	d := numericData("v", 0, 1, 2, 3, 4, 5, 6, 7, 8, 9)

	out, err := Sample(d, 4, SampleRandom, seeded())
	if err != nil {
		t.Fatalf("Sample() error = %v", err)
	}
	if out.Len() != 4 {
		t.Fatalf("rows = %d, want 4", out.Len())
	}

	// Picked rows keep their relative order and are distinct.
	prev := -1.0
	for _, row := range out.Rows {
		f, _ := row["v"].Numeric()
		if f <= prev {
			t.Errorf("row order not ascending: %g after %g", f, prev)
		}
		prev = f
	}

	// Same seed, same selection.
	again, err := Sample(d, 4, SampleRandom, seeded())
	if err != nil {
		t.Fatalf("Sample() error = %v", err)
	}
	for i := range out.Rows {
		a, _ := out.Rows[i]["v"].Numeric()
		b, _ := again.Rows[i]["v"].Numeric()
		if a != b {
			t.Errorf("row %d differs across identical seeds: %g vs %g", i, a, b)
		}
	}
}

func TestSample_Systematic(t *testing.T) {
	d := numericData("v", 0, 1, 2, 3, 4, 5, 6, 7, 8, 9)

	out, err := Sample(d, 5, SampleSystematic, nil)
	if err != nil {
		t.Fatalf("Sample() error = %v", err)
	}

	// stride 2 from the start: rows 0,2,4,6,8
	want := []float64{0, 2, 4, 6, 8}
	if out.Len() != len(want) {
		t.Fatalf("rows = %d, want %d", out.Len(), len(want))
	}
	for i, w := range want {
		if f, _ := out.Rows[i]["v"].Numeric(); f != w {
			t.Errorf("row %d = %g, want %g", i, f, w)
		}
	}
}

func TestSample_Stratified(t *testing.T) {
	// "group" has 2 distinct values over 8 rows, well below the
	// cardinality cut-off, so it drives the stratification.
	d := dataset.New("group", "v")
	for i := 0; i < 8; i++ {
		g := "a"
		if i >= 4 {
			g = "b"
		}
		d.Rows = append(d.Rows, dataset.Record{
			"group": value.NewText(g),
			"v":     value.NewNumber(float64(i)),
		})
	}

	out, err := Sample(d, 4, SampleStratified, seeded())
	if err != nil {
		t.Fatalf("Sample() error = %v", err)
	}
	if out.Len() != 4 {
		t.Fatalf("rows = %d, want 4", out.Len())
	}

	counts := map[string]int{}
	for _, row := range out.Rows {
		counts[row["group"].Text]++
	}
	// ceil(4/2) = 2 per group.
	if counts["a"] != 2 || counts["b"] != 2 {
		t.Errorf("group counts = %v, want 2 per group", counts)
	}
}

func TestSample_StratifiedFallsBackToRandom(t *testing.T) {
	// Every column is unique per row, so no stratum qualifies.
	d := numericData("v", 0, 1, 2, 3, 4, 5, 6, 7)

	out, err := Sample(d, 3, SampleStratified, seeded())
	if err != nil {
		t.Fatalf("Sample() error = %v", err)
	}
	if out.Len() != 3 {
		t.Errorf("rows = %d, want 3", out.Len())
	}
}

func TestSample_UnknownMethod(t *testing.T) {
	d := numericData("v", 1, 2, 3)

	if _, err := Sample(d, 2, "reservoir", seeded()); err == nil {
		t.Error("expected error for unknown method")
	}
}
