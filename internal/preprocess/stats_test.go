package preprocess

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMean(t *testing.T) {
	tests := []struct {
		name string
		x    []float64
		want float64
	}{
		{"empty", nil, 0},
		{"single", []float64{5}, 5},
		{"several", []float64{1, 2, 3, 4}, 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mean(tt.x); !almostEqual(got, tt.want) {
				t.Errorf("mean(%v) = %g, want %g", tt.x, got, tt.want)
			}
		})
	}
}

func TestStddev_Population(t *testing.T) {
	// Population variance of {2,4,4,4,5,5,7,9} is 4.
	x := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	if got := stddev(x); !almostEqual(got, 2) {
		t.Errorf("stddev(%v) = %g, want 2", x, got)
	}
	if got := stddev(nil); got != 0 {
		t.Errorf("stddev(nil) = %g, want 0", got)
	}
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name string
		x    []float64
		want float64
	}{
		{"empty", nil, 0},
		{"odd length", []float64{3, 1, 2}, 2},
		{"even length averages middle pair", []float64{4, 1, 3, 2}, 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := median(tt.x); !almostEqual(got, tt.want) {
				t.Errorf("median(%v) = %g, want %g", tt.x, got, tt.want)
			}
		})
	}
}

func TestMedian_DoesNotMutateInput(t *testing.T) {
	x := []float64{3, 1, 2}
	median(x)
	if x[0] != 3 || x[1] != 1 || x[2] != 2 {
		t.Errorf("input reordered: %v", x)
	}
}

func TestMad(t *testing.T) {
	// median 3, deviations {2,1,0,1,2}, mad 1
	x := []float64{1, 2, 3, 4, 5}
	if got := mad(x); !almostEqual(got, 1) {
		t.Errorf("mad(%v) = %g, want 1", x, got)
	}
}

func TestPercentile(t *testing.T) {
	x := []float64{1, 2, 3, 4, 100}

	tests := []struct {
		name string
		p    float64
		want float64
	}{
		{"zeroth is min", 0, 1},
		{"hundredth is max", 100, 100},
		{"q1", 25, 2},
		{"median", 50, 3},
		{"q3", 75, 4},
		{"interpolated", 10, 1.4}, // rank 0.4 between 1 and 2
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := percentile(x, tt.p); !almostEqual(got, tt.want) {
				t.Errorf("percentile(%v, %g) = %g, want %g", x, tt.p, got, tt.want)
			}
		})
	}
}
