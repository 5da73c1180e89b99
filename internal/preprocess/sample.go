package preprocess

// sample.go reduces a dataset to at most sampleSize rows. A dataset that
// already fits is returned as-is, same order and length.

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/prepline/prepline/internal/dataset"
)

// SampleMethod selects the sampling strategy.
type SampleMethod string

const (
	SampleRandom     SampleMethod = "random"
	SampleSystematic SampleMethod = "systematic"
	SampleStratified SampleMethod = "stratified"
)

// stratifyMaxShare is the cut-off for choosing a stratification field:
// the first column whose distinct-value count is below this share of the
// row count partitions the rows; if none qualifies, sampling falls back
// to random.
const stratifyMaxShare = 0.5

// Sample returns a dataset of at most size rows. The rng parameter makes
// random selection reproducible in tests; pass nil for a time-seeded
// source.
func Sample(d dataset.Dataset, size int, method SampleMethod, rng *rand.Rand) (dataset.Dataset, error) {
	if size <= 0 {
		return dataset.Dataset{}, fmt.Errorf("sample size must be positive, got %d", size)
	}
	if d.Len() <= size {
		return d.Clone(), nil
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	switch method {
	case SampleRandom:
		return takeRows(d, randomIndices(d.Len(), size, rng)), nil
	case SampleSystematic:
		return takeRows(d, systematicIndices(d.Len(), size)), nil
	case SampleStratified:
		return stratifiedSample(d, size, rng), nil
	default:
		return dataset.Dataset{}, fmt.Errorf("unknown sample method %q", method)
	}
}

// randomIndices picks size distinct row indices uniformly without
// replacement, returned in ascending order so relative row order survives.
func randomIndices(n, size int, rng *rand.Rand) []int {
	perm := rng.Perm(n)
	picked := perm[:size]
	sorted := append([]int(nil), picked...)
	sort.Ints(sorted)
	return sorted
}

// systematicIndices keeps every stride-th row with stride = floor(n/size),
// truncated to size rows.
func systematicIndices(n, size int) []int {
	stride := n / size
	if stride < 1 {
		stride = 1
	}
	indices := make([]int, 0, size)
	for i := 0; i < n && len(indices) < size; i += stride {
		indices = append(indices, i)
	}
	return indices
}

// stratifiedSample partitions rows by the first low-cardinality column and
// samples ceil(size/groupCount) rows per group, concatenated in group
// first-seen order then truncated to size. Small groups may be over- or
// under-represented by construction of the ceiling.
func stratifiedSample(d dataset.Dataset, size int, rng *rand.Rand) dataset.Dataset {
	stratum := ""
	for _, col := range d.Columns {
		distinct := map[string]bool{}
		for _, row := range d.Rows {
			distinct[row[col].Key()] = true
		}
		if float64(len(distinct)) < stratifyMaxShare*float64(d.Len()) {
			stratum = col
			break
		}
	}
	if stratum == "" {
		return takeRows(d, randomIndices(d.Len(), size, rng))
	}

	var groupOrder []string
	groups := map[string][]int{}
	for i, row := range d.Rows {
		key := row[stratum].Key()
		if _, seen := groups[key]; !seen {
			groupOrder = append(groupOrder, key)
		}
		groups[key] = append(groups[key], i)
	}

	perGroup := int(math.Ceil(float64(size) / float64(len(groups))))

	var indices []int
	for _, key := range groupOrder {
		members := groups[key]
		if len(members) <= perGroup {
			indices = append(indices, members...)
			continue
		}
		for _, pick := range randomIndices(len(members), perGroup, rng) {
			indices = append(indices, members[pick])
		}
	}

	if len(indices) > size {
		indices = indices[:size]
	}
	return takeRows(d, indices)
}

// takeRows builds a new dataset from the given row indices.
func takeRows(d dataset.Dataset, indices []int) dataset.Dataset {
	out := dataset.Dataset{
		Columns: append([]string(nil), d.Columns...),
		Rows:    make([]dataset.Record, len(indices)),
	}
	for i, idx := range indices {
		out.Rows[i] = d.Rows[idx].Clone()
	}
	return out
}
