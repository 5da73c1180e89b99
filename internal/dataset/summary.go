package dataset

// DefaultPreviewRows bounds how many rows a Summary carries when the
// caller does not say otherwise.
const DefaultPreviewRows = 10

// Summary is a bounded snapshot of a dataset for preview rendering.
// It never carries more than the requested number of rows, so hosts can
// show the head of a large dataset without serializing all of it.
type Summary struct {
	Columns  []string `json:"columns"`
	RowCount int      `json:"rowCount"`
	Head     []Record `json:"head"`
}

// Summarize returns the first limit rows of the dataset along with its
// shape. A non-positive limit falls back to DefaultPreviewRows.
func (d Dataset) Summarize(limit int) Summary {
	if limit <= 0 {
		limit = DefaultPreviewRows
	}
	if limit > len(d.Rows) {
		limit = len(d.Rows)
	}
	head := make([]Record, limit)
	for i := 0; i < limit; i++ {
		head[i] = d.Rows[i].Clone()
	}
	return Summary{
		Columns:  append([]string(nil), d.Columns...),
		RowCount: len(d.Rows),
		Head:     head,
	}
}
