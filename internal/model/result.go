package model

// MatchedRow pairs a target row with the anchor assigned to it.
type MatchedRow struct {
	Row    int
	Anchor *ImageAnchor
}

// ReconciliationResult is the outcome of the strict row mapping for one
// extraction request. It is created fresh per request and never persisted.
type ReconciliationResult struct {
	// Strategy is the name of the extractor whose anchors were used.
	Strategy string

	// Matched pairs, in ascending row order.
	Matched []MatchedRow

	// MissingRows are target rows the chosen strategy had no anchor for.
	MissingRows []int

	// ExtraAnchorRows are anchor rows outside the target-row set. They are
	// diagnostic only and are never reassigned to a different row.
	ExtraAnchorRows []int

	// DuplicateRows are rows for which more than one anchor was produced.
	// The first anchor wins; the rest are reported here.
	DuplicateRows []int
}

// MatchedRows returns the rows of all matched pairs in order.
func (r *ReconciliationResult) MatchedRows() []int {
	rows := make([]int, 0, len(r.Matched))
	for _, m := range r.Matched {
		rows = append(rows, m.Row)
	}
	return rows
}

// Complete reports whether every target row received an anchor.
func (r *ReconciliationResult) Complete() bool {
	return len(r.Matched) > 0 && len(r.MissingRows) == 0
}
