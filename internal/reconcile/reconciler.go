package reconcile

import (
	"errors"
	"sort"

	"img-recon/internal/model"
)

// ErrNoRowsMatched is the terminal failure for a request in which no target
// row received an image.
var ErrNoRowsMatched = errors.New("no target rows matched any image")

// Reconcile builds the strict same-row mapping between target rows and the
// chosen strategy's anchors. No nearest-row or offset heuristics: an anchor
// either sits exactly on a target row or it is reported as extra.
//
// When the chosen strategy produced zero row-bearing anchors, the
// positionless media list is mapped to target rows in ascending order, but
// only under exact count equality. Count correspondence is the sole evidence
// available there and is trusted only when it is unambiguous.
func Reconcile(targetRows []int, strategy string, anchors, media []*model.ImageAnchor) *model.ReconciliationResult {
	res := &model.ReconciliationResult{Strategy: strategy}

	targets := append([]int(nil), targetRows...)
	sort.Ints(targets)

	targetSet := make(map[int]bool, len(targets))
	for _, row := range targets {
		targetSet[row] = true
	}

	// Insert-if-absent: first anchor per row wins, later ones are recorded
	// as anomalies. Overwriting would make the result order-dependent.
	rowIndex := make(map[int]*model.ImageAnchor)
	dupSeen := make(map[int]bool)
	extraSeen := make(map[int]bool)
	for _, a := range anchors {
		if !a.HasRow() {
			continue
		}
		row := *a.Row
		if _, taken := rowIndex[row]; taken {
			if !dupSeen[row] {
				dupSeen[row] = true
				res.DuplicateRows = append(res.DuplicateRows, row)
			}
			continue
		}
		rowIndex[row] = a
		if !targetSet[row] && !extraSeen[row] {
			extraSeen[row] = true
			res.ExtraAnchorRows = append(res.ExtraAnchorRows, row)
		}
	}
	sort.Ints(res.DuplicateRows)
	sort.Ints(res.ExtraAnchorRows)

	if len(rowIndex) > 0 {
		for _, row := range targets {
			if a, ok := rowIndex[row]; ok {
				res.Matched = append(res.Matched, model.MatchedRow{Row: row, Anchor: a})
			} else {
				res.MissingRows = append(res.MissingRows, row)
			}
		}
		return res
	}

	// Positional fallback: exact count equality only, never "close enough".
	if len(media) > 0 && len(media) == len(targets) {
		for i, row := range targets {
			res.Matched = append(res.Matched, model.MatchedRow{Row: row, Anchor: media[i]})
		}
		return res
	}

	res.MissingRows = append(res.MissingRows, targets...)
	return res
}
