package extract

import (
	"sort"
)

// EMU (English Metric Unit) conversion constants used by drawing geometry.
const (
	EMUPerInch  = 914400
	EMUPerPoint = 12700
)

// HeightTable maps vertical EMU offsets to 1-based row indexes via a
// monotonic prefix sum over per-row heights, binary-searchable so absolute
// anchors stay cheap on worksheets with thousands of rows.
type HeightTable struct {
	prefix     []int64
	defaultEMU int64
}

// NewHeightTable builds the table from per-row heights in points (index 0 is
// row 1). Rows beyond the table extend by the default height.
func NewHeightTable(heightsPoints []float64, defaultPoints float64) *HeightTable {
	if defaultPoints <= 0 {
		defaultPoints = 15
	}
	t := &HeightTable{
		prefix:     make([]int64, len(heightsPoints)),
		defaultEMU: int64(defaultPoints * EMUPerPoint),
	}
	var sum int64
	for i, h := range heightsPoints {
		if h <= 0 {
			h = defaultPoints
		}
		sum += int64(h * EMUPerPoint)
		t.prefix[i] = sum
	}
	return t
}

// RowForOffset returns the row whose vertical band contains yEMU: the first
// row whose cumulative height exceeds the offset.
func (t *HeightTable) RowForOffset(yEMU int64) int {
	if yEMU < 0 {
		return 1
	}

	idx := sort.Search(len(t.prefix), func(i int) bool {
		return t.prefix[i] > yEMU
	})
	if idx < len(t.prefix) {
		return idx + 1
	}

	// Past the explicit table: extrapolate with the default row height.
	var covered int64
	if len(t.prefix) > 0 {
		covered = t.prefix[len(t.prefix)-1]
	}
	extra := (yEMU - covered) / t.defaultEMU
	return len(t.prefix) + int(extra) + 1
}
