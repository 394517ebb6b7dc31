package sheet

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sheet is a bounded, read-only view of one worksheet. Cell addressing is
// 1-based in both dimensions. The full cell window is materialized once so
// every later scan is in-memory.
type Sheet struct {
	file  *excelize.File
	name  string
	cells [][]string
}

// OpenWorkbook opens a workbook from raw container bytes.
func OpenWorkbook(data []byte) (*excelize.File, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	return f, nil
}

// New loads the named worksheet. The name must match a declared sheet.
func New(f *excelize.File, name string) (*Sheet, error) {
	idx, err := f.GetSheetIndex(name)
	if err != nil || idx == -1 {
		return nil, fmt.Errorf("sheet %q not found in workbook", name)
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
	}

	return &Sheet{file: f, name: name, cells: rows}, nil
}

// Name returns the worksheet name.
func (s *Sheet) Name() string {
	return s.name
}

// Cell returns the trimmed cell value at (row, col), or "" when the address
// lies outside the populated area.
func (s *Sheet) Cell(row, col int) string {
	if row < 1 || col < 1 || row > len(s.cells) {
		return ""
	}
	r := s.cells[row-1]
	if col > len(r) {
		return ""
	}
	return strings.TrimSpace(r[col-1])
}

// MaxRow returns the last populated row index, at least 1.
func (s *Sheet) MaxRow() int {
	if len(s.cells) == 0 {
		return 1
	}
	return len(s.cells)
}

// MaxCol returns the widest populated column index, at least 1.
func (s *Sheet) MaxCol() int {
	maxCol := 1
	for _, r := range s.cells {
		if len(r) > maxCol {
			maxCol = len(r)
		}
	}
	return maxCol
}

// RowHeights returns per-row heights in points for rows 1..maxRow. Rows
// without an explicit height carry the sheet default, which is what the
// geometry inference needs for cumulative offsets.
func (s *Sheet) RowHeights(maxRow int) []float64 {
	def := s.DefaultRowHeight()
	heights := make([]float64, maxRow)
	for i := 1; i <= maxRow; i++ {
		h, err := s.file.GetRowHeight(s.name, i)
		if err != nil || h <= 0 {
			h = def
		}
		heights[i-1] = h
	}
	return heights
}

// DefaultRowHeight returns the sheet default row height in points.
func (s *Sheet) DefaultRowHeight() float64 {
	props, err := s.file.GetSheetProps(s.name)
	if err == nil && props.DefaultRowHeight != nil && *props.DefaultRowHeight > 0 {
		return *props.DefaultRowHeight
	}
	return 15
}
