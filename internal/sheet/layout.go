package sheet

import (
	"strings"

	"img-recon/internal/model"
)

// DetectOptions bounds the layout scans. Spreadsheets authored by hand vary
// wildly in header phrasing and position, so header matching is forgiving;
// the scan windows are not, to keep cost bounded on huge sheets.
type DetectOptions struct {
	HeaderScanRows   int
	HeaderScanCols   int
	MaxDataRows      int
	VendorCandidates []int
}

// DefaultDetectOptions returns the scan ceilings used when the config does
// not override them.
func DefaultDetectOptions() DetectOptions {
	return DetectOptions{
		HeaderScanRows:   60,
		HeaderScanCols:   40,
		MaxDataRows:      10000,
		VendorCandidates: []int{4, 2, 3, 1},
	}
}

func (o DetectOptions) sanitized() DetectOptions {
	def := DefaultDetectOptions()
	if o.HeaderScanRows <= 0 {
		o.HeaderScanRows = def.HeaderScanRows
	}
	if o.HeaderScanCols <= 0 {
		o.HeaderScanCols = def.HeaderScanCols
	}
	if o.MaxDataRows <= 0 {
		o.MaxDataRows = def.MaxDataRows
	}
	if len(o.VendorCandidates) == 0 {
		o.VendorCandidates = def.VendorCandidates
	}
	return o
}

// DetectLayout fixes the image, vendor and (optional) material columns plus
// the first data row. Header text matching is tolerant, but the resulting
// StartRow is committed to as-is: a wrong start row silently shifts every row
// mapping downstream, so the default of 2 applies only when no header row at
// all was found.
func DetectLayout(s *Sheet, opts DetectOptions) model.Layout {
	opts = opts.sanitized()

	maxRow := minInt(s.MaxRow(), opts.HeaderScanRows)
	maxCol := minInt(s.MaxCol(), opts.HeaderScanCols)

	var imageRow, imageCol int
	var vendorRow, vendorCol int
	var materialRow, materialCol int

	for row := 1; row <= maxRow; row++ {
		for col := 1; col <= maxCol; col++ {
			label := normalizeLabel(s.Cell(row, col))
			if label == "" {
				continue
			}
			if imageCol == 0 && isImageHeaderLabel(label) {
				imageRow, imageCol = row, col
			}
			if vendorCol == 0 && isVendorHeaderLabel(label) {
				vendorRow, vendorCol = row, col
			}
			if materialCol == 0 && isMaterialHeaderLabel(label) {
				materialRow, materialCol = row, col
			}
		}
	}

	if imageCol == 0 {
		imageCol = 1
	}
	if vendorCol == 0 {
		vendorCol = detectVendorColumn(s, opts)
	}
	if materialCol == 0 {
		materialCol = detectMaterialColumn(s, vendorCol)
	}

	startRow := 2
	if lastHeader := maxInt(imageRow, maxInt(vendorRow, materialRow)); lastHeader > 0 {
		startRow = lastHeader + 1
	}

	return model.Layout{
		ImageCol:          imageCol,
		VendorCol:         vendorCol,
		MaterialCol:       materialCol,
		StartRow:          startRow,
		ImageHeaderRow:    imageRow,
		VendorHeaderRow:   vendorRow,
		MaterialHeaderRow: materialRow,
	}
}

// detectVendorColumn falls back to the candidate column with the highest
// count of non-empty values when no vendor header was found. The candidate
// set is small and the row scan capped, never an unbounded sweep.
func detectVendorColumn(s *Sheet, opts DetectOptions) int {
	maxRow := minInt(s.MaxRow(), opts.MaxDataRows)
	maxCol := s.MaxCol()

	// A softer header pass first: any cell mentioning vendor, or material
	// without "original", marks its column as a candidate.
	headerRows := minInt(s.MaxRow(), opts.HeaderScanRows)
	headerCols := minInt(maxCol, opts.HeaderScanCols)
	for row := 1; row <= headerRows; row++ {
		for col := 1; col <= headerCols; col++ {
			label := normalizeLabel(s.Cell(row, col))
			if label == "" {
				continue
			}
			if strings.Contains(label, "vendor") ||
				(strings.Contains(label, "material") && !strings.Contains(label, "original")) {
				return col
			}
		}
	}

	bestCol := opts.VendorCandidates[0]
	bestScore := -1
	for _, col := range opts.VendorCandidates {
		if col > maxCol {
			continue
		}
		score := 0
		for row := 2; row <= maxRow; row++ {
			if s.Cell(row, col) != "" {
				score++
			}
		}
		if score > bestScore {
			bestCol = col
			bestScore = score
		}
	}
	return bestCol
}

// detectMaterialColumn returns 0 when no material column is plausible.
// Common layout puts the vendor code in D and the original material in F,
// hence the vendor+2 fallback.
func detectMaterialColumn(s *Sheet, vendorCol int) int {
	if vendorCol > 0 && vendorCol+2 <= s.MaxCol() {
		return vendorCol + 2
	}
	return 0
}

func normalizeLabel(value string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(value))), " ")
}

func isImageHeaderLabel(label string) bool {
	return strings.Contains(label, "image") ||
		strings.Contains(label, "picture") ||
		strings.Contains(label, "photo")
}

func isVendorHeaderLabel(label string) bool {
	return strings.Contains(label, "vendor") && strings.Contains(label, "material")
}

func isMaterialHeaderLabel(label string) bool {
	if strings.Contains(label, "vendor") {
		return false
	}
	return strings.Contains(label, "original material") ||
		strings.HasPrefix(label, "material") ||
		strings.Contains(label, "material #")
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
