package sheet

import (
	"img-recon/internal/model"
)

// RowCode derives the identifier code for a data row: the vendor value when
// present, else MAT_<material>, else nothing. Values that merely echo a
// header label are rejected so stray repeated headers inside the data area
// never become file names.
func RowCode(s *Sheet, row int, layout model.Layout) (string, model.CodeSource) {
	if layout.VendorCol > 0 {
		vendor := s.Cell(row, layout.VendorCol)
		if vendor != "" && !isVendorHeaderLabel(normalizeLabel(vendor)) {
			return SafeName(vendor), model.CodeSourceVendor
		}
	}

	if layout.MaterialCol > 0 {
		material := s.Cell(row, layout.MaterialCol)
		if material != "" && !isMaterialHeaderLabel(normalizeLabel(material)) {
			return SafeName("MAT_" + material), model.CodeSourceMaterial
		}
	}

	return "", ""
}

// TargetRows returns the ordered set of data rows that require exactly one
// output image: rows at or past StartRow carrying a usable vendor/material
// code or an image-hint label in the image column. When that yields nothing,
// any row with a raw vendor or material value qualifies.
func TargetRows(s *Sheet, layout model.Layout, maxDataRows int) []int {
	maxRow := s.MaxRow()
	if maxDataRows > 0 && layout.StartRow+maxDataRows-1 < maxRow {
		maxRow = layout.StartRow + maxDataRows - 1
	}

	var rows []int
	for row := layout.StartRow; row <= maxRow; row++ {
		code, _ := RowCode(s, row, layout)
		hint := normalizeLabel(s.Cell(row, layout.ImageCol))
		hasImageHint := hint == "image" || hint == "picture" || hint == "photo"
		if code != "" || hasImageHint {
			rows = append(rows, row)
		}
	}
	if len(rows) > 0 {
		return rows
	}

	for row := layout.StartRow; row <= maxRow; row++ {
		hasVendor := layout.VendorCol > 0 && s.Cell(row, layout.VendorCol) != ""
		hasMaterial := layout.MaterialCol > 0 && s.Cell(row, layout.MaterialCol) != ""
		if hasVendor || hasMaterial {
			rows = append(rows, row)
		}
	}
	return rows
}
