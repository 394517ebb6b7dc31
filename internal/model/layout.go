package model

// Layout holds the detected worksheet column roles and the first data row.
// Columns and rows are 1-based. MaterialCol is 0 when no material column
// was found; the other columns always resolve to something usable.
// A Layout is computed once per extraction request and never mutated.
type Layout struct {
	ImageCol    int
	VendorCol   int
	MaterialCol int
	StartRow    int

	// Header positions that drove the detection, 0 when not found.
	ImageHeaderRow    int
	VendorHeaderRow   int
	MaterialHeaderRow int
}

// HasMaterialCol reports whether a material fallback column was detected.
func (l Layout) HasMaterialCol() bool {
	return l.MaterialCol > 0
}
