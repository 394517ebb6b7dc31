package model

import (
	"fmt"
	"strings"
	"time"
)

// CodeSource says where a row identifier code came from.
type CodeSource string

const (
	CodeSourceVendor   CodeSource = "vendor"
	CodeSourceMaterial CodeSource = "material"
	CodeSourceRow      CodeSource = "row"
)

// NamedImage is one matched image ready for export: resolved bytes, the
// normalized format, and the identifier code derived from the row.
type NamedImage struct {
	Row        int
	Code       string
	CodeSource CodeSource
	Format     Format
	Data       []byte
}

// StrategyCount records how many anchors one extractor produced, whether or
// not its output was chosen.
type StrategyCount struct {
	Name    string
	Anchors int
}

// ExtractionReport is the full outcome of one extraction request: the
// detected layout, per-strategy diagnostics, the reconciliation result, and
// the resolved output images.
type ExtractionReport struct {
	WorkbookName string
	SheetName    string
	GeneratedAt  time.Time

	Layout         Layout
	TargetRows     []int
	StrategyCounts []StrategyCount

	// StrategyVariant qualifies the chosen strategy, e.g. whether drawing
	// anchors were narrowed to the detected image column.
	StrategyVariant string

	Reconciliation *ReconciliationResult
	Images         []NamedImage
	Warnings       []string
}

// SummaryLines renders the flat, human-readable diagnostics report consumed
// by the presentation exporters.
func (r *ExtractionReport) SummaryLines() []string {
	materialCol := "none"
	if r.Layout.HasMaterialCol() {
		materialCol = fmt.Sprintf("%d", r.Layout.MaterialCol)
	}

	lines := []string{
		"Excel Image Extraction Summary",
		"==============================",
		fmt.Sprintf("Generated at: %s", r.GeneratedAt.UTC().Format(time.RFC3339)),
		fmt.Sprintf("Workbook file: %s", r.WorkbookName),
		fmt.Sprintf("Sheet: %s", r.SheetName),
		fmt.Sprintf("Chosen strategy: %s", r.StrategyVariant),
		fmt.Sprintf("Detected image column: %d", r.Layout.ImageCol),
		fmt.Sprintf("Detected vendor column: %d", r.Layout.VendorCol),
		fmt.Sprintf("Detected material column: %s", materialCol),
		fmt.Sprintf("Data start row: %d", r.Layout.StartRow),
		fmt.Sprintf("Target rows: %d", len(r.TargetRows)),
	}

	for _, sc := range r.StrategyCounts {
		lines = append(lines, fmt.Sprintf("Anchors from %s: %d", sc.Name, sc.Anchors))
	}

	rec := r.Reconciliation
	lines = append(lines,
		fmt.Sprintf("Matched rows: %d", len(rec.Matched)),
		fmt.Sprintf("Missing rows: %s", formatRows(rec.MissingRows)),
		fmt.Sprintf("Extra anchor rows: %s", formatRows(rec.ExtraAnchorRows)),
		fmt.Sprintf("Duplicate anchor rows: %s", formatRows(rec.DuplicateRows)),
		"",
		"Rules:",
		"- Row mapping starts after detected header rows.",
		"- Preferred name is the vendor value from the detected vendor column.",
		"- If vendor is empty and a material value exists, the file uses MAT_<material>.",
		"- Rows without any anchor are reported, never guessed.",
		"",
	)

	if len(r.Warnings) > 0 {
		lines = append(lines, "Details:")
		for _, w := range r.Warnings {
			lines = append(lines, "- "+w)
		}
	}

	return lines
}

// SummaryText joins SummaryLines into the summary artifact body.
func (r *ExtractionReport) SummaryText() string {
	return strings.Join(r.SummaryLines(), "\n") + "\n"
}

func formatRows(rows []int) string {
	if len(rows) == 0 {
		return "none"
	}
	parts := make([]string, len(rows))
	for i, row := range rows {
		parts[i] = fmt.Sprintf("%d", row)
	}
	return strings.Join(parts, ", ")
}
