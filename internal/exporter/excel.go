package exporter

import (
	"fmt"
	"time"

	"img-recon/internal/config"
	"img-recon/internal/model"

	"github.com/xuri/excelize/v2"
)

// ExcelExporter handles the Excel diagnostics report generation
type ExcelExporter struct {
	// Stateless
}

// NewExcelExporter creates a new ExcelExporter
func NewExcelExporter() *ExcelExporter {
	return &ExcelExporter{}
}

// Export generates the Excel report
func (e *ExcelExporter) Export(report *model.ExtractionReport, cfg *config.Config) error {
	outputFile := cfg.OutputPath(report.WorkbookName, ".xlsx")
	f := excelize.NewFile()
	styler, err := NewStyler(f)
	if err != nil {
		return err
	}

	// 1. Create Overview Sheet
	if err := e.writeOverview(f, styler, report); err != nil {
		return err
	}

	// 2. Create Row Detail Sheet
	if err := e.writeRowDetail(f, styler, report); err != nil {
		return err
	}

	// Remove default "Sheet1"
	if idx, err := f.GetSheetIndex("Sheet1"); err == nil && idx != -1 {
		f.DeleteSheet("Sheet1")
	}

	// Save
	if err := f.SaveAs(outputFile); err != nil {
		return err
	}

	return nil
}

// --- Overview Sheet Logic ---

func (e *ExcelExporter) writeOverview(f *excelize.File, s *Styler, report *model.ExtractionReport) error {
	sheet := "Overview"
	f.NewSheet(sheet)

	rec := report.Reconciliation

	// Section A: Extraction Summary
	headers := []string{"Metric", "Value"}

	row := 1
	e.writeRow(f, sheet, row, headers, s.HeaderStyle)
	row++

	materialCol := "none"
	if report.Layout.HasMaterialCol() {
		materialCol = fmt.Sprintf("%d", report.Layout.MaterialCol)
	}

	metrics := []struct {
		Key string
		Val interface{}
	}{
		{"Workbook", report.WorkbookName},
		{"Sheet", report.SheetName},
		{"Generated At", report.GeneratedAt.UTC().Format(time.RFC3339)},
		{"Chosen Strategy", report.StrategyVariant},
		{"Image Column", report.Layout.ImageCol},
		{"Vendor Column", report.Layout.VendorCol},
		{"Material Column", materialCol},
		{"Data Start Row", report.Layout.StartRow},
		{"Target Rows", len(report.TargetRows)},
		{"Matched Rows", len(rec.Matched)},
		{"Missing Rows", len(rec.MissingRows)},
		{"Extra Anchor Rows", len(rec.ExtraAnchorRows)},
		{"Duplicate Anchor Rows", len(rec.DuplicateRows)},
	}

	for _, m := range metrics {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), m.Key)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), m.Val)
		row++
	}

	row += 2 // Spacer

	// Section B: Per-Strategy Anchor Counts
	headersB := []string{"Strategy", "Anchors"}
	e.writeRow(f, sheet, row, headersB, s.HeaderStyle)
	row++

	for _, sc := range report.StrategyCounts {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), sc.Name)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), sc.Anchors)
		row++
	}

	if len(report.Warnings) > 0 {
		row += 2

		headersC := []string{"Warnings"}
		e.writeRow(f, sheet, row, headersC, s.HeaderStyle)
		row++

		for _, w := range report.Warnings {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), w)
			row++
		}
	}

	// Adjust column widths
	f.SetColWidth(sheet, "A", "A", 25)
	f.SetColWidth(sheet, "B", "B", 50)

	return nil
}

// --- Row Detail Sheet Logic ---

func (e *ExcelExporter) writeRowDetail(f *excelize.File, s *Styler, report *model.ExtractionReport) error {
	sheet := "Row Detail"
	f.NewSheet(sheet)

	headers := []string{"Row", "Status", "Code", "Code Source", "Format", "Anchor Tag", "Size (bytes)"}
	e.writeRow(f, sheet, 1, headers, s.HeaderStyle)

	f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	rec := report.Reconciliation

	imageByRow := make(map[int]*model.NamedImage, len(report.Images))
	for i := range report.Images {
		imageByRow[report.Images[i].Row] = &report.Images[i]
	}
	anchorByRow := make(map[int]*model.ImageAnchor, len(rec.Matched))
	for _, m := range rec.Matched {
		anchorByRow[m.Row] = m.Anchor
	}
	duplicateRows := make(map[int]bool, len(rec.DuplicateRows))
	for _, r := range rec.DuplicateRows {
		duplicateRows[r] = true
	}

	row := 2

	// Target rows in sheet order, matched or missing
	for _, target := range report.TargetRows {
		img := imageByRow[target]
		anchor := anchorByRow[target]

		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), target)

		style := s.MissingStyle
		status := "missing"
		if img != nil {
			status = "matched"
			style = s.MatchedStyle
			if duplicateRows[target] {
				status = "matched (duplicates dropped)"
				style = s.DuplicateStyle
			}

			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), img.Code)
			f.SetCellValue(sheet, fmt.Sprintf("D%d", row), string(img.CodeSource))
			f.SetCellValue(sheet, fmt.Sprintf("E%d", row), string(img.Format))
			f.SetCellValue(sheet, fmt.Sprintf("G%d", row), len(img.Data))
		}
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), status)
		if anchor != nil {
			f.SetCellValue(sheet, fmt.Sprintf("F%d", row), anchor.SourceTag)
		}

		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("G%d", row), style)
		row++
	}

	// Anchors that landed outside the target set are listed after the data rows
	for _, extra := range rec.ExtraAnchorRows {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), extra)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), "extra anchor")
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("G%d", row), s.ExtraStyle)
		row++
	}

	// Auto width
	f.SetColWidth(sheet, "B", "B", 28)
	f.SetColWidth(sheet, "C", "C", 30)
	f.SetColWidth(sheet, "D", "E", 14)
	f.SetColWidth(sheet, "F", "F", 30)

	return nil
}

func (e *ExcelExporter) writeRow(f *excelize.File, sheet string, row int, values []string, style int) {
	for i, val := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheet, cell, val)
		f.SetCellStyle(sheet, cell, cell, style)
	}
}
