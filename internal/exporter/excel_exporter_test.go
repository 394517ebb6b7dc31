package exporter

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestExcelExport(t *testing.T) {
	report := testReport()
	cfg := testConfig(t)

	if err := NewExcelExporter().Export(report, cfg); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	f, err := excelize.OpenFile(cfg.OutputPath("catalog.xlsx", ".xlsx"))
	if err != nil {
		t.Fatalf("Failed to reopen report workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "Overview" || sheets[1] != "Row Detail" {
		t.Fatalf("Sheets = %v, expected [Overview, Row Detail]", sheets)
	}

	// Overview carries the chosen strategy
	found := false
	rows, err := f.GetRows("Overview")
	if err != nil {
		t.Fatalf("Failed to read Overview: %v", err)
	}
	for _, row := range rows {
		if len(row) >= 2 && row[0] == "Chosen Strategy" && row[1] == "drawing-anchor_image_col" {
			found = true
		}
	}
	if !found {
		t.Error("Overview missing the chosen strategy row")
	}

	// Row Detail lists every target row plus the extra anchor
	detail, err := f.GetRows("Row Detail")
	if err != nil {
		t.Fatalf("Failed to read Row Detail: %v", err)
	}
	// header + rows 2,3,4 + extra row 9
	if len(detail) != 5 {
		t.Fatalf("Row Detail rows = %d, expected 5", len(detail))
	}

	statusOf := make(map[string]string)
	for _, row := range detail[1:] {
		if len(row) >= 2 {
			statusOf[row[0]] = row[1]
		}
	}
	if statusOf["2"] != "matched" || statusOf["3"] != "matched" {
		t.Errorf("Rows 2/3 status = %v, expected matched", statusOf)
	}
	if statusOf["4"] != "missing" {
		t.Errorf("Row 4 status = %s, expected missing", statusOf["4"])
	}
	if statusOf["9"] != "extra anchor" {
		t.Errorf("Row 9 status = %s, expected extra anchor", statusOf["9"])
	}
}
