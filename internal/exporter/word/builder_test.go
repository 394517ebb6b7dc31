package word

import (
	"archive/zip"
	"io"
	"strings"
	"testing"
	"time"

	"img-recon/internal/config"
	"img-recon/internal/model"
)

func intPtr(n int) *int { return &n }

func testReport() *model.ExtractionReport {
	anchor := &model.ImageAnchor{Row: intPtr(2), Col: intPtr(2), Format: model.FormatPNG, Data: []byte("png-2"), SourceTag: "drawing:1"}

	return &model.ExtractionReport{
		WorkbookName:    "catalog.xlsx",
		SheetName:       "Sheet1",
		GeneratedAt:     time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Layout:          model.Layout{ImageCol: 2, VendorCol: 4, StartRow: 2},
		TargetRows:      []int{2, 3},
		StrategyVariant: "drawing-anchor_image_col",
		Reconciliation: &model.ReconciliationResult{
			Strategy:        "drawing-anchor",
			Matched:         []model.MatchedRow{{Row: 2, Anchor: anchor}},
			MissingRows:     []int{3},
			ExtraAnchorRows: []int{9},
		},
		Images: []model.NamedImage{
			{Row: 2, Code: "VND-001", CodeSource: model.CodeSourceVendor, Format: model.FormatPNG, Data: []byte("png-2")},
		},
	}
}

// documentXML pulls word/document.xml out of a generated docx
func documentXML(t *testing.T, path string) string {
	t.Helper()

	r, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("Failed to open docx %s: %v", path, err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("Failed to open document part: %v", err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("Failed to read document part: %v", err)
		}
		return string(data)
	}
	t.Fatal("docx has no word/document.xml part")
	return ""
}

func TestWordExport(t *testing.T) {
	report := testReport()
	cfg := &config.Config{
		Output: config.OutputConfig{Dir: t.TempDir()},
	}

	if err := NewWordExporter().Export(report, cfg); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	doc := documentXML(t, cfg.OutputPath("catalog.xlsx", ".docx"))

	for _, want := range []string{
		"catalog.xlsx",
		"drawing-anchor_image_col",
		"VND-001",
		"missing",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("Document missing %q", want)
		}
	}

	// Placeholders must all be resolved
	if strings.Contains(doc, "{{") {
		t.Error("Document still contains unresolved placeholders")
	}
}

func TestWriteTemplate(t *testing.T) {
	path := t.TempDir() + "/template.docx"
	if err := writeTemplate(path); err != nil {
		t.Fatalf("writeTemplate failed: %v", err)
	}

	doc := documentXML(t, path)
	for _, placeholder := range []string{"{{Workbook}}", "{{Date}}", "{{Content}}"} {
		if !strings.Contains(doc, placeholder) {
			t.Errorf("Template missing placeholder %s", placeholder)
		}
	}
}
