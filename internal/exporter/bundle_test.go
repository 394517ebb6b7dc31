package exporter

import (
	"archive/zip"
	"io"
	"strings"
	"testing"
)

func readBundle(t *testing.T, path string) map[string]string {
	t.Helper()

	r, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("Failed to open bundle %s: %v", path, err)
	}
	defer r.Close()

	entries := make(map[string]string)
	for _, f := range r.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("Failed to open entry %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("Failed to read entry %s: %v", f.Name, err)
		}
		entries[f.Name] = string(data)
	}
	return entries
}

func TestBundleExport(t *testing.T) {
	report := testReport()
	cfg := testConfig(t)

	if err := NewBundleExporter().Export(report, cfg); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	entries := readBundle(t, cfg.OutputPath("catalog.xlsx", ".zip"))

	// Two images sharing a code get unique names, plus the summary
	if len(entries) != 3 {
		t.Fatalf("Entry count = %d, expected 3: %v", len(entries), keysOf(entries))
	}

	if entries["catalog/VND-001.png"] != "png-2" {
		t.Errorf("First image entry missing or wrong: %v", keysOf(entries))
	}
	if entries["catalog/VND-001_2.png"] != "png-3" {
		t.Errorf("Second image entry missing or wrong: %v", keysOf(entries))
	}

	summary, ok := entries["catalog/summary.txt"]
	if !ok {
		t.Fatalf("Summary entry missing: %v", keysOf(entries))
	}
	for _, want := range []string{
		"Workbook file: catalog.xlsx",
		"Chosen strategy: drawing-anchor_image_col",
		"Missing rows: 4",
		"Extra anchor rows: 9",
		"Row 4: no image anchor found.",
	} {
		if !strings.Contains(summary, want) {
			t.Errorf("Summary missing %q", want)
		}
	}
}

func TestBundleExportFolderOverride(t *testing.T) {
	report := testReport()
	cfg := testConfig(t)
	cfg.Output.FolderName = "Custom Folder"

	if err := NewBundleExporter().Export(report, cfg); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	entries := readBundle(t, cfg.OutputPath("catalog.xlsx", ".zip"))
	if _, ok := entries["Custom Folder/summary.txt"]; !ok {
		t.Errorf("Expected entries under the overridden folder, got %v", keysOf(entries))
	}
}

func keysOf(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
