package opc

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"
)

// buildContainer assembles an in-memory zip from name -> content pairs
func buildContainer(t *testing.T, parts map[string]string) []byte {
	t.Helper()

	buf := &bytes.Buffer{}
	w := zip.NewWriter(buf)
	for name, content := range parts {
		pw, err := w.Create(name)
		if err != nil {
			t.Fatalf("Failed to add part %s: %v", name, err)
		}
		if _, err := pw.Write([]byte(content)); err != nil {
			t.Fatalf("Failed to write part %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close zip: %v", err)
	}
	return buf.Bytes()
}

const testWorkbookXML = `<?xml version="1.0"?>
<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"
          xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
  <sheets>
    <sheet name="Catalog" sheetId="1" r:id="rId1"/>
    <sheet name="Archive" sheetId="2" r:id="rId2"/>
  </sheets>
</workbook>`

const testWorkbookRels = `<?xml version="1.0"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet1.xml"/>
  <Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="/xl/worksheets/sheet2.xml"/>
</Relationships>`

func testContainer(t *testing.T) *Package {
	data := buildContainer(t, map[string]string{
		"xl/workbook.xml":            testWorkbookXML,
		"xl/_rels/workbook.xml.rels": testWorkbookRels,
		"xl/worksheets/sheet1.xml":   `<worksheet/>`,
		"xl/worksheets/sheet2.xml":   `<worksheet/>`,
		"xl/media/image1.png":        "png-bytes",
	})
	pkg, err := Open(data)
	if err != nil {
		t.Fatalf("Failed to open container: %v", err)
	}
	return pkg
}

func TestOpenMalformedContainer(t *testing.T) {
	if _, err := Open([]byte("this is not a zip archive")); err == nil {
		t.Error("Expected error for malformed container")
	}
}

func TestReadPart(t *testing.T) {
	pkg := testContainer(t)

	data, err := pkg.ReadPart("xl/media/image1.png")
	if err != nil {
		t.Fatalf("ReadPart failed: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("ReadPart content = %q, expected %q", data, "png-bytes")
	}

	// Leading slash and backslashes normalize onto the same part
	if _, err := pkg.ReadPart("/xl/media/image1.png"); err != nil {
		t.Errorf("ReadPart with leading slash failed: %v", err)
	}
	if !pkg.Has(`xl\media\image1.png`) {
		t.Error("Has should accept backslash-separated paths")
	}
}

func TestReadPartNotFound(t *testing.T) {
	pkg := testContainer(t)

	_, err := pkg.ReadPart("xl/media/missing.png")
	if !errors.Is(err, ErrPartNotFound) {
		t.Errorf("Expected ErrPartNotFound, got %v", err)
	}

	var partErr *PartError
	if !errors.As(err, &partErr) {
		t.Fatalf("Expected a PartError, got %T", err)
	}
	if partErr.Part != "xl/media/missing.png" {
		t.Errorf("PartError.Part = %s, expected xl/media/missing.png", partErr.Part)
	}
}

func TestRelationships(t *testing.T) {
	pkg := testContainer(t)

	rels, err := pkg.Relationships("xl/workbook.xml")
	if err != nil {
		t.Fatalf("Relationships failed: %v", err)
	}
	if len(rels) != 2 {
		t.Fatalf("Relationships count = %d, expected 2", len(rels))
	}
	if rels[0].ID != "rId1" || rels[0].Target != "worksheets/sheet1.xml" {
		t.Errorf("First relationship = %+v, expected rId1 -> worksheets/sheet1.xml", rels[0])
	}
}

func TestRelationshipsMissingCompanion(t *testing.T) {
	pkg := testContainer(t)

	// A part without a companion .rels is normal, not an error
	rels, err := pkg.Relationships("xl/worksheets/sheet1.xml")
	if err != nil {
		t.Errorf("Expected no error for missing companion, got %v", err)
	}
	if len(rels) != 0 {
		t.Errorf("Expected empty relationships, got %d", len(rels))
	}
}

func TestRelationshipsMalformed(t *testing.T) {
	data := buildContainer(t, map[string]string{
		"xl/workbook.xml":            `<workbook/>`,
		"xl/_rels/workbook.xml.rels": `<Relationships><Relationship`,
	})
	pkg, err := Open(data)
	if err != nil {
		t.Fatalf("Failed to open container: %v", err)
	}

	if _, err := pkg.Relationships("xl/workbook.xml"); err == nil {
		t.Error("Expected error for malformed relationships XML")
	}
}

func TestRelsPath(t *testing.T) {
	tests := []struct {
		part     string
		expected string
	}{
		{"xl/workbook.xml", "xl/_rels/workbook.xml.rels"},
		{"xl/worksheets/sheet1.xml", "xl/worksheets/_rels/sheet1.xml.rels"},
		{"content.xml", "_rels/content.xml.rels"},
	}

	for _, tt := range tests {
		result := RelsPath(tt.part)
		if result != tt.expected {
			t.Errorf("RelsPath(%s) = %s, expected %s", tt.part, result, tt.expected)
		}
	}
}

func TestResolveTarget(t *testing.T) {
	tests := []struct {
		base     string
		target   string
		expected string
	}{
		// Relative targets resolve against the source part's directory
		{"xl/workbook.xml", "worksheets/sheet1.xml", "xl/worksheets/sheet1.xml"},
		{"xl/worksheets/sheet1.xml", "../drawings/drawing1.xml", "xl/drawings/drawing1.xml"},
		{"xl/drawings/drawing1.xml", "../media/image1.png", "xl/media/image1.png"},
		// Leading slash means package-root-relative
		{"xl/workbook.xml", "/xl/media/image1.png", "xl/media/image1.png"},
		// Backslashes are normalized
		{"xl/workbook.xml", `worksheets\sheet1.xml`, "xl/worksheets/sheet1.xml"},
		// Dot segments collapse
		{"xl/workbook.xml", "./worksheets/./sheet1.xml", "xl/worksheets/sheet1.xml"},
		{"xl/workbook.xml", "", ""},
	}

	for _, tt := range tests {
		result := ResolveTarget(tt.base, tt.target)
		if result != tt.expected {
			t.Errorf("ResolveTarget(%s, %s) = %s, expected %s", tt.base, tt.target, result, tt.expected)
		}
	}
}

func TestSheetNames(t *testing.T) {
	pkg := testContainer(t)

	names, err := pkg.SheetNames()
	if err != nil {
		t.Fatalf("SheetNames failed: %v", err)
	}
	if len(names) != 2 || names[0] != "Catalog" || names[1] != "Archive" {
		t.Errorf("SheetNames = %v, expected [Catalog Archive]", names)
	}
}

func TestSheetPath(t *testing.T) {
	pkg := testContainer(t)

	tests := []struct {
		sheet    string
		expected string
	}{
		{"Catalog", "xl/worksheets/sheet1.xml"},
		// Root-relative target resolves the same way
		{"Archive", "xl/worksheets/sheet2.xml"},
	}

	for _, tt := range tests {
		result, err := pkg.SheetPath(tt.sheet)
		if err != nil {
			t.Fatalf("SheetPath(%s) failed: %v", tt.sheet, err)
		}
		if result != tt.expected {
			t.Errorf("SheetPath(%s) = %s, expected %s", tt.sheet, result, tt.expected)
		}
	}
}

func TestSheetPathUnknownSheet(t *testing.T) {
	pkg := testContainer(t)

	_, err := pkg.SheetPath("Nope")
	if !errors.Is(err, ErrSheetNotFound) {
		t.Errorf("Expected ErrSheetNotFound, got %v", err)
	}
}

func TestFindTargetByType(t *testing.T) {
	pkg := testContainer(t)

	target, ok, err := pkg.FindTargetByType("xl/workbook.xml", "WORKSHEET")
	if err != nil {
		t.Fatalf("FindTargetByType failed: %v", err)
	}
	if !ok {
		t.Fatal("Expected a worksheet-typed relationship")
	}
	if target != "xl/worksheets/sheet1.xml" {
		t.Errorf("FindTargetByType target = %s, expected xl/worksheets/sheet1.xml", target)
	}

	_, ok, err = pkg.FindTargetByType("xl/workbook.xml", "cellimages")
	if err != nil {
		t.Fatalf("FindTargetByType failed: %v", err)
	}
	if ok {
		t.Error("Did not expect a cellimages relationship")
	}
}
