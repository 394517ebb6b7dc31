package sheet

import (
	"reflect"
	"testing"

	"img-recon/internal/model"
)

func TestRowCode(t *testing.T) {
	s := buildSheet(t, map[string]string{
		"D2": "VND 001/A",
		"F2": "M-100",
		"F3": "M-200",
		"D4": "Vendor Material #", // header echo inside the data area
		"F4": "M-300",
	})

	layout := model.Layout{VendorCol: 4, MaterialCol: 6, StartRow: 2}

	tests := []struct {
		row      int
		code     string
		source   model.CodeSource
	}{
		{2, "VND_001_A", model.CodeSourceVendor},
		{3, "MAT_M-200", model.CodeSourceMaterial},
		{4, "MAT_M-300", model.CodeSourceMaterial}, // header echo falls through to material
		{5, "", ""},
	}

	for _, tt := range tests {
		code, source := RowCode(s, tt.row, layout)
		if code != tt.code || source != tt.source {
			t.Errorf("RowCode(row %d) = (%q, %q), expected (%q, %q)",
				tt.row, code, source, tt.code, tt.source)
		}
	}
}

func TestRowCodeWithoutMaterialColumn(t *testing.T) {
	s := buildSheet(t, map[string]string{
		"F3": "M-200",
	})

	layout := model.Layout{VendorCol: 4, MaterialCol: 0, StartRow: 2}

	code, source := RowCode(s, 3, layout)
	if code != "" || source != "" {
		t.Errorf("RowCode without material column = (%q, %q), expected empty", code, source)
	}
}

func TestTargetRows(t *testing.T) {
	s := buildSheet(t, map[string]string{
		"B2": "image", // hint only, no code
		"D3": "VND-001",
		"F4": "M-100",
		"D6": "VND-002",
	})

	layout := model.Layout{ImageCol: 2, VendorCol: 4, MaterialCol: 6, StartRow: 2}

	rows := TargetRows(s, layout, 10000)
	expected := []int{2, 3, 4, 6}
	if !reflect.DeepEqual(rows, expected) {
		t.Errorf("TargetRows = %v, expected %v", rows, expected)
	}
}

func TestTargetRowsRespectsStartRow(t *testing.T) {
	s := buildSheet(t, map[string]string{
		"D2": "VND-001", // above the data area
		"D5": "VND-002",
	})

	layout := model.Layout{ImageCol: 2, VendorCol: 4, StartRow: 4}

	rows := TargetRows(s, layout, 10000)
	expected := []int{5}
	if !reflect.DeepEqual(rows, expected) {
		t.Errorf("TargetRows = %v, expected %v", rows, expected)
	}
}

func TestTargetRowsScanCeiling(t *testing.T) {
	s := buildSheet(t, map[string]string{
		"D2": "VND-001",
		"D3": "VND-002",
		"D9": "VND-009",
	})

	layout := model.Layout{ImageCol: 2, VendorCol: 4, StartRow: 2}

	rows := TargetRows(s, layout, 3) // rows 2..4 only
	expected := []int{2, 3}
	if !reflect.DeepEqual(rows, expected) {
		t.Errorf("TargetRows = %v, expected %v", rows, expected)
	}
}

func TestTargetRowsRawValueFallback(t *testing.T) {
	// Every vendor value echoes the header label, so the strict pass finds
	// nothing and the raw-value pass takes over
	s := buildSheet(t, map[string]string{
		"D2": "Vendor Material #",
		"D3": "Vendor Material #",
	})

	layout := model.Layout{ImageCol: 2, VendorCol: 4, StartRow: 2}

	rows := TargetRows(s, layout, 10000)
	expected := []int{2, 3}
	if !reflect.DeepEqual(rows, expected) {
		t.Errorf("TargetRows = %v, expected %v", rows, expected)
	}
}
