package sheet

import "testing"

func TestSafeName(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"VND-001", "VND-001"},
		{"VND 001/A", "VND_001_A"},
		{"  spaced  ", "spaced"},
		{"__trim.me__", "trim.me"},
		{"***", "Image"},
		{"", "Image"},
		{"ＶＮＤ００１", "VND001"}, // fullwidth compatibility forms
		{"code#1?", "code_1"},
	}

	for _, tt := range tests {
		result := SafeName(tt.in)
		if result != tt.expected {
			t.Errorf("SafeName(%q) = %q, expected %q", tt.in, result, tt.expected)
		}
	}
}

func TestSafeFolderName(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"Catalog 2024", "Catalog 2024"},
		{"a/b\\c", "a_b_c"},
		{"", "Excel_Images"},
		{"\x00\x01", "Excel_Images"},
	}

	for _, tt := range tests {
		result := SafeFolderName(tt.in)
		if result != tt.expected {
			t.Errorf("SafeFolderName(%q) = %q, expected %q", tt.in, result, tt.expected)
		}
	}
}

func TestNameSetClaim(t *testing.T) {
	names := NewNameSet()

	got := []string{
		names.Claim("VND-001", "png"),
		names.Claim("VND-001", "png"),
		names.Claim("VND-001", "png"),
		names.Claim("VND-001", "jpg"),
		names.Claim("VND-002", "png"),
	}
	expected := []string{
		"VND-001.png",
		"VND-001_2.png",
		"VND-001_3.png",
		"VND-001.jpg",
		"VND-002.png",
	}

	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("Claim #%d = %s, expected %s", i+1, got[i], expected[i])
		}
	}
}
