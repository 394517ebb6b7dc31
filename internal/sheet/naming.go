package sheet

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
var controlChars = regexp.MustCompile(`[\x00-\x1f]+`)

// SafeName sanitizes an arbitrary cell value into a portable file name stem.
// The value is Unicode-normalized first so composed and decomposed forms of
// the same vendor text sanitize identically.
func SafeName(value string) string {
	value = strings.TrimSpace(norm.NFKC.String(value))
	if value == "" {
		return "Image"
	}
	value = unsafeNameChars.ReplaceAllString(value, "_")
	value = strings.Trim(value, "._-")
	if value == "" {
		return "Image"
	}
	return value
}

// SafeFolderName sanitizes a workbook file name into the bundle root folder,
// keeping original casing and spaces while preventing invalid paths.
func SafeFolderName(filename string) string {
	name := strings.TrimSpace(filename)
	if name == "" {
		return "Excel_Images"
	}
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.TrimSpace(controlChars.ReplaceAllString(name, ""))
	if name == "" {
		return "Excel_Images"
	}
	return name
}

// NameSet allocates unique file names inside one output bundle.
type NameSet struct {
	seen map[string]bool
}

// NewNameSet creates an empty NameSet.
func NewNameSet() *NameSet {
	return &NameSet{seen: make(map[string]bool)}
}

// Claim returns base.ext, or base_2.ext, base_3.ext... when already taken.
func (n *NameSet) Claim(base, ext string) string {
	candidate := fmt.Sprintf("%s.%s", base, ext)
	if !n.seen[candidate] {
		n.seen[candidate] = true
		return candidate
	}
	for counter := 2; ; counter++ {
		candidate = fmt.Sprintf("%s_%d.%s", base, counter, ext)
		if !n.seen[candidate] {
			n.seen[candidate] = true
			return candidate
		}
	}
}
