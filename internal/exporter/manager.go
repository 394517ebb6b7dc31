package exporter

import (
	"strings"

	"img-recon/internal/exporter/word"
)

// GetExporters returns a list of Exporters based on requested formats
func GetExporters(formats []string) []Exporter {
	exporters := []Exporter{}
	seen := make(map[string]bool)

	for _, fmtStr := range formats {
		fmtStr = strings.ToLower(strings.TrimSpace(fmtStr))
		if seen[fmtStr] {
			continue
		}
		seen[fmtStr] = true

		switch fmtStr {
		case "bundle", "zip":
			exporters = append(exporters, NewBundleExporter())
		case "excel", "xlsx":
			exporters = append(exporters, NewExcelExporter())
		case "word", "docx":
			exporters = append(exporters, word.NewWordExporter())
		}
	}

	// Default to the image bundle if nothing valid specified?
	// Or maybe the caller handles defaults.
	// We'll leave it empty if no match.

	return exporters
}
