package word

import (
	"fmt"
	"os"
	"strings"
	"time"

	"img-recon/internal/config"
	"img-recon/internal/model"

	"github.com/nguyenthenguyen/docx"
)

type WordExporter struct{}

func NewWordExporter() *WordExporter {
	return &WordExporter{}
}

func (e *WordExporter) Export(report *model.ExtractionReport, cfg *config.Config) error {
	// 1. Generate the template into a temp file
	tmpFile, err := os.CreateTemp("", "img-recon-template-*.docx")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	tmpFile.Close()
	defer os.Remove(tmpPath) // Clean up

	if err := writeTemplate(tmpPath); err != nil {
		return fmt.Errorf("failed to write template: %w", err)
	}

	// Open docx from temp path
	r, err := docx.ReadDocxFile(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to read docx from temp file: %w", err)
	}
	defer r.Close()

	doc := r.Editable()

	// 2. Replace Summary Placeholders
	doc.Replace("{{Workbook}}", report.WorkbookName, -1)
	doc.Replace("{{Date}}", report.GeneratedAt.UTC().Format(time.RFC3339), -1)

	// 3. Generate report content as plain text
	// The docx library handles the XML encoding
	var contentBuilder strings.Builder

	contentBuilder.WriteString(report.SummaryText())
	contentBuilder.WriteString("\n" + strings.Repeat("=", 80) + "\n\n")

	buildRowTable(&contentBuilder, report)

	// Inject content (the library handles XML encoding)
	doc.Replace("{{Content}}", contentBuilder.String(), -1)

	outFile := cfg.OutputPath(report.WorkbookName, ".docx")
	if err := doc.WriteToFile(outFile); err != nil {
		return fmt.Errorf("failed to write Word document: %w", err)
	}

	return nil
}

// buildRowTable builds the plain text per-row breakdown
func buildRowTable(sb *strings.Builder, report *model.ExtractionReport) {
	rec := report.Reconciliation

	imageByRow := make(map[int]*model.NamedImage, len(report.Images))
	for i := range report.Images {
		imageByRow[report.Images[i].Row] = &report.Images[i]
	}

	sb.WriteString("ROW DETAIL:\n")
	sb.WriteString(fmt.Sprintf("%-8s %-12s %-30s %-10s %s\n", "Row", "Status", "Code", "Format", "Size"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	for _, target := range report.TargetRows {
		img := imageByRow[target]
		if img == nil {
			sb.WriteString(fmt.Sprintf("%-8d %-12s %-30s %-10s %s\n", target, "missing", "-", "-", "-"))
			continue
		}
		sb.WriteString(fmt.Sprintf("%-8d %-12s %-30s %-10s %d\n",
			target,
			"matched",
			truncate(img.Code, 30),
			string(img.Format),
			len(img.Data)))
	}

	for _, extra := range rec.ExtraAnchorRows {
		sb.WriteString(fmt.Sprintf("%-8d %-12s %-30s %-10s %s\n", extra, "extra", "-", "-", "-"))
	}

	sb.WriteString("\n")
}

// truncate truncates a string to a maximum length
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
