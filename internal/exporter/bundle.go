package exporter

import (
	"archive/zip"
	"fmt"
	"os"
	"path"

	"img-recon/internal/config"
	"img-recon/internal/imaging"
	"img-recon/internal/model"
	"img-recon/internal/sheet"
)

// BundleExporter writes the primary artifact: a zip archive holding every
// matched image named by its row code, plus the summary report.
type BundleExporter struct {
	// Stateless
}

// NewBundleExporter creates a new BundleExporter
func NewBundleExporter() *BundleExporter {
	return &BundleExporter{}
}

// Export generates the zip bundle
func (b *BundleExporter) Export(report *model.ExtractionReport, cfg *config.Config) error {
	outputFile := cfg.OutputPath(report.WorkbookName, ".zip")
	folder := cfg.BundleFolderName(report.WorkbookName)

	out, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create bundle file: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)

	names := sheet.NewNameSet()
	for _, img := range report.Images {
		fileName := names.Claim(img.Code, imaging.Ext(img.Format))
		w, err := zw.Create(path.Join(folder, fileName))
		if err != nil {
			zw.Close()
			return fmt.Errorf("failed to add %s to bundle: %w", fileName, err)
		}
		if _, err := w.Write(img.Data); err != nil {
			zw.Close()
			return fmt.Errorf("failed to write %s to bundle: %w", fileName, err)
		}
	}

	w, err := zw.Create(path.Join(folder, "summary.txt"))
	if err != nil {
		zw.Close()
		return fmt.Errorf("failed to add summary to bundle: %w", err)
	}
	if _, err := w.Write([]byte(report.SummaryText())); err != nil {
		zw.Close()
		return fmt.Errorf("failed to write summary to bundle: %w", err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize bundle: %w", err)
	}
	return nil
}
