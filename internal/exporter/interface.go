package exporter

import (
	"img-recon/internal/config"
	"img-recon/internal/model"
)

// Exporter is the unified interface for all output artifact strategies
type Exporter interface {
	Export(report *model.ExtractionReport, cfg *config.Config) error
}
