package engine

import (
	"fmt"
	"time"

	"img-recon/internal/extract"
	"img-recon/internal/imaging"
	"img-recon/internal/logger"
	"img-recon/internal/model"
	"img-recon/internal/opc"
	"img-recon/internal/reconcile"
	"img-recon/internal/sheet"
)

// Options configure one extraction request.
type Options struct {
	Detect sheet.DetectOptions

	// UpscaleMinEdge > 0 enables the uniform upscale post-filter for
	// images whose shorter edge is below the threshold.
	UpscaleMinEdge int
}

// Engine resolves embedded images to data rows for a single request. It is
// instantiated fresh per request and holds no state across requests.
type Engine struct {
	opts Options
}

// New creates an Engine.
func New(opts Options) *Engine {
	return &Engine{opts: opts}
}

// Run processes one container end-to-end: layout detection, anchor
// extraction in fixed strategy priority, strict reconciliation, and image
// normalization. workbookName is only carried into the report.
//
// It fails outright when the container is malformed, the sheet is unknown,
// or zero target rows end up matched; a partially matched result is returned
// with the missing rows named in the report.
func (e *Engine) Run(containerBytes []byte, workbookName, sheetName string) (*model.ExtractionReport, error) {
	pkg, err := opc.Open(containerBytes)
	if err != nil {
		return nil, err
	}

	wb, err := sheet.OpenWorkbook(containerBytes)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	ws, err := sheet.New(wb, sheetName)
	if err != nil {
		return nil, err
	}

	sheetPath, err := pkg.SheetPath(sheetName)
	if err != nil {
		return nil, err
	}

	layout := sheet.DetectLayout(ws, e.opts.Detect)
	targetRows := sheet.TargetRows(ws, layout, e.opts.Detect.MaxDataRows)
	logger.Debug("Layout: image col %d, vendor col %d, material col %d, start row %d, %d target rows",
		layout.ImageCol, layout.VendorCol, layout.MaterialCol, layout.StartRow, len(targetRows))

	report := &model.ExtractionReport{
		WorkbookName: workbookName,
		SheetName:    sheetName,
		GeneratedAt:  time.Now(),
		Layout:       layout,
		TargetRows:   targetRows,
	}

	src := &extract.Source{
		Pkg:              pkg,
		SheetPath:        sheetPath,
		Layout:           layout,
		RowHeights:       ws.RowHeights(ws.MaxRow()),
		DefaultRowHeight: ws.DefaultRowHeight(),
		Warn: func(format string, args ...interface{}) {
			msg := fmt.Sprintf(format, args...)
			logger.Warn("%s", msg)
			report.Warnings = append(report.Warnings, msg)
		},
	}

	// Every strategy runs so the report can count all of them; selection
	// still follows the fixed priority order and never mixes outputs.
	byName := make(map[string][]*model.ImageAnchor)
	for _, strat := range extract.Strategies() {
		anchors, err := strat.Extract(src)
		if err != nil {
			return nil, fmt.Errorf("%s extraction failed: %w", strat.Name, err)
		}
		byName[strat.Name] = anchors
		report.StrategyCounts = append(report.StrategyCounts, model.StrategyCount{
			Name:    strat.Name,
			Anchors: len(anchors),
		})
	}

	chosen, anchors := selectStrategy(byName)
	media := byName[extract.NameSequentialMedia]

	var rec *model.ReconciliationResult
	switch chosen {
	case "":
		report.StrategyVariant = extract.NameSequentialMedia
		rec = reconcile.Reconcile(targetRows, extract.NameSequentialMedia, nil, media)
		if len(media) != len(targetRows) {
			src.Warn("Media items (%d) and detected data rows (%d) count mismatch.", len(media), len(targetRows))
		}
	case extract.NameDrawingAnchor:
		anchors, variant := refineByImageColumn(anchors, layout)
		report.StrategyVariant = chosen + variant
		rec = reconcile.Reconcile(targetRows, chosen, anchors, nil)
	default:
		report.StrategyVariant = chosen
		rec = reconcile.Reconcile(targetRows, chosen, anchors, nil)
	}
	report.Reconciliation = rec

	for _, row := range rec.DuplicateRows {
		src.Warn("Row %d: more than one anchor, kept the first occurrence.", row)
	}

	if len(rec.Matched) == 0 {
		return nil, fmt.Errorf("no images matched any of the %d target rows (strategy %s): %w",
			len(targetRows), report.StrategyVariant, reconcile.ErrNoRowsMatched)
	}

	e.buildImages(ws, layout, rec, report)
	return report, nil
}

// selectStrategy picks the highest-priority strategy that produced at least
// one row-bearing anchor. Once chosen it is never abandoned, even if rows
// remain unmapped: switching strategies mid-request would mix two identity
// semantics.
func selectStrategy(byName map[string][]*model.ImageAnchor) (string, []*model.ImageAnchor) {
	for _, name := range []string{extract.NameSharedImage, extract.NameDrawingAnchor} {
		anchors := byName[name]
		for _, a := range anchors {
			if a.HasRow() {
				return name, anchors
			}
		}
	}
	return "", nil
}

// refineByImageColumn narrows drawing anchors to the detected image column
// when any anchor sits there; decorative pictures elsewhere on the sheet
// would otherwise collide with real rows. Anchors above the data region
// (header logos and the like) are dropped before the in-column test so that
// a header-row picture cannot hijack the narrowing.
func refineByImageColumn(anchors []*model.ImageAnchor, layout model.Layout) ([]*model.ImageAnchor, string) {
	var afterStart []*model.ImageAnchor
	for _, a := range anchors {
		if a.Row == nil || *a.Row >= layout.StartRow {
			afterStart = append(afterStart, a)
		}
	}
	if len(afterStart) == 0 {
		return anchors, ""
	}
	var inCol []*model.ImageAnchor
	for _, a := range afterStart {
		if a.Col != nil && *a.Col == layout.ImageCol {
			inCol = append(inCol, a)
		}
	}
	if len(inCol) > 0 {
		return inCol, "_image_col"
	}
	return afterStart, "_any_col"
}

// buildImages normalizes and names every matched image.
func (e *Engine) buildImages(ws *sheet.Sheet, layout model.Layout, rec *model.ReconciliationResult, report *model.ExtractionReport) {
	for _, m := range rec.Matched {
		code, source := sheet.RowCode(ws, m.Row, layout)
		if code == "" {
			code = fmt.Sprintf("Row_%d", m.Row)
			source = model.CodeSourceRow
		}
		if source == model.CodeSourceMaterial {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("Row %d: vendor missing, used material fallback.", m.Row))
		}

		data, format := m.Anchor.Data, m.Anchor.Format
		if e.opts.UpscaleMinEdge > 0 {
			data, format = imaging.Upscale(data, format, e.opts.UpscaleMinEdge)
		}

		report.Images = append(report.Images, model.NamedImage{
			Row:        m.Row,
			Code:       code,
			CodeSource: source,
			Format:     format,
			Data:       data,
		})
	}
}
