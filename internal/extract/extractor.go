package extract

import (
	"math"
	"sort"

	"img-recon/internal/model"
	"img-recon/internal/opc"
)

// Strategy names, in priority order. The shared-image mechanism names the
// exact image per cell; drawing geometry is precise but can include
// decorative images; the media listing carries no identity at all.
const (
	NameSharedImage     = "shared-image"
	NameDrawingAnchor   = "drawing-anchor"
	NameSequentialMedia = "sequential-media"
)

// Source bundles everything one extraction request reads from. It is built
// once by the caller and shared by every strategy.
type Source struct {
	Pkg       *opc.Package
	SheetPath string
	Layout    model.Layout

	// Per-row heights in points for rows 1..n plus the sheet default,
	// needed to infer rows from absolute anchor offsets.
	RowHeights       []float64
	DefaultRowHeight float64

	// Warn receives diagnostics worth surfacing to the user (unresolved
	// keys, skipped parts). May be nil.
	Warn func(format string, args ...interface{})
}

func (s *Source) warnf(format string, args ...interface{}) {
	if s.Warn != nil {
		s.Warn(format, args...)
	}
}

// Strategy is one anchor-extraction approach. Extract returns an empty slice
// (never an error) when the strategy's structural prerequisites are absent,
// so the caller can fall through to the next one.
type Strategy struct {
	Name    string
	Extract func(src *Source) ([]*model.ImageAnchor, error)
}

// Strategies returns the extractors in fixed priority order.
func Strategies() []Strategy {
	return []Strategy{
		{Name: NameSharedImage, Extract: ExtractSharedImages},
		{Name: NameDrawingAnchor, Extract: ExtractDrawingAnchors},
		{Name: NameSequentialMedia, Extract: ExtractMediaList},
	}
}

// sortAnchors orders anchors by (row, col, sourceTag) with positionless
// anchors last, making every strategy's output deterministic.
func sortAnchors(anchors []*model.ImageAnchor) {
	sort.SliceStable(anchors, func(i, j int) bool {
		ri, rj := anchors[i].RowOr(math.MaxInt32), anchors[j].RowOr(math.MaxInt32)
		if ri != rj {
			return ri < rj
		}
		ci, cj := anchors[i].ColOr(math.MaxInt32), anchors[j].ColOr(math.MaxInt32)
		if ci != cj {
			return ci < cj
		}
		return anchors[i].SourceTag < anchors[j].SourceTag
	})
}

// extOf returns the declared extension of a part path, without the dot.
func extOf(partPath string) string {
	for i := len(partPath) - 1; i >= 0; i-- {
		switch partPath[i] {
		case '.':
			return partPath[i+1:]
		case '/':
			return ""
		}
	}
	return ""
}
