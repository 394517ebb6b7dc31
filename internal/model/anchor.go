package model

// Format identifies the raster encoding of extracted image bytes.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPG  Format = "jpg"
	FormatGIF  Format = "gif"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
	FormatWebP Format = "webp"
)

// ImageAnchor ties extracted image bytes to a worksheet position.
// Row and Col are nil when the producing strategy carries no position
// information (the sequential media listing).
type ImageAnchor struct {
	// 1-based worksheet position, nil when unknown
	Row *int
	Col *int

	Format Format
	Data   []byte

	// SourceTag is a stable, strategy-specific identifier used for
	// diagnostics and deterministic ordering. Not business logic.
	SourceTag string
}

// HasRow reports whether the anchor carries a row position.
func (a *ImageAnchor) HasRow() bool {
	return a.Row != nil
}

// RowOr returns the anchor row, or def when the anchor is positionless.
func (a *ImageAnchor) RowOr(def int) int {
	if a.Row == nil {
		return def
	}
	return *a.Row
}

// ColOr returns the anchor column, or def when unknown.
func (a *ImageAnchor) ColOr(def int) int {
	if a.Col == nil {
		return def
	}
	return *a.Col
}
