package imaging

import (
	"bytes"
	"strings"

	"img-recon/internal/model"
)

// Declared extensions inside a container are unreliable: authoring tools
// store mismatched or missing extensions, so identity always falls back to
// the magic-byte signature.

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// Sniff classifies image bytes by signature. Unrecognized data defaults to
// PNG, matching how the media parts are written by mainstream tools.
func Sniff(data []byte) model.Format {
	switch {
	case bytes.HasPrefix(data, pngSignature):
		return model.FormatPNG
	case bytes.HasPrefix(data, []byte{0xff, 0xd8, 0xff}):
		return model.FormatJPG
	case bytes.HasPrefix(data, []byte("GIF8")):
		return model.FormatGIF
	case bytes.HasPrefix(data, []byte("BM")):
		return model.FormatBMP
	case bytes.HasPrefix(data, []byte{'I', 'I', 0x2a, 0x00}), bytes.HasPrefix(data, []byte{'M', 'M', 0x00, 0x2a}):
		return model.FormatTIFF
	case len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")):
		return model.FormatWebP
	default:
		return model.FormatPNG
	}
}

// knownExts is the set of declared extensions trusted without sniffing.
var knownExts = map[string]model.Format{
	"png":  model.FormatPNG,
	"jpg":  model.FormatJPG,
	"jpeg": model.FormatJPG,
	"gif":  model.FormatGIF,
	"bmp":  model.FormatBMP,
	"tif":  model.FormatTIFF,
	"tiff": model.FormatTIFF,
	"webp": model.FormatWebP,
}

// Normalize resolves the final format of image bytes from an optionally
// declared extension. The extension is trusted only when it belongs to the
// known-good set; anything else is classified by signature.
func Normalize(declaredExt string, data []byte) model.Format {
	ext := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(declaredExt), "."))
	if f, ok := knownExts[ext]; ok {
		return f
	}
	return Sniff(data)
}

// Ext returns the filename extension for a format.
func Ext(f model.Format) string {
	return string(f)
}
