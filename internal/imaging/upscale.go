package imaging

import (
	"bytes"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"img-recon/internal/model"
)

// Upscale enlarges an image so that its shorter edge is at least minEdge
// pixels, preserving aspect ratio. It is a uniform post-filter applied after
// identity resolution; it never changes which row an image belongs to. Bytes
// that cannot be decoded or re-encoded are returned unchanged, as are images
// already large enough.
func Upscale(data []byte, format model.Format, minEdge int) ([]byte, model.Format) {
	if minEdge <= 0 {
		return data, format
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return data, format
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return data, format
	}
	shorter := w
	if h < shorter {
		shorter = h
	}
	if shorter >= minEdge {
		return data, format
	}

	scale := float64(minEdge) / float64(shorter)
	dst := image.NewRGBA(image.Rect(0, 0, int(float64(w)*scale+0.5), int(float64(h)*scale+0.5)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	encoded, outFormat, err := encode(dst, format)
	if err != nil {
		return data, format
	}
	return encoded, outFormat
}

// encode writes the scaled image back in its original format. WebP has no
// encoder in the ecosystem, so upscaled WebP images come back as PNG.
func encode(img image.Image, format model.Format) ([]byte, model.Format, error) {
	var buf bytes.Buffer
	switch format {
	case model.FormatJPG:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
			return nil, format, err
		}
		return buf.Bytes(), model.FormatJPG, nil
	case model.FormatGIF:
		if err := gif.Encode(&buf, img, nil); err != nil {
			return nil, format, err
		}
		return buf.Bytes(), model.FormatGIF, nil
	case model.FormatBMP:
		if err := bmp.Encode(&buf, img); err != nil {
			return nil, format, err
		}
		return buf.Bytes(), model.FormatBMP, nil
	case model.FormatTIFF:
		if err := tiff.Encode(&buf, img, nil); err != nil {
			return nil, format, err
		}
		return buf.Bytes(), model.FormatTIFF, nil
	default:
		if err := png.Encode(&buf, img); err != nil {
			return nil, format, err
		}
		return buf.Bytes(), model.FormatPNG, nil
	}
}
