// Package imagefilter adjusts watermark opacity and normalizes images into
// formats the PDF engine can embed.
//
// Input may be PNG, JPEG, GIF, WebP, BMP or TIFF.
package imagefilter

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif" // register decoder
	"image/jpeg"
	"image/png"

	_ "golang.org/x/image/bmp" // register decoder
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // register decoder
	_ "golang.org/x/image/webp" // register decoder
)

// MaxDimension bounds the longer side of filtered images in pixels. Larger
// images are scaled down first.
const MaxDimension = 2400

// Format is the encoding of filtered images.
type Format int

const (
	// PNG keeps the adjusted alpha channel.
	PNG Format = iota
	// JPEG has no alpha; the image is flattened onto white instead.
	JPEG
)

func (f Format) String() string {
	if f == JPEG {
		return "jpeg"
	}
	return "png"
}

// Filter adjusts image opacity. The zero value encodes PNG.
type Filter struct {
	Format  Format
	Quality int // JPEG quality, default 90
}

// AdjustOpacity is Filter{}.AdjustOpacity.
func AdjustOpacity(data []byte, percent int) ([]byte, error) {
	return Filter{}.AdjustOpacity(data, percent)
}

// AdjustOpacity decodes data, scales every pixel's alpha to percent (0..100,
// clamped) and encodes the result in the filter's format.
func (f Filter) AdjustOpacity(data []byte, percent int) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("imagefilter: decoding image: %w", err)
	}
	src = fit(src, MaxDimension)

	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			c.A = uint8(int(c.A) * percent / 100)
			dst.SetNRGBA(x-b.Min.X, y-b.Min.Y, c)
		}
	}

	var buf bytes.Buffer
	switch f.Format {
	case JPEG:
		flat := image.NewRGBA(dst.Bounds())
		draw.Draw(flat, flat.Bounds(), image.White, image.Point{}, draw.Src)
		draw.Draw(flat, flat.Bounds(), dst, image.Point{}, draw.Over)
		q := f.Quality
		if q <= 0 {
			q = 90
		}
		err = jpeg.Encode(&buf, flat, &jpeg.Options{Quality: q})
	default:
		err = png.Encode(&buf, dst)
	}
	if err != nil {
		return nil, fmt.Errorf("imagefilter: encoding %s: %w", f.Format, err)
	}
	return buf.Bytes(), nil
}

// fit scales img down so its longer side is at most limit pixels.
func fit(img image.Image, limit int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= limit && h <= limit {
		return img
	}
	if w >= h {
		h = h * limit / w
		w = limit
	} else {
		w = w * limit / h
		h = limit
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}

// PNG header offsets inside the IHDR chunk.
const (
	pngBitDepth   = 24
	pngInterlace  = 28
	pngHeaderSize = 29
)

// embeddablePNG reports whether the PDF engine takes data as is: 8 bits or
// fewer per channel and not interlaced.
func embeddablePNG(data []byte) bool {
	if len(data) < pngHeaderSize {
		return false
	}
	return data[pngBitDepth] <= 8 && data[pngInterlace] == 0
}

// Normalize returns data in a format the PDF engine embeds directly, along
// with the engine's image type name ("png", "jpg" or "gif"). JPEG, GIF and
// 8-bit non-interlaced PNG pass through untouched; everything else is
// re-encoded as 8-bit PNG.
func Normalize(data []byte) ([]byte, string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("imagefilter: reading image header: %w", err)
	}
	switch {
	case format == "png" && embeddablePNG(data):
		return data, "png", nil
	case format == "jpeg":
		return data, "jpg", nil
	case format == "gif":
		return data, "gif", nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("imagefilter: decoding %s: %w", format, err)
	}
	nrgba := image.NewNRGBA(img.Bounds())
	draw.Draw(nrgba, nrgba.Bounds(), img, img.Bounds().Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, nrgba); err != nil {
		return nil, "", fmt.Errorf("imagefilter: encoding png: %w", err)
	}
	return buf.Bytes(), "png", nil
}
