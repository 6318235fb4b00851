package sink

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/stellarmap/pkg/render"
)

// DefaultQuality is the JPEG quality used when none is given.
const DefaultQuality = 90

// RasterOption configures PNG and JPEG encoding.
type RasterOption func(*rasterEncoder)

type rasterEncoder struct {
	thumbnail int
	quality   int
}

// WithThumbnail bounds the longest side of the output to n pixels.
// Maps already within the bound are encoded at full size. n <= 0 disables it.
func WithThumbnail(n int) RasterOption {
	return func(e *rasterEncoder) { e.thumbnail = n }
}

// WithQuality sets the JPEG quality in [1, 100]. PNG ignores it.
func WithQuality(q int) RasterOption {
	return func(e *rasterEncoder) { e.quality = q }
}

func newEncoder(opts []RasterOption) rasterEncoder {
	e := rasterEncoder{quality: DefaultQuality}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// RenderPNG encodes the map as PNG.
func RenderPNG(m *render.Map, opts ...RasterOption) ([]byte, error) {
	e := newEncoder(opts)
	return e.encode(m, imaging.PNG, imaging.PNGCompressionLevel(png.DefaultCompression))
}

// RenderJPEG encodes the map as JPEG.
func RenderJPEG(m *render.Map, opts ...RasterOption) ([]byte, error) {
	e := newEncoder(opts)
	if e.quality < 1 || e.quality > 100 {
		return nil, fmt.Errorf("jpeg quality must be in [1, 100], got %d", e.quality)
	}
	return e.encode(m, imaging.JPEG, imaging.JPEGQuality(e.quality))
}

func (e rasterEncoder) encode(m *render.Map, f imaging.Format, opt imaging.EncodeOption) ([]byte, error) {
	if m == nil || m.Image == nil {
		return nil, fmt.Errorf("encode %s: no image", f)
	}
	img := Thumbnail(m.Image, e.thumbnail, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, f, opt); err != nil {
		return nil, fmt.Errorf("encode %s: %w", f, err)
	}
	return buf.Bytes(), nil
}

// Thumbnail returns img scaled down so neither side exceeds n pixels.
// It returns img unchanged when n <= 0 or img already fits.
func Thumbnail(img image.Image, n int, filter imaging.ResampleFilter) image.Image {
	b := img.Bounds()
	if n <= 0 || (b.Dx() <= n && b.Dy() <= n) {
		return img
	}
	return imaging.Fit(img, n, n, filter)
}
