package sink

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/stellarmap/pkg/links"
	"github.com/matzehuels/stellarmap/pkg/render"
	"github.com/matzehuels/stellarmap/pkg/star"
)

func testMap(w, h int) *render.Map {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{0, 0, 0, 255})
		}
	}
	return &render.Map{
		Image:   img,
		Title:   "Stars Near Sol (within 20 ly)",
		Summary: "2 stars | 1 lines < 10 ly | Scale: ~1.0 px per ly",
		Markers: []render.Marker{
			{Index: 0, X: 10, Y: 10, Radius: 80},
			{Index: 1, X: 50, Y: 40, Radius: 40},
		},
		Connections: []links.Connection{
			{Pair: links.Pair{I: 0, J: 1, Distance: 4.2}, Tier: links.TierTight},
		},
	}
}

func decode(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return img
}

func TestRenderPNG(t *testing.T) {
	data, err := RenderPNG(testMap(120, 80))
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Fatal("output is not a PNG")
	}
	if b := decode(t, data).Bounds(); b.Dx() != 120 || b.Dy() != 80 {
		t.Errorf("size = %dx%d, want 120x80", b.Dx(), b.Dy())
	}
}

func TestRenderPNGThumbnail(t *testing.T) {
	data, err := RenderPNG(testMap(200, 100), WithThumbnail(50))
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}
	if b := decode(t, data).Bounds(); b.Dx() != 50 || b.Dy() != 25 {
		t.Errorf("size = %dx%d, want 50x25", b.Dx(), b.Dy())
	}
}

func TestRenderJPEG(t *testing.T) {
	data, err := RenderJPEG(testMap(64, 64), WithQuality(70))
	if err != nil {
		t.Fatalf("RenderJPEG() error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte{0xff, 0xd8}) {
		t.Fatal("output is not a JPEG")
	}

	if _, err := RenderJPEG(testMap(8, 8), WithQuality(0)); err == nil {
		t.Error("expected error for quality 0")
	}
}

func TestRenderNoImage(t *testing.T) {
	if _, err := RenderPNG(&render.Map{}); err == nil {
		t.Error("expected error for map without image")
	}
}

func TestThumbnail(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 300))

	tests := []struct {
		name  string
		n     int
		wantW int
		wantH int
	}{
		{"disabled", 0, 100, 300},
		{"already fits", 400, 100, 300},
		{"tall", 150, 50, 150},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Thumbnail(img, tt.n, imaging.Lanczos).Bounds()
			if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("Thumbnail(%d) = %dx%d, want %dx%d", tt.n, b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestRenderJSON(t *testing.T) {
	stars := []star.Record{
		{ID: "1", Name: "Sol", Spectral: "G2V"},
		{ID: "2", Name: "Alpha Centauri A", Spectral: "G2V"},
	}
	data, err := RenderJSON(testMap(120, 80),
		WithJSONStars(stars),
		WithJSONStyle("spectral"),
		WithJSONRunID("run-1"),
	)
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}

	if out.Width != 120 || out.Height != 80 {
		t.Errorf("size = %dx%d, want 120x80", out.Width, out.Height)
	}
	if out.Style != "spectral" || out.RunID != "run-1" {
		t.Errorf("Style, RunID = %q, %q", out.Style, out.RunID)
	}
	if len(out.Markers) != 2 || out.Markers[1].Name != "Alpha Centauri A" {
		t.Errorf("Markers = %+v", out.Markers)
	}
	if len(out.Connections) != 1 || out.Connections[0].Tier != "tight" {
		t.Errorf("Connections = %+v", out.Connections)
	}
}
