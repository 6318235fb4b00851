package render

import (
	"image/color"
	"math"
	"testing"

	"github.com/matzehuels/stellarmap/pkg/links"
	"github.com/matzehuels/stellarmap/pkg/projection"
	"github.com/matzehuels/stellarmap/pkg/star"
)

func pixel(m *Map, x, y int) color.RGBA {
	return color.RGBAModel.Convert(m.Image.At(x, y)).(color.RGBA)
}

func testTheme() Theme {
	return DefaultTheme()
}

func TestMarkerRadius(t *testing.T) {
	tests := []struct {
		name string
		lum  float64
		want float64
	}{
		{"missing luminosity", 0, 80},
		{"negative luminosity", -2, 80},
		{"solar", 1, 80},
		{"eight suns", 8, 160},
		{"capped", 1000, 240},
		{"dim", 0.001, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MarkerRadius(tt.lum, 80, 3); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("MarkerRadius(%v) = %v, want %v", tt.lum, got, tt.want)
			}
		})
	}
}

func TestLabelY(t *testing.T) {
	th := DefaultTheme()
	tests := []struct {
		name      string
		lum       float64
		reference bool
		want      float64
	}{
		{"solar", 1, false, 500 + 80 + 50},
		{"bright star clears its larger marker", 1000, false, 500 + 240 + 50},
		{"dim star sits closer", 0.001, false, 500 + 8 + 50},
		{"reference clears the halo", 8, true, 500 + 160 + 10 + 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Marker{X: 500, Y: 500, Radius: MarkerRadius(tt.lum, th.BaseRadius, th.MaxMultiplier)}
			if got := labelY(m, th, tt.reference); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("labelY() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRenderSingleStar(t *testing.T) {
	stars := []star.Record{{ID: "1", Name: "Reference", Spectral: "G2V"}}
	fr := projection.Frame{Width: 1000, Height: 1000, Margin: 100, Padding: 0.1}
	sc := Scene{
		Stars:      stars,
		Points:     projection.Project(stars, fr),
		Pairs:      links.PairDistances(stars),
		Width:      1000,
		Height:     1000,
		Thresholds: links.DefaultThresholds,
		Radius:     20,
		Scale:      1,
	}

	m, err := Render(sc, testTheme(), nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if b := m.Image.Bounds(); b.Dx() != 1000 || b.Dy() != 1000 {
		t.Fatalf("image size = %v, want 1000x1000", b)
	}
	if len(m.Connections) != 0 {
		t.Errorf("Connections = %d, want 0", len(m.Connections))
	}
	if len(m.Markers) != 1 || m.Markers[0].X != 500 || m.Markers[0].Y != 500 {
		t.Errorf("Markers = %+v, want one at the canvas center", m.Markers)
	}

	th := testTheme()
	if got := pixel(m, 2, 2); got != th.Background {
		t.Errorf("corner = %v, want background %v", got, th.Background)
	}
	if got := pixel(m, 500, 500); got != th.Marker {
		t.Errorf("marker center = %v, want %v", got, th.Marker)
	}
	// Between the marker edge (80) and the halo outline (90).
	if got := pixel(m, 584, 500); got != th.HighlightFill {
		t.Errorf("halo = %v, want %v", got, th.HighlightFill)
	}
}

func TestRenderTriangleConnections(t *testing.T) {
	stars := []star.Record{
		{ID: "r", Name: "Reference"},
		{ID: "a", Name: "A", X: 5},
		{ID: "b", Name: "B", Y: 5},
	}
	fr := projection.Frame{Width: 1000, Height: 1000, Margin: 100, Padding: 0.1}
	sc := Scene{
		Stars:      stars,
		Points:     projection.Project(stars, fr),
		Pairs:      links.PairDistances(stars),
		Width:      1000,
		Height:     1000,
		Thresholds: links.DefaultThresholds,
	}

	m, err := Render(sc, testTheme(), nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(m.Connections) != 3 {
		t.Fatalf("Connections = %d, want 3", len(m.Connections))
	}
	if len(m.Markers) != 3 {
		t.Errorf("Markers = %d, want 3", len(m.Markers))
	}
	if m.Title != "Stars Near Reference (within 0 ly)" {
		t.Errorf("Title = %q", m.Title)
	}
}

func TestRenderConnectionIndependentOfLayout(t *testing.T) {
	stars := []star.Record{{Name: "R"}, {Name: "Far", X: 50}}
	sc := Scene{
		Stars:      stars,
		Points:     []projection.Point{{X: 100, Y: 100}, {X: 101, Y: 100}},
		Pairs:      links.PairDistances(stars),
		Width:      400,
		Height:     400,
		Thresholds: links.DefaultThresholds,
	}
	m, err := Render(sc, testTheme(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Connections) != 0 {
		t.Errorf("Connections = %d, want 0 for stars 50 ly apart", len(m.Connections))
	}
}

func TestRenderSpectralStyle(t *testing.T) {
	stars := []star.Record{{Name: "Ref"}, {Name: "Red", X: 30, Spectral: "M4V"}}
	th := testTheme()
	th.Style = Spectral{}
	sc := Scene{
		Stars:      stars,
		Points:     []projection.Point{{X: 200, Y: 200}, {X: 600, Y: 600}},
		Pairs:      links.PairDistances(stars),
		Width:      800,
		Height:     800,
		Thresholds: links.DefaultThresholds,
	}
	m, err := Render(sc, th, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := pixel(m, 600, 600), ClassColor(star.ClassM); got != want {
		t.Errorf("M-class marker = %v, want %v", got, want)
	}
}

func TestRenderMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Render should panic on mismatched stars and points")
		}
	}()
	sc := Scene{
		Stars:  []star.Record{{Name: "A"}, {Name: "B"}},
		Points: []projection.Point{{X: 1, Y: 1}},
		Width:  10,
		Height: 10,
	}
	_, _ = Render(sc, testTheme(), nil)
}

func TestRenderInvalidCanvas(t *testing.T) {
	if _, err := Render(Scene{}, testTheme(), nil); err == nil {
		t.Error("expected error for zero-sized canvas")
	}
}

func TestParseStyle(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", StyleClassic, false},
		{"classic", StyleClassic, false},
		{"Spectral", StyleSpectral, false},
		{"handdrawn", "", true},
	}
	for _, tt := range tests {
		s, err := ParseStyle(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseStyle(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && s.Name() != tt.want {
			t.Errorf("ParseStyle(%q) = %s, want %s", tt.in, s.Name(), tt.want)
		}
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{"#6496ff", color.RGBA{100, 150, 255, 255}, false},
		{"000000", color.RGBA{0, 0, 0, 255}, false},
		{"#ffc80080", color.RGBA{255, 200, 0, 128}, false},
		{"#fff", color.RGBA{}, true},
		{"#gggggg", color.RGBA{}, true},
	}
	for _, tt := range tests {
		got, err := ParseHex(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseHex(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseHex(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if err == nil {
			if back, _ := ParseHex(Hex(got)); back != got {
				t.Errorf("Hex(%v) = %q does not parse back", got, Hex(got))
			}
		}
	}
}
