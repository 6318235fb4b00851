package render

import (
	"fmt"
	"image"
	"math"

	"github.com/fogleman/gg"

	"github.com/matzehuels/stellarmap/pkg/fonts"
	"github.com/matzehuels/stellarmap/pkg/links"
	"github.com/matzehuels/stellarmap/pkg/projection"
	"github.com/matzehuels/stellarmap/pkg/star"
)

// Scene is everything the renderer needs for one map.
//
// Stars, Points and the indices in Pairs share one index space: Points[i] is
// where Stars[i] is drawn.
type Scene struct {
	Stars     []star.Record
	Points    []projection.Point
	Pairs     []links.Pair
	Reference int

	Width, Height int
	Thresholds    links.Thresholds

	// Title and Summary override the generated header lines when non-empty.
	Title   string
	Summary string

	// Radius and Scale feed the generated header: the selection radius in
	// light-years and the projection scale in pixels per light-year.
	Radius float64
	Scale  float64
}

// Marker is a drawn star marker.
type Marker struct {
	Index  int
	X, Y   float64
	Radius float64
}

// Map is a rendered star map.
type Map struct {
	Image       image.Image
	Connections []links.Connection
	Markers     []Marker
	Title       string
	Summary     string
}

// MarkerRadius returns the marker radius for a star of luminosity lum:
// base times the cube root of lum, capped at maxMult times base.
// Non-positive luminosity draws at base size.
func MarkerRadius(lum, base, maxMult float64) float64 {
	mult := 1.0
	if lum > 0 {
		mult = min(math.Cbrt(lum), maxMult)
	}
	return base * mult
}

// Render draws sc with theme t using the font set f (embedded when nil).
//
// It panics if sc.Points and sc.Stars differ in length or sc.Reference is out
// of range: those indicate a broken pipeline, not bad input data.
func Render(sc Scene, t Theme, f *fonts.Set) (*Map, error) {
	if len(sc.Points) != len(sc.Stars) {
		panic(fmt.Sprintf("render: %d points for %d stars", len(sc.Points), len(sc.Stars)))
	}
	if len(sc.Stars) > 0 && (sc.Reference < 0 || sc.Reference >= len(sc.Stars)) {
		panic(fmt.Sprintf("render: reference index %d out of range [0,%d)", sc.Reference, len(sc.Stars)))
	}
	if sc.Width <= 0 || sc.Height <= 0 {
		return nil, fmt.Errorf("canvas size must be positive, got %dx%d", sc.Width, sc.Height)
	}
	if f == nil {
		f = fonts.Embedded()
	}
	if t.Style == nil {
		t.Style = Classic{}
	}

	dc := gg.NewContext(sc.Width, sc.Height)
	dc.SetColor(t.Background)
	dc.Clear()

	m := &Map{}
	m.Connections = drawConnections(dc, sc, t)
	m.Markers = drawMarkers(dc, sc, t)
	if err := drawLabels(dc, sc, t, f, m.Markers); err != nil {
		return nil, err
	}

	m.Title, m.Summary = header(sc, len(m.Connections))
	if err := drawHeader(dc, t, f, m.Title, m.Summary); err != nil {
		return nil, err
	}

	m.Image = dc.Image()
	return m, nil
}

func drawConnections(dc *gg.Context, sc Scene, t Theme) []links.Connection {
	conns := links.Connections(sc.Pairs, sc.Thresholds)
	dc.SetColor(t.Line)
	dc.SetLineCapRound()
	for _, c := range conns {
		if c.I >= len(sc.Points) || c.J >= len(sc.Points) {
			panic(fmt.Sprintf("render: pair (%d,%d) outside %d points", c.I, c.J, len(sc.Points)))
		}
		a, b := sc.Points[c.I], sc.Points[c.J]
		dc.SetLineWidth(t.LineWidths[c.Tier])
		dc.DrawLine(a.X, a.Y, b.X, b.Y)
		dc.Stroke()
	}
	return conns
}

func drawMarkers(dc *gg.Context, sc Scene, t Theme) []Marker {
	markers := make([]Marker, len(sc.Stars))
	for i, s := range sc.Stars {
		p := sc.Points[i]
		r := MarkerRadius(s.Luminosity, t.BaseRadius, t.MaxMultiplier)
		markers[i] = Marker{Index: i, X: p.X, Y: p.Y, Radius: r}

		if i == sc.Reference {
			dc.DrawCircle(p.X, p.Y, r+t.HighlightPad)
			dc.SetColor(t.HighlightFill)
			dc.FillPreserve()
			dc.SetColor(t.HighlightOutline)
			dc.SetLineWidth(t.HighlightOutlineWidth)
			dc.Stroke()
		}

		dc.DrawCircle(p.X, p.Y, r)
		dc.SetColor(t.Style.MarkerFill(t, s))
		dc.FillPreserve()
		dc.SetColor(t.MarkerOutline)
		dc.SetLineWidth(t.MarkerOutlineWidth)
		dc.Stroke()
	}
	return markers
}

func drawLabels(dc *gg.Context, sc Scene, t Theme, f *fonts.Set, markers []Marker) error {
	large, err := f.Face(t.FontSize)
	if err != nil {
		return err
	}
	small, err := f.Face(t.SmallFont)
	if err != nil {
		return err
	}

	for i, s := range sc.Stars {
		p := sc.Points[i]
		name, spectral := s.Label()
		y := labelY(markers[i], t, i == sc.Reference)

		if i == sc.Reference {
			dc.SetColor(t.HighlightText)
			dc.SetFontFace(large)
			dc.DrawStringAnchored(name, p.X, y, 0.5, 1)
			dc.SetFontFace(small)
			if spectral != "" {
				dc.DrawStringAnchored(spectral, p.X, y+t.FontSize+10, 0.5, 1)
			}
			continue
		}

		dc.SetColor(t.Text)
		dc.SetFontFace(small)
		dc.DrawStringAnchored(name, p.X, y, 0.5, 1)
		if spectral != "" {
			dc.DrawStringAnchored(spectral, p.X, y+t.SmallFont+10, 0.5, 1)
		}
	}
	return nil
}

// labelY is the top of the first label line under marker m. The gap is
// measured from the marker's edge, or from the halo for the reference.
func labelY(m Marker, t Theme, reference bool) float64 {
	edge := m.Radius
	if reference {
		edge += t.HighlightPad
	}
	return m.Y + edge + t.LabelOffset
}

func header(sc Scene, connections int) (title, summary string) {
	title, summary = sc.Title, sc.Summary
	if title == "" {
		ref := "?"
		if len(sc.Stars) > 0 {
			ref = sc.Stars[sc.Reference].Name
		}
		title = fmt.Sprintf("Stars Near %s (within %g ly)", ref, sc.Radius)
	}
	if summary == "" {
		summary = fmt.Sprintf("%d stars | %d lines < %g ly | Scale: ~%.1f px per ly",
			len(sc.Stars), connections, sc.Thresholds.Close, sc.Scale)
	}
	return title, summary
}

func drawHeader(dc *gg.Context, t Theme, f *fonts.Set, title, summary string) error {
	large, err := f.Face(t.FontSize)
	if err != nil {
		return err
	}
	small, err := f.Face(t.SmallFont)
	if err != nil {
		return err
	}

	dc.SetFontFace(large)
	dc.SetColor(t.TitleText)
	dc.DrawStringAnchored(title, t.TitleX, t.TitleY, 0, 1)

	dc.SetFontFace(small)
	dc.SetColor(t.InfoText)
	dc.DrawStringAnchored(summary, t.TitleX, t.InfoY, 0, 1)
	return nil
}
