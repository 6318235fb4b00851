package sink

import (
	"encoding/json"

	"github.com/matzehuels/stellarmap/pkg/render"
	"github.com/matzehuels/stellarmap/pkg/star"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	stars []star.Record
	style string
	runID string
}

// WithJSONStars attaches the drawn stars so markers carry names and
// spectral types. Stars must be in marker index order.
func WithJSONStars(s []star.Record) JSONOption { return func(r *jsonRenderer) { r.stars = s } }

// WithJSONStyle records the style name in the output.
func WithJSONStyle(s string) JSONOption { return func(r *jsonRenderer) { r.style = s } }

// WithJSONRunID records the pipeline run that produced the map.
func WithJSONRunID(id string) JSONOption { return func(r *jsonRenderer) { r.runID = id } }

type jsonOutput struct {
	RunID       string           `json:"run_id,omitempty"`
	Title       string           `json:"title"`
	Summary     string           `json:"summary"`
	Width       int              `json:"width"`
	Height      int              `json:"height"`
	Style       string           `json:"style,omitempty"`
	Markers     []jsonMarker     `json:"markers"`
	Connections []jsonConnection `json:"connections"`
}

type jsonMarker struct {
	ID       string  `json:"id,omitempty"`
	Name     string  `json:"name,omitempty"`
	Spectral string  `json:"spectral,omitempty"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Radius   float64 `json:"radius"`
}

type jsonConnection struct {
	From     int     `json:"from"`
	To       int     `json:"to"`
	Distance float64 `json:"distance_ly"`
	Tier     string  `json:"tier"`
}

// RenderJSON exports marker positions and drawn connections as a
// pretty-printed JSON document. Connections reference markers by index.
func RenderJSON(m *render.Map, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		RunID:       r.runID,
		Title:       m.Title,
		Summary:     m.Summary,
		Style:       r.style,
		Markers:     make([]jsonMarker, 0, len(m.Markers)),
		Connections: make([]jsonConnection, 0, len(m.Connections)),
	}
	if m.Image != nil {
		out.Width, out.Height = m.Image.Bounds().Dx(), m.Image.Bounds().Dy()
	}

	for _, mk := range m.Markers {
		jm := jsonMarker{X: mk.X, Y: mk.Y, Radius: mk.Radius}
		if mk.Index < len(r.stars) {
			s := r.stars[mk.Index]
			jm.ID, jm.Name, jm.Spectral = s.ID, s.Name, s.Spectral
		}
		out.Markers = append(out.Markers, jm)
	}
	for _, c := range m.Connections {
		out.Connections = append(out.Connections, jsonConnection{
			From:     c.I,
			To:       c.J,
			Distance: c.Distance,
			Tier:     c.Tier.String(),
		})
	}

	return json.MarshalIndent(out, "", "  ")
}
