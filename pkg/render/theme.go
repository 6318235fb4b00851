package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/matzehuels/stellarmap/pkg/star"
)

// Theme holds every visual tunable of a map.
type Theme struct {
	Background color.RGBA
	Line       color.RGBA
	Text       color.RGBA

	Marker             color.RGBA // marker fill for the Classic style
	MarkerOutline      color.RGBA
	MarkerOutlineWidth float64

	HighlightFill         color.RGBA // reference halo fill
	HighlightOutline      color.RGBA
	HighlightOutlineWidth float64
	HighlightPad          float64 // halo radius beyond the marker radius
	HighlightText         color.RGBA

	TitleText color.RGBA
	InfoText  color.RGBA

	// BaseRadius is the marker radius for a star of luminosity 1.
	BaseRadius float64
	// MaxMultiplier caps the luminosity-derived radius multiplier.
	MaxMultiplier float64

	// LineWidths are indexed by links.Tier: tight, medium, loose.
	LineWidths [3]float64

	// LabelOffset is the gap between the bottom edge of a marker (or the
	// reference halo) and the first label line.
	LabelOffset float64
	FontSize    float64 // reference label and title
	SmallFont   float64 // other labels and summary

	TitleX, TitleY float64
	InfoY          float64

	Style Style
}

// DefaultTheme mirrors the reference map: black sky, white stars, light
// blue connections and a gold halo around the reference star.
func DefaultTheme() Theme {
	return Theme{
		Background: color.RGBA{0, 0, 0, 255},
		Line:       color.RGBA{100, 150, 255, 255},
		Text:       color.RGBA{200, 220, 255, 255},

		Marker:             color.RGBA{255, 255, 255, 255},
		MarkerOutline:      color.RGBA{200, 220, 255, 255},
		MarkerOutlineWidth: 2,

		HighlightFill:         color.RGBA{255, 200, 0, 255},
		HighlightOutline:      color.RGBA{255, 255, 0, 255},
		HighlightOutlineWidth: 5,
		HighlightPad:          10,
		HighlightText:         color.RGBA{255, 200, 0, 255},

		TitleText: color.RGBA{255, 255, 255, 255},
		InfoText:  color.RGBA{150, 150, 150, 255},

		BaseRadius:    80,
		MaxMultiplier: 3,
		LineWidths:    [3]float64{5, 4, 3},

		LabelOffset: 50,
		FontSize:    40,
		SmallFont:   30,

		TitleX: 50,
		TitleY: 50,
		InfoY:  120,

		Style: Classic{},
	}
}

// Style selects marker fill colours.
type Style interface {
	// Name identifies the style in configuration ("classic", "spectral").
	Name() string
	// MarkerFill returns the fill for a non-reference marker.
	MarkerFill(t Theme, s star.Record) color.Color
}

// Style names accepted by ParseStyle.
const (
	StyleClassic  = "classic"
	StyleSpectral = "spectral"
)

// ParseStyle returns the Style registered under name.
func ParseStyle(name string) (Style, error) {
	switch strings.ToLower(name) {
	case "", StyleClassic:
		return Classic{}, nil
	case StyleSpectral:
		return Spectral{}, nil
	}
	return nil, fmt.Errorf("invalid style: %q (must be one of: classic, spectral)", name)
}

// Classic paints every marker with Theme.Marker.
type Classic struct{}

// Name returns "classic".
func (Classic) Name() string { return StyleClassic }

// MarkerFill returns t.Marker.
func (Classic) MarkerFill(t Theme, _ star.Record) color.Color { return t.Marker }

// Spectral paints markers with the core colour of their spectral class.
type Spectral struct{}

// Name returns "spectral".
func (Spectral) Name() string { return StyleSpectral }

// MarkerFill returns the class colour of s.
func (Spectral) MarkerFill(_ Theme, s star.Record) color.Color { return ClassColor(s.Class()) }

var classColors = map[star.Class]color.RGBA{
	star.ClassO:       {155, 176, 255, 255},
	star.ClassB:       {170, 191, 255, 255},
	star.ClassA:       {202, 215, 255, 255},
	star.ClassF:       {248, 247, 255, 255},
	star.ClassG:       {255, 244, 234, 255},
	star.ClassK:       {255, 210, 161, 255},
	star.ClassM:       {255, 204, 111, 255},
	star.ClassUnknown: {200, 200, 200, 255},
}

// ClassColor returns the marker colour for a spectral class.
func ClassColor(c star.Class) color.RGBA {
	if rgba, ok := classColors[c]; ok {
		return rgba
	}
	return classColors[star.ClassUnknown]
}

// ParseHex parses "#rrggbb", "rrggbb" or "#rrggbbaa" into a colour.
func ParseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 && len(h) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid color %q: want #rrggbb or #rrggbbaa", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	if len(h) == 6 {
		v = v<<8 | 0xff
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// Hex formats c as "#rrggbb", appending alpha only when it is not opaque.
func Hex(c color.RGBA) string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
