// Package pipeline provides the star map pipeline for stellarmap.
//
// This package implements the complete select → project → declutter →
// render pipeline used by the CLI. By centralizing this logic, every entry
// point applies the same defaults and validation.
//
// # Architecture
//
// The pipeline consists of four stages plus encoding:
//
//  1. Select: find the reference star and its neighbours within a radius
//  2. Project: map 3D positions onto the canvas orthographically
//  3. Declutter: push overlapping markers apart (bounded, best effort)
//  4. Render: draw connections, markers, labels and the header
//
// The rendered map is then encoded into each requested format (PNG, JPEG,
// SVG, DOT, JSON).
//
// # Usage
//
// Create a Runner over a catalog and execute the pipeline:
//
//	runner := pipeline.NewRunner(reader, nil, logger)
//	opts := pipeline.Options{
//	    Reference: "Amateru",
//	    Radius:    20,
//	    Formats:   []string{"png"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Artifacts["png"]
//
// Run individual stages on validated options:
//
//	if err := opts.ValidateAndSetDefaults(); err != nil {
//	    return err
//	}
//	sel, err := region.SelectFrom(ctx, reader, opts.Reference, opts.Radius)
//	fit, points := pipeline.Project(sel.Stars, opts)
//	layout := pipeline.Declutter(points, opts)
//	m, err := runner.Draw(sel, fit, layout, opts)
package pipeline

import (
	"fmt"
	"image/color"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stellarmap/pkg/declutter"
	"github.com/matzehuels/stellarmap/pkg/errors"
	"github.com/matzehuels/stellarmap/pkg/links"
	"github.com/matzehuels/stellarmap/pkg/projection"
	"github.com/matzehuels/stellarmap/pkg/region"
	"github.com/matzehuels/stellarmap/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Library
// =============================================================================

const (
	// DefaultRadius is the selection radius in light-years.
	DefaultRadius = 20.0

	// DefaultWidth and DefaultHeight are the canvas size in pixels.
	DefaultWidth  = 5000
	DefaultHeight = 5000

	// DefaultMargin is the blank border kept on every side of the canvas.
	DefaultMargin = 300.0

	// DefaultPadding widens the projected bounding box by this fraction.
	DefaultPadding = 0.1

	// DefaultClose is the distance in light-years below which two stars
	// are connected.
	DefaultClose = 10.0

	// DefaultTight and DefaultMedium are the line tier breakpoints in
	// light-years.
	DefaultTight  = 5.0
	DefaultMedium = 8.0

	// DefaultMinSeparation is the declutter target distance in pixels.
	DefaultMinSeparation = declutter.DefaultMinSeparation

	// DefaultMaxIterations bounds the declutter passes.
	DefaultMaxIterations = declutter.DefaultMaxIterations

	// DefaultStyle is the default marker style.
	DefaultStyle = render.StyleClassic

	// DefaultPlane keeps x and y and drops z.
	DefaultPlane = string(projection.PlaneXY)

	// DefaultQuality is the JPEG quality.
	DefaultQuality = 90
)

// Format constants for output formats.
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ArtifactThumbnail is the Artifacts key of the optional thumbnail PNG.
const ArtifactThumbnail = "thumbnail"

// DefaultFormat is rendered when no format is requested.
const DefaultFormat = FormatPNG

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:  true,
	FormatJPEG: true,
	FormatSVG:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// ValidStyles is the set of supported marker styles.
var ValidStyles = map[string]bool{
	render.StyleClassic:  true,
	render.StyleSpectral: true,
}

// Extension returns the file extension (without dot) for a format.
func Extension(format string) string {
	if format == FormatJPEG {
		return "jpg"
	}
	return format
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Colors overrides theme colours with "#rrggbb" strings. Empty fields keep
// the default theme's colour.
type Colors struct {
	Background       string `json:"background,omitempty" toml:"background"`
	Line             string `json:"line,omitempty" toml:"line"`
	Text             string `json:"text,omitempty" toml:"text"`
	Marker           string `json:"marker,omitempty" toml:"marker"`
	MarkerOutline    string `json:"marker_outline,omitempty" toml:"marker_outline"`
	Highlight        string `json:"highlight,omitempty" toml:"highlight"`
	HighlightOutline string `json:"highlight_outline,omitempty" toml:"highlight_outline"`
	Title            string `json:"title,omitempty" toml:"title"`
	Info             string `json:"info,omitempty" toml:"info"`
}

// Options contains all configuration for the map pipeline.
//
// Numeric fields left at zero take their Default* value, so a zero Radius
// means DefaultRadius. Margin and Padding accept zero, so they are pointers
// and only nil takes the default; set them with [Float]. Set NoDeclutter to
// skip the declutter stage.
type Options struct {
	// Select options
	Reference string  `json:"reference" toml:"reference"`
	Radius    float64 `json:"radius,omitempty" toml:"radius"`

	// Project options
	Width   int     `json:"width,omitempty" toml:"width"`
	Height  int     `json:"height,omitempty" toml:"height"`
	Margin  *float64 `json:"margin,omitempty" toml:"margin"`
	Padding *float64 `json:"padding,omitempty" toml:"padding"`
	Plane   string  `json:"plane,omitempty" toml:"plane"`

	// Declutter options
	MinSeparation float64 `json:"min_separation,omitempty" toml:"min_separation"`
	MaxIterations int     `json:"max_iterations,omitempty" toml:"max_iterations"`
	NoDeclutter   bool    `json:"no_declutter,omitempty" toml:"no_declutter"`

	// Connection options
	Close  float64 `json:"close,omitempty" toml:"close"`
	Tight  float64 `json:"tight,omitempty" toml:"tight"`
	Medium float64 `json:"medium,omitempty" toml:"medium"`

	// Render options
	Style         string     `json:"style,omitempty" toml:"style"`
	Colors        Colors     `json:"colors,omitzero" toml:"colors"`
	BaseRadius    float64    `json:"base_radius,omitempty" toml:"base_radius"`
	MaxMultiplier float64    `json:"max_multiplier,omitempty" toml:"max_multiplier"`
	LineWidths    [3]float64 `json:"line_widths,omitzero" toml:"line_widths"`
	FontSize      float64    `json:"font_size,omitempty" toml:"font_size"`
	SmallFontSize float64    `json:"small_font_size,omitempty" toml:"small_font_size"`
	Title         string     `json:"title,omitempty" toml:"title"`
	Summary       string     `json:"summary,omitempty" toml:"summary"`

	// Encode options
	Formats   []string `json:"formats,omitempty" toml:"formats"`
	Thumbnail int      `json:"thumbnail,omitempty" toml:"thumbnail"`
	Quality   int      `json:"quality,omitempty" toml:"quality"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" toml:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this run in logs and the JSON manifest.
	RunID string

	// Selection is the reference star followed by its neighbours.
	Selection region.Selection

	// Fit is the projection transform (bounds, center, scale).
	Fit projection.Fit

	// Layout is the decluttered marker layout.
	Layout declutter.Result

	// Map is the rendered map with its drawn connections.
	Map *render.Map

	// Artifacts contains encoded outputs keyed by format, plus
	// ArtifactThumbnail when a thumbnail was requested.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Stars       int
	Connections int
	Iterations  int
	Moves       int
	Converged   bool

	SelectTime    time.Duration
	LayoutTime    time.Duration
	RenderTime    time.Duration
	EncodeTime    time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: png, jpeg, svg, dot, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	if !ValidStyles[style] {
		return errors.New(errors.ErrCodeInvalidStyle,
			"invalid style: %q (must be one of: classic, spectral)", style)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForSelect(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForSelect checks the reference name and radius.
func (o *Options) ValidateForSelect() error {
	if err := errors.ValidateStarName(o.Reference); err != nil {
		return err
	}
	if o.Radius == 0 {
		o.Radius = DefaultRadius
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return errors.ValidatePositive("radius", o.Radius)
}

// SetLayoutDefaults sets default values for projection and declutter.
func (o *Options) SetLayoutDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Margin == nil {
		o.Margin = Float(DefaultMargin)
	}
	if o.Padding == nil {
		o.Padding = Float(DefaultPadding)
	}
	if o.Plane == "" {
		o.Plane = DefaultPlane
	}
	if o.MinSeparation == 0 {
		o.MinSeparation = DefaultMinSeparation
	}
	if o.MaxIterations == 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for projection and declutter.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if o.Width <= 0 || o.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "canvas size must be positive, got %dx%d", o.Width, o.Height)
	}
	margin, padding := *o.Margin, *o.Padding
	if err := errors.ValidateNonNegative("margin", margin); err != nil {
		return err
	}
	if 2*margin >= float64(min(o.Width, o.Height)) {
		return errors.New(errors.ErrCodeInvalidInput,
			"margin %g leaves no drawing area on a %dx%d canvas", margin, o.Width, o.Height)
	}
	if err := errors.ValidateNonNegative("padding", padding); err != nil {
		return err
	}
	if _, err := projection.ParsePlane(o.Plane); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "plane")
	}
	if err := errors.ValidatePositive("min separation", o.MinSeparation); err != nil {
		return err
	}
	return errors.ValidatePositive("max iterations", float64(o.MaxIterations))
}

// SetRenderDefaults sets default values for rendering and encoding.
func (o *Options) SetRenderDefaults() {
	if o.Close == 0 {
		o.Close = DefaultClose
	}
	if o.Tight == 0 {
		o.Tight = DefaultTight
	}
	if o.Medium == 0 {
		o.Medium = DefaultMedium
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.Quality == 0 {
		o.Quality = DefaultQuality
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering and encoding.
func (o *Options) ValidateForRender() error {
	o.SetLayoutDefaults()
	o.SetRenderDefaults()

	o.Style = strings.ToLower(o.Style)
	if err := ValidateStyle(o.Style); err != nil {
		return err
	}
	for i, f := range o.Formats {
		o.Formats[i] = strings.ToLower(f)
		if o.Formats[i] == "jpg" {
			o.Formats[i] = FormatJPEG
		}
	}
	o.Formats = dedupe(o.Formats)
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}

	for _, th := range []struct {
		name string
		v    float64
	}{{"close threshold", o.Close}, {"tight threshold", o.Tight}, {"medium threshold", o.Medium}} {
		if err := errors.ValidatePositive(th.name, th.v); err != nil {
			return err
		}
	}
	if o.Tight > o.Medium {
		return errors.New(errors.ErrCodeInvalidInput,
			"tight threshold %g must not exceed medium threshold %g", o.Tight, o.Medium)
	}
	if o.Thumbnail < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "thumbnail size must not be negative, got %d", o.Thumbnail)
	}
	if o.Quality < 1 || o.Quality > 100 {
		return errors.New(errors.ErrCodeInvalidInput, "jpeg quality must be in [1, 100], got %d", o.Quality)
	}
	_, err := o.Theme()
	return err
}

// Float returns a pointer to v, for the optional fields of Options.
func Float(v float64) *float64 { return &v }

func valueOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

// dedupe drops repeated entries, keeping the first occurrence of each.
func dedupe(formats []string) []string {
	seen := make(map[string]bool, len(formats))
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}

// Thresholds returns the connection thresholds.
func (o *Options) Thresholds() links.Thresholds {
	return links.Thresholds{Close: o.Close, Tight: o.Tight, Medium: o.Medium}
}

// Frame returns the projection frame.
func (o *Options) Frame() projection.Frame {
	plane, _ := projection.ParsePlane(o.Plane)
	return projection.Frame{
		Width:   float64(o.Width),
		Height:  float64(o.Height),
		Margin:  valueOr(o.Margin, DefaultMargin),
		Padding: valueOr(o.Padding, DefaultPadding),
		Plane:   plane,
	}
}

// Theme builds the render theme: the default theme with o's overrides.
func (o *Options) Theme() (render.Theme, error) {
	t := render.DefaultTheme()

	style, err := render.ParseStyle(o.Style)
	if err != nil {
		return t, errors.Wrap(errors.ErrCodeInvalidStyle, err, "style")
	}
	t.Style = style

	for _, c := range []struct {
		name string
		hex  string
		dst  []*color.RGBA
	}{
		{"background", o.Colors.Background, []*color.RGBA{&t.Background}},
		{"line", o.Colors.Line, []*color.RGBA{&t.Line}},
		{"text", o.Colors.Text, []*color.RGBA{&t.Text, &t.MarkerOutline}},
		{"marker", o.Colors.Marker, []*color.RGBA{&t.Marker}},
		{"marker_outline", o.Colors.MarkerOutline, []*color.RGBA{&t.MarkerOutline}},
		{"highlight", o.Colors.Highlight, []*color.RGBA{&t.HighlightFill, &t.HighlightText}},
		{"highlight_outline", o.Colors.HighlightOutline, []*color.RGBA{&t.HighlightOutline}},
		{"title", o.Colors.Title, []*color.RGBA{&t.TitleText}},
		{"info", o.Colors.Info, []*color.RGBA{&t.InfoText}},
	} {
		if c.hex == "" {
			continue
		}
		v, err := render.ParseHex(c.hex)
		if err != nil {
			return t, errors.Wrap(errors.ErrCodeInvalidConfig, err, "color %s", c.name)
		}
		for _, d := range c.dst {
			*d = v
		}
	}

	if o.BaseRadius != 0 {
		t.BaseRadius = o.BaseRadius
	}
	if o.MaxMultiplier != 0 {
		t.MaxMultiplier = o.MaxMultiplier
	}
	for i, w := range o.LineWidths {
		if w != 0 {
			t.LineWidths[i] = w
		}
	}
	if o.FontSize != 0 {
		t.FontSize = o.FontSize
	}
	if o.SmallFontSize != 0 {
		t.SmallFont = o.SmallFontSize
	}

	for _, v := range []struct {
		name string
		v    float64
	}{
		{"base radius", t.BaseRadius}, {"max multiplier", t.MaxMultiplier},
		{"font size", t.FontSize}, {"small font size", t.SmallFont},
		{"tight line width", t.LineWidths[0]}, {"medium line width", t.LineWidths[1]},
		{"loose line width", t.LineWidths[2]},
	} {
		if err := errors.ValidatePositive(v.name, v.v); err != nil {
			return t, err
		}
	}
	return t, nil
}

// String summarizes the options for debug logging.
func (o Options) String() string {
	return fmt.Sprintf("reference=%q radius=%g canvas=%dx%d style=%s formats=%v",
		o.Reference, o.Radius, o.Width, o.Height, o.Style, o.Formats)
}
