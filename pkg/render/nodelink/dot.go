package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/stellarmap/pkg/links"
	"github.com/matzehuels/stellarmap/pkg/render"
)

// DefaultScale maps canvas pixels to Graphviz points.
const DefaultScale = 0.2

// Options configures DOT generation.
type Options struct {
	// Theme supplies colours, marker sizes and line widths.
	// The zero value uses render.DefaultTheme.
	Theme *render.Theme
	// Scale converts canvas pixels to points (default DefaultScale).
	Scale float64
	// Spectral appends the spectral type to each label.
	Spectral bool
}

// ToDOT converts a scene to an undirected Graphviz graph with every star
// pinned at its canvas position. Node ids are "s<index>" in scene order.
//
// Connections are chosen exactly as the raster renderer chooses them, so the
// DOT and PNG outputs of one scene always agree. The y axis is flipped because
// Graphviz grows upwards.
func ToDOT(sc render.Scene, opts Options) string {
	t := render.DefaultTheme()
	if opts.Theme != nil {
		t = *opts.Theme
	}
	if t.Style == nil {
		t.Style = render.Classic{}
	}
	scale := opts.Scale
	if scale <= 0 {
		scale = DefaultScale
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  forcelabels=true;\n")
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", render.Hex(t.Background))
	fmt.Fprintf(&buf, "  node [shape=circle, style=filled, fixedsize=true, label=\"\", color=%q, fontcolor=%q, fontsize=%s];\n",
		render.Hex(t.MarkerOutline), render.Hex(t.Text), fmtNum(t.SmallFont*scale))
	fmt.Fprintf(&buf, "  edge [color=%q];\n", render.Hex(t.Line))
	buf.WriteString("\n")

	for i, s := range sc.Stars {
		p := sc.Points[i]
		r := render.MarkerRadius(s.Luminosity, t.BaseRadius, t.MaxMultiplier)
		x, y := p.X*scale, (float64(sc.Height)-p.Y)*scale

		label := s.Name
		if opts.Spectral && strings.TrimSpace(s.Spectral) != "" {
			label += "\n" + strings.TrimSpace(s.Spectral)
		}
		fill := t.Style.MarkerFill(t, s)
		attrs := []string{
			fmt.Sprintf("xlabel=%q", label),
			fmt.Sprintf("pos=\"%s,%s!\"", fmtNum(x), fmtNum(y)),
			fmt.Sprintf("width=%s", fmtNum(2*r*scale/72)),
			fmt.Sprintf("fillcolor=%q", render.Hex(color.RGBAModel.Convert(fill).(color.RGBA))),
		}
		if i == sc.Reference {
			attrs = append(attrs,
				fmt.Sprintf("color=%q", render.Hex(t.HighlightOutline)),
				fmt.Sprintf("penwidth=%s", fmtNum(t.HighlightOutlineWidth)),
				fmt.Sprintf("fontcolor=%q", render.Hex(t.HighlightText)),
				fmt.Sprintf("fontsize=%s", fmtNum(t.FontSize*scale)),
			)
		}
		fmt.Fprintf(&buf, "  s%d [%s];\n", i, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, c := range links.Connections(sc.Pairs, sc.Thresholds) {
		fmt.Fprintf(&buf, "  s%d -- s%d [penwidth=%s, tooltip=\"%.2f ly\"];\n",
			c.I, c.J, fmtNum(t.LineWidths[c.Tier]), c.Distance)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RenderSVG renders a DOT graph to SVG using Graphviz's neato engine, which
// honours the pinned node positions written by ToDOT.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
