package pipeline

import (
	"context"

	"github.com/matzehuels/stellarmap/pkg/declutter"
	"github.com/matzehuels/stellarmap/pkg/errors"
	"github.com/matzehuels/stellarmap/pkg/links"
	"github.com/matzehuels/stellarmap/pkg/projection"
	"github.com/matzehuels/stellarmap/pkg/region"
	"github.com/matzehuels/stellarmap/pkg/render"
	"github.com/matzehuels/stellarmap/pkg/render/nodelink"
	"github.com/matzehuels/stellarmap/pkg/render/sink"
)

// Scene assembles the render scene for a selection and its layout.
// Pair distances come from the 3D catalog positions, never from the layout.
func Scene(sel region.Selection, fit projection.Fit, layout declutter.Result, opts Options) render.Scene {
	return render.Scene{
		Stars:      sel.Stars,
		Points:     layout.Points,
		Pairs:      links.PairDistances(sel.Stars),
		Reference:  0,
		Width:      opts.Width,
		Height:     opts.Height,
		Thresholds: opts.Thresholds(),
		Title:      opts.Title,
		Summary:    opts.Summary,
		Radius:     opts.Radius,
		Scale:      fit.Scale,
	}
}

// Draw renders the raster map for a selection and its layout.
func (r *Runner) Draw(sel region.Selection, fit projection.Fit, layout declutter.Result, opts Options) (*render.Map, error) {
	theme, err := opts.Theme()
	if err != nil {
		return nil, err
	}
	m, err := render.Render(Scene(sel, fit, layout, opts), theme, r.Fonts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "draw map")
	}
	return m, nil
}

// Encode produces one artifact per requested format from a rendered result,
// plus a thumbnail when opts.Thumbnail is set.
func (r *Runner) Encode(ctx context.Context, res *Result, opts Options) (map[string][]byte, error) {
	if res.Map == nil {
		return nil, errors.New(errors.ErrCodeInternal, "encode: no rendered map")
	}
	theme, err := opts.Theme()
	if err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats)+1)
	var dot string
	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var data []byte
		switch format {
		case FormatPNG:
			data, err = sink.RenderPNG(res.Map)
		case FormatJPEG:
			data, err = sink.RenderJPEG(res.Map, sink.WithQuality(opts.Quality))
		case FormatDOT, FormatSVG:
			if dot == "" {
				dot = nodelink.ToDOT(Scene(res.Selection, res.Fit, res.Layout, opts), nodelink.Options{
					Theme:    &theme,
					Spectral: opts.Style == render.StyleSpectral,
				})
			}
			if format == FormatDOT {
				data = []byte(dot)
			} else {
				data, err = nodelink.RenderSVG(ctx, dot)
			}
		case FormatJSON:
			data, err = sink.RenderJSON(res.Map,
				sink.WithJSONStars(res.Selection.Stars),
				sink.WithJSONStyle(opts.Style),
				sink.WithJSONRunID(res.RunID))
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %q", format)
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode %s", format)
		}
		artifacts[format] = data
	}

	if opts.Thumbnail > 0 {
		data, err := sink.RenderPNG(res.Map, sink.WithThumbnail(opts.Thumbnail))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode thumbnail")
		}
		artifacts[ArtifactThumbnail] = data
	}
	return artifacts, nil
}
