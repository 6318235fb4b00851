package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stellarmap/pkg/catalog"
	"github.com/matzehuels/stellarmap/pkg/errors"
	"github.com/matzehuels/stellarmap/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
// Map settings are bound into opts and only override the config file for
// flags the user actually set.
type renderOpts struct {
	catalog string            // catalog source (file path or URL)
	output  string            // output file, base path, or "-" for stdout
	formats string            // comma-separated output formats
	colors  map[string]string // theme colour overrides
	noCache bool              // bypass the catalog cache
	refresh bool              // drop the cached catalog snapshot first
	margin  float64           // bound to --margin; opts.Margin is a pointer
	padding float64           // bound to --padding
	opts    pipeline.Options
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var ro renderOpts

	cmd := &cobra.Command{
		Use:   "render [reference]",
		Short: "Render a map of the stars around a reference star",
		Long: `Render selects every catalog star within --radius light-years of the
reference star, projects the selection onto a plane, spreads out overlapping
markers and draws the map. Stars closer than --close light-years in space are
joined by lines.

The reference may be omitted when the config file sets [map] reference.`,
		Example: `  stellarmap render Amateru --catalog astro.db
  stellarmap render "Proxima Centauri" -c stars.csv -f png,svg -o proxima
  stellarmap render Sol -c mongodb://localhost:27017 --radius 12 --style spectral`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: c.completeStarNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			var ref string
			if len(args) == 1 {
				ref = args[0]
			}
			return c.runRender(cmd.Context(), cmd, ref, &ro)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&ro.catalog, "catalog", "c", "", "catalog: .csv/.json/.yaml/.db file or mongodb://, neo4j://, sqlite:// url")
	f.StringVarP(&ro.output, "output", "o", "", "output file or base path (default <reference>_map), - for stdout")
	f.StringVarP(&ro.formats, "format", "f", "", "output format(s): png (default), jpeg, svg, dot, json (comma-separated)")
	f.StringToStringVar(&ro.colors, "color", nil, "colour overrides, e.g. background=#000010,line=#6496ff")
	f.BoolVar(&ro.noCache, "no-cache", false, "read the catalog without the cache")
	f.BoolVar(&ro.refresh, "refresh", false, "discard the cached catalog snapshot before reading")

	o := &ro.opts
	f.Float64VarP(&o.Radius, "radius", "r", pipeline.DefaultRadius, "selection radius in light-years")
	f.IntVar(&o.Width, "width", pipeline.DefaultWidth, "canvas width in pixels")
	f.IntVar(&o.Height, "height", pipeline.DefaultHeight, "canvas height in pixels")
	f.Float64Var(&ro.margin, "margin", pipeline.DefaultMargin, "blank border in pixels")
	f.Float64Var(&ro.padding, "padding", pipeline.DefaultPadding, "fraction added to the projected extent")
	f.StringVar(&o.Plane, "plane", pipeline.DefaultPlane, "projection plane: xy, xz, yz")
	f.Float64Var(&o.MinSeparation, "min-separation", pipeline.DefaultMinSeparation, "minimum marker distance in pixels")
	f.IntVar(&o.MaxIterations, "max-iterations", pipeline.DefaultMaxIterations, "declutter pass limit")
	f.BoolVar(&o.NoDeclutter, "no-declutter", false, "draw stars at their projected positions")
	f.Float64Var(&o.Close, "close", pipeline.DefaultClose, "connect stars closer than this many light-years")
	f.Float64Var(&o.Tight, "tight", pipeline.DefaultTight, "thickest line below this distance")
	f.Float64Var(&o.Medium, "medium", pipeline.DefaultMedium, "medium line below this distance")
	f.StringVar(&o.Style, "style", pipeline.DefaultStyle, "marker style: classic, spectral")
	f.Float64Var(&o.BaseRadius, "base-radius", 0, "marker radius for one solar luminosity (default 80)")
	f.Float64Var(&o.MaxMultiplier, "max-multiplier", 0, "largest marker size as a multiple of base radius (default 3)")
	f.StringVar(&o.Title, "title", "", "title line (default generated)")
	f.StringVar(&o.Summary, "summary", "", "summary line (default generated)")
	f.IntVar(&o.Thumbnail, "thumbnail", 0, "also write a PNG thumbnail fitting NxN pixels")
	f.IntVar(&o.Quality, "quality", pipeline.DefaultQuality, "JPEG quality (1-100)")

	return cmd
}

// runRender resolves options, opens the catalog, runs the pipeline and
// writes every artifact.
func (c *CLI) runRender(ctx context.Context, cmd *cobra.Command, ref string, ro *renderOpts) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}

	opts := cfg.Map
	opts.Formats = slices.Clone(opts.Formats)
	if ref != "" {
		opts.Reference = ref
	}
	mergeFlags(cmd, &opts, ro)
	if formats := parseFormats(ro.formats); formats != nil {
		opts.Formats = formats
	} else if f := outputFormat(ro.output); f != "" && len(opts.Formats) == 0 {
		opts.Formats = []string{f}
	}
	if err := applyColors(&opts.Colors, ro.colors); err != nil {
		return err
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if ro.output == "-" && (len(opts.Formats) != 1 || opts.Thumbnail > 0) {
		return errors.New(errors.ErrCodeInvalidInput, "output - needs exactly one format and no thumbnail")
	}
	if ro.output != "" && ro.output != "-" {
		if err := errors.ValidateOutputPath(ro.output); err != nil {
			return err
		}
	}

	h, err := c.openCatalog(ctx, cfg, ro.catalog, ro.noCache)
	if err != nil {
		return err
	}
	defer h.Close()

	if ro.refresh {
		if cr, ok := h.Reader.(*catalog.Cached); ok {
			if err := cr.Invalidate(ctx); err != nil {
				c.Logger.Warn("could not drop cached catalog", "err", err)
			}
		}
	}

	res, err := c.newRunner(h.Reader).Execute(ctx, opts)
	if err != nil {
		var nf *errors.ReferenceNotFoundError
		if stderrors.As(err, &nf) {
			printError("Star %q is not in the catalog", nf.Name)
			if len(nf.Suggestions) > 0 {
				printDetail("Catalog starts with: %s, ...", strings.Join(nf.Suggestions, ", "))
			}
		}
		return err
	}

	if ro.output == "-" {
		_, err := os.Stdout.Write(res.Artifacts[opts.Formats[0]])
		return err
	}

	base := basePath(ro.output, res.Selection.Reference().Name)
	paths, err := writeArtifacts(base, res.Artifacts)
	if err != nil {
		return err
	}

	printSuccess("Mapped %s", StyleTitle.Render(res.Map.Title))
	printStats(res.Stats)
	if !res.Stats.Converged && !opts.NoDeclutter {
		printWarning("Some markers still overlap: raise --max-iterations or lower --min-separation")
	}
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// mergeFlags copies every map flag the user set from ro into dst.
func mergeFlags(cmd *cobra.Command, dst *pipeline.Options, ro *renderOpts) {
	src := ro.opts
	fs := cmd.Flags()
	set := func(name string, apply func()) {
		if fs.Changed(name) {
			apply()
		}
	}
	set("radius", func() { dst.Radius = src.Radius })
	set("width", func() { dst.Width = src.Width })
	set("height", func() { dst.Height = src.Height })
	set("margin", func() { dst.Margin = pipeline.Float(ro.margin) })
	set("padding", func() { dst.Padding = pipeline.Float(ro.padding) })
	set("plane", func() { dst.Plane = src.Plane })
	set("min-separation", func() { dst.MinSeparation = src.MinSeparation })
	set("max-iterations", func() { dst.MaxIterations = src.MaxIterations })
	set("no-declutter", func() { dst.NoDeclutter = src.NoDeclutter })
	set("close", func() { dst.Close = src.Close })
	set("tight", func() { dst.Tight = src.Tight })
	set("medium", func() { dst.Medium = src.Medium })
	set("style", func() { dst.Style = src.Style })
	set("base-radius", func() { dst.BaseRadius = src.BaseRadius })
	set("max-multiplier", func() { dst.MaxMultiplier = src.MaxMultiplier })
	set("title", func() { dst.Title = src.Title })
	set("summary", func() { dst.Summary = src.Summary })
	set("thumbnail", func() { dst.Thumbnail = src.Thumbnail })
	set("quality", func() { dst.Quality = src.Quality })
}

// applyColors sets theme colour overrides by key. Values are validated later
// by Options.Theme.
func applyColors(dst *pipeline.Colors, colors map[string]string) error {
	for key, hex := range colors {
		var field *string
		switch strings.ReplaceAll(strings.ToLower(key), "-", "_") {
		case "background":
			field = &dst.Background
		case "line":
			field = &dst.Line
		case "text":
			field = &dst.Text
		case "marker":
			field = &dst.Marker
		case "marker_outline":
			field = &dst.MarkerOutline
		case "highlight":
			field = &dst.Highlight
		case "highlight_outline":
			field = &dst.HighlightOutline
		case "title":
			field = &dst.Title
		case "info":
			field = &dst.Info
		default:
			return errors.New(errors.ErrCodeInvalidInput, "unknown colour %q", key)
		}
		*field = hex
	}
	return nil
}

// artifactOrder fixes the order files are written and listed in.
var artifactOrder = []string{
	pipeline.FormatPNG,
	pipeline.FormatJPEG,
	pipeline.FormatSVG,
	pipeline.FormatDOT,
	pipeline.FormatJSON,
	pipeline.ArtifactThumbnail,
}

// artifactPath returns the file an artifact is written to.
func artifactPath(base, name string) string {
	if name == pipeline.ArtifactThumbnail {
		return base + "_thumb.png"
	}
	return base + "." + pipeline.Extension(name)
}

// writeArtifacts writes each artifact next to base and returns the paths in
// artifactOrder. Nothing is written if any path is invalid.
func writeArtifacts(base string, artifacts map[string][]byte) ([]string, error) {
	for name := range artifacts {
		if err := errors.ValidateOutputPath(artifactPath(base, name)); err != nil {
			return nil, err
		}
	}
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	var paths []string
	for _, name := range artifactOrder {
		data, ok := artifacts[name]
		if !ok {
			continue
		}
		path := artifactPath(base, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// outputFormat returns the format implied by output's extension, if any.
func outputFormat(output string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(output), "."))
	if ext == "jpg" {
		return pipeline.FormatJPEG
	}
	if pipeline.ValidFormats[ext] {
		return ext
	}
	return ""
}

// basePath derives the base output path. With no output it is the reference
// name in snake case plus "_map"; a known format extension is stripped.
func basePath(output, reference string) string {
	if output == "" {
		return slug(reference) + "_map"
	}
	if outputFormat(output) != "" {
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	return output
}

// slug lowercases s and replaces runs of other characters with "_".
func slug(s string) string {
	var b strings.Builder
	underscore := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			underscore = false
			continue
		}
		if !underscore && b.Len() > 0 {
			b.WriteByte('_')
			underscore = true
		}
	}
	out := strings.TrimSuffix(b.String(), "_")
	if out == "" {
		return "star"
	}
	return out
}
