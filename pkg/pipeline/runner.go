package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/stellarmap/pkg/catalog"
	"github.com/matzehuels/stellarmap/pkg/errors"
	"github.com/matzehuels/stellarmap/pkg/fonts"
	"github.com/matzehuels/stellarmap/pkg/observability"
	"github.com/matzehuels/stellarmap/pkg/region"
	"github.com/matzehuels/stellarmap/pkg/star"
)

// Runner executes the map pipeline against one catalog.
//
// The Runner stores no pipeline results. Multiple goroutines can use the
// same Runner with different options as long as the catalog reader is safe
// for concurrent use (every reader in pkg/catalog is).
type Runner struct {
	Catalog catalog.Reader
	Fonts   *fonts.Set
	Logger  *log.Logger
}

// NewRunner creates a runner over the given catalog.
// If f is nil, the embedded font is used.
// If logger is nil, log.Default() is used.
func NewRunner(c catalog.Reader, f *fonts.Set, logger *log.Logger) *Runner {
	if f == nil {
		f = fonts.Embedded()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Catalog: c,
		Fonts:   f,
		Logger:  logger,
	}
}

// Execute runs the complete select → project → declutter → render → encode
// pipeline, reading the catalog through r.Catalog.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if r.Catalog == nil {
		return nil, errors.New(errors.ErrCodeCatalogUnavailable, "no catalog configured")
	}
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	res := newResult()
	start := time.Now()
	sel, err := r.stage(ctx, observability.StageSelect, func() (int, error) {
		var err error
		res.Selection, err = region.SelectFrom(ctx, r.Catalog, opts.Reference, opts.Radius)
		return res.Selection.Len(), err
	})
	if err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}
	res.Stats.SelectTime = time.Since(start)

	r.Logger.Info("selected stars",
		"run", res.RunID,
		"reference", res.Selection.Reference().Name,
		"stars", sel,
		"radius", opts.Radius,
		"duration", res.Stats.SelectTime)

	return r.finish(ctx, res, opts)
}

// ExecuteStars runs the pipeline on an in-memory catalog, skipping r.Catalog.
func (r *Runner) ExecuteStars(ctx context.Context, stars []star.Record, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	res := newResult()
	start := time.Now()
	n, err := r.stage(ctx, observability.StageSelect, func() (int, error) {
		var err error
		res.Selection, err = region.Select(stars, opts.Reference, opts.Radius)
		return res.Selection.Len(), err
	})
	if err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}
	res.Stats.SelectTime = time.Since(start)

	r.Logger.Info("selected stars",
		"run", res.RunID,
		"reference", res.Selection.Reference().Name,
		"stars", n,
		"radius", opts.Radius,
		"duration", res.Stats.SelectTime)

	return r.finish(ctx, res, opts)
}

// finish runs every stage after selection.
func (r *Runner) finish(ctx context.Context, res *Result, opts Options) (*Result, error) {
	stars := res.Selection.Stars
	res.Stats.Stars = len(stars)

	// Stage 2: Project
	start := time.Now()
	if _, err := r.stage(ctx, observability.StageProject, func() (int, error) {
		res.Fit, res.Layout.Points = Project(stars, opts)
		return len(res.Layout.Points), nil
	}); err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}

	// Stage 3: Declutter
	if _, err := r.stage(ctx, observability.StageDeclutter, func() (int, error) {
		res.Layout = Declutter(res.Layout.Points, opts)
		return res.Layout.Moves, nil
	}); err != nil {
		return nil, fmt.Errorf("declutter: %w", err)
	}
	res.Stats.LayoutTime = time.Since(start)
	res.Stats.Iterations = res.Layout.Iterations
	res.Stats.Moves = res.Layout.Moves
	res.Stats.Converged = res.Layout.Converged

	r.Logger.Info("computed layout",
		"run", res.RunID,
		"scale", res.Fit.Scale,
		"iterations", res.Layout.Iterations,
		"moves", res.Layout.Moves,
		"duration", res.Stats.LayoutTime)
	if !res.Layout.Converged {
		r.Logger.Warn("markers still overlap after declutter",
			"run", res.RunID,
			"overlaps", Overlaps(res.Layout, opts))
	}

	// Stage 4: Render
	start = time.Now()
	if _, err := r.stage(ctx, observability.StageRender, func() (int, error) {
		var err error
		res.Map, err = r.Draw(res.Selection, res.Fit, res.Layout, opts)
		if err != nil {
			return 0, err
		}
		return len(res.Map.Connections), nil
	}); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	res.Stats.RenderTime = time.Since(start)
	res.Stats.Connections = len(res.Map.Connections)

	r.Logger.Info("rendered map",
		"run", res.RunID,
		"connections", res.Stats.Connections,
		"duration", res.Stats.RenderTime)

	// Stage 5: Encode
	start = time.Now()
	if _, err := r.stage(ctx, observability.StageEncode, func() (int, error) {
		var err error
		res.Artifacts, err = r.Encode(ctx, res, opts)
		return len(res.Artifacts), err
	}); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	res.Stats.EncodeTime = time.Since(start)

	r.Logger.Info("encoded outputs",
		"run", res.RunID,
		"formats", opts.Formats,
		"duration", res.Stats.EncodeTime)

	return res, nil
}

// stage runs fn between the observability hooks for s. It returns early if
// ctx is already done.
func (r *Runner) stage(ctx context.Context, s observability.Stage, fn func() (int, error)) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, s)
	start := time.Now()
	n, err := fn()
	hooks.OnStageComplete(ctx, s, n, time.Since(start), err)
	return n, err
}

// Close closes the catalog reader.
func (r *Runner) Close() error {
	if r.Catalog != nil {
		return r.Catalog.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if r.Logger != nil && opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func newResult() *Result {
	return &Result{
		RunID:     uuid.NewString(),
		Artifacts: make(map[string][]byte),
	}
}
