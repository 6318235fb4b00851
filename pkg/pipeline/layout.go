package pipeline

import (
	"slices"

	"github.com/matzehuels/stellarmap/pkg/declutter"
	"github.com/matzehuels/stellarmap/pkg/projection"
	"github.com/matzehuels/stellarmap/pkg/star"
)

// Project maps stars onto the canvas described by opts and returns the
// transform together with one point per star, in input order.
func Project(stars []star.Record, opts Options) (projection.Fit, []projection.Point) {
	return projection.ProjectFit(stars, opts.Frame())
}

// Declutter separates overlapping markers. With opts.NoDeclutter the points
// are returned unchanged and Converged reports whether none overlap.
func Declutter(points []projection.Point, opts Options) declutter.Result {
	if opts.NoDeclutter {
		return declutter.Result{
			Points:    slices.Clone(points),
			Converged: declutter.Overlaps(points, opts.MinSeparation) == 0,
		}
	}
	return declutter.Resolve(points, opts.MinSeparation, opts.MaxIterations)
}

// Overlaps counts marker pairs in layout still closer than the minimum
// separation.
func Overlaps(layout declutter.Result, opts Options) int {
	return declutter.Overlaps(layout.Points, opts.MinSeparation)
}
