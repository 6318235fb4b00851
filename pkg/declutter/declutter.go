// Package declutter spreads out overlapping map markers.
//
// [Resolve] runs a bounded pairwise repulsion: every pair of points closer
// than the minimum separation is pushed apart symmetrically along the line
// joining them. Passes repeat until a pass moves nothing or the iteration
// budget is spent. The result is best effort. When the budget runs out some
// pairs may still be closer than the minimum; [Result.Converged] reports
// which case occurred.
//
// Cost is O(n²) per pass, which suits the tens of stars in one map.
package declutter

import (
	"math"

	"github.com/matzehuels/stellarmap/pkg/projection"
)

// Default tunables, taken from the reference renderer.
const (
	DefaultMinSeparation = 150.0
	DefaultMaxIterations = 50
)

// Result is the outcome of one Resolve call.
type Result struct {
	// Points holds the adjusted positions, index-aligned with the input.
	Points []projection.Point
	// Iterations is the number of passes executed.
	Iterations int
	// Moves counts pair adjustments across all passes.
	Moves int
	// Converged is true when the last pass made no adjustment, meaning every
	// pair is at least the minimum separation apart.
	Converged bool
}

// Resolve pushes apart points closer than minSep, for at most maxIter passes.
//
// Pairs are visited in index order (i < j) so results are reproducible.
// Each close pair (i, j) moves by (minSep - dist) / 2 in opposite directions
// along the unit vector from i to j.
//
// Exactly coincident points have no direction. They are separated along the
// +x axis: i moves left and j moves right by minSep / 2 each, which leaves
// them exactly minSep apart.
//
// The input slice is not modified.
func Resolve(points []projection.Point, minSep float64, maxIter int) Result {
	pos := make([]projection.Point, len(points))
	copy(pos, points)

	res := Result{Points: pos}
	if len(pos) < 2 || minSep <= 0 {
		res.Converged = true
		return res
	}

	for res.Iterations < maxIter {
		res.Iterations++
		moved := false

		for i := 0; i < len(pos); i++ {
			for j := i + 1; j < len(pos); j++ {
				if separate(&pos[i], &pos[j], minSep) {
					moved = true
					res.Moves++
				}
			}
		}

		if !moved {
			res.Converged = true
			break
		}
	}
	return res
}

// separate pushes a and b apart if they are closer than minSep and reports
// whether it moved them.
func separate(a, b *projection.Point, minSep float64) bool {
	dx := b.X - a.X
	dy := b.Y - a.Y
	dist := math.Hypot(dx, dy)
	if dist >= minSep {
		return false
	}

	var ux, uy, force float64
	if dist == 0 {
		ux, uy = 1, 0
		force = minSep / 2
	} else {
		ux, uy = dx/dist, dy/dist
		force = (minSep - dist) / 2
	}

	a.X -= ux * force
	a.Y -= uy * force
	b.X += ux * force
	b.Y += uy * force
	return true
}

// Overlaps returns the number of pairs in points closer than minSep.
func Overlaps(points []projection.Point, minSep float64) int {
	n := 0
	for i := 0; i < len(points); i++ {
		for j := i + 1; j < len(points); j++ {
			if math.Hypot(points[j].X-points[i].X, points[j].Y-points[i].Y) < minSep {
				n++
			}
		}
	}
	return n
}
