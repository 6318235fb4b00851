package declutter

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/matzehuels/stellarmap/pkg/projection"
)

func dist(a, b projection.Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

func TestResolveCoincidentPoints(t *testing.T) {
	in := []projection.Point{{X: 500, Y: 500}, {X: 500, Y: 500}}
	res := Resolve(in, 150, 50)

	if d := dist(res.Points[0], res.Points[1]); d < 150 {
		t.Errorf("distance after resolve = %v, want >= 150", d)
	}
	if !res.Converged {
		t.Error("Converged = false, want true")
	}
	if res.Points[0].X >= res.Points[1].X {
		t.Errorf("tie-break should move the lower index left: %+v", res.Points)
	}
	if res.Points[0].Y != 500 || res.Points[1].Y != 500 {
		t.Errorf("tie-break should not change y: %+v", res.Points)
	}
}

func TestResolveDoesNotMutateInput(t *testing.T) {
	in := []projection.Point{{X: 0, Y: 0}, {X: 10, Y: 0}}
	_ = Resolve(in, 150, 50)
	if in[0] != (projection.Point{X: 0, Y: 0}) || in[1] != (projection.Point{X: 10, Y: 0}) {
		t.Errorf("input modified: %+v", in)
	}
}

func TestResolveAlreadySeparated(t *testing.T) {
	in := []projection.Point{{X: 0, Y: 0}, {X: 200, Y: 0}, {X: 0, Y: 400}}
	res := Resolve(in, 150, 50)

	if res.Moves != 0 {
		t.Errorf("Moves = %d, want 0", res.Moves)
	}
	if res.Iterations != 1 {
		t.Errorf("Iterations = %d, want 1", res.Iterations)
	}
	if !res.Converged {
		t.Error("Converged = false, want true")
	}
	for i := range in {
		if res.Points[i] != in[i] {
			t.Errorf("Points[%d] = %+v, want %+v", i, res.Points[i], in[i])
		}
	}
}

func TestResolvePairSymmetric(t *testing.T) {
	in := []projection.Point{{X: 100, Y: 100}, {X: 160, Y: 180}}
	res := Resolve(in, 150, 1)

	// 60/80/100 triangle: each point moves 25 px along the 0.6/0.8 direction.
	want := []projection.Point{{X: 85, Y: 80}, {X: 175, Y: 200}}
	for i := range want {
		if math.Abs(res.Points[i].X-want[i].X) > 1e-9 || math.Abs(res.Points[i].Y-want[i].Y) > 1e-9 {
			t.Errorf("Points[%d] = %+v, want %+v", i, res.Points[i], want[i])
		}
	}
	if d := dist(res.Points[0], res.Points[1]); math.Abs(d-150) > 1e-9 {
		t.Errorf("distance = %v, want 150", d)
	}
}

func TestResolvePostCondition(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for trial := 0; trial < 20; trial++ {
		n := 2 + r.IntN(30)
		in := make([]projection.Point, n)
		for i := range in {
			in[i] = projection.Point{X: r.Float64() * 600, Y: r.Float64() * 600}
		}
		maxIter := 1 + r.IntN(60)
		res := Resolve(in, 150, maxIter)

		if len(res.Points) != n {
			t.Fatalf("trial %d: len = %d, want %d", trial, len(res.Points), n)
		}
		if res.Iterations > maxIter {
			t.Errorf("trial %d: Iterations = %d exceeds budget %d", trial, res.Iterations, maxIter)
		}
		if res.Converged {
			if o := Overlaps(res.Points, 150); o != 0 {
				t.Errorf("trial %d: converged with %d overlapping pairs", trial, o)
			}
		} else if res.Iterations != maxIter {
			t.Errorf("trial %d: stopped after %d of %d passes without converging", trial, res.Iterations, maxIter)
		}
	}
}

func TestResolveManyCoincident(t *testing.T) {
	in := make([]projection.Point, 5)
	for i := range in {
		in[i] = projection.Point{X: 250, Y: 250}
	}
	res := Resolve(in, 100, DefaultMaxIterations)
	for _, p := range res.Points {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			t.Fatalf("non-finite point %+v", p)
		}
	}
	if res.Moves == 0 {
		t.Error("coincident points were not moved")
	}
}

func TestResolveDeterministic(t *testing.T) {
	in := []projection.Point{{X: 10, Y: 10}, {X: 20, Y: 15}, {X: 12, Y: 30}, {X: 10, Y: 10}}
	a := Resolve(in, 150, 10)
	b := Resolve(in, 150, 10)
	for i := range a.Points {
		if a.Points[i] != b.Points[i] {
			t.Errorf("Points[%d] differs: %+v vs %+v", i, a.Points[i], b.Points[i])
		}
	}
}

func TestResolveTrivialInputs(t *testing.T) {
	tests := []struct {
		name   string
		points []projection.Point
		minSep float64
		iter   int
	}{
		{"empty", nil, 150, 50},
		{"single", []projection.Point{{X: 1, Y: 1}}, 150, 50},
		{"zero separation", []projection.Point{{X: 1, Y: 1}, {X: 1, Y: 1}}, 0, 50},
		{"zero budget", []projection.Point{{X: 1, Y: 1}, {X: 2, Y: 1}}, 150, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Resolve(tt.points, tt.minSep, tt.iter)
			if res.Moves != 0 {
				t.Errorf("Moves = %d, want 0", res.Moves)
			}
			if len(res.Points) != len(tt.points) {
				t.Errorf("len = %d, want %d", len(res.Points), len(tt.points))
			}
		})
	}
}

func TestOverlaps(t *testing.T) {
	pts := []projection.Point{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 300, Y: 0}}
	if got := Overlaps(pts, 150); got != 1 {
		t.Errorf("Overlaps() = %d, want 1", got)
	}
}
