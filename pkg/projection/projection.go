// Package projection maps 3D star positions onto a 2D canvas.
//
// The projection is orthographic: one spatial axis is dropped and the
// remaining two become canvas coordinates. The projected cloud is centred on
// the canvas and uniformly scaled so its padded bounding box fits inside the
// margins. There is no rotation, perspective or camera model.
package projection

import (
	"fmt"
	"strings"

	"github.com/matzehuels/stellarmap/pkg/star"
)

// Point is a position in canvas pixels.
type Point struct {
	X, Y float64
}

// Plane names the two axes that survive the projection.
type Plane string

// Supported projection planes. PlaneXY drops z and is the default.
const (
	PlaneXY Plane = "xy"
	PlaneXZ Plane = "xz"
	PlaneYZ Plane = "yz"
)

// ParsePlane parses a plane name such as "xy" or "XZ".
func ParsePlane(s string) (Plane, error) {
	switch p := Plane(strings.ToLower(strings.TrimSpace(s))); p {
	case "", PlaneXY:
		return PlaneXY, nil
	case PlaneXZ, PlaneYZ:
		return p, nil
	}
	return "", fmt.Errorf("invalid plane: %q (must be one of: xy, xz, yz)", s)
}

// Flatten returns the two retained coordinates of v for this plane.
func (p Plane) Flatten(v star.Vec3) (float64, float64) {
	switch p {
	case PlaneXZ:
		return v.X, v.Z
	case PlaneYZ:
		return v.Y, v.Z
	default:
		return v.X, v.Y
	}
}

// Frame describes the target canvas.
type Frame struct {
	Width  float64 // canvas width in pixels
	Height float64 // canvas height in pixels
	Margin float64 // blank border kept on every side
	// Padding widens the bounding box span on each axis by (1 + Padding).
	Padding float64
	Plane   Plane
}

// Fit is the transform computed for one projection.
type Fit struct {
	MinX, MaxX float64
	MinY, MaxY float64
	CenterX    float64
	CenterY    float64
	// Scale is pixels per light-year. It is 1 when either padded span is not
	// positive (a single star, or stars aligned along one retained axis).
	Scale float64
}

// Apply maps retained coordinates (x, y) to canvas pixels.
func (f Fit) Apply(fr Frame, x, y float64) Point {
	return Point{
		X: (x-f.CenterX)*f.Scale + fr.Width/2,
		Y: (y-f.CenterY)*f.Scale + fr.Height/2,
	}
}

// Compute derives the bounding box, center and scale for stars in frame fr.
// It returns the zero Fit with Scale 1 when stars is empty.
func Compute(stars []star.Record, fr Frame) Fit {
	if len(stars) == 0 {
		return Fit{Scale: 1}
	}

	var f Fit
	for i, s := range stars {
		x, y := fr.Plane.Flatten(s.Position())
		if i == 0 {
			f.MinX, f.MaxX, f.MinY, f.MaxY = x, x, y, y
			continue
		}
		f.MinX = min(f.MinX, x)
		f.MaxX = max(f.MaxX, x)
		f.MinY = min(f.MinY, y)
		f.MaxY = max(f.MaxY, y)
	}

	spanX := (f.MaxX - f.MinX) * (1 + fr.Padding)
	spanY := (f.MaxY - f.MinY) * (1 + fr.Padding)
	f.CenterX = (f.MinX + f.MaxX) / 2
	f.CenterY = (f.MinY + f.MaxY) / 2

	availW := fr.Width - 2*fr.Margin
	availH := fr.Height - 2*fr.Margin

	f.Scale = 1
	if spanX > 0 && spanY > 0 {
		f.Scale = min(availW/spanX, availH/spanY)
	}
	return f
}

// Project returns one canvas point per star, in the same order as stars.
// It is a pure function of its inputs.
func Project(stars []star.Record, fr Frame) []Point {
	_, points := ProjectFit(stars, fr)
	return points
}

// ProjectFit is Project that also returns the computed transform.
func ProjectFit(stars []star.Record, fr Frame) (Fit, []Point) {
	f := Compute(stars, fr)
	points := make([]Point, len(stars))
	for i, s := range stars {
		x, y := fr.Plane.Flatten(s.Position())
		points[i] = f.Apply(fr, x, y)
	}
	return f, points
}
