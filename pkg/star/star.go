// Package star defines the star record shared by every stage of the map
// pipeline, together with the geometry and classification helpers that only
// depend on a single record.
//
// Records are values: once fetched from a catalog they are never modified.
// Everything downstream (selection, projection, rendering) refers to stars by
// their index in a slice of records, so the slice order is significant.
package star

import (
	"math"
	"strings"
)

// Record is one catalog star.
//
// Positions are in light-years. Physical attributes are in solar units and
// may be zero when the catalog does not know them; Spectral may be empty,
// meaning "unclassified".
type Record struct {
	ID       string  `json:"id" yaml:"id" bson:"id"`
	Name     string  `json:"name" yaml:"name" bson:"name"`
	X        float64 `json:"x" yaml:"x" bson:"x"`
	Y        float64 `json:"y" yaml:"y" bson:"y"`
	Z        float64 `json:"z" yaml:"z" bson:"z"`
	Spectral string  `json:"spectral,omitempty" yaml:"spectral,omitempty" bson:"spectral,omitempty"`

	Radius      float64 `json:"radius,omitempty" yaml:"radius,omitempty" bson:"radius,omitempty"`
	Mass        float64 `json:"mass,omitempty" yaml:"mass,omitempty" bson:"mass,omitempty"`
	Luminosity  float64 `json:"luminosity,omitempty" yaml:"luminosity,omitempty" bson:"luminosity,omitempty"`
	Temperature float64 `json:"temperature,omitempty" yaml:"temperature,omitempty" bson:"temperature,omitempty"`

	// System is the name of the multi-star container this star belongs to,
	// empty for single-star systems.
	System string `json:"system,omitempty" yaml:"system,omitempty" bson:"system,omitempty"`
}

// Vec3 is a position in light-years.
type Vec3 struct {
	X, Y, Z float64
}

// Position returns the record's 3D coordinates.
func (r Record) Position() Vec3 {
	return Vec3{X: r.X, Y: r.Y, Z: r.Z}
}

// Class returns the record's parsed spectral class.
func (r Record) Class() Class {
	return ParseClass(r.Spectral)
}

// IsMultiple reports whether the star is a component of a multi-star system.
func (r Record) IsMultiple() bool {
	return r.System != ""
}

// Distance returns the Euclidean distance between two positions.
func Distance(a, b Vec3) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	dz := b.Z - a.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// DistanceBetween returns the 3D distance between two records in light-years.
func DistanceBetween(a, b Record) float64 {
	return Distance(a.Position(), b.Position())
}

// Label returns the two-line map label for the record: its name and, when
// present, its spectral type.
func (r Record) Label() (name, spectral string) {
	return r.Name, strings.TrimSpace(r.Spectral)
}
