// Package links computes true 3D distances between selected stars and
// decides which pairs are joined on the map.
//
// Distances come from catalog positions only. Projection and declutter
// never influence them: two markers can overlap on the canvas without being
// close in space, and the other way round.
package links

import (
	"cmp"
	"slices"

	"github.com/matzehuels/stellarmap/pkg/star"
)

// Pair is the 3D distance between stars I and J (I < J), in light-years.
type Pair struct {
	I, J     int
	Distance float64
}

// PairDistances returns one Pair for every unordered pair of stars, ordered
// by (I, J).
func PairDistances(stars []star.Record) []Pair {
	n := len(stars)
	pairs := make([]Pair, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, Pair{I: i, J: j, Distance: star.DistanceBetween(stars[i], stars[j])})
		}
	}
	return pairs
}

// Tier is a connection line weight class.
type Tier int

// Line tiers from heaviest to lightest.
const (
	TierTight Tier = iota
	TierMedium
	TierLoose
)

// String returns the tier name.
func (t Tier) String() string {
	switch t {
	case TierTight:
		return "tight"
	case TierMedium:
		return "medium"
	default:
		return "loose"
	}
}

// Thresholds decides which pairs are connected and how heavily.
type Thresholds struct {
	// Close is the distance below which a pair is connected.
	Close float64
	// Tight and Medium are the breakpoints for the heavier line tiers.
	Tight  float64
	Medium float64
}

// DefaultThresholds match the reference map: lines under 10 ly, heavy
// under 5 ly, medium under 8 ly.
var DefaultThresholds = Thresholds{Close: 10, Tight: 5, Medium: 8}

// Classify returns the tier for a connection of distance d.
func (th Thresholds) Classify(d float64) Tier {
	switch {
	case d < th.Tight:
		return TierTight
	case d < th.Medium:
		return TierMedium
	default:
		return TierLoose
	}
}

// Connection is a pair that is drawn on the map.
type Connection struct {
	Pair
	Tier Tier
}

// Connections returns the pairs closer than th.Close, nearest first.
// Equal distances keep (I, J) order.
func Connections(pairs []Pair, th Thresholds) []Connection {
	var conns []Connection
	for _, p := range pairs {
		if p.Distance < th.Close {
			conns = append(conns, Connection{Pair: p, Tier: th.Classify(p.Distance)})
		}
	}
	slices.SortStableFunc(conns, func(a, b Connection) int {
		return cmp.Compare(a.Distance, b.Distance)
	})
	return conns
}
