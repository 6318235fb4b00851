package region

import (
	"context"
	"fmt"
	"slices"

	"golang.org/x/text/cases"

	"github.com/matzehuels/stellarmap/pkg/catalog"
	"github.com/matzehuels/stellarmap/pkg/errors"
	"github.com/matzehuels/stellarmap/pkg/star"
)

// DefaultSuggestions is the number of catalog names attached to a
// ReferenceNotFoundError.
const DefaultSuggestions = 20

// Selection is the reference star followed by its neighbours.
//
// Stars[0] is always the reference. Every other element lies within Radius
// light-years of it and no star ID appears twice.
type Selection struct {
	Stars  []star.Record
	Radius float64
}

// Reference returns the reference star.
func (s Selection) Reference() star.Record {
	return s.Stars[0]
}

// Neighbors returns the selected stars other than the reference.
func (s Selection) Neighbors() []star.Record {
	return s.Stars[1:]
}

// Len returns the number of selected stars including the reference.
func (s Selection) Len() int {
	return len(s.Stars)
}

// Select returns the reference star named reference and every star in
// catalog within radius light-years of it (inclusive).
//
// The catalog is only read. The scan is linear in the catalog size.
func Select(catalog []star.Record, reference string, radius float64) (Selection, error) {
	if err := errors.ValidateStarName(reference); err != nil {
		return Selection{}, err
	}
	if err := errors.ValidateNonNegative("selection radius", radius); err != nil {
		return Selection{}, err
	}

	ref := Lookup(catalog, reference)
	if ref < 0 {
		return Selection{}, &errors.ReferenceNotFoundError{
			Name:        reference,
			Suggestions: Suggest(catalog, DefaultSuggestions),
		}
	}

	center := catalog[ref]
	sel := Selection{
		Stars:  []star.Record{center},
		Radius: radius,
	}

	seen := make(map[string]bool)
	if center.ID != "" {
		seen[center.ID] = true
	}
	for i, s := range catalog {
		if i == ref {
			continue
		}
		if s.ID != "" && seen[s.ID] {
			continue
		}
		if star.DistanceBetween(center, s) > radius {
			continue
		}
		if s.ID != "" {
			seen[s.ID] = true
		}
		sel.Stars = append(sel.Stars, s)
	}
	return sel, nil
}

// Lookup returns the index of the star named name, or -1.
// An exact match wins; otherwise the first case-insensitive match is used.
func Lookup(catalog []star.Record, name string) int {
	for i, s := range catalog {
		if s.Name == name {
			return i
		}
	}

	fold := cases.Fold()
	want := fold.String(name)
	for i, s := range catalog {
		if fold.String(s.Name) == want {
			return i
		}
	}
	return -1
}

// Suggest returns up to n catalog names in alphabetical order.
func Suggest(catalog []star.Record, n int) []string {
	if n <= 0 {
		return nil
	}
	names := make([]string, 0, len(catalog))
	for _, s := range catalog {
		names = append(names, s.Name)
	}
	slices.Sort(names)
	names = slices.Compact(names)
	if len(names) > n {
		names = names[:n]
	}
	return names
}

// SelectFrom reads the whole catalog from r once and applies Select.
func SelectFrom(ctx context.Context, r catalog.Reader, reference string, radius float64) (Selection, error) {
	stars, err := r.All(ctx)
	if err != nil {
		return Selection{}, fmt.Errorf("read catalog: %w", err)
	}
	return Select(stars, reference, radius)
}
