package catalog

import (
	"context"
	"slices"

	"github.com/matzehuels/stellarmap/pkg/errors"
	"github.com/matzehuels/stellarmap/pkg/star"
)

// Reader is a read-only star catalog.
type Reader interface {
	// All returns every star in the catalog in provider order.
	All(ctx context.Context) ([]star.Record, error)

	// ByName returns the star whose name equals name exactly. It returns an
	// error with code errors.ErrCodeNotFound when no star matches.
	ByName(ctx context.Context, name string) (star.Record, error)

	// Close releases the provider's resources.
	Close() error
}

// Importer is a Reader that can also store stars. Import upserts, so
// importing the same catalog twice leaves one copy.
type Importer interface {
	Reader
	Import(ctx context.Context, stars []star.Record) (int, error)
}

// Memory is a Reader over a fixed slice of records.
type Memory struct {
	name  string
	stars []star.Record
}

// NewMemory returns a Reader serving a copy of stars.
func NewMemory(stars []star.Record) *Memory {
	return &Memory{name: "memory", stars: slices.Clone(stars)}
}

// All returns a copy of the records.
func (m *Memory) All(context.Context) ([]star.Record, error) {
	return slices.Clone(m.stars), nil
}

// ByName returns the first record named name.
func (m *Memory) ByName(_ context.Context, name string) (star.Record, error) {
	return findByName(m.stars, name, m.name)
}

// Len returns the number of records.
func (m *Memory) Len() int { return len(m.stars) }

// Close does nothing.
func (m *Memory) Close() error { return nil }

func findByName(stars []star.Record, name, provider string) (star.Record, error) {
	for _, s := range stars {
		if s.Name == name {
			return s, nil
		}
	}
	return star.Record{}, notFound(name, provider)
}

func notFound(name, provider string) error {
	return errors.New(errors.ErrCodeNotFound, "star %q not found in %s catalog", name, provider)
}

func unavailable(err error, provider, format string, args ...any) error {
	e := errors.Wrap(errors.ErrCodeCatalogUnavailable, err, format, args...)
	e.Message = provider + ": " + e.Message
	return e
}

var (
	_ Reader   = (*Memory)(nil)
	_ Importer = (*Mongo)(nil)
	_ Importer = (*Neo4j)(nil)
)
