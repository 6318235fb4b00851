package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/matzehuels/stellarmap/pkg/cache"
	"github.com/matzehuels/stellarmap/pkg/errors"
	"github.com/matzehuels/stellarmap/pkg/star"
)

type countingReader struct {
	*Memory
	all, byName int
}

func (r *countingReader) All(ctx context.Context) ([]star.Record, error) {
	r.all++
	return r.Memory.All(ctx)
}

func (r *countingReader) ByName(ctx context.Context, name string) (star.Record, error) {
	r.byName++
	return r.Memory.ByName(ctx, name)
}

type countingCache struct {
	data map[string][]byte
	sets int
}

func newCountingCache() *countingCache {
	return &countingCache{data: make(map[string][]byte)}
}

func (c *countingCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *countingCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.sets++
	c.data[key] = data
	return nil
}

func (c *countingCache) Delete(_ context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func (c *countingCache) Close() error { return nil }

var _ cache.Cache = (*countingCache)(nil)

func TestCachedAll(t *testing.T) {
	ctx := context.Background()
	c := newCountingCache()

	first := &countingReader{Memory: NewMemory(sample)}
	r := NewCached(first, c, "k", time.Hour)
	stars, err := r.All(ctx)
	if err != nil || len(stars) != 3 {
		t.Fatalf("All() = %v, %v", stars, err)
	}
	if _, err := r.All(ctx); err != nil {
		t.Fatal(err)
	}
	if first.all != 1 || c.sets != 1 {
		t.Errorf("provider reads = %d, cache sets = %d; want 1, 1", first.all, c.sets)
	}

	// A fresh reader over the same cache never touches its provider.
	second := &countingReader{Memory: NewMemory(nil)}
	r2 := NewCached(second, c, "k", time.Hour)
	stars, err = r2.All(ctx)
	if err != nil || len(stars) != 3 || stars[2].Name != "Barnard's Star" {
		t.Fatalf("cached All() = %v, %v", stars, err)
	}
	if _, err := r2.ByName(ctx, "Sol"); err != nil {
		t.Errorf("ByName from snapshot: %v", err)
	}
	if second.all != 0 || second.byName != 0 {
		t.Errorf("provider used despite cache hit: all=%d byName=%d", second.all, second.byName)
	}
}

func TestCachedByNameMiss(t *testing.T) {
	ctx := context.Background()
	inner := &countingReader{Memory: NewMemory(sample)}
	r := NewCached(inner, newCountingCache(), "k", time.Hour)

	if _, err := r.ByName(ctx, "Sol"); err != nil {
		t.Fatal(err)
	}
	if inner.byName != 1 || inner.all != 0 {
		t.Errorf("ByName on a cold cache should query the provider directly: all=%d byName=%d", inner.all, inner.byName)
	}
}

func TestCachedCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c := newCountingCache()
	c.data["k"] = []byte("not json")

	inner := &countingReader{Memory: NewMemory(sample)}
	stars, err := NewCached(inner, c, "k", time.Hour).All(ctx)
	if err != nil || len(stars) != 3 {
		t.Fatalf("All() = %v, %v", stars, err)
	}
	if inner.all != 1 {
		t.Errorf("corrupt entry should fall back to the provider")
	}
}

func TestCachedInvalidate(t *testing.T) {
	ctx := context.Background()
	c := newCountingCache()
	inner := &countingReader{Memory: NewMemory(sample)}
	r := NewCached(inner, c, "k", time.Hour)

	if _, err := r.All(ctx); err != nil {
		t.Fatal(err)
	}
	if err := r.Invalidate(ctx); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.data["k"]; ok {
		t.Error("Invalidate should delete the entry")
	}
	if _, err := r.All(ctx); err != nil {
		t.Fatal(err)
	}
	if inner.all != 2 {
		t.Errorf("provider reads = %d, want 2", inner.all)
	}
}

func TestCachedNotFound(t *testing.T) {
	ctx := context.Background()
	r := NewCached(NewMemory(sample), nil, "k", 0)
	if _, err := r.All(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := r.ByName(ctx, "Vega"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("got %v", err)
	}
}
