package catalog

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
	"time"

	"github.com/matzehuels/stellarmap/pkg/cache"
	"github.com/matzehuels/stellarmap/pkg/observability"
	"github.com/matzehuels/stellarmap/pkg/star"
)

const cacheKeyType = "catalog"

// Cached serves a Reader's full scan from a cache.
//
// The cache is best effort: read failures fall through to the provider and
// write failures are dropped. Entries are never modified, only replaced when
// they expire.
type Cached struct {
	inner Reader
	cache cache.Cache
	key   string
	ttl   time.Duration

	mu       sync.Mutex
	snapshot []star.Record
	loaded   bool
}

// NewCached wraps inner so that All is stored in c under key for ttl.
func NewCached(inner Reader, c cache.Cache, key string, ttl time.Duration) *Cached {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Cached{inner: inner, cache: c, key: key, ttl: ttl}
}

// All returns the cached snapshot, reading and storing it on a miss.
func (c *Cached) All(ctx context.Context) ([]star.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded || c.fromCache(ctx) {
		return slices.Clone(c.snapshot), nil
	}

	stars, err := c.inner.All(ctx)
	if err != nil {
		return nil, err
	}
	c.snapshot, c.loaded = stars, true

	if data, err := json.Marshal(stars); err == nil {
		if c.cache.Set(ctx, c.key, data, c.ttl) == nil {
			observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
		}
	}
	return slices.Clone(stars), nil
}

// ByName searches the cached snapshot when one exists and otherwise asks the
// provider directly, without forcing a full read.
func (c *Cached) ByName(ctx context.Context, name string) (star.Record, error) {
	c.mu.Lock()
	hit := c.loaded || c.fromCache(ctx)
	snapshot := c.snapshot
	c.mu.Unlock()

	if hit {
		return findByName(snapshot, name, "cached")
	}
	return c.inner.ByName(ctx, name)
}

// fromCache loads the snapshot from the cache. The caller holds c.mu.
func (c *Cached) fromCache(ctx context.Context) bool {
	data, ok, err := c.cache.Get(ctx, c.key)
	if err != nil || !ok {
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return false
	}
	var stars []star.Record
	if err := json.Unmarshal(data, &stars); err != nil {
		_ = c.cache.Delete(ctx, c.key)
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return false
	}
	observability.Cache().OnCacheHit(ctx, cacheKeyType)
	c.snapshot, c.loaded = stars, true
	return true
}

// Invalidate drops the cached snapshot.
func (c *Cached) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot, c.loaded = nil, false
	return c.cache.Delete(ctx, c.key)
}

// Close closes the wrapped provider. The cache is owned by the caller.
func (c *Cached) Close() error {
	return c.inner.Close()
}

var _ Reader = (*Cached)(nil)
