// Package cache stores fetched star catalogs between runs.
//
// Reading a large catalog from SQLite, MongoDB or Neo4j dominates the cost of
// drawing a map, while the selected region changes on every run. The catalog
// layer therefore caches whole provider reads, keyed by a [Keyer], in one of
// three backends:
//
//   - [FileCache]: JSON entries under the user cache directory (CLI default)
//   - [RedisCache]: a shared Redis instance, for several machines drawing
//     from one catalog server
//   - [NullCache]: never stores anything (--no-cache)
//
// Rendered images are never cached.
package cache

import (
	"context"
	"errors"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// DefaultTTL is how long a cached catalog stays valid.
const DefaultTTL = 24 * time.Hour

// ErrNetwork marks failures to reach a remote backend. Callers may fall back
// to a local cache when errors.Is(err, ErrNetwork).
var ErrNetwork = errors.New("cache backend unreachable")

// NullCache never stores anything. The catalog layer uses it when it is
// given no cache at all.
type NullCache struct{}

// NewNullCache returns a cache that always misses.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error { return nil }
func (NullCache) Close() error { return nil }

var _ Cache = NullCache{}
