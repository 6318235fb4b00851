package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Keyer generates cache keys. Swapping the Keyer lets several users share a
// backend without seeing each other's entries (see [ScopedKeyer]).
type Keyer interface {
	// CatalogKey returns the key for a full read of the catalog at source.
	// Version distinguishes incompatible record encodings.
	CatalogKey(source string, opts CatalogKeyOpts) string
}

// CatalogKeyOpts are the inputs, besides the source, that change what a
// catalog read returns.
type CatalogKeyOpts struct {
	// Fingerprint identifies the source contents, such as a file's size and
	// modification time. Empty for remote sources.
	Fingerprint string `json:"fingerprint,omitempty"`
	// Query names the collection, table or label read from the source.
	Query string `json:"query,omitempty"`
}

// CatalogVersion is bumped whenever star.Record's cached encoding changes.
const CatalogVersion = 1

// DefaultKeyer hashes the source and options into a fixed-length key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default Keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// CatalogKey returns "catalog:<sha256>".
func (DefaultKeyer) CatalogKey(source string, opts CatalogKeyOpts) string {
	return "catalog:" + digest(CatalogVersion, source, opts)
}

// ScopedKeyer prefixes every key of an inner Keyer, so that entries written
// by this tool are easy to list and clear in a shared Redis.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) CatalogKey(source string, opts CatalogKeyOpts) string {
	return k.prefix + k.inner.CatalogKey(source, opts)
}

// digest is the hex SHA-256 of the JSON encoding of parts.
func digest(parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
