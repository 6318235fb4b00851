package catalog

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/matzehuels/stellarmap/pkg/cache"
	"github.com/matzehuels/stellarmap/pkg/errors"
)

// Provider kinds returned by Kind.
const (
	KindCSV    = FormatCSV
	KindJSON   = FormatJSON
	KindYAML   = FormatYAML
	KindSQLite = "sqlite"
	KindMongo  = "mongo"
	KindNeo4j  = "neo4j"
)

// Options configures Open.
type Options struct {
	// Schema selects the SQLite table layout (SchemaAuto by default).
	Schema string

	// Mongo database and collection; empty selects the defaults.
	MongoDatabase   string
	MongoCollection string

	// Neo4j credentials and database. Credentials embedded in the URL's
	// userinfo take precedence.
	Neo4jUser     string
	Neo4jPassword string
	Neo4jDatabase string

	// Cache stores full scans of SQLite, MongoDB and Neo4j catalogs.
	// File catalogs are always read directly.
	Cache cache.Cache
	Keyer cache.Keyer
	TTL   time.Duration
}

// Kind reports which provider Open would use for source.
func Kind(source string) (string, error) {
	if scheme, _, ok := strings.Cut(source, "://"); ok {
		switch strings.ToLower(scheme) {
		case "mongodb", "mongodb+srv":
			return KindMongo, nil
		case "neo4j", "neo4j+s", "neo4j+ssc", "bolt", "bolt+s", "bolt+ssc":
			return KindNeo4j, nil
		case "sqlite", "file":
			return KindSQLite, nil
		}
		return "", errors.New(errors.ErrCodeInvalidInput, "unsupported catalog scheme %q", scheme)
	}
	if f := FileFormat(source); f != "" {
		return f, nil
	}
	switch strings.ToLower(filepath.Ext(source)) {
	case ".db", ".sqlite", ".sqlite3", ".astrodb":
		return KindSQLite, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput,
		"cannot infer catalog type of %q (want .csv, .json, .yaml, .db, .astrodb or a mongodb://, neo4j://, sqlite:// url)", source)
}

// Open returns the Reader for source.
func Open(ctx context.Context, source string, opts Options) (Reader, error) {
	kind, err := Kind(source)
	if err != nil {
		return nil, err
	}

	var (
		r   Reader
		key cache.CatalogKeyOpts
	)
	switch kind {
	case KindCSV, KindJSON, KindYAML:
		return ReadFile(source)

	case KindSQLite:
		path := sqlitePath(source)
		s, err := OpenSQLite(ctx, path, opts.Schema)
		if err != nil {
			return nil, err
		}
		r = s
		key = cache.CatalogKeyOpts{Fingerprint: s.Fingerprint(), Query: s.Schema()}

	case KindMongo:
		m, err := OpenMongo(ctx, source, opts.MongoDatabase, opts.MongoCollection)
		if err != nil {
			return nil, err
		}
		r = m
		key = cache.CatalogKeyOpts{Query: opts.MongoDatabase + "/" + opts.MongoCollection}

	case KindNeo4j:
		uri, user, pass := neo4jCredentials(source, opts.Neo4jUser, opts.Neo4jPassword)
		n, err := OpenNeo4j(ctx, uri, user, pass, opts.Neo4jDatabase)
		if err != nil {
			return nil, err
		}
		r = n
		key = cache.CatalogKeyOpts{Query: opts.Neo4jDatabase + "/Star"}
	}

	if opts.Cache == nil {
		return r, nil
	}
	keyer := opts.Keyer
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	ttl := opts.TTL
	if ttl == 0 {
		ttl = cache.DefaultTTL
	}
	return NewCached(r, opts.Cache, keyer.CatalogKey(source, key), ttl), nil
}

func sqlitePath(source string) string {
	for _, prefix := range []string{"sqlite://", "file://"} {
		if len(source) >= len(prefix) && strings.EqualFold(source[:len(prefix)], prefix) {
			return source[len(prefix):]
		}
	}
	return source
}

// neo4jCredentials moves userinfo out of the URL, which the driver rejects.
func neo4jCredentials(source, user, pass string) (uri, u, p string) {
	parsed, err := url.Parse(source)
	if err != nil || parsed.User == nil {
		return source, user, pass
	}
	u = parsed.User.Username()
	p, _ = parsed.User.Password()
	parsed.User = nil
	return parsed.String(), u, p
}

func fileFingerprint(path string) string {
	fi, err := os.Stat(path)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%d-%d", fi.Size(), fi.ModTime().UnixNano())
}
