// Package config loads stellarmap settings from a TOML file and the
// environment.
//
// Precedence, lowest first: built-in defaults (pkg/pipeline constants), the
// TOML file, environment variables (optionally seeded from .env files), and
// finally command-line flags, which the CLI applies on top of the returned
// Config.
//
// A config file looks like:
//
//	[catalog]
//	source = "astro.db"
//
//	[cache]
//	ttl = "12h"
//
//	[map]
//	radius = 15
//	style = "spectral"
//	formats = ["png", "svg"]
//
//	[map.colors]
//	background = "#000010"
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	serrors "github.com/matzehuels/stellarmap/pkg/errors"
	"github.com/matzehuels/stellarmap/pkg/pipeline"
)

// AppName names the config and cache directories.
const AppName = "stellarmap"

// FileName is the config file looked up in the user config directory.
const FileName = "config.toml"

// Environment variables read by ApplyEnv and Path.
const (
	EnvConfig        = "STELLARMAP_CONFIG"
	EnvCatalog       = "STELLARMAP_CATALOG"
	EnvMongoURI      = "STELLARMAP_MONGO_URI"
	EnvNeo4jURI      = "STELLARMAP_NEO4J_URI"
	EnvNeo4jUser     = "STELLARMAP_NEO4J_USER"
	EnvNeo4jPassword = "STELLARMAP_NEO4J_PASSWORD"
	EnvRedisAddr     = "STELLARMAP_REDIS_ADDR"
)

// EnvFiles are loaded by LoadEnv in order. Variables already set are never
// overwritten, so .env.local wins over .env and the real environment wins
// over both.
var EnvFiles = []string{".env.local", ".env"}

// Config is the complete set of file and environment settings.
type Config struct {
	Catalog Catalog          `toml:"catalog"`
	Cache   Cache            `toml:"cache"`
	Map     pipeline.Options `toml:"map"`

	// Path is the file the config was read from, empty for defaults.
	Path string `toml:"-"`
}

// Catalog selects the star catalog.
type Catalog struct {
	// Source is a file path or a mongodb://, neo4j:// or sqlite: URI.
	Source string `toml:"source"`
	// Schema forces the SQLite layout ("astrodb" or "stars").
	Schema string `toml:"schema"`

	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`

	Neo4jURI      string `toml:"neo4j_uri"`
	Neo4jUser     string `toml:"neo4j_user"`
	Neo4jPassword string `toml:"neo4j_password"`
	Neo4jDatabase string `toml:"neo4j_database"`
}

// ResolveSource returns arg if set, otherwise the configured source,
// otherwise the Mongo or Neo4j URI. It returns "" when nothing is configured.
func (c Catalog) ResolveSource(arg string) string {
	for _, s := range []string{arg, c.Source, c.MongoURI, c.Neo4jURI} {
		if s != "" {
			return s
		}
	}
	return ""
}

// Cache configures the catalog snapshot cache.
type Cache struct {
	Disabled  bool          `toml:"disabled"`
	Dir       string        `toml:"dir"`
	RedisAddr string        `toml:"redis_addr"`
	TTL       time.Duration `toml:"ttl"`
}

// Default returns a Config with no file and no environment applied.
func Default() *Config {
	return &Config{}
}

// Path returns the config file to read. An explicit path (the --config flag)
// wins over $STELLARMAP_CONFIG, which wins over
// $XDG_CONFIG_HOME/stellarmap/config.toml. Explicit paths must exist; the
// default location is optional and "" is returned when it is absent.
func Path(explicit string) (string, error) {
	if explicit == "" {
		explicit = os.Getenv(EnvConfig)
	}
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", serrors.Wrap(serrors.ErrCodeInvalidConfig, err, "config file %s", explicit)
		}
		return explicit, nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "", nil
	}
	path := filepath.Join(dir, AppName, FileName)
	if _, err := os.Stat(path); err != nil {
		return "", nil
	}
	return path, nil
}

// Load reads the config file at path. An empty path returns Default().
// Unknown keys are rejected so typos do not silently fall back to defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, serrors.New(serrors.ErrCodeInvalidConfig,
			"%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if cfg.Cache.TTL < 0 {
		return nil, serrors.New(serrors.ErrCodeInvalidConfig, "%s: cache ttl must not be negative", path)
	}
	cfg.Path = path
	return cfg, nil
}

// LoadEnv loads the given .env files (EnvFiles when none are given) into the
// process environment. Missing files are skipped; malformed ones are errors.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = EnvFiles
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return serrors.Wrap(serrors.ErrCodeInvalidConfig, err, "load %s", f)
		}
	}
	return nil
}

// ApplyEnv overrides catalog and cache settings with any STELLARMAP_*
// variables that are set and non-empty.
func (c *Config) ApplyEnv() {
	for _, e := range []struct {
		name string
		dst  *string
	}{
		{EnvCatalog, &c.Catalog.Source},
		{EnvMongoURI, &c.Catalog.MongoURI},
		{EnvNeo4jURI, &c.Catalog.Neo4jURI},
		{EnvNeo4jUser, &c.Catalog.Neo4jUser},
		{EnvNeo4jPassword, &c.Catalog.Neo4jPassword},
		{EnvRedisAddr, &c.Cache.RedisAddr},
	} {
		if v := os.Getenv(e.name); v != "" {
			*e.dst = v
		}
	}
}

// Resolve runs the usual startup sequence: load .env files, locate and read
// the config file, then apply the environment.
func Resolve(explicit string) (*Config, error) {
	if err := LoadEnv(); err != nil {
		return nil, err
	}
	path, err := Path(explicit)
	if err != nil {
		return nil, err
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}
