// Package cli implements the stellarmap command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stellarmap/pkg/buildinfo"
	"github.com/matzehuels/stellarmap/pkg/cache"
	"github.com/matzehuels/stellarmap/pkg/catalog"
	"github.com/matzehuels/stellarmap/pkg/config"
	"github.com/matzehuels/stellarmap/pkg/errors"
	"github.com/matzehuels/stellarmap/pkg/fonts"
	"github.com/matzehuels/stellarmap/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. Debug output also names the
// calling source line.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	c.Logger.SetReportCaller(level <= log.DebugLevel)
}

// newLogger writes timestamped lines ("14:32:01.45") to w at level and above.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		ReportCaller:    level <= log.DebugLevel,
		Level:           level,
	})
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Stellarmap draws 2D maps of the stars around a reference star",
		Long:         `Stellarmap selects the stars within a radius of a reference star from a catalog, projects them onto a plane, and renders a labelled map with lines between stars that are close in space.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "",
		"config file (default $XDG_CONFIG_HOME/stellarmap/config.toml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.catalogCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config
// =============================================================================

// config loads the config file and environment once per process.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Resolve(c.configPath)
	if err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		c.Logger.Debug("loaded config", "path", cfg.Path)
	}
	c.cfg = cfg
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(r catalog.Reader) *pipeline.Runner {
	return pipeline.NewRunner(r, fonts.Load(), c.Logger)
}

// newCache picks the catalog cache: nil when disabled, Redis when an
// address is configured and reachable, otherwise the file cache.
func (c *CLI) newCache(ctx context.Context, cfg *config.Config, noCache bool) cache.Cache {
	if noCache || cfg.Cache.Disabled {
		return nil
	}
	if addr := cfg.Cache.RedisAddr; addr != "" {
		rc, err := cache.NewRedisCache(ctx, addr)
		if err == nil {
			c.Logger.Debug("using redis cache", "addr", addr)
			return rc
		}
		c.Logger.Warn("redis cache unavailable, using file cache", "err", err)
	}
	dir, err := cacheDir(cfg)
	if err != nil {
		return nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("file cache unavailable", "dir", dir, "err", err)
		return nil
	}
	return fc
}

// catalogHandle is an open catalog plus the cache it reads through, if any.
type catalogHandle struct {
	catalog.Reader
	cache cache.Cache
}

// Close closes the reader and then the cache.
func (h *catalogHandle) Close() error {
	err := h.Reader.Close()
	if h.cache == nil {
		return err
	}
	if cerr := h.cache.Close(); err == nil {
		err = cerr
	}
	return err
}

// openCatalog opens the catalog named by arg or, when arg is empty, by the
// config file or environment.
func (c *CLI) openCatalog(ctx context.Context, cfg *config.Config, arg string, noCache bool) (*catalogHandle, error) {
	source := cfg.Catalog.ResolveSource(arg)
	if source == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"no catalog given: pass --catalog, set %s, or add [catalog] source to the config file", config.EnvCatalog)
	}

	kind, err := catalog.Kind(source)
	if err != nil {
		return nil, err
	}
	ch := c.newCache(ctx, cfg, noCache)
	opts := catalogOptions(cfg)
	opts.Cache = ch

	var s *Spinner
	if kind == catalog.KindMongo || kind == catalog.KindNeo4j {
		s = newSpinnerWithContext(ctx, os.Stderr, "Connecting to "+kind+"...")
		s.Start()
	}
	r, err := catalog.Open(ctx, source, opts)
	if s != nil {
		s.Stop()
	}
	if err != nil {
		if ch != nil {
			_ = ch.Close()
		}
		return nil, err
	}
	c.Logger.Debug("opened catalog", "source", redact(source), "kind", kind)
	return &catalogHandle{Reader: r, cache: ch}, nil
}

// catalogOptions maps config settings to catalog.Open options.
func catalogOptions(cfg *config.Config) catalog.Options {
	return catalog.Options{
		Schema:          cfg.Catalog.Schema,
		MongoDatabase:   cfg.Catalog.MongoDatabase,
		MongoCollection: cfg.Catalog.MongoCollection,
		Neo4jUser:       cfg.Catalog.Neo4jUser,
		Neo4jPassword:   cfg.Catalog.Neo4jPassword,
		Neo4jDatabase:   cfg.Catalog.Neo4jDatabase,
		Keyer:           cache.NewScopedKeyer(nil, appName+":"),
		TTL:             cfg.Cache.TTL,
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory or the XDG default
// (~/.cache/stellarmap/).
func cacheDir(cfg *config.Config) (string, error) {
	if cfg != nil && cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	return cache.DefaultDir()
}

// redact hides the password of a URL-style source for logging.
func redact(source string) string {
	scheme, rest, ok := strings.Cut(source, "://")
	if !ok {
		return source
	}
	userinfo, host, ok := strings.Cut(rest, "@")
	if !ok {
		return source
	}
	if user, _, hasPass := strings.Cut(userinfo, ":"); hasPass {
		return scheme + "://" + user + ":***@" + host
	}
	return source
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
// An empty string returns nil so the config or pipeline default applies.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
