// Package cli implements the llmstream command-line interface.
//
// # Commands
//
//   - render: draw a dataset to SVG, PNG, JSON or HTML files
//   - serve: host the interactive chart with live hover tooltips
//   - explore: browse per-series monthly usage in the terminal
//   - inspect: summarise a dataset and check it against the series list
//   - cache: manage the render cache
//   - config: print or create a configuration file
//
// All commands support --verbose (-v) for debug-level logging and --config
// to load a TOML configuration file.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/llmstream/pkg/cache"
	"github.com/matzehuels/llmstream/pkg/config"
	"github.com/matzehuels/llmstream/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "llmstream"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadConfig reads the --config file, or returns the defaults when none was
// given.
func (c *CLI) loadConfig() (config.Config, error) {
	if c.configPath == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return cfg, err
	}
	c.Logger.Debug("loaded config", "path", c.configPath, "chart", cfg.Chart.String())
	return cfg, nil
}

// serveScope prefixes the cache keys of the live server.
const serveScope = "serve:"

// newRunner creates a pipeline runner backed by the configured cache. A
// non-empty scope prefixes every cache key the runner uses.
func (c *CLI) newRunner(ctx context.Context, cfg config.Cache, noCache bool, scope string) (*pipeline.Runner, error) {
	cc, err := newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewDefaultKeyer()
	if scope != "" {
		keyer = cache.NewScopedKeyer(keyer, scope)
	}
	r := pipeline.NewRunner(cc, keyer, c.Logger)
	r.TTL = cfg.TTL()
	return r, nil
}

func newCache(ctx context.Context, cfg config.Cache, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   appName + ":",
		})
	default:
		dir := cfg.Dir
		if dir == "" {
			d, err := cacheDir()
			if err != nil {
				return cache.NewNullCache(), nil
			}
			dir = d
		}
		return cache.NewFileCache(dir)
	}
}

// cacheDir returns the cache directory using XDG standard (~/.cache/llmstream/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
