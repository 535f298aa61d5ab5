package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/llmstream/pkg/cache"
	"github.com/matzehuels/llmstream/pkg/observability"
	"github.com/matzehuels/llmstream/pkg/source"
	"github.com/matzehuels/llmstream/pkg/usage"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is the artifact lifetime. Zero means cache.TTLArtifact.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Load reads a dataset from src. Datasets from sources other than local
// files are cached for cache.TTLDataset unless refresh is set.
func (r *Runner) Load(ctx context.Context, src source.Source, refresh bool) (usage.Dataset, bool, error) {
	if _, local := src.(*source.File); local {
		data, err := src.Load(ctx)
		return data, false, err
	}

	key := r.Keyer.DatasetKey(src.Name())
	if !refresh {
		if raw, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if data, err := usage.ReadJSON(bytes.NewReader(raw)); err == nil {
				observability.Cache().OnCacheHit(ctx, key)
				return data, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, key)
	}

	data, err := src.Load(ctx)
	if err != nil {
		return nil, false, err
	}
	var buf bytes.Buffer
	if err := usage.WriteJSON(&buf, data); err == nil {
		if err := r.Cache.Set(ctx, key, buf.Bytes(), cache.TTLDataset); err == nil {
			observability.Cache().OnCacheSet(ctx, key, buf.Len())
		} else {
			r.Logger.Warn("cache dataset", "source", src.Name(), "err", err)
		}
	}
	return data, false, nil
}

// Run loads a dataset from src and executes the pipeline on it. The
// result records whether the dataset came from the cache.
func (r *Runner) Run(ctx context.Context, src source.Source, opts Options) (*Result, error) {
	data, hit, err := r.Load(ctx, src, opts.Refresh)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", src.Name(), err)
	}
	result, err := r.Execute(ctx, data, opts)
	if err != nil {
		return nil, err
	}
	result.CacheInfo.DatasetHit = hit
	return result, nil
}

// Execute draws data and exports every requested format through the cache.
func (r *Runner) Execute(ctx context.Context, data usage.Dataset, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
		Stats:     Stats{Records: len(data), Series: len(opts.Chart.Series)},
	}
	if data.Empty() {
		result.Empty = true
		r.Logger.Debug("empty dataset, nothing to render")
		return result, nil
	}

	var buf bytes.Buffer
	if err := usage.WriteJSON(&buf, data); err != nil {
		return nil, fmt.Errorf("serialize dataset for cache key: %w", err)
	}
	result.DatasetHash = cache.Hash(buf.Bytes())

	start := time.Now()
	observability.Render().OnExportStart(ctx, opts.Formats)
	artifacts, hit, err := r.renderWithCache(ctx, data, result.DatasetHash, opts)
	result.Stats.RenderTime = time.Since(start)
	observability.Render().OnExportComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = hit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"records", len(data),
		"cached", hit,
		"duration", result.Stats.RenderTime)
	return result, nil
}

func (r *Runner) renderWithCache(ctx context.Context, data usage.Dataset, hash string, opts Options) (map[string][]byte, bool, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if !opts.Refresh {
			if b, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, key)
				artifacts[format] = b
				continue
			}
		}
		observability.Cache().OnCacheMiss(ctx, key)
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	sub := opts
	sub.Formats = missing
	rendered, err := Render(ctx, data, sub)
	if err != nil {
		return nil, false, err
	}

	ttl := r.TTL
	if ttl == 0 {
		ttl = cache.TTLArtifact
	}
	for format, b := range rendered {
		artifacts[format] = b
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, b, ttl); err != nil {
			r.Logger.Warn("cache artifact", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, key, len(b))
	}
	return artifacts, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
