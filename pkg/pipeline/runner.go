package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/waterfall/pkg/cache"
	"github.com/matzehuels/waterfall/pkg/chart"
	"github.com/matzehuels/waterfall/pkg/layout"
	"github.com/matzehuels/waterfall/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger; it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
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

// Execute runs layout then render for m.
func (r *Runner) Execute(ctx context.Context, m *chart.Model, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	work, err := opts.ApplyTo(m)
	if err != nil {
		return nil, err
	}
	result := &Result{Model: work}

	// Stage 1: Layout
	layoutStart := time.Now()
	result.Layout = r.layout(ctx, work, opts)
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Categories = result.Layout.N
	result.Stats.Visible = len(result.Layout.Clusters())

	r.Logger.Debug("computed layout",
		"categories", result.Stats.Categories,
		"visible", result.Stats.Visible,
		"window", result.Layout.Window,
		"duration", result.Stats.LayoutTime)

	// Stage 2: Render
	renderStart := time.Now()
	hash, err := ModelHash(work)
	if err != nil {
		return nil, err
	}
	result.ModelHash = hash
	artifacts, hit, err := r.render(ctx, result.Layout, work, hash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = hit

	r.Logger.Info("rendered chart",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Layout computes one layout pass. Layouts are never cached.
func (r *Runner) Layout(ctx context.Context, m *chart.Model, opts Options) (layout.Result, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return layout.Result{}, err
	}
	work, err := opts.ApplyTo(m)
	if err != nil {
		return layout.Result{}, err
	}
	return r.layout(ctx, work, opts), nil
}

func (r *Runner) layout(ctx context.Context, m *chart.Model, opts Options) layout.Result {
	n := m.NumCategories()
	observability.Pipeline().OnLayoutStart(ctx, n)
	start := time.Now()
	res := ComputeLayout(m, opts)
	observability.Pipeline().OnLayoutComplete(ctx, n, time.Since(start), nil)
	return res
}

// RenderWithCacheInfo lays out and renders m, serving artifacts from cache
// where possible, and reports whether every artifact was a cache hit.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, m *chart.Model, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	work, err := opts.ApplyTo(m)
	if err != nil {
		return nil, false, err
	}
	hash, err := ModelHash(work)
	if err != nil {
		return nil, false, err
	}
	return r.render(ctx, r.layout(ctx, work, opts), work, hash, opts)
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, m *chart.Model, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, m, opts)
	return artifacts, err
}

func (r *Runner) render(ctx context.Context, res layout.Result, m *chart.Model, hash string, opts Options) (map[string][]byte, bool, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	keys := make(map[string]string, len(opts.Formats))
	var missing []string

	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(m, format))
		keys[format] = key
		if !opts.Refresh {
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil {
				r.Logger.Warn("cache read failed", "format", format, "err", err)
			}
			if hit {
				observability.Cache().OnCacheHit(ctx, format)
				artifacts[format] = data
				continue
			}
		}
		observability.Cache().OnCacheMiss(ctx, format)
		missing = append(missing, format)
	}

	if len(missing) == 0 {
		return artifacts, true, nil
	}

	renderOpts := opts
	renderOpts.Formats = missing
	observability.Pipeline().OnRenderStart(ctx, missing)
	start := time.Now()
	rendered, err := RenderLayout(ctx, res, m, renderOpts)
	observability.Pipeline().OnRenderComplete(ctx, missing, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		artifacts[format] = data
		if err := r.Cache.Set(ctx, keys[format], data, cache.DefaultTTL); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, format, len(data))
	}

	return artifacts, false, nil
}

// ModelHash returns the content hash of a model, used in artifact keys.
func ModelHash(m *chart.Model) (string, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("serialize model for cache key: %w", err)
	}
	return cache.Hash(data), nil
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
