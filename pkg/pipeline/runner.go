package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/retailreboot/retailreboot/pkg/cache"
	"github.com/retailreboot/retailreboot/pkg/chart"
	"github.com/retailreboot/retailreboot/pkg/network"
	"github.com/retailreboot/retailreboot/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different requests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// TTL overrides the per-kind default expiry when positive.
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

// artifactKey is hashed into a cache key. Formats are cleared from the
// request so each artifact is keyed independently of its siblings.
type artifactKey struct {
	Request any    `json:"request"`
	Format  string `json:"format"`
}

// RenderChart normalizes the series and renders every requested format,
// serving artifacts from the cache where possible.
func (r *Runner) RenderChart(ctx context.Context, req ChartRequest) (*ChartResult, error) {
	r.applyLogger(&req.Options)
	if err := req.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()

	layoutStart := time.Now()
	hooks.OnLayoutStart(ctx, cache.KindChart, req.Series.Len())
	spec, err := chart.Render(req.Series, req.Mode)
	hooks.OnLayoutComplete(ctx, cache.KindChart, time.Since(layoutStart), err)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}

	result := &ChartResult{Spec: spec}
	result.Stats.LayoutTime = time.Since(layoutStart)

	keyReq := req
	keyReq.Formats = nil
	keyFor := func(format string) string {
		return r.Keyer.ChartKey(artifactKey{Request: keyReq, Format: format})
	}

	renderStart := time.Now()
	hooks.OnRenderStart(ctx, cache.KindChart, req.Formats)
	artifacts, info, err := r.withCache(ctx, cache.KindChart, req.Options, r.ttl(cache.TTLChart), keyFor,
		func(missing []string) (map[string][]byte, error) {
			sub := req
			sub.Formats = missing
			return RenderChart(ctx, spec, sub)
		})
	hooks.OnRenderComplete(ctx, cache.KindChart, req.Formats, time.Since(renderStart), err)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.CacheInfo = info
	result.Stats.RenderTime = time.Since(renderStart)

	req.Logger.Info("rendered chart",
		"chart", req.describe(),
		"formats", req.Formats,
		"cached", info.Hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// RenderNetwork filters the network, computes connector paths, resolves the
// selected node's details and renders every requested format.
func (r *Runner) RenderNetwork(ctx context.Context, req NetworkRequest) (*NetworkResult, error) {
	r.applyLogger(&req.Options)
	if err := req.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()

	layoutStart := time.Now()
	hooks.OnLayoutStart(ctx, cache.KindNetwork, len(req.Nodes))
	layout := network.Compute(req.Nodes, req.Connections, *req.Filter)
	hooks.OnLayoutComplete(ctx, cache.KindNetwork, time.Since(layoutStart), nil)

	result := &NetworkResult{Layout: layout}
	result.Stats.LayoutTime = time.Since(layoutStart)
	if req.Selected != "" {
		if d, ok := network.Describe(req.Nodes, req.Connections, req.Selected); ok {
			result.Details = &d
		} else {
			req.Logger.Warn("selected node not found", "id", req.Selected)
		}
	}

	req.Logger.Debug("computed network layout",
		"nodes", len(layout.Nodes),
		"paths", len(layout.Paths),
		"filter", req.Filter.Types.String(),
		"issues_only", req.Filter.IssuesOnly)

	keyReq := req
	keyReq.Formats = nil
	keyFor := func(format string) string {
		return r.Keyer.NetworkKey(artifactKey{Request: keyReq, Format: format})
	}

	renderStart := time.Now()
	hooks.OnRenderStart(ctx, cache.KindNetwork, req.Formats)
	artifacts, info, err := r.withCache(ctx, cache.KindNetwork, req.Options, r.ttl(cache.TTLNetwork), keyFor,
		func(missing []string) (map[string][]byte, error) {
			sub := req
			sub.Formats = missing
			return RenderNetwork(ctx, layout, result.Details, sub)
		})
	hooks.OnRenderComplete(ctx, cache.KindNetwork, req.Formats, time.Since(renderStart), err)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.CacheInfo = info
	result.Stats.RenderTime = time.Since(renderStart)

	req.Logger.Info("rendered network",
		"viz", req.VizType,
		"nodes", len(layout.Nodes),
		"formats", req.Formats,
		"cached", info.Hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// withCache serves each format from the cache when possible, renders the
// rest in one call and writes them back. Cache failures are logged and
// treated as misses.
func (r *Runner) withCache(
	ctx context.Context,
	kind string,
	opts Options,
	ttl time.Duration,
	keyFor func(format string) string,
	render func(missing []string) (map[string][]byte, error),
) (map[string][]byte, CacheInfo, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	var info CacheInfo
	var missing []string

	for _, format := range opts.Formats {
		if opts.Refresh {
			missing = append(missing, format)
			continue
		}
		data, hit, err := r.Cache.Get(ctx, keyFor(format))
		if err != nil {
			opts.Logger.Warn("cache read failed", "kind", kind, "format", format, "err", err)
		}
		if err == nil && hit {
			observability.Cache().OnCacheHit(ctx, kind)
			artifacts[format] = data
			info.Formats = append(info.Formats, format)
			continue
		}
		observability.Cache().OnCacheMiss(ctx, kind)
		missing = append(missing, format)
	}

	info.Hit = len(missing) == 0
	if info.Hit {
		return artifacts, info, nil
	}

	rendered, err := render(missing)
	if err != nil {
		return nil, CacheInfo{}, err
	}
	for format, data := range rendered {
		artifacts[format] = data
		if err := r.Cache.Set(ctx, keyFor(format), data, ttl); err != nil {
			opts.Logger.Warn("cache write failed", "kind", kind, "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, kind, len(data))
	}
	return artifacts, info, nil
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
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
