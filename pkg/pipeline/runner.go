package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/cache"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/chart"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/observability"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/render/dot"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/render/sink"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and HTTP host use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
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

// Execute renders opts.Tree and exports every requested format, serving
// artifacts from the cache when all of them are present.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	treeHash, err := opts.TreeHash()
	if err != nil {
		return nil, err
	}
	result := &Result{
		TreeHash:  treeHash,
		Artifacts: make(map[string][]byte),
		CacheInfo: CacheInfo{Hits: make(map[string]bool)},
	}

	if !opts.Refresh && r.fromCache(ctx, treeHash, opts, result) {
		result.CacheInfo.RenderHit = true
		r.Logger.Info("served from cache", "formats", opts.Formats)
		return result, nil
	}

	// Stage 1: Render
	renderStart := time.Now()
	chartOpts := []chart.Option{chart.WithLogger(opts.Logger)}
	if opts.Images != nil {
		chartOpts = append(chartOpts, chart.WithImageLoader(opts.Images))
	}
	if opts.EmbedFont {
		chartOpts = append(chartOpts, chart.WithEmbeddedFont())
	}
	c, err := chart.New(&chart.MemoryContainer{}, opts.Config, chartOpts...)
	if err != nil {
		return nil, err
	}
	st, err := c.Render(ctx, opts.Tree)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.State = st
	result.Stats.NodeCount = len(st.Layout.Nodes)
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered chart",
		"nodes", result.Stats.NodeCount,
		"width", st.Width,
		"height", st.Height,
		"duration", result.Stats.RenderTime)

	// Stage 2: Export
	exportStart := time.Now()
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	for _, format := range opts.Formats {
		if _, ok := result.Artifacts[format]; ok {
			continue
		}
		data, err := r.export(ctx, c, st, format, opts)
		if err != nil {
			hooks.OnRenderComplete(ctx, opts.Formats, time.Since(exportStart), err)
			return nil, fmt.Errorf("export %s: %w", format, err)
		}
		result.Artifacts[format] = data
		r.store(ctx, treeHash, format, data, opts)
	}
	result.Stats.ExportTime = time.Since(exportStart)
	hooks.OnRenderComplete(ctx, opts.Formats, result.Stats.ExportTime, nil)

	r.Logger.Info("exported outputs",
		"formats", opts.Formats,
		"duration", result.Stats.ExportTime)

	return result, nil
}

func (r *Runner) export(ctx context.Context, c *chart.Chart, st *chart.State, format string, opts Options) ([]byte, error) {
	switch {
	case format == FormatPNG:
		pngOpts := []sink.PNGOption{sink.WithScale(opts.Scale)}
		if opts.Rsvg {
			pngOpts = append(pngOpts, sink.WithRsvg())
		}
		return sink.RenderPNG(ctx, st.Scene, pngOpts...)
	case format == FormatSVG && opts.Engine == EngineGraphviz:
		src, err := c.Bytes(ctx, FormatDOT)
		if err != nil {
			return nil, err
		}
		return dot.RenderSVG(ctx, string(src))
	}
	return c.Bytes(ctx, format)
}

// fromCache fills result from the cache and reports whether every format
// was found. Partial hits are kept so only the missing formats render.
func (r *Runner) fromCache(ctx context.Context, treeHash string, opts Options, result *Result) bool {
	hooks := observability.Cache()
	all := true
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(treeHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.Logger.Warn("cache read failed", "format", format, "error", err)
		}
		if err != nil || !hit {
			hooks.OnCacheMiss(ctx, "artifact")
			all = false
			continue
		}
		hooks.OnCacheHit(ctx, "artifact")
		result.Artifacts[format] = data
		result.CacheInfo.Hits[format] = true
	}
	return all
}

func (r *Runner) store(ctx context.Context, treeHash, format string, data []byte, opts Options) {
	key := r.Keyer.ArtifactKey(treeHash, opts.ArtifactKeyOpts(format))
	if err := r.Cache.Set(ctx, key, data, TTLArtifact); err != nil {
		r.Logger.Warn("cache write failed", "format", format, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "artifact", len(data))
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
