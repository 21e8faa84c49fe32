// Package pipeline renders tree files to artifacts with caching.
//
// This package implements the complete tree → chart → artifacts pipeline
// used by the CLI render command and the HTTP host. By centralizing this
// logic, both entry points share cache keys and output bytes.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Render: Normalize, lay out and draw the tree with [chart.Chart]
//  2. Export: Serialize the drawing in each requested format (SVG, PNG,
//     PDF, JSON, DOT)
//
// Rendering is deterministic, so artifacts are cached under a hash of the
// tree, the configuration and the format. A full cache hit skips both
// stages.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Tree:    root,
//	    Config:  cfg,
//	    Formats: []string{"svg", "png"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/buildinfo"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/cache"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/chart"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/errors"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/imageload"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/style"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/tree"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and HTTP host
// =============================================================================

const (
	// DefaultScale is the PNG scale factor.
	DefaultScale = 2.0

	// TTLArtifact is how long rendered artifacts stay cached.
	TTLArtifact = 7 * 24 * time.Hour
)

// Engines select how SVG and PNG artifacts are produced.
const (
	// EngineNative draws with the built-in layout and rasterizer.
	EngineNative = "native"
	// EngineGraphviz lays SVG output out with Graphviz from the DOT export.
	EngineGraphviz = "graphviz"
)

// Engines lists the valid SVG engines.
var Engines = []string{EngineNative, EngineGraphviz}

// Format constants for output formats.
const (
	FormatSVG  = chart.FormatSVG
	FormatPNG  = chart.FormatPNG
	FormatPDF  = chart.FormatPDF
	FormatJSON = chart.FormatJSON
	FormatDOT  = chart.FormatDOT
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for HTTP requests.
type Options struct {
	Tree   *tree.Node   `json:"tree"`
	Config style.Config `json:"config"`

	Formats   []string `json:"formats,omitempty"`
	Scale     float64  `json:"scale,omitempty"`
	EmbedFont bool     `json:"embed_font,omitempty"`
	Refresh   bool     `json:"refresh,omitempty"`

	// Engine selects the SVG renderer: native (default) or graphviz.
	Engine string `json:"engine,omitempty"`
	// Rsvg rasterizes PNG through rsvg-convert instead of the built-in
	// rasterizer.
	Rsvg bool `json:"rsvg,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger       `json:"-"`
	Images *imageload.Loader `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// State is the chart state; nil when every artifact came from cache.
	State *chart.State

	// TreeHash is the content hash of the input tree.
	TreeHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which artifacts came from cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	RenderTime time.Duration
	ExportTime time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	RenderHit bool            // Whether all artifacts came from cache
	Hits      map[string]bool // Per-format hits
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	return chart.ValidateFormat(format)
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateEngine checks that engine names a known SVG renderer. Empty
// means native.
func ValidateEngine(engine string) error {
	if engine == "" || slices.Contains(Engines, engine) {
		return nil
	}
	return errors.New(errors.ErrCodeInvalidInput, "invalid engine %q (valid: %s)", engine, strings.Join(Engines, ", "))
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Tree == nil {
		return errors.New(errors.ErrCodeInvalidInput, "tree is required")
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateEngine(o.Engine); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.Engine == "" {
		o.Engine = EngineNative
	}
	o.Config.SetDefaults()
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// TreeHash returns the content hash of the input tree.
func (o *Options) TreeHash() (string, error) {
	data, err := tree.Marshal(o.Tree)
	if err != nil {
		return "", fmt.Errorf("serialize tree for cache key: %w", err)
	}
	return cache.Hash(data), nil
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	cfg, _ := json.Marshal(o.Config)
	opts := cache.ArtifactKeyOpts{
		Format:     format,
		ConfigHash: cache.Hash(cfg),
		Embed:      o.EmbedFont,
		Version:    buildinfo.Version,
	}
	switch format {
	case FormatPNG:
		opts.Scale = o.Scale
		if o.Rsvg {
			opts.Engine = "rsvg"
		}
	case FormatSVG:
		if o.Engine == EngineGraphviz {
			opts.Engine = EngineGraphviz
		}
	}
	if o.Images != nil {
		opts.ImageBase = o.Images.BaseDir
	}
	return opts
}
