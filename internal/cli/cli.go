// Package cli implements the treecharts command-line interface.
//
// The CLI loads tree files (JSON or TOML), renders them through
// [pipeline.Runner] and hosts charts interactively, either in the terminal
// or over HTTP. It is built with cobra, logs with charmbracelet/log and
// styles terminal output with lipgloss.
//
// # Commands
//
//   - render: Generate SVG, PNG, PDF, JSON or DOT output from a tree file
//   - explore: Toggle collapsible nodes in a terminal UI, re-rendering a file
//   - serve: Host charts over HTTP with toggle and download endpoints
//   - cache: Manage the artifact cache
//   - completion: Generate shell completion scripts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/buildinfo"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/cache"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/httputil"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/imageload"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/pipeline"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/style"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/tree"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "treecharts"

	// cacheEnv overrides the default cache backend.
	cacheEnv = "TREECHARTS_CACHE"

	// imageCacheTTL is how long fetched node images are reused.
	imageCacheTTL = 24 * time.Hour
)

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

	// cacheSpec selects the cache backend (see [cache.Open]).
	cacheSpec string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Treecharts renders hierarchical data as tree charts",
		Long:         `Treecharts is a CLI tool for turning hierarchical data into tree charts with several connector styles, collapsible nodes and SVG, PNG, PDF, JSON or DOT output.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.cacheSpec, "cache", envOr(cacheEnv, ""), "cache backend: file (default), none, redis://..., mongodb://...")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	if noCache {
		return pipeline.NewRunner(cache.NewNullCache(), nil, c.Logger), nil
	}
	store, err := cache.Open(ctx, c.cacheSpec, "")
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

// imageCacheDir sits next to the artifact file cache.
func imageCacheDir() string {
	return filepath.Join(filepath.Dir(cache.DefaultDir()), "images")
}

// imageLoader returns the loader for the images of a local tree file.
// Relative references resolve against the tree file's directory and remote
// payloads are kept in the disk cache unless noCache is set.
func (c *CLI) imageLoader(treePath string, noCache bool) *imageload.Loader {
	l := &imageload.Loader{BaseDir: filepath.Dir(treePath), Logger: c.Logger}
	if noCache {
		return l
	}
	hc, err := httputil.NewCache(imageCacheDir(), imageCacheTTL)
	if err != nil {
		c.Logger.Warn("image cache disabled", "error", err)
		return l
	}
	l.Cache = hc
	return l
}

// =============================================================================
// Input Helpers
// =============================================================================

// chartInput is a loaded tree with its resolved configuration.
type chartInput struct {
	Tree   *tree.Node
	Config style.Config
}

// loadInput reads the tree file and the optional config file. A non-empty
// chartType overrides the configured type.
func loadInput(treePath, configPath, chartType string) (*chartInput, error) {
	root, err := tree.Load(treePath)
	if err != nil {
		return nil, err
	}
	var cfg style.Config
	if configPath != "" {
		if cfg, err = style.LoadConfig(configPath); err != nil {
			return nil, err
		}
	}
	if chartType != "" {
		cfg.Type = style.ChartType(chartType)
	}
	cfg.SetDefaults()
	return &chartInput{Tree: root, Config: cfg}, nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}

// chartTypeNames lists the chart types for flag help and completion.
func chartTypeNames() []string {
	names := make([]string, len(style.ChartTypes))
	for i, t := range style.ChartTypes {
		names[i] = string(t)
	}
	return names
}
