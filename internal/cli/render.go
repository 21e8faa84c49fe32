package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/chart"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	config    string   // chart config file (TOML or JSON)
	chartType string   // overrides the configured chart type
	formats   []string // output formats: svg, png, pdf, json, dot
	output    string   // output file (single format), base path, or "-" for stdout
	scale     float64  // PNG scale factor
	embedFont bool     // embed the font face in SVG output
	noCache   bool     // bypass the artifact and image caches entirely
	refresh   bool     // re-render and overwrite cached artifacts
	engine    string   // SVG engine: native or graphviz
	rsvg      bool     // rasterize PNG with rsvg-convert
}

// renderCommand creates the render command for generating chart files.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{scale: pipeline.DefaultScale}

	cmd := &cobra.Command{
		Use:   "render [tree-file]",
		Short: "Render a tree file to SVG, PNG, PDF, JSON or DOT",
		Long: `Render a tree file (.json or .toml) to one or more output formats.

With a single format, -o names the output file ("-" writes to stdout).
With several formats, -o is the base path and each format gets its own
extension. Without -o, outputs are written next to the tree file.`,
		Example: `  treecharts render org.json
  treecharts render org.toml -t right-angle -f svg,png -o out/org
  treecharts render org.json -c style.toml -f pdf --no-cache
  treecharts render org.json --engine graphviz -f svg,png --rsvg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			if err := pipeline.ValidateEngine(opts.engine); err != nil {
				return err
			}
			if opts.output == "-" && len(opts.formats) != 1 {
				return fmt.Errorf("stdout output requires exactly one format, got %d", len(opts.formats))
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "chart config file (.toml or .json)")
	cmd.Flags().StringVarP(&opts.chartType, "type", "t", "", "chart type: "+strings.Join(chartTypeNames(), ", "))
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json, dot (comma-separated)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.embedFont, "embed-font", false, "embed the font in SVG output")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")
	cmd.Flags().StringVar(&opts.engine, "engine", pipeline.EngineNative, "SVG engine: "+strings.Join(pipeline.Engines, ", "))
	cmd.Flags().BoolVar(&opts.rsvg, "rsvg", false, "rasterize PNG with rsvg-convert (requires librsvg)")

	_ = cmd.RegisterFlagCompletionFunc("type", completeFixed(chartTypeNames()...))
	_ = cmd.RegisterFlagCompletionFunc("format", completeFixed(chart.Formats...))
	_ = cmd.RegisterFlagCompletionFunc("engine", completeFixed(pipeline.Engines...))

	return cmd
}

// runRender loads the input, runs the pipeline and writes every artifact.
func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	in, err := loadInput(input, opts.config, opts.chartType)
	if err != nil {
		return err
	}
	c.Logger.Debug("loaded tree", "file", input, "type", in.Config.Type)

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	var spin *Spinner
	if c.Logger.GetLevel() > log.DebugLevel && opts.output != "-" {
		spin = newSpinner(ctx, os.Stderr, "Rendering "+filepath.Base(input))
		spin.Start()
	}
	result, err := runner.Execute(ctx, pipeline.Options{
		Tree:      in.Tree,
		Config:    in.Config,
		Formats:   opts.formats,
		Scale:     opts.scale,
		EmbedFont: opts.embedFont,
		Refresh:   opts.refresh,
		Engine:    opts.engine,
		Rsvg:      opts.rsvg,
		Logger:    c.Logger,
		Images:    c.imageLoader(input, opts.noCache),
	})
	if err != nil {
		if spin != nil {
			spin.StopWithError("Render failed")
		}
		return err
	}
	if spin != nil {
		spin.Stop()
	}

	if opts.output == "-" {
		_, err := os.Stdout.Write(result.Artifacts[opts.formats[0]])
		return err
	}

	paths := outputPaths(input, opts.output, opts.formats)
	for _, format := range opts.formats {
		if err := writeOutput(paths[format], result.Artifacts[format]); err != nil {
			return err
		}
	}
	prog.done(fmt.Sprintf("Rendered %s", input))

	for _, format := range opts.formats {
		printFile(paths[format])
	}
	if st := result.State; st != nil {
		printStats(result.Stats.NodeCount, st.Width, st.Height, false)
	} else {
		printStats(0, 0, 0, true)
	}
	if opts.output == "" && len(opts.formats) == 1 && opts.formats[0] == pipeline.FormatSVG {
		printNextStep("Toggle collapsible nodes", appName+" explore "+input)
	}
	return nil
}

// outputPaths maps every format to its destination file.
//
// A single format with an explicit output uses it verbatim. Otherwise the
// base is the output (with a known format extension stripped) or the input
// path without its extension.
func outputPaths(input, output string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// basePath derives the base output path from the output and input file paths.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if slices.Contains(chart.Formats, strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeOutput writes data to path, creating parent directories.
func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
