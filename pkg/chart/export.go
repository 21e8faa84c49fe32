package chart

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/errors"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/render/dot"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/render/sink"
)

// Export formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// Formats lists every export format.
var Formats = []string{FormatSVG, FormatPNG, FormatPDF, FormatJSON, FormatDOT}

// ValidateFormat reports an INVALID_FORMAT error for unknown formats.
func ValidateFormat(format string) error {
	if !slices.Contains(Formats, format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format %q (valid: %s)", format, strings.Join(Formats, ", "))
	}
	return nil
}

// Export writes the current drawing as a static SVG: the collapsed state
// is preserved and interactive controls are left out.
func (c *Chart) Export(w io.Writer) error {
	return c.ExportFormat(context.Background(), w, FormatSVG)
}

// ExportFormat writes the current drawing in format.
func (c *Chart) ExportFormat(ctx context.Context, w io.Writer, format string) error {
	data, err := c.Bytes(ctx, format)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Bytes returns the current drawing in format.
func (c *Chart) Bytes(ctx context.Context, format string) ([]byte, error) {
	format = strings.ToLower(strings.TrimPrefix(format, "."))
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	st := c.State()
	if st == nil {
		return nil, errors.New(errors.ErrCodeNotRendered, "chart has not been rendered")
	}

	var opts []sink.SVGOption
	if c.embedFont {
		opts = append(opts, sink.WithEmbeddedFont())
	}

	switch format {
	case FormatPNG:
		return sink.RenderPNG(ctx, st.Scene)
	case FormatPDF:
		return sink.RenderPDF(ctx, st.Scene)
	case FormatJSON:
		return sink.RenderJSON(st.Layout, st.Scene)
	case FormatDOT:
		return []byte(dot.ToDOT(st.Root, dot.Options{
			Type:     c.cfg.Type,
			Flow:     c.cfg.HorizontalAlign,
			Detailed: true,
		})), nil
	default:
		return sink.RenderSVG(st.Scene, opts...), nil
	}
}

// Filename returns the configured download filename.
func (c *Chart) Filename() string {
	return c.cfg.Download().Filename
}

// ExportFile writes the current drawing to dir under the configured
// download filename and returns the path. The filename extension selects
// the format; names without a known extension are written as SVG.
func (c *Chart) ExportFile(ctx context.Context, dir string) (string, error) {
	name := c.Filename()
	if err := errors.ValidateFilename(name); err != nil {
		return "", err
	}
	format := FormatSVG
	if ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), ".")); ValidateFormat(ext) == nil {
		format = ext
	}
	data, err := c.Bytes(ctx, format)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	c.logger.Info("exported chart", "path", path, "format", format, "bytes", len(data))
	return path, nil
}
