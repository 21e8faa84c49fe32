package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/normalize"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/style"
)

// Options configures DOT generation.
type Options struct {
	Type style.ChartType
	Flow style.HorizontalAlign
	// Detailed appends subtitles and descriptions to node labels.
	Detailed bool
}

var shapes = map[style.ShapeKind]string{
	style.ShapeRectangle:   "box",
	style.ShapeCircle:      "circle",
	style.ShapeTriangle:    "triangle",
	style.ShapeDiamond:     "diamond",
	style.ShapePentagon:    "pentagon",
	style.ShapeHexagon:     "hexagon",
	style.ShapeOctagon:     "octagon",
	style.ShapeStar:        "star",
	style.ShapeDescription: "note",
	style.ShapeImage:       "box",
	style.ShapeCollapsible: "box",
	style.ShapeCustom:      "box",
}

var arrowDirs = map[style.ArrowDirection]string{
	style.ArrowNone:   "none",
	style.ArrowSource: "back",
	style.ArrowTarget: "forward",
	style.ArrowBoth:   "both",
}

// ToDOT converts a normalized tree to Graphviz DOT source.
// Node identifiers are the tree's index paths.
func ToDOT(root *normalize.Node, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	writeGraphAttrs(&buf, opts)
	buf.WriteString("\n")

	if root == nil {
		buf.WriteString("}\n")
		return buf.String()
	}

	root.Walk(func(n *normalize.Node) {
		fmt.Fprintf(&buf, "  %s [%s];\n", quote(n.ID), strings.Join(nodeAttrs(n, opts.Detailed), ", "))
	})
	buf.WriteString("\n")
	root.Walk(func(n *normalize.Node) {
		for _, c := range n.Children {
			if attrs := edgeAttrs(c); len(attrs) > 0 {
				fmt.Fprintf(&buf, "  %s -> %s [%s];\n", quote(n.ID), quote(c.ID), strings.Join(attrs, ", "))
			} else {
				fmt.Fprintf(&buf, "  %s -> %s;\n", quote(n.ID), quote(c.ID))
			}
		}
	})

	buf.WriteString("}\n")
	return buf.String()
}

func writeGraphAttrs(buf *bytes.Buffer, opts Options) {
	switch opts.Type.Normalize() {
	case style.ChartAllDirection:
		buf.WriteString("  layout=twopi;\n")
		buf.WriteString("  ranksep=1.2;\n")
	default:
		rankdir := "TB"
		if opts.Flow.Normalize() == style.FlowBottomToTop {
			rankdir = "BT"
		}
		fmt.Fprintf(buf, "  rankdir=%s;\n", rankdir)
		buf.WriteString("  ranksep=0.5;\n")
	}
	splines := "line"
	switch opts.Type.Normalize() {
	case style.ChartRightAngle:
		splines = "ortho"
	case style.ChartCurved:
		splines = "curved"
	}
	fmt.Fprintf(buf, "  splines=%s;\n", splines)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("  node [style=filled, fontsize=14, margin=\"0.2,0.1\"];\n")
}

func nodeAttrs(n *normalize.Node, detailed bool) []string {
	st := n.Style
	shape, ok := shapes[st.Type]
	if !ok {
		shape = "box"
	}
	attrs := []string{
		"label=" + quote(label(n, detailed)),
		"shape=" + shape,
	}
	styles := []string{"filled"}
	if shape == "box" && st.BorderRadius > 0 {
		styles = append(styles, "rounded")
	}
	if st.Type == style.ShapeCollapsible && !n.Box.Expanded {
		styles = append(styles, "dashed")
	}
	attrs = append(attrs, "style=" + quote(strings.Join(styles, ",")))
	if st.Color != "" {
		attrs = append(attrs, "fillcolor=" + quote(st.Color))
	}
	if st.BorderColor != "" {
		attrs = append(attrs, "color=" + quote(st.BorderColor))
	}
	if st.BorderWidth > 0 {
		attrs = append(attrs, "penwidth="+num(st.BorderWidth))
	}
	if st.FontColor != "" {
		attrs = append(attrs, "fontcolor=" + quote(st.FontColor))
	}
	if st.FontSize > 0 {
		attrs = append(attrs, "fontsize="+num(st.FontSize))
	}
	if n.Source != nil && n.Source.ImageURL != "" {
		attrs = append(attrs, "URL=" + quote(n.Source.ImageURL))
	}
	return attrs
}

func label(n *normalize.Node, detailed bool) string {
	src := n.Source
	text := src.Label()
	if !detailed {
		return text
	}
	parts := []string{text}
	if src.Subtitle != "" {
		parts = append(parts, src.Subtitle)
	}
	if src.Description != "" && (n.Style.Type != style.ShapeCollapsible || n.Box.Expanded) {
		parts = append(parts, src.Description)
	}
	return strings.Join(parts, "\n")
}

func edgeAttrs(child *normalize.Node) []string {
	st := child.Edge
	var attrs []string
	if dir, ok := arrowDirs[st.ArrowDirection]; ok {
		attrs = append(attrs, "dir="+dir)
	}
	if st.Color != "" {
		attrs = append(attrs, "color=" + quote(st.Color))
	}
	if st.Width > 0 {
		attrs = append(attrs, "penwidth="+num(st.Width))
	}
	if st.DashArray != "" {
		attrs = append(attrs, "style=dashed")
	}
	if text := child.Source.EdgeText; text != "" {
		attrs = append(attrs, "label=" + quote(text))
		if st.TextColor != "" {
			attrs = append(attrs, "fontcolor=" + quote(st.TextColor))
		}
		if st.TextSize > 0 {
			attrs = append(attrs, "fontsize="+num(st.TextSize))
		}
	}
	return attrs
}

// quote returns s as a DOT double-quoted string. Only quotes and
// backslashes are escaped; line breaks become \n so Graphviz centers them.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RenderSVG lays out DOT source with Graphviz and returns the SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-sized root element with one
// whose width and height match the viewBox.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
