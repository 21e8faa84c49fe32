package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/fonts"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/render/scene"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/render/shape"
)

const interactionCSS = `
    .hit { cursor: pointer; }
    .hit-area { fill: transparent; pointer-events: all; }
    .hit:hover .hit-area { fill: rgba(0, 0, 0, 0.05); }`

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	interactive bool
	embedFont   bool
	clips       int
}

// WithInteraction emits hit regions as clickable groups carrying
// data-action and data-target attributes. Without it the document is a
// static export: hit regions and their children are omitted.
func WithInteraction() SVGOption { return func(r *svgRenderer) { r.interactive = true } }

// WithEmbeddedFont embeds the measuring font so every viewer draws the
// glyphs the layout was sized with.
func WithEmbeddedFont() SVGOption { return func(r *svgRenderer) { r.embedFont = true } }

// RenderSVG serializes s as a standalone SVG document.
func RenderSVG(s *scene.Scene, opts ...SVGOption) []byte {
	r := svgRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s">`+"\n",
		scene.Num(s.Width), scene.Num(s.Height), scene.Num(s.Width), scene.Num(s.Height))

	r.renderStyle(&buf)
	renderDefs(&buf, s.Defs)
	if s.Background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", EscapeXML(s.Background))
	}
	for _, e := range s.Elements {
		r.element(&buf, e, 1)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderStyle(buf *bytes.Buffer) {
	if !r.interactive && !r.embedFont {
		return
	}
	buf.WriteString("  <style>")
	if r.embedFont {
		fmt.Fprintf(buf, "\n    @font-face { font-family: '%s'; src: url(data:font/ttf;base64,%s) format('truetype'); }",
			fonts.FontFamily, fonts.RegularTTFBase64())
	}
	if r.interactive {
		buf.WriteString(interactionCSS)
	}
	buf.WriteString("\n  </style>\n")
}

func renderDefs(buf *bytes.Buffer, defs []scene.Def) {
	if len(defs) == 0 {
		return
	}
	buf.WriteString("  <defs>\n")
	for _, d := range defs {
		id := d.DefID()
		switch v := d.(type) {
		case *scene.LinearGradient:
			x2, y2 := "0", "1"
			if v.Horizontal {
				x2, y2 = "1", "0"
			}
			fmt.Fprintf(buf, `    <linearGradient id="%s" x1="0" y1="0" x2="%s" y2="%s">`+"\n", id, x2, y2)
			fmt.Fprintf(buf, `      <stop offset="0" stop-color="%s"/>`+"\n", EscapeXML(v.Start))
			fmt.Fprintf(buf, `      <stop offset="1" stop-color="%s"/>`+"\n", EscapeXML(v.End))
			buf.WriteString("    </linearGradient>\n")
		case *scene.Shadow:
			fmt.Fprintf(buf, `    <filter id="%s" x="-20%%" y="-20%%" width="140%%" height="140%%">`+"\n", id)
			fmt.Fprintf(buf, `      <feDropShadow dx="%s" dy="%s" stdDeviation="%s" flood-color="%s"/>`+"\n",
				scene.Num(v.DX), scene.Num(v.DY), scene.Num(v.Blur/2), EscapeXML(v.Color))
			buf.WriteString("    </filter>\n")
		case *scene.Marker:
			orient := "auto"
			if v.Start {
				orient = "auto-start-reverse"
			}
			fmt.Fprintf(buf, `    <marker id="%s" viewBox="0 0 10 10" refX="10" refY="5" markerWidth="%s" markerHeight="%s" markerUnits="userSpaceOnUse" orient="%s">`+"\n",
				id, scene.Num(v.Size), scene.Num(v.Size), orient)
			fmt.Fprintf(buf, `      <path d="M 0 0 L 10 5 L 0 10 z" fill="%s"/>`+"\n", EscapeXML(v.Color))
			buf.WriteString("    </marker>\n")
		}
	}
	buf.WriteString("  </defs>\n")
}

func (r *svgRenderer) element(buf *bytes.Buffer, e scene.Element, depth int) {
	ind := indent(depth)
	switch v := e.(type) {
	case *scene.Group:
		buf.WriteString(ind + "<g")
		attr(buf, "id", v.ID)
		attr(buf, "class", v.Class)
		buf.WriteString(">\n")
		for _, c := range v.Children {
			r.element(buf, c, depth+1)
		}
		buf.WriteString(ind + "</g>\n")

	case *scene.HitRegion:
		if !r.interactive {
			return
		}
		buf.WriteString(ind + `<g class="hit hit-` + EscapeXML(v.Action) + `" role="button"`)
		attr(buf, "data-action", v.Action)
		attr(buf, "data-target", v.Target)
		buf.WriteString(">\n")
		for _, c := range v.Children {
			r.element(buf, c, depth+1)
		}
		fmt.Fprintf(buf, `%s  <rect class="hit-area" x="%s" y="%s" width="%s" height="%s"/>`+"\n",
			ind, scene.Num(v.X), scene.Num(v.Y), scene.Num(v.W), scene.Num(v.H))
		buf.WriteString(ind + "</g>\n")

	case *scene.Rect:
		fmt.Fprintf(buf, `%s<rect x="%s" y="%s" width="%s" height="%s"`, ind,
			scene.Num(v.X), scene.Num(v.Y), scene.Num(v.W), scene.Num(v.H))
		if v.RX > 0 {
			attr(buf, "rx", scene.Num(v.RX))
		}
		paint(buf, v.Paint)
		buf.WriteString("/>\n")

	case *scene.Circle:
		fmt.Fprintf(buf, `%s<circle cx="%s" cy="%s" r="%s"`, ind,
			scene.Num(v.CX), scene.Num(v.CY), scene.Num(v.R))
		paint(buf, v.Paint)
		buf.WriteString("/>\n")

	case *scene.Polygon:
		buf.WriteString(ind + `<polygon points="`)
		for i, p := range v.Points {
			if i > 0 {
				buf.WriteByte(' ')
			}
			buf.WriteString(scene.Num(p.X) + "," + scene.Num(p.Y))
		}
		buf.WriteByte('"')
		paint(buf, v.Paint)
		buf.WriteString("/>\n")

	case *scene.Path:
		buf.WriteString(ind + `<path d="` + v.D() + `"`)
		paint(buf, v.Paint)
		if v.MarkerStart != "" {
			attr(buf, "marker-start", "url(#"+v.MarkerStart+")")
		}
		if v.MarkerEnd != "" {
			attr(buf, "marker-end", "url(#"+v.MarkerEnd+")")
		}
		buf.WriteString("/>\n")

	case *scene.Text:
		fmt.Fprintf(buf, `%s<text x="%s" y="%s" font-size="%s"`, ind,
			scene.Num(v.X), scene.Num(v.Y), scene.Num(v.Size))
		attr(buf, "font-family", r.family(v.Family))
		attr(buf, "fill", v.Color)
		attr(buf, "font-weight", v.Weight)
		attr(buf, "text-anchor", v.Anchor)
		buf.WriteString(">" + EscapeXML(v.Content) + "</text>\n")

	case *scene.Image:
		href := v.Href
		if len(v.Data) > 0 {
			href = shape.DataURI(v.MIME, v.Data)
		}
		clip := ""
		if v.RX > 0 {
			r.clips++
			clip = fmt.Sprintf("clip-image-%d", r.clips)
			fmt.Fprintf(buf, `%s<clipPath id="%s"><rect x="%s" y="%s" width="%s" height="%s" rx="%s"/></clipPath>`+"\n",
				ind, clip, scene.Num(v.X), scene.Num(v.Y), scene.Num(v.W), scene.Num(v.H), scene.Num(v.RX))
		}
		fmt.Fprintf(buf, `%s<image x="%s" y="%s" width="%s" height="%s" preserveAspectRatio="xMidYMid slice"`, ind,
			scene.Num(v.X), scene.Num(v.Y), scene.Num(v.W), scene.Num(v.H))
		attr(buf, "href", href)
		if clip != "" {
			attr(buf, "clip-path", "url(#"+clip+")")
		}
		buf.WriteString("/>\n")
	}
}

func (r *svgRenderer) family(f string) string {
	if f == "" {
		f = fonts.FallbackFontFamily
	}
	if r.embedFont && !strings.HasPrefix(f, "'"+fonts.FontFamily+"'") {
		return "'" + fonts.FontFamily + "', " + f
	}
	return f
}

func paint(buf *bytes.Buffer, p scene.Paint) {
	switch {
	case p.FillRef != "":
		attr(buf, "fill", "url(#"+p.FillRef+")")
	case p.Fill != "":
		attr(buf, "fill", p.Fill)
	default:
		attr(buf, "fill", "none")
	}
	if p.Stroke != "" {
		attr(buf, "stroke", p.Stroke)
		if p.StrokeWidth > 0 {
			attr(buf, "stroke-width", scene.Num(p.StrokeWidth))
		}
		attr(buf, "stroke-dasharray", p.Dash)
	}
	if a := p.Alpha(); a < 1 {
		attr(buf, "opacity", scene.Num(a))
	}
	if p.Filter != "" {
		attr(buf, "filter", "url(#"+p.Filter+")")
	}
}

// attr writes name="value", skipping empty values.
func attr(buf *bytes.Buffer, name, value string) {
	if value == "" {
		return
	}
	buf.WriteString(" " + name + `="` + EscapeXML(value) + `"`)
}

func indent(depth int) string {
	const spaces = "                                "
	return spaces[:min(2*depth, len(spaces))]
}

// EscapeXML escapes s for use in XML text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
