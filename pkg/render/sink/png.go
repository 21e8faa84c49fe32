package sink

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/fonts"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/render"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/render/scene"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale float64
	rsvg  bool
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithRsvg renders through rsvg-convert instead of the built-in
// rasterizer. Requires librsvg.
func WithRsvg() PNGOption {
	return func(r *pngRenderer) { r.rsvg = true }
}

// RenderPNG rasterizes s. Hit regions are not drawn.
func RenderPNG(ctx context.Context, s *scene.Scene, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 2.0}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		r.scale = 1
	}
	if r.rsvg {
		return render.ToPNG(ctx, RenderSVG(s), r.scale)
	}
	return rasterize(s, r.scale)
}

var (
	fontOnce    sync.Once
	fontErr     error
	regularFont *text.FontSource
	boldFont    *text.FontSource
)

func loadFonts() error {
	fontOnce.Do(func() {
		if regularFont, fontErr = text.NewFontSource(fonts.RegularTTF()); fontErr != nil {
			return
		}
		boldFont, fontErr = text.NewFontSource(fonts.BoldTTF())
	})
	return fontErr
}

// raster replays a scene onto a gg context, scaling every coordinate by k.
type raster struct {
	dc    *gg.Context
	k     float64
	defs  map[string]scene.Def
	faces map[faceKey]text.Face
}

type faceKey struct {
	size float64
	bold bool
}

func rasterize(s *scene.Scene, k float64) ([]byte, error) {
	if err := loadFonts(); err != nil {
		return nil, fmt.Errorf("load fonts: %w", err)
	}
	w, h := int(math.Ceil(s.Width*k)), int(math.Ceil(s.Height*k))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("empty canvas %vx%v", s.Width, s.Height)
	}

	dc := gg.NewContext(w, h)
	defer dc.Close()
	r := &raster{dc: dc, k: k, defs: make(map[string]scene.Def), faces: make(map[faceKey]text.Face)}
	for _, d := range s.Defs {
		r.defs[d.DefID()] = d
	}

	bg, ok := parseColor(s.Background)
	if !ok {
		bg = gg.RGB(1, 1, 1)
	}
	dc.SetFillBrush(gg.Solid(bg))
	dc.DrawRectangle(0, 0, float64(w), float64(h))
	if err := dc.Fill(); err != nil {
		return nil, err
	}

	for _, e := range s.Elements {
		if err := r.element(e); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *raster) element(e scene.Element) error {
	switch v := e.(type) {
	case *scene.Group:
		for _, c := range v.Children {
			if err := r.element(c); err != nil {
				return err
			}
		}
		return nil
	case *scene.HitRegion:
		return nil
	case *scene.Rect:
		return r.shape(v.Paint, v.X, v.Y, v.W, v.H, func(dx, dy float64) {
			x, y := r.k*(v.X+dx), r.k*(v.Y+dy)
			if v.RX > 0 {
				r.dc.DrawRoundedRectangle(x, y, r.k*v.W, r.k*v.H, r.k*v.RX)
			} else {
				r.dc.DrawRectangle(x, y, r.k*v.W, r.k*v.H)
			}
		})
	case *scene.Circle:
		return r.shape(v.Paint, v.CX-v.R, v.CY-v.R, 2*v.R, 2*v.R, func(dx, dy float64) {
			r.dc.DrawCircle(r.k*(v.CX+dx), r.k*(v.CY+dy), r.k*v.R)
		})
	case *scene.Polygon:
		if len(v.Points) == 0 {
			return nil
		}
		minX, minY, maxX, maxY := pointBounds(v.Points)
		return r.shape(v.Paint, minX, minY, maxX-minX, maxY-minY, func(dx, dy float64) {
			for i, p := range v.Points {
				if i == 0 {
					r.dc.MoveTo(r.k*(p.X+dx), r.k*(p.Y+dy))
				} else {
					r.dc.LineTo(r.k*(p.X+dx), r.k*(p.Y+dy))
				}
			}
			r.dc.ClosePath()
		})
	case *scene.Path:
		return r.path(v)
	case *scene.Text:
		return r.text(v)
	case *scene.Image:
		return r.image(v)
	}
	return nil
}

// shape draws the shadow, fill and stroke of a closed outline. trace adds
// the outline to the current path, offset by (dx, dy) in scene units.
func (r *raster) shape(p scene.Paint, x, y, w, h float64, trace func(dx, dy float64)) error {
	if sh, ok := r.defs[p.Filter].(*scene.Shadow); ok {
		if c, ok := parseColor(sh.Color); ok {
			trace(sh.DX, sh.DY)
			r.dc.SetFillBrush(gg.Solid(withOpacity(c, p.Alpha())))
			if err := r.dc.Fill(); err != nil {
				return err
			}
		}
	}
	if brush, ok := r.fillBrush(p, x, y, w, h); ok {
		trace(0, 0)
		r.dc.SetFillBrush(brush)
		if err := r.dc.Fill(); err != nil {
			return err
		}
	}
	if c, ok := parseColor(p.Stroke); ok && p.StrokeWidth > 0 {
		trace(0, 0)
		return r.stroke(p, c)
	}
	return nil
}

func (r *raster) fillBrush(p scene.Paint, x, y, w, h float64) (gg.Brush, bool) {
	if g, ok := r.defs[p.FillRef].(*scene.LinearGradient); ok {
		start, ok1 := parseColor(g.Start)
		end, ok2 := parseColor(g.End)
		if ok1 && ok2 {
			x1, y1 := x, y+h
			if g.Horizontal {
				x1, y1 = x+w, y
			}
			b := gg.NewLinearGradientBrush(r.k*x, r.k*y, r.k*x1, r.k*y1).
				AddColorStop(0, withOpacity(start, p.Alpha())).
				AddColorStop(1, withOpacity(end, p.Alpha()))
			return b, true
		}
	}
	c, ok := parseColor(p.Fill)
	if !ok {
		return nil, false
	}
	return gg.Solid(withOpacity(c, p.Alpha())), true
}

func (r *raster) stroke(p scene.Paint, c gg.RGBA) error {
	r.dc.SetStrokeBrush(gg.Solid(withOpacity(c, p.Alpha())))
	r.dc.SetLineWidth(r.k * p.StrokeWidth)
	if dash := parseDash(p.Dash, r.k); len(dash) > 0 {
		r.dc.SetDash(dash...)
		defer r.dc.SetDash()
	}
	return r.dc.Stroke()
}

func (r *raster) path(p *scene.Path) error {
	trace := func() {
		for _, c := range p.Cmds {
			a := c.Args
			switch c.Op {
			case scene.OpMove:
				r.dc.MoveTo(r.k*a[0], r.k*a[1])
			case scene.OpLine:
				r.dc.LineTo(r.k*a[0], r.k*a[1])
			case scene.OpCubic:
				r.dc.CubicTo(r.k*a[0], r.k*a[1], r.k*a[2], r.k*a[3], r.k*a[4], r.k*a[5])
			case scene.OpQuad:
				r.dc.QuadraticTo(r.k*a[0], r.k*a[1], r.k*a[2], r.k*a[3])
			case scene.OpClose:
				r.dc.ClosePath()
			}
		}
	}
	if brush, ok := r.fillBrush(p.Paint, 0, 0, 0, 0); ok {
		trace()
		r.dc.SetFillBrush(brush)
		if err := r.dc.Fill(); err != nil {
			return err
		}
	}
	if c, ok := parseColor(p.Stroke); ok && p.StrokeWidth > 0 {
		trace()
		if err := r.stroke(p.Paint, c); err != nil {
			return err
		}
	}
	if m, ok := r.defs[p.MarkerStart].(*scene.Marker); ok {
		if tip, from, ok := startTangent(p); ok {
			if err := r.arrow(m, tip, from); err != nil {
				return err
			}
		}
	}
	if m, ok := r.defs[p.MarkerEnd].(*scene.Marker); ok {
		if tip, from, ok := endTangent(p); ok {
			return r.arrow(m, tip, from)
		}
	}
	return nil
}

// arrow fills a triangular head whose tip sits at tip and which points
// away from from.
func (r *raster) arrow(m *scene.Marker, tip, from scene.Point) error {
	c, ok := parseColor(m.Color)
	if !ok {
		return nil
	}
	dx, dy := tip.X-from.X, tip.Y-from.Y
	d := math.Hypot(dx, dy)
	if d == 0 {
		return nil
	}
	ux, uy := dx/d, dy/d
	bx, by := tip.X-ux*m.Size, tip.Y-uy*m.Size
	half := m.Size / 2
	r.dc.MoveTo(r.k*tip.X, r.k*tip.Y)
	r.dc.LineTo(r.k*(bx-uy*half), r.k*(by+ux*half))
	r.dc.LineTo(r.k*(bx+uy*half), r.k*(by-ux*half))
	r.dc.ClosePath()
	r.dc.SetFillBrush(gg.Solid(c))
	return r.dc.Fill()
}

func (r *raster) face(size float64, bold bool) text.Face {
	key := faceKey{size: size, bold: bold}
	if f, ok := r.faces[key]; ok {
		return f
	}
	src := regularFont
	if bold {
		src = boldFont
	}
	f := src.Face(size)
	r.faces[key] = f
	return f
}

func (r *raster) text(t *scene.Text) error {
	c, ok := parseColor(t.Color)
	if !ok {
		c = gg.RGB(0, 0, 0)
	}
	bold := t.Weight == "bold" || strings.HasPrefix(t.Weight, "7") || strings.HasPrefix(t.Weight, "8") || strings.HasPrefix(t.Weight, "9")
	r.dc.SetFont(r.face(r.k*t.Size, bold))
	r.dc.SetFillBrush(gg.Solid(c))

	x := r.k * t.X
	w, _ := r.dc.MeasureString(t.Content)
	switch t.Anchor {
	case "middle":
		x -= w / 2
	case "end":
		x -= w
	}
	r.dc.DrawString(t.Content, x, r.k*t.Y)
	return nil
}

func (r *raster) image(v *scene.Image) error {
	if len(v.Data) > 0 {
		if img, _, err := image.Decode(bytes.NewReader(v.Data)); err == nil {
			r.dc.DrawImageEx(gg.ImageBufFromImage(img), gg.DrawImageOptions{
				X: r.k * v.X, Y: r.k * v.Y,
				DstWidth: r.k * v.W, DstHeight: r.k * v.H,
			})
			return nil
		}
	}
	// Vector or undecodable images are drawn as an empty frame.
	return r.shape(scene.Paint{Fill: "#eeeeee", Stroke: "#bbbbbb", StrokeWidth: 1}, v.X, v.Y, v.W, v.H, func(dx, dy float64) {
		r.dc.DrawRoundedRectangle(r.k*(v.X+dx), r.k*(v.Y+dy), r.k*v.W, r.k*v.H, r.k*v.RX)
	})
}

// endTangent returns the last point of p and the point its final segment
// arrives from: the last control point of a curve, or the previous point.
func endTangent(p *scene.Path) (tip, from scene.Point, ok bool) {
	var cur scene.Point
	for _, c := range p.Cmds {
		a := c.Args
		switch c.Op {
		case scene.OpMove:
			cur = scene.Point{X: a[0], Y: a[1]}
		case scene.OpLine:
			from, tip, ok = cur, scene.Point{X: a[0], Y: a[1]}, true
			cur = tip
		case scene.OpQuad:
			from, tip, ok = scene.Point{X: a[0], Y: a[1]}, scene.Point{X: a[2], Y: a[3]}, true
			cur = tip
		case scene.OpCubic:
			from, tip, ok = scene.Point{X: a[2], Y: a[3]}, scene.Point{X: a[4], Y: a[5]}, true
			cur = tip
		}
	}
	return tip, from, ok
}

// startTangent returns the first point of p and the point the first
// segment leaves toward; an arrow at the start points back along it.
func startTangent(p *scene.Path) (tip, toward scene.Point, ok bool) {
	if len(p.Cmds) < 2 || p.Cmds[0].Op != scene.OpMove || len(p.Cmds[1].Args) < 2 {
		return tip, toward, false
	}
	tip = scene.Point{X: p.Cmds[0].Args[0], Y: p.Cmds[0].Args[1]}
	toward = scene.Point{X: p.Cmds[1].Args[0], Y: p.Cmds[1].Args[1]}
	return tip, toward, true
}

func parseDash(s string, k float64) []float64 {
	var out []float64
	for _, f := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' }) {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil || v < 0 {
			return nil
		}
		out = append(out, v*k)
	}
	return out
}

func pointBounds(pts []scene.Point) (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	return minX, minY, maxX, maxY
}
