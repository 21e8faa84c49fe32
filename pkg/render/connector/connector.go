// Package connector draws the edges between positioned nodes.
//
// A [Generator] turns one parent-child [Edge] into path geometry; the
// registry maps each chart type to its generator. [Draw] styles every
// path from the child's resolved edge style, adds arrow markers and the
// optional mid-edge label, and returns the "connectors" group, which is
// painted behind the nodes.
//
// A child whose connectionType is "custom" bypasses the generator: its
// connectionPath is used with {x1} {y1} {x2} {y2} {mx} {my} replaced by
// the anchor and midpoint coordinates.
package connector

import (
	"math"
	"strings"
	"sync"

	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/layout"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/measure"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/render/scene"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/style"
)

// Edge is one parent-child connection of a layout.
type Edge struct {
	Parent, Child *layout.Node
	Flow          style.HorizontalAlign
	// BendY is where right-angle connectors of this parent turn: halfway
	// across the gap between the parent and its children.
	BendY float64
}

// Source returns the parent-side anchor.
func (e Edge) Source() scene.Point {
	if e.Flow == style.FlowBottomToTop {
		return scene.Point{X: e.Parent.CenterX(), Y: e.Parent.Y}
	}
	return scene.Point{X: e.Parent.CenterX(), Y: e.Parent.Bottom()}
}

// Target returns the child-side anchor.
func (e Edge) Target() scene.Point {
	if e.Flow == style.FlowBottomToTop {
		return scene.Point{X: e.Child.CenterX(), Y: e.Child.Bottom()}
	}
	return scene.Point{X: e.Child.CenterX(), Y: e.Child.Y}
}

// Generator produces the geometry of an edge and the point its label is
// centered on.
type Generator interface {
	Generate(e Edge) (*scene.Path, scene.Point)
}

// GeneratorFunc adapts a function to [Generator].
type GeneratorFunc func(e Edge) (*scene.Path, scene.Point)

// Generate implements Generator.
func (f GeneratorFunc) Generate(e Edge) (*scene.Path, scene.Point) { return f(e) }

var (
	mu       sync.RWMutex
	registry = map[style.ChartType]Generator{
		style.ChartDirect:       GeneratorFunc(Direct),
		style.ChartRightAngle:   GeneratorFunc(RightAngle),
		style.ChartCurved:       GeneratorFunc(Curved),
		style.ChartAllDirection: GeneratorFunc(Radial),
	}
)

// Register installs g for chart type t.
func Register(t style.ChartType, g Generator) {
	mu.Lock()
	defer mu.Unlock()
	registry[t] = g
	style.RegisterChartType(t)
}

// Lookup returns the generator of t, falling back to straight lines.
func Lookup(t style.ChartType) Generator {
	mu.RLock()
	defer mu.RUnlock()
	if g, ok := registry[t]; ok {
		return g
	}
	return registry[style.ChartDirect]
}

// Context carries what drawing needs beyond the layout.
type Context struct {
	Scene    *scene.Scene
	Measurer measure.Measurer
}

// GroupID returns the scene id of the edge into the node with childID.
func GroupID(childID string) string { return "edge-" + childID }

// Draw renders every edge of l.
func Draw(ctx *Context, l *layout.Layout) *scene.Group {
	out := &scene.Group{ID: "connectors"}
	if l == nil || l.Root == nil {
		return out
	}
	gen := Lookup(l.Type)
	l.Root.Walk(func(parent *layout.Node) {
		if len(parent.Children) == 0 {
			return
		}
		bend := bendY(parent, l.Flow)
		for _, child := range parent.Children {
			e := Edge{Parent: parent, Child: child, Flow: l.Flow, BendY: bend}
			out.Add(drawEdge(ctx, gen, e))
		}
	})
	return out
}

func drawEdge(ctx *Context, gen Generator, e Edge) *scene.Group {
	st := e.Child.Src.Edge
	src := e.Child.Src.Source

	var (
		p     *scene.Path
		label scene.Point
	)
	if src.HasCustomConnection() {
		p, label = custom(e, gen, src.ConnectionPath)
	} else {
		p, label = gen.Generate(e)
	}
	p.Paint = scene.Paint{
		Stroke:      st.Color,
		StrokeWidth: st.Width,
		Opacity:     scene.Opacity(st.Opacity),
		Dash:        st.DashArray,
	}
	if ctx != nil && ctx.Scene != nil && st.ArrowSize > 0 {
		if st.ArrowDirection.AtSource() {
			p.MarkerStart = ctx.Scene.AddDef(&scene.Marker{Size: st.ArrowSize, Color: st.MarkerColor(), Start: true})
		}
		if st.ArrowDirection.AtTarget() {
			p.MarkerEnd = ctx.Scene.AddDef(&scene.Marker{Size: st.ArrowSize, Color: st.MarkerColor()})
		}
	}

	g := &scene.Group{ID: GroupID(e.Child.ID()), Class: "edge"}
	g.Add(p)
	if text := src.EdgeText; text != "" {
		g.Add(edgeLabel(ctx, st, text, label)...)
	}
	return g
}

// bendY is the turn line shared by all right-angle edges of parent.
func bendY(parent *layout.Node, flow style.HorizontalAlign) float64 {
	if flow == style.FlowBottomToTop {
		edge := math.Inf(-1)
		for _, c := range parent.Children {
			edge = math.Max(edge, c.Bottom())
		}
		return (parent.Y + edge) / 2
	}
	edge := math.Inf(1)
	for _, c := range parent.Children {
		edge = math.Min(edge, c.Y)
	}
	return (parent.Bottom() + edge) / 2
}

// custom substitutes the anchors into caller path data. Data that does not
// parse falls back to gen.
func custom(e Edge, gen Generator, d string) (*scene.Path, scene.Point) {
	a, b := e.Source(), e.Target()
	mid := midpoint(a, b)
	d = strings.NewReplacer(
		"{x1}", scene.Num(a.X), "{y1}", scene.Num(a.Y),
		"{x2}", scene.Num(b.X), "{y2}", scene.Num(b.Y),
		"{mx}", scene.Num(mid.X), "{my}", scene.Num(mid.Y),
	).Replace(d)
	p, err := scene.ParsePath(d)
	if err != nil {
		return gen.Generate(e)
	}
	return p, mid
}

// edgeLabel centers text on at, over an optional background box.
func edgeLabel(ctx *Context, st style.EdgeStyle, text string, at scene.Point) []scene.Element {
	var m measure.Measurer = measure.Approx{}
	if ctx != nil && ctx.Measurer != nil {
		m = ctx.Measurer
	}
	var els []scene.Element
	if st.TextBackground != "" {
		w := m.Width(text, st.TextSize, false) + 2*st.TextPadding
		h := m.LineHeight(st.TextSize) + 2*st.TextPadding
		els = append(els, &scene.Rect{
			X: at.X - w/2, Y: at.Y - h/2, W: w, H: h, RX: 2,
			Paint: scene.Paint{Fill: st.TextBackground},
		})
	}
	return append(els, &scene.Text{
		X:       at.X,
		Y:       at.Y + st.TextSize*0.35,
		Content: text,
		Size:    st.TextSize,
		Color:   st.TextColor,
		Anchor:  "middle",
	})
}

func midpoint(a, b scene.Point) scene.Point {
	return scene.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}
