// Package shape draws positioned nodes as scene primitives.
//
// Every [style.ShapeKind] maps to a [Strategy] in a registry. [Draw] walks
// a layout and emits one group per node, with id "node-<id>", into a
// single "nodes" group. Strategies read geometry only from the layout node
// and the content [normalize.Box] computed during normalization, so text
// and images land exactly where sizing reserved room for them.
//
// New shapes are added with [Register]; unknown kinds draw as rectangles.
package shape

import (
	"sync"

	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/imageload"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/layout"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/normalize"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/render/scene"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/style"
)

// Context carries what strategies share during one render.
type Context struct {
	// Scene receives gradient, shadow and other defs.
	Scene *scene.Scene
	// Images resolves image references; nil leaves them unfetched.
	Images *imageload.Set
}

// Strategy draws one node into its group.
type Strategy interface {
	Draw(ctx *Context, n *layout.Node, g *scene.Group)
}

// StrategyFunc adapts a function to [Strategy].
type StrategyFunc func(ctx *Context, n *layout.Node, g *scene.Group)

// Draw implements Strategy.
func (f StrategyFunc) Draw(ctx *Context, n *layout.Node, g *scene.Group) { f(ctx, n, g) }

var (
	mu       sync.RWMutex
	registry = map[style.ShapeKind]Strategy{
		style.ShapeRectangle:   StrategyFunc(drawRect),
		style.ShapeCircle:      StrategyFunc(drawCircle),
		style.ShapeTriangle:    polygon(style.ShapeTriangle),
		style.ShapeDiamond:     polygon(style.ShapeDiamond),
		style.ShapePentagon:    polygon(style.ShapePentagon),
		style.ShapeHexagon:     polygon(style.ShapeHexagon),
		style.ShapeOctagon:     polygon(style.ShapeOctagon),
		style.ShapeStar:        polygon(style.ShapeStar),
		style.ShapeCustom:      StrategyFunc(drawCustom),
		style.ShapeDescription: StrategyFunc(drawDescription),
		style.ShapeImage:       StrategyFunc(drawImage),
		style.ShapeCollapsible: StrategyFunc(drawCollapsible),
	}
)

// Register installs s for kind, replacing any previous strategy. The kind
// becomes a recognized value of node configs.
func Register(kind style.ShapeKind, s Strategy) {
	mu.Lock()
	defer mu.Unlock()
	registry[kind] = s
	style.RegisterShapeKind(kind)
}

// Lookup returns the strategy for kind, falling back to the rectangle.
func Lookup(kind style.ShapeKind) Strategy {
	mu.RLock()
	defer mu.RUnlock()
	if s, ok := registry[kind]; ok {
		return s
	}
	return registry[style.ShapeRectangle]
}

// GroupID returns the scene id of a node's group.
func GroupID(nodeID string) string { return "node-" + nodeID }

// Draw renders every node of l, parents first.
func Draw(ctx *Context, l *layout.Layout) *scene.Group {
	nodes := &scene.Group{ID: "nodes"}
	if l == nil || l.Root == nil {
		return nodes
	}
	l.Root.Walk(func(n *layout.Node) {
		kind := n.Src.Style.Type
		g := &scene.Group{ID: GroupID(n.ID()), Class: "node " + string(kind)}
		Lookup(kind).Draw(ctx, n, g)
		nodes.Add(g)
	})
	return nodes
}

// bodyPaint is the fill and border of a node, registering its gradient
// and shadow defs.
func bodyPaint(ctx *Context, st style.NodeStyle) scene.Paint {
	p := scene.Paint{
		Fill:        st.Color,
		Stroke:      st.BorderColor,
		StrokeWidth: st.BorderWidth,
		Opacity:     scene.Opacity(st.Opacity),
	}
	if st.BorderWidth <= 0 {
		p.Stroke = ""
	}
	if ctx == nil || ctx.Scene == nil {
		return p
	}
	if g := st.Gradient; g.Enabled {
		p.FillRef = ctx.Scene.AddDef(&scene.LinearGradient{Start: g.StartColor, End: g.EndColor, Horizontal: g.Horizontal})
	}
	if s := st.Shadow; s.Enabled {
		p.Filter = ctx.Scene.AddDef(&scene.Shadow{Color: s.Color, Blur: s.Blur, DX: s.OffsetX, DY: s.OffsetY})
	}
	return p
}

// baselineShift places a baseline so the glyphs sit centered on the line.
const baselineShift = 0.35

// drawText emits one Text element per line of t, offset by the node
// origin.
func drawText(g *scene.Group, n *layout.Node, t normalize.Text) {
	weight := ""
	if t.Bold {
		weight = "bold"
	}
	for i, line := range t.Lines {
		if line == "" {
			continue
		}
		top := n.Y + t.Y + float64(i)*t.LineHeight
		g.Add(&scene.Text{
			X:       n.X + t.X,
			Y:       top + t.LineHeight/2 + t.Size*baselineShift,
			Content: line,
			Size:    t.Size,
			Family:  t.Family,
			Color:   t.Color,
			Weight:  weight,
			Anchor:  t.Anchor,
		})
	}
}
