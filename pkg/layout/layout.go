// Package layout assigns canvas coordinates to a normalized tree.
//
// Two cores share one output model. The linear core (direct, right-angle
// and curved charts) packs subtree bounding boxes left to right and stacks
// each generation below its parent. The radial core (all-direction charts)
// places the root at the center and gives every subtree its own angular
// wedge. In both cores sibling subtrees never share space.
//
// Positions are deterministic: the same normalized tree and config always
// produce bit-identical coordinates.
//
// # Usage
//
//	root, err := normalize.Tree(t, cfg, measure.Default())
//	if err != nil {
//	    return err
//	}
//	l := layout.Build(root, cfg)
//	for _, n := range l.Nodes {
//	    fmt.Println(n.ID(), n.X, n.Y)
//	}
package layout

import (
	"math"
	"sync"

	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/normalize"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/style"
)

// Node is a positioned node. X and Y are its top-left corner.
type Node struct {
	Src *normalize.Node

	X, Y          float64
	Width, Height float64
	Depth         int

	// Angle is the direction of the node from the center in radians, and
	// AngleStart/AngleEnd bound its wedge. Radial layouts only.
	Angle, AngleStart, AngleEnd float64

	Children []*Node

	// Subtree encloses the node and all its descendants.
	Subtree Bounds
}

// ID returns the node's index-path identifier.
func (n *Node) ID() string { return n.Src.ID }

// CenterX returns the horizontal center of the node.
func (n *Node) CenterX() float64 { return n.X + n.Width/2 }

// CenterY returns the vertical center of the node.
func (n *Node) CenterY() float64 { return n.Y + n.Height/2 }

// Bottom returns the y coordinate of the bottom edge.
func (n *Node) Bottom() float64 { return n.Y + n.Height }

// Right returns the x coordinate of the right edge.
func (n *Node) Right() float64 { return n.X + n.Width }

// Bounds returns the node's own box.
func (n *Node) Bounds() Bounds {
	return Bounds{MinX: n.X, MinY: n.Y, MaxX: n.Right(), MaxY: n.Bottom()}
}

// Walk visits n and its descendants depth-first, parents first.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

func (n *Node) translate(dx, dy float64) {
	n.Walk(func(m *Node) {
		m.X += dx
		m.Y += dy
	})
}

// Bounds is an axis-aligned rectangle given by its extreme coordinates.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the horizontal extent.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Union returns the smallest rectangle enclosing b and o.
func (b Bounds) Union(o Bounds) Bounds {
	return Bounds{
		MinX: math.Min(b.MinX, o.MinX),
		MinY: math.Min(b.MinY, o.MinY),
		MaxX: math.Max(b.MaxX, o.MaxX),
		MaxY: math.Max(b.MaxY, o.MaxY),
	}
}

// Intersects reports whether b and o share interior area.
// Rectangles that only touch along an edge do not intersect.
func (b Bounds) Intersects(o Bounds) bool {
	return b.MinX < o.MaxX && o.MinX < b.MaxX && b.MinY < o.MaxY && o.MinY < b.MaxY
}

// Translate returns b moved by (dx, dy).
func (b Bounds) Translate(dx, dy float64) Bounds {
	return Bounds{MinX: b.MinX + dx, MinY: b.MinY + dy, MaxX: b.MaxX + dx, MaxY: b.MaxY + dy}
}

// Layout is the positioned tree of one render.
type Layout struct {
	Root *Node
	// Nodes lists every node depth-first, parents first.
	Nodes []*Node

	Type style.ChartType
	Flow style.HorizontalAlign

	// Content encloses every node.
	Content Bounds
	// Width and Height are the canvas size.
	Width, Height float64
	// CenterX and CenterY locate the root center of a radial layout.
	CenterX, CenterY float64

	HorizontalGap float64
	VerticalGap   float64

	byID map[string]*Node
}

// Node returns the positioned node with the given identifier, or nil.
func (l *Layout) Node(id string) *Node {
	return l.byID[id]
}

// Translate moves every node and the content bounds by (dx, dy).
// The canvas size is unchanged.
func (l *Layout) Translate(dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	l.Root.translate(dx, dy)
	for _, n := range l.Nodes {
		n.Subtree = n.Subtree.Translate(dx, dy)
	}
	l.Content = l.Content.Translate(dx, dy)
	l.CenterX += dx
	l.CenterY += dy
}

// Strategy computes positions for a normalized tree.
type Strategy func(root *normalize.Node, cfg style.Config) *Layout

var (
	registryMu sync.RWMutex
	registry   = map[style.ChartType]Strategy{
		style.ChartDirect:       Linear,
		style.ChartRightAngle:   Linear,
		style.ChartCurved:       Linear,
		style.ChartAllDirection: Radial,
	}
)

// Register installs the strategy used for a chart type.
func Register(t style.ChartType, s Strategy) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[t] = s
	style.RegisterChartType(t)
}

func lookup(t style.ChartType) Strategy {
	registryMu.RLock()
	defer registryMu.RUnlock()
	if s, ok := registry[t]; ok {
		return s
	}
	return Linear
}

// Build lays out root with the strategy registered for cfg.Type.
// Defaults are applied to a copy of cfg.
func Build(root *normalize.Node, cfg style.Config) *Layout {
	cfg.SetDefaults()
	return lookup(cfg.Type)(root, cfg)
}

// newNodes mirrors the normalized tree into unpositioned layout nodes.
func newNodes(src *normalize.Node) *Node {
	n := &Node{
		Src:    src,
		Width:  src.Width,
		Height: src.Height,
		Depth:  src.Depth,
	}
	for _, c := range src.Children {
		n.Children = append(n.Children, newNodes(c))
	}
	return n
}

// finish computes subtree bounds, indexes the nodes and fits the canvas.
func finish(l *Layout, cfg style.Config) *Layout {
	l.byID = make(map[string]*Node)
	l.Nodes = l.Nodes[:0]
	l.Root.Walk(func(n *Node) {
		l.Nodes = append(l.Nodes, n)
		l.byID[n.ID()] = n
	})
	computeSubtrees(l.Root)
	l.Content = l.Root.Subtree

	l.Width = l.Content.Width() + 2*cfg.Margin
	l.Height = l.Content.Height() + 2*cfg.Margin
	dx := cfg.Margin - l.Content.MinX
	dy := cfg.Margin - l.Content.MinY
	if cfg.Width > 0 {
		if cfg.Width > l.Width {
			dx += (cfg.Width - l.Width) / 2
		}
		l.Width = cfg.Width
	}
	if cfg.Height > 0 {
		if cfg.Height > l.Height {
			dy += (cfg.Height - l.Height) / 2
		}
		l.Height = cfg.Height
	}
	l.Translate(dx, dy)
	return l
}

func computeSubtrees(n *Node) Bounds {
	b := n.Bounds()
	for _, c := range n.Children {
		b = b.Union(computeSubtrees(c))
	}
	n.Subtree = b
	return b
}
