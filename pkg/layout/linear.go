package layout

import (
	"math"

	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/normalize"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/style"
)

// extent is the horizontal packing of one subtree, relative to the
// subtree's left edge.
type extent struct {
	width      float64
	own        float64   // left edge of the node's own box
	childStart []float64 // left edge of each child subtree
}

// Linear is the tidy-tree core of the direct, right-angle and curved
// charts.
//
// A bottom-up pass packs child subtrees left to right, horizontalGap
// apart, and places the parent box against that span per verticalAlign:
// centered on the midpoint of the first and last child centers, or flush
// with the left or right subtree edge. The subtree extent is the union of
// the span and the parent box. A top-down pass then fixes absolute x.
//
// Vertically, the children of a node start verticalGap below its bottom
// edge and share their top edge. Bottom-to-top flow mirrors this: the
// children end verticalGap above the parent and share their bottom edge.
func Linear(root *normalize.Node, cfg style.Config) *Layout {
	l := &Layout{
		Root:          newNodes(root),
		Type:          cfg.Type,
		Flow:          cfg.HorizontalAlign,
		HorizontalGap: cfg.HorizontalGap,
		VerticalGap:   cfg.VerticalGap,
	}
	extents := make(map[*Node]*extent)
	measureExtent(l.Root, cfg, extents)
	placeX(l.Root, 0, extents)
	placeY(l.Root, 0, cfg)
	return finish(l, cfg)
}

func measureExtent(n *Node, cfg style.Config, extents map[*Node]*extent) *extent {
	e := &extent{}
	extents[n] = e
	if len(n.Children) == 0 {
		e.width = n.Width
		return e
	}

	var span float64
	centers := make([]float64, len(n.Children))
	e.childStart = make([]float64, len(n.Children))
	for i, c := range n.Children {
		ce := measureExtent(c, cfg, extents)
		if i > 0 {
			span += cfg.HorizontalGap
		}
		e.childStart[i] = span
		centers[i] = span + ce.own + c.Width/2
		span += ce.width
	}

	var own float64
	switch cfg.VerticalAlign {
	case style.AlignLeft:
		own = 0
	case style.AlignRight:
		own = span - n.Width
	default:
		own = (centers[0]+centers[len(centers)-1])/2 - n.Width/2
	}

	left := math.Min(0, own)
	right := math.Max(span, own+n.Width)
	for i := range e.childStart {
		e.childStart[i] -= left
	}
	e.own = own - left
	e.width = right - left
	return e
}

func placeX(n *Node, left float64, extents map[*Node]*extent) {
	e := extents[n]
	n.X = left + e.own
	for i, c := range n.Children {
		placeX(c, left+e.childStart[i], extents)
	}
}

func placeY(n *Node, y float64, cfg style.Config) {
	n.Y = y
	if len(n.Children) == 0 {
		return
	}
	if cfg.HorizontalAlign == style.FlowBottomToTop {
		bottom := n.Y - cfg.VerticalGap
		for _, c := range n.Children {
			placeY(c, bottom-c.Height, cfg)
		}
		return
	}
	top := n.Bottom() + cfg.VerticalGap
	for _, c := range n.Children {
		placeY(c, top, cfg)
	}
}
