package connector

import (
	"math"

	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/layout"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/render/scene"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/style"
)

// Direct is a straight line between the anchors.
func Direct(e Edge) (*scene.Path, scene.Point) {
	a, b := e.Source(), e.Target()
	p := &scene.Path{}
	p.MoveTo(a.X, a.Y).LineTo(b.X, b.Y)
	return p, midpoint(a, b)
}

// RightAngle drops from the parent to the bend line, runs horizontally to
// above the child and drops into it. The label sits on the final drop so
// siblings sharing the horizontal run do not collide.
func RightAngle(e Edge) (*scene.Path, scene.Point) {
	a, b := e.Source(), e.Target()
	p := &scene.Path{}
	p.MoveTo(a.X, a.Y)
	if a.X != b.X {
		p.LineTo(a.X, e.BendY).LineTo(b.X, e.BendY)
	}
	p.LineTo(b.X, b.Y)
	return p, scene.Point{X: b.X, Y: (e.BendY + b.Y) / 2}
}

// Curved is a cubic Bézier leaving and entering vertically. The control
// points are offset by the edge's curve radius, clamped to the vertical
// distance between the anchors.
func Curved(e Edge) (*scene.Path, scene.Point) {
	a, b := e.Source(), e.Target()
	dy := b.Y - a.Y
	k := math.Min(e.Child.Src.Edge.CurveRadius, math.Abs(dy))
	if dy < 0 {
		k = -k
	}
	p := &scene.Path{}
	p.MoveTo(a.X, a.Y).CubicTo(a.X, a.Y+k, b.X, b.Y-k, b.X, b.Y)
	return p, midpoint(a, b)
}

// Radial is a straight line along the center-to-center direction, clipped
// to both node boundaries.
func Radial(e Edge) (*scene.Path, scene.Point) {
	c1 := scene.Point{X: e.Parent.CenterX(), Y: e.Parent.CenterY()}
	c2 := scene.Point{X: e.Child.CenterX(), Y: e.Child.CenterY()}
	dx, dy := c2.X-c1.X, c2.Y-c1.Y
	dist := math.Hypot(dx, dy)

	a, b := c1, c2
	if dist > 0 {
		ux, uy := dx/dist, dy/dist
		t1, t2 := boundary(e.Parent, ux, uy), boundary(e.Child, ux, uy)
		if t1+t2 < dist {
			a = scene.Point{X: c1.X + ux*t1, Y: c1.Y + uy*t1}
			b = scene.Point{X: c2.X - ux*t2, Y: c2.Y - uy*t2}
		}
	}
	p := &scene.Path{}
	p.MoveTo(a.X, a.Y).LineTo(b.X, b.Y)
	return p, midpoint(a, b)
}

// boundary is the distance from a node's center to its outline along the
// unit direction (ux, uy).
func boundary(n *layout.Node, ux, uy float64) float64 {
	hw, hh := n.Width/2, n.Height/2
	if n.Src.Style.Type == style.ShapeCircle {
		return math.Min(hw, hh)
	}
	t := math.Inf(1)
	if ux != 0 {
		t = hw / math.Abs(ux)
	}
	if uy != 0 {
		t = math.Min(t, hh/math.Abs(uy))
	}
	return t
}
