package shape

import (
	"math"
	"strings"

	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/layout"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/render/scene"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/style"
)

func drawRect(ctx *Context, n *layout.Node, g *scene.Group) {
	g.Add(bodyRect(ctx, n))
	drawText(g, n, n.Src.Box.Title)
}

func bodyRect(ctx *Context, n *layout.Node) *scene.Rect {
	st := n.Src.Style
	return &scene.Rect{
		X: n.X, Y: n.Y, W: n.Width, H: n.Height,
		RX:    math.Min(st.BorderRadius, math.Min(n.Width, n.Height)/2),
		Paint: bodyPaint(ctx, st),
	}
}

func drawCircle(ctx *Context, n *layout.Node, g *scene.Group) {
	g.Add(&scene.Circle{
		CX: n.CenterX(), CY: n.CenterY(),
		R:     math.Min(n.Width, n.Height) / 2,
		Paint: bodyPaint(ctx, n.Src.Style),
	})
	drawText(g, n, n.Src.Box.Title)
}

type polygonSpec struct {
	sides    int
	rotation float64
	star     bool
}

var polygons = map[style.ShapeKind]polygonSpec{
	style.ShapeTriangle: {sides: 3},
	style.ShapeDiamond:  {sides: 4},
	style.ShapePentagon: {sides: 5},
	style.ShapeHexagon:  {sides: 6},
	style.ShapeOctagon:  {sides: 8, rotation: math.Pi / 8},
	style.ShapeStar:     {sides: 5, star: true},
}

// starInnerRatio is the inner radius of a star relative to its outer one.
const starInnerRatio = 0.5

func polygon(kind style.ShapeKind) Strategy {
	unit := PolygonPoints(kind)
	return StrategyFunc(func(ctx *Context, n *layout.Node, g *scene.Group) {
		pts := make([]scene.Point, len(unit))
		for i, p := range unit {
			pts[i] = scene.Point{X: n.X + p.X*n.Width, Y: n.Y + p.Y*n.Height}
		}
		g.Add(&scene.Polygon{Points: pts, Paint: bodyPaint(ctx, n.Src.Style)})
		drawText(g, n, n.Src.Box.Title)
	})
}

// PolygonPoints returns the vertices of a polygon kind fitted to the unit
// square: every coordinate lies in [0, 1] and the vertex extremes touch all
// four sides. The first vertex points up. It returns nil for kinds that
// are not polygons.
func PolygonPoints(kind style.ShapeKind) []scene.Point {
	spec, ok := polygons[kind]
	if !ok {
		return nil
	}
	n := spec.sides
	if spec.star {
		n *= 2
	}
	pts := make([]scene.Point, n)
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i := range n {
		a := -math.Pi/2 + spec.rotation + 2*math.Pi*float64(i)/float64(n)
		r := 1.0
		if spec.star && i%2 == 1 {
			r = starInnerRatio
		}
		p := scene.Point{X: r * math.Cos(a), Y: r * math.Sin(a)}
		pts[i] = p
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	for i, p := range pts {
		pts[i] = scene.Point{X: (p.X - minX) / (maxX - minX), Y: (p.Y - minY) / (maxY - minY)}
	}
	return pts
}

// drawCustom draws caller path data relative to the node's top-left
// corner. Path data that does not parse falls back to a rectangle.
func drawCustom(ctx *Context, n *layout.Node, g *scene.Group) {
	d := strings.NewReplacer("{w}", scene.Num(n.Width), "{h}", scene.Num(n.Height)).Replace(n.Src.Style.CustomPath)
	p, err := scene.ParsePath(d)
	if strings.TrimSpace(d) == "" || err != nil {
		drawRect(ctx, n, g)
		return
	}
	p.Translate(n.X, n.Y)
	p.Paint = bodyPaint(ctx, n.Src.Style)
	g.Add(p)
	drawText(g, n, n.Src.Box.Title)
}
