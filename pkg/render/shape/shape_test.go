package shape

import (
	"context"
	"encoding/base64"
	"math"
	"testing"

	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/imageload"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/layout"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/measure"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/normalize"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/render/scene"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/style"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/tree"
)

func draw(t *testing.T, root *tree.Node, cfg style.Config, images *imageload.Set) (*scene.Scene, *layout.Layout, *scene.Group) {
	t.Helper()
	cfg.SetDefaults()
	n, err := normalize.Tree(root, cfg, measure.Approx{})
	if err != nil {
		t.Fatal(err)
	}
	l := layout.Build(n, cfg)
	s := scene.New(l.Width, l.Height)
	g := Draw(&Context{Scene: s, Images: images}, l)
	s.Add(g)
	return s, l, g
}

func shaped(kind style.ShapeKind) *style.NodeConfig {
	return &style.NodeConfig{Type: kind}
}

func TestDrawGroupsPerNode(t *testing.T) {
	root := &tree.Node{Value: "A", Children: []*tree.Node{{Value: "B"}, {Value: "C"}}}
	s, _, g := draw(t, root, style.Config{}, nil)

	if len(g.Children) != 3 {
		t.Fatalf("nodes group has %d children, want 3", len(g.Children))
	}
	for _, id := range []string{"0", "0.0", "0.1"} {
		if s.Find(GroupID(id)) == nil {
			t.Errorf("missing group for node %s", id)
		}
	}
}

func TestShapesEmitExpectedPrimitive(t *testing.T) {
	tests := []struct {
		kind style.ShapeKind
		want func(scene.Element) bool
	}{
		{style.ShapeRectangle, func(e scene.Element) bool { _, ok := e.(*scene.Rect); return ok }},
		{style.ShapeCircle, func(e scene.Element) bool { _, ok := e.(*scene.Circle); return ok }},
		{style.ShapeDiamond, func(e scene.Element) bool { p, ok := e.(*scene.Polygon); return ok && len(p.Points) == 4 }},
		{style.ShapeStar, func(e scene.Element) bool { p, ok := e.(*scene.Polygon); return ok && len(p.Points) == 10 }},
		{style.ShapeOctagon, func(e scene.Element) bool { p, ok := e.(*scene.Polygon); return ok && len(p.Points) == 8 }},
		{style.ShapeKind("blob"), func(e scene.Element) bool { _, ok := e.(*scene.Rect); return ok }},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			_, _, g := draw(t, &tree.Node{Value: "x", NodeConfig: shaped(tt.kind)}, style.Config{}, nil)
			body := g.Children[0].(*scene.Group).Children[0]
			if !tt.want(body) {
				t.Errorf("body = %#v", body)
			}
		})
	}
}

func TestPolygonPointsFitUnitBox(t *testing.T) {
	for kind := range polygons {
		pts := PolygonPoints(kind)
		minX, minY, maxX, maxY := 1.0, 1.0, 0.0, 0.0
		for _, p := range pts {
			if p.X < -1e-9 || p.X > 1+1e-9 || p.Y < -1e-9 || p.Y > 1+1e-9 {
				t.Errorf("%s: point %v outside unit box", kind, p)
			}
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
		if minX > 1e-9 || minY > 1e-9 || maxX < 1-1e-9 || maxY < 1-1e-9 {
			t.Errorf("%s: extremes [%v,%v]x[%v,%v] do not touch the box", kind, minX, maxX, minY, maxY)
		}
	}
	if PolygonPoints(style.ShapeRectangle) != nil {
		t.Error("rectangle is not a polygon kind")
	}

	tri := PolygonPoints(style.ShapeTriangle)
	if math.Abs(tri[0].X-0.5) > 1e-9 || math.Abs(tri[0].Y) > 1e-9 {
		t.Errorf("triangle apex = %v, want (0.5, 0)", tri[0])
	}
}

func TestRectPaint(t *testing.T) {
	cfg := style.Config{NodeConfig: &style.NodeConfig{
		BorderRadius: style.Float(6),
		Shadow:       &style.ShadowConfig{Enabled: style.Bool(true)},
		Gradient:     &style.GradientConfig{Enabled: style.Bool(true), StartColor: style.String("#fff"), EndColor: style.String("#00f")},
	}}
	s, _, g := draw(t, &tree.Node{Value: "a", Children: []*tree.Node{{Value: "b"}}}, cfg, nil)

	r := g.Children[0].(*scene.Group).Children[0].(*scene.Rect)
	if r.RX != 6 || r.FillRef == "" || r.Filter == "" {
		t.Errorf("rect = %+v", r)
	}
	// One gradient and one shadow shared by both nodes.
	if len(s.Defs) != 2 {
		t.Errorf("len(Defs) = %d, want 2", len(s.Defs))
	}
}

func TestCustomPath(t *testing.T) {
	cfg := style.Config{NodeConfig: &style.NodeConfig{
		Type:       style.ShapeCustom,
		CustomPath: style.String("M 0 0 L {w} 0 L {w} {h} Z"),
	}}
	_, l, g := draw(t, &tree.Node{Value: "c"}, cfg, nil)

	p, ok := g.Children[0].(*scene.Group).Children[0].(*scene.Path)
	if !ok {
		t.Fatalf("custom shape drew %T", g.Children[0].(*scene.Group).Children[0])
	}
	n := l.Root
	_, end, _ := p.Endpoints()
	if end.X != n.X || end.Y != n.Y {
		t.Errorf("closed path should end at node origin (%v,%v), got %v", n.X, n.Y, end)
	}
	if p.Cmds[2].Args[0] != n.X+n.Width || p.Cmds[2].Args[1] != n.Y+n.Height {
		t.Errorf("placeholders not substituted: %v", p.Cmds[2])
	}

	bad := style.Config{NodeConfig: &style.NodeConfig{Type: style.ShapeCustom, CustomPath: style.String("nonsense")}}
	_, _, g = draw(t, &tree.Node{Value: "c"}, bad, nil)
	if _, ok := g.Children[0].(*scene.Group).Children[0].(*scene.Rect); !ok {
		t.Error("unparseable path should fall back to a rectangle")
	}
}

func TestTextPlacement(t *testing.T) {
	_, l, g := draw(t, &tree.Node{Value: "hello"}, style.Config{}, nil)
	n := l.Root
	var txt *scene.Text
	for _, e := range g.Children[0].(*scene.Group).Children {
		if v, ok := e.(*scene.Text); ok {
			txt = v
		}
	}
	if txt == nil || txt.Content != "hello" {
		t.Fatalf("text = %+v", txt)
	}
	if txt.X != n.CenterX() {
		t.Errorf("text x = %v, want centered %v", txt.X, n.CenterX())
	}
	if txt.Y <= n.Y || txt.Y >= n.Bottom() {
		t.Errorf("baseline %v outside node [%v,%v]", txt.Y, n.Y, n.Bottom())
	}
}

func TestImageStates(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n")
	ok := "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
	images := (&imageload.Loader{}).Load(context.Background(), []string{ok, "ftp://nope/x.png"})
	img := shaped(style.ShapeImage)

	tests := []struct {
		name string
		ref  string
		set  *imageload.Set
		want func(scene.Element) bool
	}{
		{"loaded", ok, images, func(e scene.Element) bool { i, ok := e.(*scene.Image); return ok && len(i.Data) > 0 }},
		{"failed", "ftp://nope/x.png", images, func(e scene.Element) bool { g, ok := e.(*scene.Group); return ok && g.Class == "image-placeholder" }},
		{"not fetched", "pic.png", nil, func(e scene.Element) bool { i, ok := e.(*scene.Image); return ok && i.Href == "pic.png" && i.Data == nil }},
		{"no reference", "", nil, func(e scene.Element) bool { g, ok := e.(*scene.Group); return ok && g.Class == "image-placeholder" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, g := draw(t, &tree.Node{Value: "pic", Subtitle: "sub", ImageURL: tt.ref, NodeConfig: img}, style.Config{}, tt.set)
			el := g.Children[0].(*scene.Group).Children[1]
			if !tt.want(el) {
				t.Errorf("image slot drew %#v", el)
			}
		})
	}
}

func TestCollapsibleHitRegion(t *testing.T) {
	root := &tree.Node{
		Value:       "toggle me",
		Description: "hidden details",
		NodeConfig:  shaped(style.ShapeCollapsible),
	}
	s, _, _ := draw(t, root, style.Config{}, nil)

	hits := s.HitRegions()
	if len(hits) != 1 || hits[0].Action != scene.ActionToggle || hits[0].Target != "0" {
		t.Fatalf("hit regions = %+v", hits)
	}

	texts := func(s *scene.Scene) int {
		count := 0
		s.Walk(func(e scene.Element) {
			if _, ok := e.(*scene.Text); ok {
				count++
			}
		})
		return count
	}
	collapsed := texts(s)
	root.CollapsibleState = &tree.CollapsibleState{Expanded: true}
	expanded, _, _ := draw(t, root, style.Config{}, nil)
	if texts(expanded) <= collapsed {
		t.Errorf("expanded node should draw its description: %d <= %d texts", texts(expanded), collapsed)
	}
}

func TestRegister(t *testing.T) {
	kind := style.ShapeKind("test-badge")
	called := false
	Register(kind, StrategyFunc(func(ctx *Context, n *layout.Node, g *scene.Group) {
		called = true
		g.Add(&scene.Circle{CX: n.CenterX(), CY: n.CenterY(), R: 1})
	}))
	defer func() {
		mu.Lock()
		delete(registry, kind)
		mu.Unlock()
	}()

	_, _, _ = draw(t, &tree.Node{Value: "x", NodeConfig: shaped(kind)}, style.Config{}, nil)
	if !called {
		t.Error("registered strategy was not used")
	}
}
