package sink

import (
	"encoding/json"
	"strings"

	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/layout"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/render/connector"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/render/scene"
)

type jsonOutput struct {
	Width   float64      `json:"width"`
	Height  float64      `json:"height"`
	Type    string       `json:"type"`
	Flow    string       `json:"flow"`
	Content jsonBounds   `json:"content"`
	Nodes   []jsonNode   `json:"nodes"`
	Edges   []jsonEdge   `json:"edges,omitempty"`
	Actions []jsonAction `json:"actions,omitempty"`
}

type jsonBounds struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type jsonNode struct {
	ID       string     `json:"id"`
	Label    string     `json:"label"`
	Shape    string     `json:"shape"`
	Depth    int        `json:"depth"`
	X        float64    `json:"x"`
	Y        float64    `json:"y"`
	Width    float64    `json:"width"`
	Height   float64    `json:"height"`
	Angle    *float64   `json:"angle,omitempty"`
	Expanded *bool      `json:"expanded,omitempty"`
	Subtree  jsonBounds `json:"subtree"`
}

type jsonEdge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Path  string `json:"path"`
	Label string `json:"label,omitempty"`
}

type jsonAction struct {
	Action string  `json:"action"`
	Target string  `json:"target,omitempty"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RenderJSON serializes the geometry of a render: node boxes from l and
// connector paths and interactive regions from s. Either may be nil.
func RenderJSON(l *layout.Layout, s *scene.Scene) ([]byte, error) {
	out := jsonOutput{Nodes: []jsonNode{}}
	if s != nil {
		out.Width, out.Height = s.Width, s.Height
	}
	if l != nil {
		if s == nil {
			out.Width, out.Height = l.Width, l.Height
		}
		out.Type, out.Flow = string(l.Type), string(l.Flow)
		out.Content = bounds(l.Content)
		radial := l.Type.IsRadial()
		for _, n := range l.Nodes {
			out.Nodes = append(out.Nodes, node(n, radial))
		}
	}
	if s != nil {
		out.Edges = edges(s)
		for _, h := range s.HitRegions() {
			out.Actions = append(out.Actions, jsonAction{Action: h.Action, Target: h.Target, X: h.X, Y: h.Y, Width: h.W, Height: h.H})
		}
	}
	return json.MarshalIndent(out, "", "  ")
}

func node(n *layout.Node, radial bool) jsonNode {
	src := n.Src
	jn := jsonNode{
		ID:      n.ID(),
		Label:   src.Source.Label(),
		Shape:   string(src.Style.Type),
		Depth:   n.Depth,
		X:       n.X,
		Y:       n.Y,
		Width:   n.Width,
		Height:  n.Height,
		Subtree: bounds(n.Subtree),
	}
	if radial {
		a := n.Angle
		jn.Angle = &a
	}
	if src.Box.Collapsible {
		e := src.Box.Expanded
		jn.Expanded = &e
	}
	return jn
}

func edges(s *scene.Scene) []jsonEdge {
	g := s.Find("connectors")
	if g == nil {
		return nil
	}
	var out []jsonEdge
	for _, e := range g.Children {
		eg, ok := e.(*scene.Group)
		if !ok || !strings.HasPrefix(eg.ID, connector.GroupID("")) {
			continue
		}
		to := strings.TrimPrefix(eg.ID, connector.GroupID(""))
		je := jsonEdge{From: parentID(to), To: to}
		for _, c := range eg.Children {
			switch v := c.(type) {
			case *scene.Path:
				je.Path = v.D()
			case *scene.Text:
				je.Label = v.Content
			}
		}
		out = append(out, je)
	}
	return out
}

func parentID(id string) string {
	if i := strings.LastIndexByte(id, '.'); i >= 0 {
		return id[:i]
	}
	return ""
}

func bounds(b layout.Bounds) jsonBounds {
	return jsonBounds{X: b.MinX, Y: b.MinY, Width: b.Width(), Height: b.Height()}
}
