// Package scene is the format-independent drawing of a chart.
//
// Shape and connector strategies emit primitives into a [Scene]; sinks then
// serialize the same scene to SVG, rasterize it to PNG, or hand it to a
// converter. Keeping drawing separate from serialization is what lets an
// export reproduce exactly what was rendered.
//
// Interactive affordances are [HitRegion] elements naming an action and
// the node it targets. A sink that produces a static document simply skips
// them; nothing else in the scene depends on interactivity.
package scene

import (
	"math"
	"strconv"
	"strings"
)

// Point is a canvas coordinate.
type Point struct {
	X, Y float64
}

// Paint is the fill and stroke of an element. An empty Fill or Stroke
// means none. A nil Opacity draws the element opaque; see [Paint.Alpha].
type Paint struct {
	Fill        string
	Stroke      string
	StrokeWidth float64
	Opacity     *float64
	Dash        string
	// FillRef names a gradient def that replaces Fill.
	FillRef string
	// Filter names a filter def, such as a drop shadow.
	Filter string
}

// Alpha returns the element opacity clamped to [0, 1]; 1 when unset.
func (p Paint) Alpha() float64 {
	if p.Opacity == nil {
		return 1
	}
	return min(max(*p.Opacity, 0), 1)
}

// Opacity returns a pointer to v for [Paint.Opacity].
func Opacity(v float64) *float64 { return &v }

// Element is a drawable primitive.
type Element interface {
	element()
}

// Rect is a rectangle with optional rounded corners.
type Rect struct {
	X, Y, W, H float64
	RX         float64
	Paint
}

// Circle is a circle.
type Circle struct {
	CX, CY, R float64
	Paint
}

// Polygon is a closed polygon.
type Polygon struct {
	Points []Point
	Paint
}

// Text is a single line of text. Y is the baseline.
type Text struct {
	X, Y    float64
	Content string
	Size    float64
	Family  string
	Color   string
	Weight  string
	// Anchor is "start", "middle" or "end".
	Anchor string
}

// Image is a raster image. Data holds the decoded bytes when the image was
// fetched; otherwise only Href is known.
type Image struct {
	X, Y, W, H float64
	RX         float64
	Href       string
	Data       []byte
	MIME       string
}

// Group is an ordered collection of elements.
type Group struct {
	ID       string
	Class    string
	Children []Element
}

// HitRegion is an interactive area. Children are the visible parts of the
// control; an empty region is an invisible overlay on other geometry.
type HitRegion struct {
	Action   string
	Target   string
	X, Y     float64
	W, H     float64
	Children []Element
}

// Hit-region actions.
const (
	ActionToggle   = "toggle"
	ActionDownload = "download"
)

func (*Rect) element()      {}
func (*Circle) element()    {}
func (*Polygon) element()   {}
func (*Path) element()      {}
func (*Text) element()      {}
func (*Image) element()     {}
func (*Group) element()     {}
func (*HitRegion) element() {}

// Add appends elements to the group.
func (g *Group) Add(els ...Element) {
	g.Children = append(g.Children, els...)
}

// Def is a reusable definition referenced by id.
type Def interface {
	DefID() string
}

// LinearGradient is a two-stop gradient.
type LinearGradient struct {
	Start, End string
	Horizontal bool
}

// DefID implements Def.
func (g *LinearGradient) DefID() string {
	dir := "v"
	if g.Horizontal {
		dir = "h"
	}
	return "grad-" + dir + "-" + token(g.Start) + "-" + token(g.End)
}

// Shadow is a drop-shadow filter.
type Shadow struct {
	Color  string
	Blur   float64
	DX, DY float64
}

// DefID implements Def.
func (s *Shadow) DefID() string {
	return "shadow-" + token(s.Color) + "-" + token(Num(s.Blur)) + "-" + token(Num(s.DX)) + "-" + token(Num(s.DY))
}

// Marker is an arrow head. Start markers point back toward the path start.
type Marker struct {
	Size  float64
	Color string
	Start bool
}

// DefID implements Def.
func (m *Marker) DefID() string {
	end := "end"
	if m.Start {
		end = "start"
	}
	return "arrow-" + end + "-" + token(m.Color) + "-" + token(Num(m.Size))
}

// Scene is a complete drawing. Elements are painted in order.
type Scene struct {
	Width, Height float64
	Background    string
	Defs          []Def
	Elements      []Element

	defs map[string]bool
}

// New returns an empty scene of the given size.
func New(width, height float64) *Scene {
	return &Scene{Width: width, Height: height, defs: make(map[string]bool)}
}

// AddDef registers d once and returns its id. Structurally equal defs
// share an id, so each is emitted a single time.
func (s *Scene) AddDef(d Def) string {
	id := d.DefID()
	if s.defs == nil {
		s.defs = make(map[string]bool)
	}
	if !s.defs[id] {
		s.defs[id] = true
		s.Defs = append(s.Defs, d)
	}
	return id
}

// Add appends elements to the top of the drawing.
func (s *Scene) Add(els ...Element) {
	s.Elements = append(s.Elements, els...)
}

// Walk visits every element depth-first in paint order, including the
// children of groups and hit regions.
func (s *Scene) Walk(fn func(Element)) {
	walk(s.Elements, fn)
}

func walk(els []Element, fn func(Element)) {
	for _, e := range els {
		fn(e)
		switch v := e.(type) {
		case *Group:
			walk(v.Children, fn)
		case *HitRegion:
			walk(v.Children, fn)
		}
	}
}

// HitRegions returns every interactive region in paint order.
func (s *Scene) HitRegions() []*HitRegion {
	var out []*HitRegion
	s.Walk(func(e Element) {
		if h, ok := e.(*HitRegion); ok {
			out = append(out, h)
		}
	})
	return out
}

// Find returns the group with the given id, or nil.
func (s *Scene) Find(id string) *Group {
	var found *Group
	s.Walk(func(e Element) {
		if g, ok := e.(*Group); ok && found == nil && g.ID == id {
			found = g
		}
	})
	return found
}

// Num formats a coordinate rounded to two decimals without trailing zeros.
func Num(v float64) string {
	r := math.Round(v*100) / 100
	if r == 0 {
		r = 0 // normalizes negative zero
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// token reduces s to characters valid in an XML id.
func token(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.':
			b.WriteByte('_')
		case r == '-':
			b.WriteByte('m')
		}
	}
	if b.Len() == 0 {
		return "x"
	}
	return b.String()
}
