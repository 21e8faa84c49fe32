package shape

import (
	"encoding/base64"

	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/imageload"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/layout"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/render/scene"
)

func drawDescription(ctx *Context, n *layout.Node, g *scene.Group) {
	g.Add(bodyRect(ctx, n))
	drawText(g, n, n.Src.Box.Title)
	drawText(g, n, n.Src.Box.Description)
}

// Placeholder colors of an image that failed to load.
const (
	placeholderFill   = "#eeeeee"
	placeholderStroke = "#bbbbbb"
)

func drawImage(ctx *Context, n *layout.Node, g *scene.Group) {
	box := n.Src.Box
	g.Add(bodyRect(ctx, n))

	slot := box.Image
	x, y := n.X+slot.X, n.Y+slot.Y
	rx := n.Src.Style.Image.BorderRadius
	ref := n.Src.Source.ImageURL

	var img imageload.Image
	if ctx != nil {
		img = ctx.Images.Lookup(ref)
	}
	switch {
	case img.Status == imageload.StatusLoaded:
		g.Add(&scene.Image{X: x, Y: y, W: slot.W, H: slot.H, RX: rx, Href: ref, Data: img.Data, MIME: img.MIME})
	case img.Status == imageload.StatusUnknown && ref != "":
		g.Add(&scene.Image{X: x, Y: y, W: slot.W, H: slot.H, RX: rx, Href: ref})
	default:
		g.Add(placeholder(x, y, slot.W, slot.H, rx))
	}

	drawText(g, n, box.Title)
	drawText(g, n, box.Subtitle)
}

// placeholder is a crossed-out frame standing in for a missing image.
func placeholder(x, y, w, h, rx float64) *scene.Group {
	cross := &scene.Path{Paint: scene.Paint{Stroke: placeholderStroke, StrokeWidth: 1}}
	cross.MoveTo(x, y).LineTo(x+w, y+h).MoveTo(x+w, y).LineTo(x, y+h)
	return &scene.Group{Class: "image-placeholder", Children: []scene.Element{
		&scene.Rect{X: x, Y: y, W: w, H: h, RX: rx, Paint: scene.Paint{Fill: placeholderFill, Stroke: placeholderStroke, StrokeWidth: 1}},
		cross,
	}}
}

// DataURI encodes an image as a data URI.
func DataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// chevronInset is how far the chevron stroke stays inside its box.
const chevronInset = 0.2

func drawCollapsible(ctx *Context, n *layout.Node, g *scene.Group) {
	box := n.Src.Box
	g.Add(bodyRect(ctx, n))
	drawText(g, n, box.Title)
	if box.Expanded {
		drawText(g, n, box.Description)
	}

	c := box.Chevron
	x, y := n.X+c.X, n.Y+c.Y
	in := c.W * chevronInset
	st := n.Src.Style.Collapsible
	chev := &scene.Path{Paint: scene.Paint{Stroke: st.ChevronColor, StrokeWidth: 1.5}}
	if box.Expanded {
		chev.MoveTo(x+in, y+c.H-in*1.5).LineTo(x+c.W/2, y+in*1.5).LineTo(x+c.W-in, y+c.H-in*1.5)
	} else {
		chev.MoveTo(x+in, y+in*1.5).LineTo(x+c.W/2, y+c.H-in*1.5).LineTo(x+c.W-in, y+in*1.5)
	}

	g.Add(chev)

	// The chevron stays part of the drawing; the hit area is an overlay,
	// padded so small chevrons remain easy to click.
	pad := c.W / 2
	g.Add(&scene.HitRegion{
		Action: scene.ActionToggle,
		Target: n.ID(),
		X:      x - pad,
		Y:      y - pad,
		W:      c.W + 2*pad,
		H:      c.H + 2*pad,
	})
}
