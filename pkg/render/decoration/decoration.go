// Package decoration adds the chart-level overlays: the title block and
// the download control.
//
// Decoration never changes relative geometry. [Apply] reserves a band for
// the title above or below the tree, widens the canvas when the title is
// wider than the tree, and only translates the layout to make room.
package decoration

import (
	"math"
	"strings"

	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/layout"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/measure"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/render/scene"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/style"
)

// Overlay is the decoration of one render.
type Overlay struct {
	// Width and Height are the final canvas size.
	Width, Height float64
	// Title holds the title block, or nil.
	Title *scene.Group
	// Download is the export control, or nil when disabled.
	Download *scene.HitRegion
}

// Elements returns the overlay elements in paint order.
func (o Overlay) Elements() []scene.Element {
	var els []scene.Element
	if o.Title != nil {
		els = append(els, o.Title)
	}
	if o.Download != nil {
		els = append(els, o.Download)
	}
	return els
}

// Apply computes the overlay for l under cfg, translating l and growing its
// canvas to make room for the title. cfg must have defaults applied.
func Apply(l *layout.Layout, cfg style.Config, m measure.Measurer) Overlay {
	if m == nil {
		m = measure.Default()
	}
	o := Overlay{Width: l.Width, Height: l.Height}
	if t := cfg.TitleConfig; !t.IsEmpty() {
		o.Title = title(l, cfg, t, m, &o)
	}
	if d := cfg.Download(); d.Enabled {
		o.Download = DownloadControl(d.Position, o.Width, o.Height)
	}
	return o
}

func title(l *layout.Layout, cfg style.Config, t *style.TitleConfig, m measure.Measurer, o *Overlay) *scene.Group {
	titleLines := lines(t.Title)
	descLines := lines(t.Description)
	titleLH := m.LineHeight(t.FontSize)
	descLH := m.LineHeight(t.DescriptionFontSize)

	textW := math.Max(
		measure.MaxWidth(m, titleLines, t.FontSize, true),
		measure.MaxWidth(m, descLines, t.DescriptionFontSize, false),
	)
	blockH := float64(len(titleLines)) * titleLH
	if len(descLines) > 0 {
		if blockH > 0 {
			blockH += t.Spacing
		}
		blockH += float64(len(descLines)) * descLH
	}
	band := blockH + t.Spacing

	o.Width = math.Max(l.Width, textW+2*cfg.Margin)
	dx := (o.Width - l.Width) / 2
	top := cfg.Margin
	if t.Position.IsTop() {
		l.Translate(dx, band)
	} else {
		l.Translate(dx, 0)
		top = l.Height - cfg.Margin + t.Spacing
	}
	o.Height = l.Height + band
	l.Width, l.Height = o.Width, o.Height

	x, anchor := cfg.Margin, "start"
	switch t.Position {
	case style.TitleTopCenter, style.TitleBottomCenter:
		x, anchor = o.Width/2, "middle"
	case style.TitleTopRight, style.TitleBottomRight:
		x, anchor = o.Width-cfg.Margin, "end"
	}

	g := &scene.Group{ID: "title", Class: "chart-title"}
	y := top
	for _, line := range titleLines {
		g.Add(&scene.Text{
			X: x, Y: y + titleLH/2 + t.FontSize*0.35,
			Content: line, Size: t.FontSize, Family: t.FontFamily,
			Color: t.FontColor, Weight: "bold", Anchor: anchor,
		})
		y += titleLH
	}
	if len(titleLines) > 0 && len(descLines) > 0 {
		y += t.Spacing
	}
	for _, line := range descLines {
		g.Add(&scene.Text{
			X: x, Y: y + descLH/2 + t.DescriptionFontSize*0.35,
			Content: line, Size: t.DescriptionFontSize, Family: t.FontFamily,
			Color: t.DescriptionFontColor, Anchor: anchor,
		})
		y += descLH
	}
	return g
}

func lines(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// Download control geometry.
const (
	ControlSize  = 24.0
	controlInset = 6.0
)

// DownloadControl returns the export button anchored at corner of a
// width x height canvas.
func DownloadControl(corner style.Corner, width, height float64) *scene.HitRegion {
	x, y := width-controlInset-ControlSize, controlInset
	switch corner.Normalize() {
	case style.CornerTopLeft:
		x = controlInset
	case style.CornerBottomLeft:
		x, y = controlInset, height-controlInset-ControlSize
	case style.CornerBottomRight:
		y = height - controlInset - ControlSize
	}

	const s = ControlSize
	ink := scene.Paint{Stroke: "#555555", StrokeWidth: 1.5}
	arrow := &scene.Path{Paint: ink}
	arrow.MoveTo(x+s/2, y+s*0.22).LineTo(x+s/2, y+s*0.62).
		MoveTo(x+s*0.32, y+s*0.45).LineTo(x+s/2, y+s*0.63).LineTo(x+s*0.68, y+s*0.45).
		MoveTo(x+s*0.25, y+s*0.78).LineTo(x+s*0.75, y+s*0.78)

	return &scene.HitRegion{
		Action: scene.ActionDownload,
		X:      x, Y: y, W: s, H: s,
		Children: []scene.Element{
			&scene.Rect{X: x, Y: y, W: s, H: s, RX: 4, Paint: scene.Paint{Fill: "#ffffff", Stroke: "#bbbbbb", StrokeWidth: 1, Opacity: scene.Opacity(0.9)}},
			arrow,
		},
	}
}
