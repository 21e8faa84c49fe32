// Package normalize resolves the style and intrinsic size of every node
// of a tree before layout.
//
// The result is an annotated copy of the tree: each [Node] carries its
// resolved [style.NodeStyle], the [style.EdgeStyle] of the edge into it,
// its size, and a [Box] describing where its text, image and chevron sit
// inside that size. Shape strategies draw from the same Box, so layout
// and rendering always agree on how large a node is.
//
// Size depends only on resolved style and content (text, image
// dimensions, collapsed or expanded state), never on position.
package normalize

import (
	"errors"
	"math"
	"strings"

	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/measure"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/style"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/tree"
)

// ErrEmptyTree is returned when there is no root to normalize.
var ErrEmptyTree = errors.New("tree has no root")

// Text anchors, named as in SVG.
const (
	AnchorStart  = "start"
	AnchorMiddle = "middle"
)

// Node is a tree node with resolved style and intrinsic size.
type Node struct {
	ID     string
	Depth  int
	Source *tree.Node

	Style style.NodeStyle
	// Edge styles the connector from the parent into this node.
	Edge style.EdgeStyle

	Width  float64
	Height float64
	Box    Box

	Children []*Node
}

// Rect is an axis-aligned rectangle relative to a node's top-left corner.
type Rect struct {
	X, Y, W, H float64
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Text is a block of lines drawn inside a node.
type Text struct {
	Lines      []string
	Size       float64
	LineHeight float64
	Bold       bool
	Color      string
	Family     string
	Anchor     string
	// X is the horizontal anchor of every line; Y is the top of the first
	// line. Both are relative to the node's top-left corner.
	X, Y float64
}

// Height returns the height of the block.
func (t Text) Height() float64 { return float64(len(t.Lines)) * t.LineHeight }

// Box is the content model of a node.
type Box struct {
	Title       Text
	Subtitle    Text
	Description Text

	// Image is the image slot of an image node.
	Image Rect
	// Chevron is the toggle of a collapsible node.
	Chevron Rect

	Collapsible bool
	Expanded    bool
	// DescriptionBlock is the height a collapsible node gains when
	// expanded: the spacing plus the wrapped description lines.
	DescriptionBlock float64
}

// Tree normalizes root under cfg. It fails with [tree.ErrCycle] on cyclic
// input and [ErrEmptyTree] on a nil root.
func Tree(root *tree.Node, cfg style.Config, m measure.Measurer) (*Node, error) {
	if root == nil {
		return nil, ErrEmptyTree
	}
	if m == nil {
		m = measure.Default()
	}
	byID := make(map[string]*Node)
	var out *Node
	err := tree.Walk(root, func(src *tree.Node, id string, depth int) error {
		n := normalizeNode(src, id, depth, &cfg, m)
		byID[id] = n
		if depth == 0 {
			out = n
			return nil
		}
		parent := byID[id[:strings.LastIndexByte(id, '.')]]
		parent.Children = append(parent.Children, n)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Walk visits n and its descendants depth-first, parents first.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *Node) Count() int {
	count := 0
	n.Walk(func(*Node) { count++ })
	return count
}

func normalizeNode(src *tree.Node, id string, depth int, cfg *style.Config, m measure.Measurer) *Node {
	n := &Node{
		ID:     id,
		Depth:  depth,
		Source: src,
		Style:  cfg.NodeStyleFor(src.NodeConfig),
		Edge:   cfg.EdgeStyleFor(src.EdgeConfig),
	}
	switch n.Style.Type {
	case style.ShapeDescription:
		sizeDescription(n, m)
	case style.ShapeCollapsible:
		sizeCollapsible(n, m)
	case style.ShapeImage:
		sizeImage(n, m)
	default:
		sizePlain(n, m)
	}
	return n
}

func titleText(n *Node, m measure.Measurer, lines []string) Text {
	s := n.Style
	return Text{
		Lines:      lines,
		Size:       s.FontSize,
		LineHeight: m.LineHeight(s.FontSize),
		Bold:       s.IsBold(),
		Color:      s.FontColor,
		Family:     s.FontFamily,
		Anchor:     AnchorMiddle,
	}
}

func descriptionText(n *Node, m measure.Measurer, wrapWidth float64) Text {
	s := n.Style
	return Text{
		Lines:      measure.Wrap(m, n.Source.Description, wrapWidth, s.DescriptionFontSize, false),
		Size:       s.DescriptionFontSize,
		LineHeight: m.LineHeight(s.DescriptionFontSize),
		Color:      s.DescriptionFontColor,
		Family:     s.FontFamily,
		Anchor:     AnchorMiddle,
	}
}

func labelLines(label string) []string {
	if label == "" {
		return nil
	}
	return strings.Split(label, "\n")
}

// sizePlain sizes rectangles, circles, polygons and custom paths: the
// configured size, grown to fit the label plus padding.
func sizePlain(n *Node, m measure.Measurer) {
	s := n.Style
	title := titleText(n, m, labelLines(n.Source.Label()))
	textW := measure.MaxWidth(m, title.Lines, title.Size, title.Bold)
	textH := math.Max(title.Height(), title.LineHeight)

	n.Width = math.Max(s.Width, textW+2*s.Padding)
	n.Height = math.Max(s.Height, textH+2*s.Padding)
	if s.Type == style.ShapeCircle {
		d := math.Max(n.Width, n.Height)
		n.Width, n.Height = d, d
	}
	title.X = n.Width / 2
	title.Y = (n.Height - title.Height()) / 2
	n.Box.Title = title
}

// sizeDescription stacks a title line over the wrapped description.
func sizeDescription(n *Node, m measure.Measurer) {
	s := n.Style
	title := titleText(n, m, labelLines(n.Source.Label()))
	titleW := measure.MaxWidth(m, title.Lines, title.Size, title.Bold)
	n.Width = math.Max(s.Width, titleW+2*s.Padding)

	desc := descriptionText(n, m, n.Width-2*s.Padding)
	titleH := math.Max(title.Height(), title.LineHeight)

	title.X = n.Width / 2
	title.Y = s.Padding
	n.Height = s.Padding + titleH + s.Padding
	if len(desc.Lines) > 0 {
		desc.X = n.Width / 2
		desc.Y = s.Padding + titleH + s.DescriptionSpacing
		n.Height += s.DescriptionSpacing + desc.Height()
	}
	n.Box.Title = title
	n.Box.Description = desc
}

// sizeCollapsible lays out a title row with a trailing chevron and, when
// expanded, the description block below it.
func sizeCollapsible(n *Node, m measure.Measurer) {
	s := n.Style
	chev := s.Collapsible.ChevronSize
	title := titleText(n, m, labelLines(n.Source.Label()))
	titleW := measure.MaxWidth(m, title.Lines, title.Size, title.Bold)
	titleH := math.Max(title.Height(), title.LineHeight)
	rowH := math.Max(titleH, chev)

	n.Width = math.Max(s.Width, titleW+s.DescriptionSpacing+chev+2*s.Padding)

	// Wrapped against the full inner width in both states so expanding
	// never changes the width.
	desc := descriptionText(n, m, n.Width-2*s.Padding)

	title.X = (n.Width - chev - s.DescriptionSpacing) / 2
	title.Y = s.Padding + (rowH-titleH)/2
	n.Box.Chevron = Rect{
		X: n.Width - s.Padding - chev,
		Y: s.Padding + (rowH-chev)/2,
		W: chev,
		H: chev,
	}
	n.Box.Collapsible = true
	n.Box.Expanded = n.Source.Expanded()
	if len(desc.Lines) > 0 {
		n.Box.DescriptionBlock = s.DescriptionSpacing + desc.Height()
	}

	n.Height = s.Padding + rowH + s.Padding
	if n.Box.Expanded && len(desc.Lines) > 0 {
		desc.X = n.Width / 2
		desc.Y = s.Padding + rowH + s.DescriptionSpacing
		n.Height += n.Box.DescriptionBlock
		n.Box.Description = desc
	}
	n.Box.Title = title
}

// sizeImage composes the image slot with the title and subtitle placed
// below, left of or right of it.
func sizeImage(n *Node, m measure.Measurer) {
	s := n.Style
	im := s.Image
	pad, sp := im.Padding, im.Spacing

	title := titleText(n, m, labelLines(n.Source.Label()))
	sub := Text{
		Lines:      labelLines(n.Source.Subtitle),
		Size:       im.SubtitleFontSize,
		LineHeight: m.LineHeight(im.SubtitleFontSize),
		Color:      im.SubtitleFontColor,
		Family:     s.FontFamily,
		Anchor:     AnchorMiddle,
	}
	textW := math.Max(
		measure.MaxWidth(m, title.Lines, title.Size, title.Bold),
		measure.MaxWidth(m, sub.Lines, sub.Size, false),
	)
	textH := title.Height() + sub.Height()
	hasText := textH > 0
	gap := 0.0
	if hasText {
		gap = sp
	}

	var contentW, contentH float64
	switch im.TextPosition {
	case style.TextLeft, style.TextRight:
		contentW = textW + gap + im.Width
		contentH = math.Max(im.Height, textH)
	default:
		contentW = math.Max(im.Width, textW)
		contentH = im.Height + gap + textH
	}
	n.Width = math.Max(s.Width, contentW+2*pad)
	n.Height = contentH + 2*pad
	left := (n.Width - contentW) / 2

	switch im.TextPosition {
	case style.TextLeft:
		n.Box.Image = Rect{X: left + textW + gap, Y: pad + (contentH-im.Height)/2, W: im.Width, H: im.Height}
		title.X = left + textW/2
		title.Y = pad + (contentH-textH)/2
	case style.TextRight:
		n.Box.Image = Rect{X: left, Y: pad + (contentH-im.Height)/2, W: im.Width, H: im.Height}
		title.X = left + im.Width + gap + textW/2
		title.Y = pad + (contentH-textH)/2
	default:
		n.Box.Image = Rect{X: (n.Width - im.Width) / 2, Y: pad, W: im.Width, H: im.Height}
		title.X = n.Width / 2
		title.Y = pad + im.Height + gap
	}
	sub.X = title.X
	sub.Y = title.Y + title.Height()
	n.Box.Title = title
	n.Box.Subtitle = sub
}
