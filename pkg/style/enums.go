package style

import (
	"slices"
	"strings"
	"sync"
)

// ShapeKind selects the shape strategy that draws a node.
type ShapeKind string

const (
	ShapeRectangle   ShapeKind = "rectangle"
	ShapeCircle      ShapeKind = "circle"
	ShapeTriangle    ShapeKind = "triangle"
	ShapeDiamond     ShapeKind = "diamond"
	ShapePentagon    ShapeKind = "pentagon"
	ShapeHexagon     ShapeKind = "hexagon"
	ShapeOctagon     ShapeKind = "octagon"
	ShapeStar        ShapeKind = "star"
	ShapeCustom      ShapeKind = "custom"
	ShapeDescription ShapeKind = "node-with-description"
	ShapeImage       ShapeKind = "image"
	ShapeCollapsible ShapeKind = "collapsible-node"
)

// ShapeKinds lists every recognized shape kind.
var ShapeKinds = []ShapeKind{
	ShapeRectangle, ShapeCircle, ShapeTriangle, ShapeDiamond, ShapePentagon,
	ShapeHexagon, ShapeOctagon, ShapeStar, ShapeCustom, ShapeDescription,
	ShapeImage, ShapeCollapsible,
}

// ChartType selects the connector family and layout core.
type ChartType string

const (
	ChartDirect       ChartType = "direct"
	ChartRightAngle   ChartType = "right-angle"
	ChartCurved       ChartType = "curved"
	ChartAllDirection ChartType = "all-direction"
)

// ChartTypes lists every recognized chart type.
var ChartTypes = []ChartType{ChartDirect, ChartRightAngle, ChartCurved, ChartAllDirection}

// IsRadial reports whether the chart uses the radial layout core.
func (t ChartType) IsRadial() bool { return t.Normalize() == ChartAllDirection }

// VerticalAlign places a parent relative to the span of its children.
type VerticalAlign string

const (
	AlignCenter VerticalAlign = "center"
	AlignLeft   VerticalAlign = "left"
	AlignRight  VerticalAlign = "right"
)

// HorizontalAlign is the flow direction of depth.
type HorizontalAlign string

const (
	FlowTopToBottom HorizontalAlign = "top-to-bottom"
	FlowBottomToTop HorizontalAlign = "bottom-to-top"
)

// ArrowDirection selects which connector ends carry a marker.
type ArrowDirection string

const (
	ArrowNone   ArrowDirection = "none"
	ArrowSource ArrowDirection = "source"
	ArrowTarget ArrowDirection = "target"
	ArrowBoth   ArrowDirection = "both"
)

// AtSource reports whether a marker is drawn at the parent end.
func (d ArrowDirection) AtSource() bool {
	d = d.Normalize()
	return d == ArrowSource || d == ArrowBoth
}

// AtTarget reports whether a marker is drawn at the child end.
func (d ArrowDirection) AtTarget() bool {
	d = d.Normalize()
	return d == ArrowTarget || d == ArrowBoth
}

// TextPosition places the title block of an image node relative to the image.
type TextPosition string

const (
	TextBottom TextPosition = "bottom"
	TextLeft   TextPosition = "left"
	TextRight  TextPosition = "right"
)

// Corner anchors the download control.
type Corner string

const (
	CornerTopRight    Corner = "top-right"
	CornerTopLeft     Corner = "top-left"
	CornerBottomLeft  Corner = "bottom-left"
	CornerBottomRight Corner = "bottom-right"
)

// TitlePosition anchors the decoration block.
type TitlePosition string

const (
	TitleTopCenter    TitlePosition = "top-center"
	TitleTopLeft      TitlePosition = "top-left"
	TitleTopRight     TitlePosition = "top-right"
	TitleBottomLeft   TitlePosition = "bottom-left"
	TitleBottomCenter TitlePosition = "bottom-center"
	TitleBottomRight  TitlePosition = "bottom-right"
)

// IsTop reports whether the decoration sits above the tree.
func (p TitlePosition) IsTop() bool {
	return strings.HasPrefix(string(p.Normalize()), "top-")
}

// parseEnum maps s onto one of known, case-insensitively, or returns def.
func parseEnum[T ~string](s string, def T, known ...T) T {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range known {
		if string(k) == s {
			return k
		}
	}
	return def
}

// Kinds added at run time by shape and layout plugins.
var (
	extMu     sync.RWMutex
	extShapes []ShapeKind
	extCharts []ChartType
)

// RegisterShapeKind makes k a recognized shape kind, so it survives
// [ShapeKind.Normalize].
func RegisterShapeKind(k ShapeKind) {
	extMu.Lock()
	defer extMu.Unlock()
	if !slices.Contains(ShapeKinds, k) && !slices.Contains(extShapes, k) {
		extShapes = append(extShapes, k)
	}
}

// RegisterChartType makes t a recognized chart type.
func RegisterChartType(t ChartType) {
	extMu.Lock()
	defer extMu.Unlock()
	if !slices.Contains(ChartTypes, t) && !slices.Contains(extCharts, t) {
		extCharts = append(extCharts, t)
	}
}

// Normalize returns k, or the rectangle default when k is unrecognized.
func (k ShapeKind) Normalize() ShapeKind {
	extMu.RLock()
	defer extMu.RUnlock()
	return parseEnum(string(k), ShapeRectangle, slices.Concat(ShapeKinds, extShapes)...)
}

// Normalize returns t, or the direct default when t is unrecognized.
func (t ChartType) Normalize() ChartType {
	extMu.RLock()
	defer extMu.RUnlock()
	return parseEnum(string(t), ChartDirect, slices.Concat(ChartTypes, extCharts)...)
}

// Normalize returns a, or center when a is unrecognized.
func (a VerticalAlign) Normalize() VerticalAlign {
	return parseEnum(string(a), AlignCenter, AlignCenter, AlignLeft, AlignRight)
}

// Normalize returns a, or top-to-bottom when a is unrecognized.
func (a HorizontalAlign) Normalize() HorizontalAlign {
	return parseEnum(string(a), FlowTopToBottom, FlowTopToBottom, FlowBottomToTop)
}

// Normalize returns d, or none when d is unrecognized.
func (d ArrowDirection) Normalize() ArrowDirection {
	return parseEnum(string(d), ArrowNone, ArrowNone, ArrowSource, ArrowTarget, ArrowBoth)
}

// Normalize returns p, or bottom when p is unrecognized.
func (p TextPosition) Normalize() TextPosition {
	return parseEnum(string(p), TextBottom, TextBottom, TextLeft, TextRight)
}

// Normalize returns c, or top-right when c is unrecognized.
func (c Corner) Normalize() Corner {
	return parseEnum(string(c), CornerTopRight, CornerTopRight, CornerTopLeft, CornerBottomLeft, CornerBottomRight)
}

// Normalize returns p, or top-center when p is unrecognized.
func (p TitlePosition) Normalize() TitlePosition {
	return parseEnum(string(p), TitleTopCenter,
		TitleTopCenter, TitleTopLeft, TitleTopRight,
		TitleBottomLeft, TitleBottomCenter, TitleBottomRight)
}
