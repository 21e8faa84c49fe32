package style

// EdgeConfig is a partial connector style, decoded from the chart's
// "edgeConfig" or a child node's "edgeConfig".
type EdgeConfig struct {
	Color     *string  `json:"color,omitempty" toml:"color,omitempty"`
	Width     *float64 `json:"width,omitempty" toml:"width,omitempty"`
	Opacity   *float64 `json:"opacity,omitempty" toml:"opacity,omitempty"`
	DashArray *string  `json:"dashArray,omitempty" toml:"dashArray,omitempty"`

	ArrowDirection ArrowDirection `json:"arrowDirection,omitempty" toml:"arrowDirection,omitempty"`
	ArrowSize      *float64       `json:"arrowSize,omitempty" toml:"arrowSize,omitempty"`
	ArrowColor     *string        `json:"arrowColor,omitempty" toml:"arrowColor,omitempty"`

	CurveRadius *float64 `json:"curveRadius,omitempty" toml:"curveRadius,omitempty"`

	TextSize       *float64 `json:"textSize,omitempty" toml:"textSize,omitempty"`
	TextColor      *string  `json:"textColor,omitempty" toml:"textColor,omitempty"`
	TextBackground *string  `json:"textBackground,omitempty" toml:"textBackground,omitempty"`
	TextPadding    *float64 `json:"textPadding,omitempty" toml:"textPadding,omitempty"`
}

// EdgeStyle is a fully resolved connector style.
type EdgeStyle struct {
	Color     string
	Width     float64
	Opacity   float64
	DashArray string

	ArrowDirection ArrowDirection
	ArrowSize      float64
	// ArrowColor is empty when the marker takes the line color.
	ArrowColor string

	CurveRadius float64

	TextSize       float64
	TextColor      string
	TextBackground string
	TextPadding    float64
}

// MarkerColor returns the fill color of arrow markers.
func (e EdgeStyle) MarkerColor() string {
	if e.ArrowColor != "" {
		return e.ArrowColor
	}
	return e.Color
}

// DefaultEdgeStyle returns the built-in connector style.
func DefaultEdgeStyle() EdgeStyle {
	return EdgeStyle{
		Color:          "#333333",
		Width:          1.5,
		Opacity:        1,
		ArrowDirection: ArrowNone,
		ArrowSize:      8,
		CurveRadius:    30,
		TextSize:       11,
		TextColor:      "#333333",
		TextPadding:    3,
	}
}

// ResolveEdge merges the built-in default, the chart-wide edge config and
// the per-edge config, in increasing priority, one property at a time.
func ResolveEdge(chart, edge *EdgeConfig) EdgeStyle {
	s := DefaultEdgeStyle()
	s.apply(chart)
	s.apply(edge)
	s.ArrowDirection = s.ArrowDirection.Normalize()
	return s
}

func (s *EdgeStyle) apply(c *EdgeConfig) {
	if c == nil {
		return
	}
	setS(&s.Color, c.Color)
	setF(&s.Width, c.Width)
	setF(&s.Opacity, c.Opacity)
	setS(&s.DashArray, c.DashArray)
	if c.ArrowDirection != "" {
		s.ArrowDirection = c.ArrowDirection
	}
	setF(&s.ArrowSize, c.ArrowSize)
	setS(&s.ArrowColor, c.ArrowColor)
	setF(&s.CurveRadius, c.CurveRadius)
	setF(&s.TextSize, c.TextSize)
	setS(&s.TextColor, c.TextColor)
	setS(&s.TextBackground, c.TextBackground)
	setF(&s.TextPadding, c.TextPadding)
}
