package style

// NodeConfig is a partial node style. Nil fields inherit from the next
// lower-priority source; set fields override it. Decoded from the
// "nodeConfig" object of a chart config or of a single tree node.
type NodeConfig struct {
	Type ShapeKind `json:"type,omitempty" toml:"type,omitempty"`

	Width   *float64 `json:"width,omitempty" toml:"width,omitempty"`
	Height  *float64 `json:"height,omitempty" toml:"height,omitempty"`
	Padding *float64 `json:"padding,omitempty" toml:"padding,omitempty"`

	Color        *string  `json:"color,omitempty" toml:"color,omitempty"`
	BorderColor  *string  `json:"borderColor,omitempty" toml:"borderColor,omitempty"`
	BorderWidth  *float64 `json:"borderWidth,omitempty" toml:"borderWidth,omitempty"`
	BorderRadius *float64 `json:"borderRadius,omitempty" toml:"borderRadius,omitempty"`
	Opacity      *float64 `json:"opacity,omitempty" toml:"opacity,omitempty"`

	Shadow   *ShadowConfig   `json:"shadow,omitempty" toml:"shadow,omitempty"`
	Gradient *GradientConfig `json:"gradient,omitempty" toml:"gradient,omitempty"`

	FontSize   *float64 `json:"fontSize,omitempty" toml:"fontSize,omitempty"`
	FontFamily *string  `json:"fontFamily,omitempty" toml:"fontFamily,omitempty"`
	FontColor  *string  `json:"fontColor,omitempty" toml:"fontColor,omitempty"`
	FontWeight *string  `json:"fontWeight,omitempty" toml:"fontWeight,omitempty"`

	DescriptionFontSize  *float64 `json:"descriptionFontSize,omitempty" toml:"descriptionFontSize,omitempty"`
	DescriptionFontColor *string  `json:"descriptionFontColor,omitempty" toml:"descriptionFontColor,omitempty"`
	DescriptionSpacing   *float64 `json:"descriptionSpacing,omitempty" toml:"descriptionSpacing,omitempty"`

	Image       *ImageConfig       `json:"imageConfig,omitempty" toml:"imageConfig,omitempty"`
	Collapsible *CollapsibleConfig `json:"collapsibleConfig,omitempty" toml:"collapsibleConfig,omitempty"`

	// CustomPath is SVG path data drawn relative to the node's top-left
	// corner. {w} and {h} are replaced by the node size.
	CustomPath *string `json:"customPath,omitempty" toml:"customPath,omitempty"`
}

// ShadowConfig is a partial drop-shadow style.
type ShadowConfig struct {
	Enabled *bool    `json:"enabled,omitempty" toml:"enabled,omitempty"`
	Color   *string  `json:"color,omitempty" toml:"color,omitempty"`
	Blur    *float64 `json:"blur,omitempty" toml:"blur,omitempty"`
	OffsetX *float64 `json:"offsetX,omitempty" toml:"offsetX,omitempty"`
	OffsetY *float64 `json:"offsetY,omitempty" toml:"offsetY,omitempty"`
}

// GradientConfig is a partial linear-gradient fill.
type GradientConfig struct {
	Enabled    *bool   `json:"enabled,omitempty" toml:"enabled,omitempty"`
	StartColor *string `json:"startColor,omitempty" toml:"startColor,omitempty"`
	EndColor   *string `json:"endColor,omitempty" toml:"endColor,omitempty"`
	// Direction is "vertical" (default) or "horizontal".
	Direction *string `json:"direction,omitempty" toml:"direction,omitempty"`
}

// ImageConfig is a partial layout of an image composite node.
type ImageConfig struct {
	Width        *float64     `json:"width,omitempty" toml:"width,omitempty"`
	Height       *float64     `json:"height,omitempty" toml:"height,omitempty"`
	BorderRadius *float64     `json:"borderRadius,omitempty" toml:"borderRadius,omitempty"`
	TextPosition TextPosition `json:"textPosition,omitempty" toml:"textPosition,omitempty"`
	Padding      *float64     `json:"padding,omitempty" toml:"padding,omitempty"`
	Spacing      *float64     `json:"spacing,omitempty" toml:"spacing,omitempty"`

	SubtitleFontSize  *float64 `json:"subtitleFontSize,omitempty" toml:"subtitleFontSize,omitempty"`
	SubtitleFontColor *string  `json:"subtitleFontColor,omitempty" toml:"subtitleFontColor,omitempty"`
}

// CollapsibleConfig is a partial style of the chevron of a collapsible node.
type CollapsibleConfig struct {
	ChevronSize  *float64 `json:"chevronSize,omitempty" toml:"chevronSize,omitempty"`
	ChevronColor *string  `json:"chevronColor,omitempty" toml:"chevronColor,omitempty"`
}

// NodeStyle is the fully resolved style of one node.
type NodeStyle struct {
	Type ShapeKind

	Width   float64
	Height  float64
	Padding float64

	Color        string
	BorderColor  string
	BorderWidth  float64
	BorderRadius float64
	Opacity      float64

	Shadow   ShadowStyle
	Gradient GradientStyle

	FontSize   float64
	FontFamily string
	FontColor  string
	FontWeight string

	DescriptionFontSize  float64
	DescriptionFontColor string
	DescriptionSpacing   float64

	Image       ImageStyle
	Collapsible CollapsibleStyle

	CustomPath string
}

// ShadowStyle is a resolved drop shadow.
type ShadowStyle struct {
	Enabled bool
	Color   string
	Blur    float64
	OffsetX float64
	OffsetY float64
}

// GradientStyle is a resolved gradient fill.
type GradientStyle struct {
	Enabled    bool
	StartColor string
	EndColor   string
	Horizontal bool
}

// ImageStyle is a resolved image composite layout.
type ImageStyle struct {
	Width             float64
	Height            float64
	BorderRadius      float64
	TextPosition      TextPosition
	Padding           float64
	Spacing           float64
	SubtitleFontSize  float64
	SubtitleFontColor string
}

// CollapsibleStyle is a resolved chevron style.
type CollapsibleStyle struct {
	ChevronSize  float64
	ChevronColor string
}

// DefaultNodeStyle returns the built-in node style, the lowest-priority
// source of every resolution.
func DefaultNodeStyle() NodeStyle {
	return NodeStyle{
		Type:         ShapeRectangle,
		Width:        80,
		Height:       40,
		Padding:      8,
		Color:        "#ffffff",
		BorderColor:  "#333333",
		BorderWidth:  1,
		BorderRadius: 0,
		Opacity:      1,
		Shadow: ShadowStyle{
			Color:   "rgba(0,0,0,0.3)",
			Blur:    3,
			OffsetX: 2,
			OffsetY: 2,
		},
		Gradient: GradientStyle{
			StartColor: "#ffffff",
			EndColor:   "#d0d7e2",
		},
		FontSize:             14,
		FontFamily:           "Arial, sans-serif",
		FontColor:            "#000000",
		FontWeight:           "normal",
		DescriptionFontSize:  12,
		DescriptionFontColor: "#555555",
		DescriptionSpacing:   6,
		Image: ImageStyle{
			Width:             48,
			Height:            48,
			TextPosition:      TextBottom,
			Padding:           8,
			Spacing:           6,
			SubtitleFontSize:  11,
			SubtitleFontColor: "#666666",
		},
		Collapsible: CollapsibleStyle{
			ChevronSize:  10,
			ChevronColor: "#333333",
		},
	}
}

// ResolveNode merges the built-in default, the chart-wide config and the
// node's own config, in increasing priority, one property at a time.
// Either config may be nil. The inputs are not modified.
func ResolveNode(chart, node *NodeConfig) NodeStyle {
	s := DefaultNodeStyle()
	s.apply(chart)
	s.apply(node)
	s.Type = s.Type.Normalize()
	s.Image.TextPosition = s.Image.TextPosition.Normalize()
	return s
}

func (s *NodeStyle) apply(c *NodeConfig) {
	if c == nil {
		return
	}
	if c.Type != "" {
		s.Type = c.Type
	}
	setF(&s.Width, c.Width)
	setF(&s.Height, c.Height)
	setF(&s.Padding, c.Padding)
	setS(&s.Color, c.Color)
	setS(&s.BorderColor, c.BorderColor)
	setF(&s.BorderWidth, c.BorderWidth)
	setF(&s.BorderRadius, c.BorderRadius)
	setF(&s.Opacity, c.Opacity)

	if sh := c.Shadow; sh != nil {
		setB(&s.Shadow.Enabled, sh.Enabled)
		setS(&s.Shadow.Color, sh.Color)
		setF(&s.Shadow.Blur, sh.Blur)
		setF(&s.Shadow.OffsetX, sh.OffsetX)
		setF(&s.Shadow.OffsetY, sh.OffsetY)
	}
	if g := c.Gradient; g != nil {
		setB(&s.Gradient.Enabled, g.Enabled)
		setS(&s.Gradient.StartColor, g.StartColor)
		setS(&s.Gradient.EndColor, g.EndColor)
		if g.Direction != nil {
			s.Gradient.Horizontal = *g.Direction == "horizontal"
		}
	}

	setF(&s.FontSize, c.FontSize)
	setS(&s.FontFamily, c.FontFamily)
	setS(&s.FontColor, c.FontColor)
	setS(&s.FontWeight, c.FontWeight)
	setF(&s.DescriptionFontSize, c.DescriptionFontSize)
	setS(&s.DescriptionFontColor, c.DescriptionFontColor)
	setF(&s.DescriptionSpacing, c.DescriptionSpacing)

	if im := c.Image; im != nil {
		setF(&s.Image.Width, im.Width)
		setF(&s.Image.Height, im.Height)
		setF(&s.Image.BorderRadius, im.BorderRadius)
		if im.TextPosition != "" {
			s.Image.TextPosition = im.TextPosition
		}
		setF(&s.Image.Padding, im.Padding)
		setF(&s.Image.Spacing, im.Spacing)
		setF(&s.Image.SubtitleFontSize, im.SubtitleFontSize)
		setS(&s.Image.SubtitleFontColor, im.SubtitleFontColor)
	}
	if cc := c.Collapsible; cc != nil {
		setF(&s.Collapsible.ChevronSize, cc.ChevronSize)
		setS(&s.Collapsible.ChevronColor, cc.ChevronColor)
	}
	setS(&s.CustomPath, c.CustomPath)
}

// IsBold reports whether the title font weight is bold.
func (s NodeStyle) IsBold() bool {
	switch s.FontWeight {
	case "bold", "bolder", "600", "700", "800", "900":
		return true
	}
	return false
}

func setF(dst *float64, v *float64) {
	if v != nil && *v >= 0 {
		*dst = *v
	}
}

func setS(dst *string, v *string) {
	if v != nil && *v != "" {
		*dst = *v
	}
}

func setB(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

// Float returns a pointer to v, for building partial configs in code.
func Float(v float64) *float64 { return &v }

// String returns a pointer to v, for building partial configs in code.
func String(v string) *string { return &v }

// Bool returns a pointer to v, for building partial configs in code.
func Bool(v bool) *bool { return &v }
