// Package style holds the chart-wide render configuration and the pure
// cascading resolution of node and edge styles.
//
// Styles come from three ordered sources: the built-in defaults, the
// chart's nodeConfig/edgeConfig, and a node's own nodeConfig/edgeConfig.
// [ResolveNode] and [ResolveEdge] merge them one property at a time, so
// an override touching a single field never blanks its siblings.
//
// Every enumeration parses tolerantly: an unknown value falls back to the
// default variant for that property rather than failing.
package style

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	// DefaultHorizontalGap separates sibling subtrees.
	DefaultHorizontalGap = 40.0

	// DefaultVerticalGap separates consecutive depth rows.
	DefaultVerticalGap = 60.0

	// DefaultMargin surrounds the content on every side of the canvas.
	DefaultMargin = 20.0

	// DefaultFilename names the exported document.
	DefaultFilename = "treechart.svg"
)

// Config is the chart-wide render configuration.
type Config struct {
	Type ChartType `json:"type,omitempty" toml:"type,omitempty"`

	NodeConfig   *NodeConfig   `json:"nodeConfig,omitempty" toml:"nodeConfig,omitempty"`
	EdgeConfig   *EdgeConfig   `json:"edgeConfig,omitempty" toml:"edgeConfig,omitempty"`
	TitleConfig  *TitleConfig  `json:"titleConfig,omitempty" toml:"titleConfig,omitempty"`
	ActionConfig *ActionConfig `json:"actionConfig,omitempty" toml:"actionConfig,omitempty"`

	HorizontalGap   float64         `json:"horizontalGap,omitempty" toml:"horizontalGap,omitempty"`
	VerticalGap     float64         `json:"verticalGap,omitempty" toml:"verticalGap,omitempty"`
	VerticalAlign   VerticalAlign   `json:"verticalAlign,omitempty" toml:"verticalAlign,omitempty"`
	HorizontalAlign HorizontalAlign `json:"horizontalAlign,omitempty" toml:"horizontalAlign,omitempty"`

	// Width and Height fix the canvas size. Zero auto-sizes to the content.
	Width  float64 `json:"width,omitempty" toml:"width,omitempty"`
	Height float64 `json:"height,omitempty" toml:"height,omitempty"`

	Margin float64 `json:"margin,omitempty" toml:"margin,omitempty"`
}

// TitleConfig describes the optional decoration block.
type TitleConfig struct {
	Title       string        `json:"title,omitempty" toml:"title,omitempty"`
	Description string        `json:"description,omitempty" toml:"description,omitempty"`
	Position    TitlePosition `json:"position,omitempty" toml:"position,omitempty"`

	FontSize             float64 `json:"fontSize,omitempty" toml:"fontSize,omitempty"`
	FontColor            string  `json:"fontColor,omitempty" toml:"fontColor,omitempty"`
	DescriptionFontSize  float64 `json:"descriptionFontSize,omitempty" toml:"descriptionFontSize,omitempty"`
	DescriptionFontColor string  `json:"descriptionFontColor,omitempty" toml:"descriptionFontColor,omitempty"`
	FontFamily           string  `json:"fontFamily,omitempty" toml:"fontFamily,omitempty"`
	// Spacing separates the decoration from the tree and the title from
	// the description.
	Spacing float64 `json:"spacing,omitempty" toml:"spacing,omitempty"`
}

// IsEmpty reports whether there is nothing to draw.
func (t *TitleConfig) IsEmpty() bool {
	return t == nil || (t.Title == "" && t.Description == "")
}

// ActionConfig groups the chart's interactive controls.
type ActionConfig struct {
	Download DownloadConfig `json:"download" toml:"download"`
}

// DownloadConfig describes the export control.
type DownloadConfig struct {
	Enabled  bool   `json:"enabled" toml:"enabled"`
	Position Corner `json:"position,omitempty" toml:"position,omitempty"`
	Filename string `json:"filename,omitempty" toml:"filename,omitempty"`
}

// SetDefaults fills zero values with their defaults and normalizes every
// enumeration. It is idempotent. The title and action sections are
// replaced with filled copies, so a Config copied before the call shares
// nothing it writes.
func (c *Config) SetDefaults() {
	c.Type = c.Type.Normalize()
	if c.HorizontalGap <= 0 {
		c.HorizontalGap = DefaultHorizontalGap
	}
	if c.VerticalGap <= 0 {
		c.VerticalGap = DefaultVerticalGap
	}
	if c.Margin <= 0 {
		c.Margin = DefaultMargin
	}
	if c.Width < 0 {
		c.Width = 0
	}
	if c.Height < 0 {
		c.Height = 0
	}
	c.VerticalAlign = c.VerticalAlign.Normalize()
	c.HorizontalAlign = c.HorizontalAlign.Normalize()

	if c.TitleConfig != nil {
		t := new(TitleConfig)
		*t = *c.TitleConfig
		c.TitleConfig = t
		t.Position = t.Position.Normalize()
		if t.FontSize <= 0 {
			t.FontSize = 20
		}
		if t.DescriptionFontSize <= 0 {
			t.DescriptionFontSize = 13
		}
		if t.FontColor == "" {
			t.FontColor = "#222222"
		}
		if t.DescriptionFontColor == "" {
			t.DescriptionFontColor = "#555555"
		}
		if t.FontFamily == "" {
			t.FontFamily = "Arial, sans-serif"
		}
		if t.Spacing <= 0 {
			t.Spacing = 10
		}
	}
	if c.ActionConfig != nil {
		a := new(ActionConfig)
		*a = *c.ActionConfig
		c.ActionConfig = a
		d := &a.Download
		d.Position = d.Position.Normalize()
		if d.Filename == "" {
			d.Filename = DefaultFilename
		}
	}
}

// Download returns the download control config with defaults applied.
func (c *Config) Download() DownloadConfig {
	if c.ActionConfig == nil {
		return DownloadConfig{Position: CornerTopRight, Filename: DefaultFilename}
	}
	d := c.ActionConfig.Download
	d.Position = d.Position.Normalize()
	if d.Filename == "" {
		d.Filename = DefaultFilename
	}
	return d
}

// NodeStyleFor resolves the style of a node with the given override.
func (c *Config) NodeStyleFor(override *NodeConfig) NodeStyle {
	return ResolveNode(c.NodeConfig, override)
}

// EdgeStyleFor resolves the style of an edge with the given override.
func (c *Config) EdgeStyleFor(override *EdgeConfig) EdgeStyle {
	return ResolveEdge(c.EdgeConfig, override)
}

// LoadConfig reads a chart configuration from a .toml or .json file.
// Defaults are applied to the result.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data, strings.TrimPrefix(filepath.Ext(path), "."))
}

// ParseConfig decodes a chart configuration in the given format
// ("toml" or "json"). Defaults are applied to the result.
func ParseConfig(data []byte, format string) (Config, error) {
	var cfg Config
	switch strings.ToLower(format) {
	case "toml":
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("decode toml config: %w", err)
		}
	case "json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode json config: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("unsupported config format %q (want toml or json)", format)
	}
	cfg.SetDefaults()
	return cfg, nil
}
