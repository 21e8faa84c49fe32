package sink

import (
	"strconv"
	"strings"

	"github.com/gogpu/gg"
)

var namedColors = map[string]string{
	"black": "#000000", "white": "#ffffff", "red": "#ff0000", "green": "#008000",
	"blue": "#0000ff", "yellow": "#ffff00", "orange": "#ffa500", "purple": "#800080",
	"gray": "#808080", "grey": "#808080", "lightgray": "#d3d3d3", "lightgrey": "#d3d3d3",
	"darkgray": "#a9a9a9", "darkgrey": "#a9a9a9", "navy": "#000080", "teal": "#008080",
	"silver": "#c0c0c0", "maroon": "#800000", "pink": "#ffc0cb", "brown": "#a52a2a",
	"lightblue": "#add8e6", "steelblue": "#4682b4", "skyblue": "#87ceeb",
}

// parseColor converts a CSS color (hex, rgb(), rgba() or a common name)
// to a raster color. It reports false for none, transparent and values it
// cannot read.
func parseColor(s string) (gg.RGBA, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "" || s == "none" || s == "transparent":
		return gg.RGBA{}, false
	case strings.HasPrefix(s, "#"):
		switch len(s) {
		case 4, 5, 7, 9:
			return gg.Hex(s), true
		}
		return gg.RGBA{}, false
	case strings.HasPrefix(s, "rgb"):
		return parseRGBFunc(s)
	}
	if hex, ok := namedColors[s]; ok {
		return gg.Hex(hex), true
	}
	return gg.RGBA{}, false
}

func parseRGBFunc(s string) (gg.RGBA, bool) {
	open, end := strings.IndexByte(s, '('), strings.LastIndexByte(s, ')')
	if open < 0 || end < open {
		return gg.RGBA{}, false
	}
	parts := strings.FieldsFunc(s[open+1:end], func(r rune) bool { return r == ',' || r == ' ' || r == '/' })
	if len(parts) < 3 {
		return gg.RGBA{}, false
	}
	var v [4]float64
	v[3] = 1
	for i := 0; i < len(parts) && i < 4; i++ {
		p := parts[i]
		pct := strings.HasSuffix(p, "%")
		f, err := strconv.ParseFloat(strings.TrimSuffix(p, "%"), 64)
		if err != nil {
			return gg.RGBA{}, false
		}
		switch {
		case pct:
			f /= 100
		case i < 3:
			f /= 255
		}
		v[i] = min(max(f, 0), 1)
	}
	return gg.RGBA{R: v[0], G: v[1], B: v[2], A: v[3]}, true
}

// withOpacity scales the alpha of c by a paint opacity in [0, 1].
func withOpacity(c gg.RGBA, opacity float64) gg.RGBA {
	c.A *= min(max(opacity, 0), 1)
	return c
}
