// Package measure computes the extent of text drawn in a node.
//
// Node sizes derive from text extents, so measurement must be
// deterministic: [Font] measures with the embedded Go font rather than
// whatever the host happens to have installed. [Approx] is a cheap
// character-count estimate for callers that only need relative sizes.
package measure

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"

	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/fonts"
)

// LineHeightFactor is the ratio of line height to font size.
const LineHeightFactor = 1.2

// Measurer reports text extents in canvas units.
type Measurer interface {
	// Width returns the advance width of s set at size.
	Width(s string, size float64, bold bool) float64
	// LineHeight returns the height of one line set at size.
	LineHeight(size float64) float64
}

// Font measures text with the embedded Go font faces.
// It is safe for concurrent use.
type Font struct {
	regular *opentype.Font
	bold    *opentype.Font

	mu    sync.Mutex
	faces map[faceKey]font.Face
}

type faceKey struct {
	size float64
	bold bool
}

// NewFont parses the embedded faces.
func NewFont() (*Font, error) {
	regular, err := opentype.Parse(fonts.RegularTTF())
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := opentype.Parse(fonts.BoldTTF())
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}
	return &Font{regular: regular, bold: bold, faces: make(map[faceKey]font.Face)}, nil
}

var (
	defaultFont     *Font
	defaultFontErr  error
	defaultFontOnce sync.Once
)

// Default returns a shared Font, falling back to Approx if the embedded
// faces cannot be parsed.
func Default() Measurer {
	defaultFontOnce.Do(func() {
		defaultFont, defaultFontErr = NewFont()
	})
	if defaultFontErr != nil {
		return Approx{}
	}
	return defaultFont
}

// Width implements Measurer.
func (f *Font) Width(s string, size float64, bold bool) float64 {
	if s == "" || size <= 0 {
		return 0
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	face, err := f.face(size, bold)
	if err != nil {
		return Approx{}.Width(s, size, bold)
	}
	adv := font.MeasureString(face, s)
	return float64(adv) / 64
}

// LineHeight implements Measurer.
func (f *Font) LineHeight(size float64) float64 {
	return size * LineHeightFactor
}

func (f *Font) face(size float64, bold bool) (font.Face, error) {
	key := faceKey{size: size, bold: bold}
	if face, ok := f.faces[key]; ok {
		return face, nil
	}
	src := f.regular
	if bold {
		src = f.bold
	}
	face, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	f.faces[key] = face
	return face, nil
}

// Approx estimates widths from the rune count.
type Approx struct{}

// Width implements Measurer.
func (Approx) Width(s string, size float64, bold bool) float64 {
	w := float64(len([]rune(s))) * size * 0.6
	if bold {
		w *= 1.1
	}
	return w
}

// LineHeight implements Measurer.
func (Approx) LineHeight(size float64) float64 {
	return size * LineHeightFactor
}

// Wrap breaks s into lines no wider than maxWidth, splitting on spaces.
// Explicit newlines are kept. A single word wider than maxWidth occupies
// a line of its own. Empty input yields no lines.
func Wrap(m Measurer, s string, maxWidth, size float64, bold bool) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			candidate := line + " " + w
			if maxWidth > 0 && m.Width(candidate, size, bold) > maxWidth {
				lines = append(lines, line)
				line = w
				continue
			}
			line = candidate
		}
		lines = append(lines, line)
	}
	return lines
}

// MaxWidth returns the width of the widest line.
func MaxWidth(m Measurer, lines []string, size float64, bold bool) float64 {
	var w float64
	for _, l := range lines {
		if lw := m.Width(l, size, bold); lw > w {
			w = lw
		}
	}
	return w
}
