// Package fonts provides the font files used to measure and rasterize text.
//
// The Go font family ships inside golang.org/x/image, so measurement and
// PNG output need no system fonts and produce identical geometry on every
// machine. SVG output names [FontFamily] first and may embed the regular
// face as a data URI so viewers draw the same glyphs that were measured.
package fonts

import (
	"encoding/base64"
	"sync"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// FontFamily is the CSS font-family name under which the embedded face is declared.
const FontFamily = "Go"

// FallbackFontFamily lists fonts tried when the embedded face is not declared.
const FallbackFontFamily = `'Go', 'Helvetica Neue', Arial, sans-serif`

// RegularTTF returns the regular face as TrueType data.
func RegularTTF() []byte {
	return goregular.TTF
}

// BoldTTF returns the bold face as TrueType data.
func BoldTTF() []byte {
	return gobold.TTF
}

// Cache for base64-encoded fonts (computed once on first access).
var (
	regularBase64     string
	regularBase64Once sync.Once
)

// RegularTTFBase64 returns the regular face as a base64 string.
// The result is cached after first computation.
func RegularTTFBase64() string {
	regularBase64Once.Do(func() {
		regularBase64 = base64.StdEncoding.EncodeToString(goregular.TTF)
	})
	return regularBase64
}
