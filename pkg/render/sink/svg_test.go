package sink

import (
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/render/scene"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/style"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/tree"
)

func TestRenderSVGWellFormed(t *testing.T) {
	_, s := buildScene(t, sampleTree(), style.Config{})
	for _, opts := range [][]SVGOption{nil, {WithInteraction()}, {WithEmbeddedFont()}} {
		out := RenderSVG(s, opts...)
		dec := xml.NewDecoder(strings.NewReader(string(out)))
		for {
			_, err := dec.Token()
			if err != nil {
				if err != io.EOF {
					t.Fatalf("invalid XML: %v", err)
				}
				break
			}
		}
	}
}

func TestRenderSVGStaticOmitsHitRegions(t *testing.T) {
	_, s := buildScene(t, sampleTree(), style.Config{})
	if len(s.HitRegions()) == 0 {
		t.Fatal("expected a toggle region for the collapsible node")
	}

	static := string(RenderSVG(s))
	if strings.Contains(static, "data-action") || strings.Contains(static, "hit-area") {
		t.Error("static export contains interactive markup")
	}

	live := string(RenderSVG(s, WithInteraction()))
	if !strings.Contains(live, `data-action="toggle"`) {
		t.Error("interactive document missing toggle action")
	}
	if !strings.Contains(live, `data-target="0.1"`) {
		t.Error("interactive document missing toggle target")
	}
	if !strings.Contains(live, "cursor: pointer") {
		t.Error("interactive document missing style")
	}
}

func TestRenderSVGEscapes(t *testing.T) {
	_, s := buildScene(t, sampleTree(), style.Config{})
	out := string(RenderSVG(s))
	if !strings.Contains(out, "Root &amp; Co") {
		t.Error("label not escaped")
	}
	if strings.Contains(out, "Root & Co") {
		t.Error("raw ampersand in output")
	}
}

func TestRenderSVGDefs(t *testing.T) {
	s := scene.New(100, 50)
	grad := s.AddDef(&scene.LinearGradient{Start: "#fff", End: "#000"})
	shadow := s.AddDef(&scene.Shadow{Color: "#0004", Blur: 4, DY: 2})
	arrow := s.AddDef(&scene.Marker{Size: 8, Color: "#333", Start: true})
	s.Add(&scene.Rect{W: 10, H: 10, Paint: scene.Paint{FillRef: grad, Filter: shadow}})
	p := (&scene.Path{}).MoveTo(0, 0).LineTo(50, 50)
	p.Stroke = "#333"
	p.MarkerStart = arrow
	s.Add(p)

	out := string(RenderSVG(s))
	for _, want := range []string{
		`<linearGradient id="` + grad + `"`,
		`<feDropShadow dx="0" dy="2" stdDeviation="2"`,
		`orient="auto-start-reverse"`,
		`fill="url(#` + grad + `)"`,
		`filter="url(#` + shadow + `)"`,
		`marker-start="url(#` + arrow + `)"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s", want)
		}
	}
}

func TestRenderSVGImage(t *testing.T) {
	s := scene.New(40, 40)
	s.Add(&scene.Image{W: 20, H: 20, RX: 4, Data: []byte("x"), MIME: "image/png"})
	s.Add(&scene.Image{X: 20, W: 20, H: 20, Href: "https://example.com/a.png"})
	out := string(RenderSVG(s))
	if !strings.Contains(out, `href="data:image/png;base64,eA=="`) {
		t.Error("embedded image missing data URI")
	}
	if !strings.Contains(out, `clip-path="url(#clip-image-1)"`) {
		t.Error("rounded image missing clip path")
	}
	if !strings.Contains(out, `href="https://example.com/a.png"`) {
		t.Error("linked image missing href")
	}
}

func TestRenderSVGEmbeddedFont(t *testing.T) {
	s := scene.New(10, 10)
	s.Add(&scene.Text{Content: "x", Size: 12, Family: "serif"})
	out := string(RenderSVG(s, WithEmbeddedFont()))
	if !strings.Contains(out, "@font-face") {
		t.Error("missing @font-face")
	}
	if !strings.Contains(out, `font-family="&#39;Go&#39;, serif"`) {
		t.Error("text does not prefer the embedded font")
	}
}

func TestRenderSVGOpacity(t *testing.T) {
	tests := []struct {
		name    string
		opacity *float64
		want    string
	}{
		{"unset", nil, ""},
		{"explicit zero", scene.Opacity(0), `opacity="0"`},
		{"translucent", scene.Opacity(0.4), `opacity="0.4"`},
		{"opaque", scene.Opacity(1), ""},
		{"clamped", scene.Opacity(-2), `opacity="0"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := scene.New(10, 10)
			s.Add(&scene.Rect{W: 10, H: 10, Paint: scene.Paint{Fill: "#000", Opacity: tt.opacity}})
			out := string(RenderSVG(s))
			if tt.want == "" {
				if strings.Contains(out, "opacity=") {
					t.Errorf("unexpected opacity attribute in %s", out)
				}
				return
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("missing %s in %s", tt.want, out)
			}
		})
	}
}

func TestRenderSVGZeroOpacityFromConfig(t *testing.T) {
	cfg := style.Config{
		NodeConfig: &style.NodeConfig{Opacity: style.Float(0)},
		EdgeConfig: &style.EdgeConfig{Opacity: style.Float(0)},
	}
	_, s := buildScene(t, &tree.Node{Value: "a", Children: []*tree.Node{{Value: "b"}}}, cfg)
	out := string(RenderSVG(s))
	if n := strings.Count(out, `opacity="0"`); n < 3 {
		t.Errorf("found %d zero-opacity elements, want nodes and edge hidden", n)
	}
}

func TestEscapeXML(t *testing.T) {
	tests := []struct{ in, want string }{
		{"plain", "plain"},
		{"a<b", "a&lt;b"},
		{`"q"`, "&#34;q&#34;"},
		{"x&y", "x&amp;y"},
	}
	for _, tt := range tests {
		if got := EscapeXML(tt.in); got != tt.want {
			t.Errorf("EscapeXML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
