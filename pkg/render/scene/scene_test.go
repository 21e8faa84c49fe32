package scene

import (
	"math"
	"testing"
)

func TestNum(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{1.5, "1.5"},
		{2.004, "2"},
		{2.006, "2.01"},
		{-0.001, "0"},
		{-3.25, "-3.25"},
		{120, "120"},
	}
	for _, tt := range tests {
		if got := Num(tt.in); got != tt.want {
			t.Errorf("Num(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAddDefDeduplicates(t *testing.T) {
	s := New(100, 100)
	a := s.AddDef(&Marker{Size: 8, Color: "#333"})
	b := s.AddDef(&Marker{Size: 8, Color: "#333"})
	c := s.AddDef(&Marker{Size: 8, Color: "#333", Start: true})
	d := s.AddDef(&Marker{Size: 10, Color: "#333"})

	if a != b {
		t.Errorf("equal markers got ids %q and %q", a, b)
	}
	if a == c || a == d {
		t.Error("different markers must get different ids")
	}
	if len(s.Defs) != 3 {
		t.Errorf("len(Defs) = %d, want 3", len(s.Defs))
	}
}

func TestDefIDsAreXMLSafe(t *testing.T) {
	ids := []string{
		(&Shadow{Color: "rgba(0,0,0,0.3)", Blur: 3, DX: 2, DY: -2}).DefID(),
		(&LinearGradient{Start: "#fff", End: "#000", Horizontal: true}).DefID(),
	}
	for _, id := range ids {
		for _, r := range id {
			if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_') {
				t.Errorf("id %q contains %q", id, r)
			}
		}
	}
}

func TestWalkAndHitRegions(t *testing.T) {
	s := New(10, 10)
	g := &Group{ID: "node-0"}
	g.Add(&Rect{W: 1, H: 1}, &HitRegion{Action: ActionToggle, Target: "0"})
	s.Add(g, &HitRegion{Action: ActionDownload, Children: []Element{&Rect{}}})

	count := 0
	s.Walk(func(Element) { count++ })
	if count != 5 {
		t.Errorf("Walk visited %d elements, want 5", count)
	}
	hits := s.HitRegions()
	if len(hits) != 2 || hits[0].Target != "0" || hits[1].Action != ActionDownload {
		t.Errorf("HitRegions = %+v", hits)
	}
	if s.Find("node-0") != g || s.Find("missing") != nil {
		t.Error("Find mismatch")
	}
}

func TestPathBuilder(t *testing.T) {
	var p Path
	p.MoveTo(0, 0).LineTo(10, 0).CubicTo(10, 5, 5, 10, 0, 10).Close()
	if got, want := p.D(), "M 0 0 L 10 0 C 10 5 5 10 0 10 Z"; got != want {
		t.Errorf("D() = %q, want %q", got, want)
	}
	p.Translate(1, 2)
	start, end, ok := p.Endpoints()
	if !ok || start != (Point{1, 2}) || end != (Point{1, 12}) {
		t.Errorf("Endpoints = %v %v %v", start, end, ok)
	}
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"absolute", "M 0 0 L 10 10 Z", "M 0 0 L 10 10 Z"},
		{"relative", "m 5 5 l 10 0 l 0 10 z", "M 5 5 L 15 5 L 15 15 Z"},
		{"implicit lineto", "M0,0 10,0 10,10", "M 0 0 L 10 0 L 10 10"},
		{"h and v", "M 1 1 H 5 V 7 h -2 v -1", "M 1 1 L 5 1 L 5 7 L 3 7 L 3 6"},
		{"compact numbers", "M0-5L.5.5", "M 0 -5 L 0.5 0.5"},
		{"smooth cubic", "M 0 0 C 0 10 10 10 10 0 S 20 -10 20 0", "M 0 0 C 0 10 10 10 10 0 C 10 -10 20 -10 20 0"},
		{"smooth quad", "M 0 0 Q 5 10 10 0 T 20 0", "M 0 0 Q 5 10 10 0 Q 15 -10 20 0"},
		{"exponent", "M 1e1 0 L 2E1 0", "M 10 0 L 20 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePath(tt.in)
			if err != nil {
				t.Fatalf("ParsePath(%q): %v", tt.in, err)
			}
			if got := p.D(); got != tt.want {
				t.Errorf("ParsePath(%q).D() = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParsePathArc(t *testing.T) {
	p, err := ParsePath("M 0 0 A 10 10 0 0 1 20 0")
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Cmds) < 3 {
		t.Fatalf("half circle should become at least two cubics, got %d cmds", len(p.Cmds))
	}
	_, end, _ := p.Endpoints()
	if math.Abs(end.X-20) > 1e-9 || math.Abs(end.Y) > 1e-9 {
		t.Errorf("arc end = %v, want (20,0)", end)
	}
	for _, c := range p.Cmds[1:] {
		if c.Op != OpCubic {
			t.Errorf("arc emitted %c", c.Op)
		}
	}

	flat, err := ParsePath("M 0 0 A 0 5 0 0 1 10 0")
	if err != nil {
		t.Fatal(err)
	}
	if flat.Cmds[1].Op != OpLine {
		t.Error("zero radius arc should be a line")
	}
}

func TestParsePathErrors(t *testing.T) {
	for _, in := range []string{"", "10 10", "M 0", "M 0 0 X 1 1", "M 0 0 Z 5", "M 0 0 A 1 1 0 2 0 5 5"} {
		if _, err := ParsePath(in); err == nil {
			t.Errorf("ParsePath(%q) should fail", in)
		}
	}
}
