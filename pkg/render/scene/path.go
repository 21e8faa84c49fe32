package scene

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Path commands. Every path is kept in absolute coordinates using only
// these operations, so sinks need not understand the full SVG grammar.
const (
	OpMove  = 'M'
	OpLine  = 'L'
	OpCubic = 'C'
	OpQuad  = 'Q'
	OpClose = 'Z'
)

// Cmd is one path command. Args holds x,y pairs.
type Cmd struct {
	Op   byte
	Args []float64
}

// Path is an outline built from commands.
type Path struct {
	Cmds []Cmd
	Paint
	// MarkerStart and MarkerEnd name marker defs drawn at the ends.
	MarkerStart, MarkerEnd string
}

// MoveTo starts a new subpath.
func (p *Path) MoveTo(x, y float64) *Path {
	p.Cmds = append(p.Cmds, Cmd{Op: OpMove, Args: []float64{x, y}})
	return p
}

// LineTo draws a straight segment.
func (p *Path) LineTo(x, y float64) *Path {
	p.Cmds = append(p.Cmds, Cmd{Op: OpLine, Args: []float64{x, y}})
	return p
}

// CubicTo draws a cubic Bézier segment.
func (p *Path) CubicTo(x1, y1, x2, y2, x, y float64) *Path {
	p.Cmds = append(p.Cmds, Cmd{Op: OpCubic, Args: []float64{x1, y1, x2, y2, x, y}})
	return p
}

// QuadTo draws a quadratic Bézier segment.
func (p *Path) QuadTo(x1, y1, x, y float64) *Path {
	p.Cmds = append(p.Cmds, Cmd{Op: OpQuad, Args: []float64{x1, y1, x, y}})
	return p
}

// Close closes the current subpath.
func (p *Path) Close() *Path {
	p.Cmds = append(p.Cmds, Cmd{Op: OpClose})
	return p
}

// Translate moves every point of the path.
func (p *Path) Translate(dx, dy float64) {
	for _, c := range p.Cmds {
		for i := 0; i+1 < len(c.Args); i += 2 {
			c.Args[i] += dx
			c.Args[i+1] += dy
		}
	}
}

// D returns the path as SVG path data.
func (p *Path) D() string {
	var b strings.Builder
	for i, c := range p.Cmds {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(c.Op)
		for _, a := range c.Args {
			b.WriteByte(' ')
			b.WriteString(Num(a))
		}
	}
	return b.String()
}

// Endpoints returns the first and last points of the path.
func (p *Path) Endpoints() (start, end Point, ok bool) {
	var pts []Point
	for _, c := range p.Cmds {
		if n := len(c.Args); n >= 2 {
			pts = append(pts, Point{c.Args[n-2], c.Args[n-1]})
		}
	}
	if len(pts) == 0 {
		return Point{}, Point{}, false
	}
	return pts[0], pts[len(pts)-1], true
}

// ParsePath parses SVG path data into absolute M, L, C, Q and Z commands.
// Relative commands, shorthand curves, horizontal and vertical lines, and
// elliptical arcs are converted on the way in.
func ParsePath(d string) (*Path, error) {
	p := &pathParser{s: d}
	return p.parse()
}

type pathParser struct {
	s   string
	pos int

	out          Path
	cx, cy       float64 // current point
	sx, sy       float64 // subpath start
	lastCtrlX    float64
	lastCtrlY    float64
	lastOp       byte
	hasLastCtrl  bool
	hasLastQuadC bool
}

func (p *pathParser) parse() (*Path, error) {
	var op byte
	for {
		p.skipSeparators()
		if p.pos >= len(p.s) {
			break
		}
		ch := p.s[p.pos]
		if isCommand(ch) {
			op = ch
			p.pos++
		} else if op == 0 {
			return nil, fmt.Errorf("path data must start with a command, got %q", ch)
		} else if op == 'Z' || op == 'z' {
			return nil, fmt.Errorf("unexpected number after close at offset %d", p.pos)
		}
		if err := p.command(op); err != nil {
			return nil, err
		}
		// Coordinates following a move are implicit line-tos.
		if op == 'M' {
			op = 'L'
		} else if op == 'm' {
			op = 'l'
		}
	}
	if len(p.out.Cmds) == 0 {
		return nil, fmt.Errorf("empty path data")
	}
	if p.out.Cmds[0].Op != OpMove {
		return nil, fmt.Errorf("path data must start with a move")
	}
	return &p.out, nil
}

func (p *pathParser) command(op byte) error {
	rel := op >= 'a' && op <= 'z'
	ox, oy := 0.0, 0.0
	if rel {
		ox, oy = p.cx, p.cy
	}
	upper := op &^ 0x20

	switch upper {
	case 'M':
		x, y, err := p.pair()
		if err != nil {
			return err
		}
		p.cx, p.cy = x+ox, y+oy
		p.sx, p.sy = p.cx, p.cy
		p.out.MoveTo(p.cx, p.cy)
	case 'L':
		x, y, err := p.pair()
		if err != nil {
			return err
		}
		p.cx, p.cy = x+ox, y+oy
		p.out.LineTo(p.cx, p.cy)
	case 'H':
		x, err := p.number()
		if err != nil {
			return err
		}
		p.cx = x + ox
		p.out.LineTo(p.cx, p.cy)
	case 'V':
		y, err := p.number()
		if err != nil {
			return err
		}
		p.cy = y + oy
		p.out.LineTo(p.cx, p.cy)
	case 'C':
		v, err := p.numbers(6)
		if err != nil {
			return err
		}
		p.cubic(v[0]+ox, v[1]+oy, v[2]+ox, v[3]+oy, v[4]+ox, v[5]+oy)
		p.lastOp = 'C'
		return nil
	case 'S':
		v, err := p.numbers(4)
		if err != nil {
			return err
		}
		x1, y1 := p.cx, p.cy
		if p.hasLastCtrl && p.lastOp == 'C' {
			x1, y1 = 2*p.cx-p.lastCtrlX, 2*p.cy-p.lastCtrlY
		}
		p.cubic(x1, y1, v[0]+ox, v[1]+oy, v[2]+ox, v[3]+oy)
		p.lastOp = 'C'
		return nil
	case 'Q':
		v, err := p.numbers(4)
		if err != nil {
			return err
		}
		p.quad(v[0]+ox, v[1]+oy, v[2]+ox, v[3]+oy)
		p.lastOp = 'Q'
		return nil
	case 'T':
		v, err := p.numbers(2)
		if err != nil {
			return err
		}
		x1, y1 := p.cx, p.cy
		if p.hasLastQuadC && p.lastOp == 'Q' {
			x1, y1 = 2*p.cx-p.lastCtrlX, 2*p.cy-p.lastCtrlY
		}
		p.quad(x1, y1, v[0]+ox, v[1]+oy)
		p.lastOp = 'Q'
		return nil
	case 'A':
		v, err := p.numbers(3)
		if err != nil {
			return err
		}
		large, err := p.flag()
		if err != nil {
			return err
		}
		sweep, err := p.flag()
		if err != nil {
			return err
		}
		x, y, err := p.pair()
		if err != nil {
			return err
		}
		p.arc(v[0], v[1], v[2], large, sweep, x+ox, y+oy)
	case 'Z':
		p.out.Close()
		p.cx, p.cy = p.sx, p.sy
	default:
		return fmt.Errorf("unsupported path command %q", op)
	}
	p.lastOp = upper
	p.hasLastCtrl, p.hasLastQuadC = false, false
	return nil
}

func (p *pathParser) cubic(x1, y1, x2, y2, x, y float64) {
	p.out.CubicTo(x1, y1, x2, y2, x, y)
	p.lastCtrlX, p.lastCtrlY = x2, y2
	p.hasLastCtrl, p.hasLastQuadC = true, false
	p.cx, p.cy = x, y
}

func (p *pathParser) quad(x1, y1, x, y float64) {
	p.out.QuadTo(x1, y1, x, y)
	p.lastCtrlX, p.lastCtrlY = x1, y1
	p.hasLastCtrl, p.hasLastQuadC = false, true
	p.cx, p.cy = x, y
}

// arc converts an endpoint-parameterized elliptical arc to cubic segments
// of at most a quarter turn each.
func (p *pathParser) arc(rx, ry, phiDeg float64, large, sweep bool, x, y float64) {
	x0, y0 := p.cx, p.cy
	p.cx, p.cy = x, y
	rx, ry = math.Abs(rx), math.Abs(ry)
	if rx == 0 || ry == 0 || (x0 == x && y0 == y) {
		p.out.LineTo(x, y)
		return
	}

	phi := phiDeg * math.Pi / 180
	cosPhi, sinPhi := math.Cos(phi), math.Sin(phi)
	dx, dy := (x0-x)/2, (y0-y)/2
	x1p := cosPhi*dx + sinPhi*dy
	y1p := -sinPhi*dx + cosPhi*dy

	if lambda := x1p*x1p/(rx*rx) + y1p*y1p/(ry*ry); lambda > 1 {
		s := math.Sqrt(lambda)
		rx, ry = rx*s, ry*s
	}

	num := rx*rx*ry*ry - rx*rx*y1p*y1p - ry*ry*x1p*x1p
	den := rx*rx*y1p*y1p + ry*ry*x1p*x1p
	coef := 0.0
	if den != 0 && num > 0 {
		coef = math.Sqrt(num / den)
	}
	if large == sweep {
		coef = -coef
	}
	cxp := coef * rx * y1p / ry
	cyp := -coef * ry * x1p / rx
	cx := cosPhi*cxp - sinPhi*cyp + (x0+x)/2
	cy := sinPhi*cxp + cosPhi*cyp + (y0+y)/2

	theta1 := vecAngle(1, 0, (x1p-cxp)/rx, (y1p-cyp)/ry)
	delta := vecAngle((x1p-cxp)/rx, (y1p-cyp)/ry, (-x1p-cxp)/rx, (-y1p-cyp)/ry)
	if !sweep && delta > 0 {
		delta -= 2 * math.Pi
	} else if sweep && delta < 0 {
		delta += 2 * math.Pi
	}

	segments := int(math.Ceil(math.Abs(delta) / (math.Pi / 2)))
	if segments < 1 {
		segments = 1
	}
	step := delta / float64(segments)
	k := 4.0 / 3.0 * math.Tan(step/4)

	point := func(t float64) (float64, float64) {
		ex, ey := rx*math.Cos(t), ry*math.Sin(t)
		return cosPhi*ex - sinPhi*ey + cx, sinPhi*ex + cosPhi*ey + cy
	}
	deriv := func(t float64) (float64, float64) {
		ex, ey := -rx*math.Sin(t), ry*math.Cos(t)
		return cosPhi*ex - sinPhi*ey, sinPhi*ex + cosPhi*ey
	}

	t := theta1
	for i := 0; i < segments; i++ {
		t2 := t + step
		ax, ay := point(t)
		bx, by := point(t2)
		if i == segments-1 {
			bx, by = x, y
		}
		dax, day := deriv(t)
		dbx, dby := deriv(t2)
		p.out.CubicTo(ax+k*dax, ay+k*day, bx-k*dbx, by-k*dby, bx, by)
		t = t2
	}
}

func vecAngle(ux, uy, vx, vy float64) float64 {
	return math.Atan2(ux*vy-uy*vx, ux*vx+uy*vy)
}

func isCommand(ch byte) bool {
	return strings.IndexByte("MmLlHhVvCcSsQqTtAaZz", ch) >= 0
}

func (p *pathParser) skipSeparators() {
	for p.pos < len(p.s) {
		switch p.s[p.pos] {
		case ' ', '\t', '\n', '\r', ',':
			p.pos++
		default:
			return
		}
	}
}

func (p *pathParser) number() (float64, error) {
	p.skipSeparators()
	start := p.pos
	if p.pos < len(p.s) && (p.s[p.pos] == '+' || p.s[p.pos] == '-') {
		p.pos++
	}
	seenDot, seenDigit := false, false
scan:
	for p.pos < len(p.s) {
		ch := p.s[p.pos]
		switch {
		case ch >= '0' && ch <= '9':
			seenDigit = true
		case ch == '.' && !seenDot:
			seenDot = true
		case (ch == 'e' || ch == 'E') && seenDigit:
			p.pos++
			if p.pos < len(p.s) && (p.s[p.pos] == '+' || p.s[p.pos] == '-') {
				p.pos++
			}
			continue
		default:
			break scan
		}
		p.pos++
	}
	if !seenDigit {
		return 0, fmt.Errorf("expected number at offset %d", start)
	}
	return strconv.ParseFloat(p.s[start:p.pos], 64)
}

func (p *pathParser) numbers(n int) ([]float64, error) {
	out := make([]float64, n)
	for i := range out {
		v, err := p.number()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (p *pathParser) pair() (float64, float64, error) {
	v, err := p.numbers(2)
	if err != nil {
		return 0, 0, err
	}
	return v[0], v[1], nil
}

func (p *pathParser) flag() (bool, error) {
	p.skipSeparators()
	if p.pos >= len(p.s) {
		return false, fmt.Errorf("expected arc flag at end of data")
	}
	switch p.s[p.pos] {
	case '0':
		p.pos++
		return false, nil
	case '1':
		p.pos++
		return true, nil
	}
	return false, fmt.Errorf("invalid arc flag at offset %d", p.pos)
}
