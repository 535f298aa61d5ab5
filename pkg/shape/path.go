// Package shape generates outlines for chart marks.
//
// Generators write drawing commands to a [Path]. [PathBuilder] serialises the
// commands as SVG path data; other implementations can replay them onto a
// raster canvas, so one geometry feeds every output format.
//
//	area := shape.Area{
//	    X:     func(i int) float64 { return x.Apply(data[i].Date) },
//	    Y0:    func(i int) float64 { return y.Apply(layer.Points[i].Y0) },
//	    Y1:    func(i int) float64 { return y.Apply(layer.Points[i].Y1) },
//	    Curve: shape.Cardinal{},
//	}
//	var p shape.PathBuilder
//	area.Draw(&p, len(data))
//	d := p.String()
package shape

import (
	"strconv"
	"strings"
)

// Path receives drawing commands.
type Path interface {
	MoveTo(x, y float64)
	LineTo(x, y float64)
	CubicTo(x1, y1, x2, y2, x, y float64)
	ClosePath()
}

// PathBuilder accumulates SVG path data.
type PathBuilder struct {
	b strings.Builder
}

func (p *PathBuilder) MoveTo(x, y float64) {
	p.b.WriteByte('M')
	p.coords(x, y)
}

func (p *PathBuilder) LineTo(x, y float64) {
	p.b.WriteByte('L')
	p.coords(x, y)
}

func (p *PathBuilder) CubicTo(x1, y1, x2, y2, x, y float64) {
	p.b.WriteByte('C')
	p.coords(x1, y1, x2, y2, x, y)
}

func (p *PathBuilder) ClosePath() {
	p.b.WriteByte('Z')
}

// String returns the accumulated path data.
func (p *PathBuilder) String() string { return p.b.String() }

// Reset discards the accumulated commands.
func (p *PathBuilder) Reset() { p.b.Reset() }

func (p *PathBuilder) coords(vs ...float64) {
	for i, v := range vs {
		if i > 0 {
			p.b.WriteByte(',')
		}
		p.b.WriteString(Num(v))
	}
}

// Num formats a coordinate with at most three decimals and no trailing
// zeros. NaN is written as "NaN".
func Num(v float64) string {
	s := strconv.FormatFloat(v, 'f', 3, 64)
	if strings.ContainsRune(s, '.') {
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}
	if s == "-0" {
		return "0"
	}
	return s
}

// Recorder stores commands so they can be replayed later.
type Recorder struct {
	Ops []Op
}

// Op is a recorded path command. Kind is one of 'M', 'L', 'C', 'Z'.
type Op struct {
	Kind byte
	Args []float64
}

func (r *Recorder) MoveTo(x, y float64) { r.Ops = append(r.Ops, Op{'M', []float64{x, y}}) }
func (r *Recorder) LineTo(x, y float64) { r.Ops = append(r.Ops, Op{'L', []float64{x, y}}) }
func (r *Recorder) CubicTo(x1, y1, x2, y2, x, y float64) {
	r.Ops = append(r.Ops, Op{'C', []float64{x1, y1, x2, y2, x, y}})
}
func (r *Recorder) ClosePath() { r.Ops = append(r.Ops, Op{Kind: 'Z'}) }

// Replay writes the recorded commands to p.
func (r *Recorder) Replay(p Path) {
	for _, op := range r.Ops {
		switch op.Kind {
		case 'M':
			p.MoveTo(op.Args[0], op.Args[1])
		case 'L':
			p.LineTo(op.Args[0], op.Args[1])
		case 'C':
			p.CubicTo(op.Args[0], op.Args[1], op.Args[2], op.Args[3], op.Args[4], op.Args[5])
		case 'Z':
			p.ClosePath()
		}
	}
}
