// Package axis draws chart axes into a scene tree.
//
// Axes follow the usual SVG charting layout: a "domain" path along the
// scale's range, and one "tick" group per tick holding a 6px tick line and a
// label offset 9px from the axis. Axis groups and ticks are keyed, so drawing
// an axis again into the same parent updates it in place.
package axis

import (
	"strconv"
	"time"

	"github.com/matzehuels/llmstream/pkg/scale"
	"github.com/matzehuels/llmstream/pkg/scene"
	"github.com/matzehuels/llmstream/pkg/shape"
)

const (
	// TickSize is the length of tick lines and of the domain path end caps.
	TickSize = 6
	// TickPadding is the gap between a tick line and its label.
	TickPadding = 3
	// FontSize is the default label size.
	FontSize = 10
)

// Tick is one labelled position along an axis.
type Tick struct {
	Key   string  // identity across redraws
	Pos   float64 // pixel position along the axis
	Label string
}

// Orient selects where labels sit relative to the axis line.
type Orient int

const (
	OrientBottom Orient = iota
	OrientLeft
)

// Axis describes an axis to draw.
type Axis struct {
	Orient   Orient
	Class    string // class and key of the axis group
	Range    [2]float64
	Ticks    []Tick
	FontSize float64
}

// Bottom draws a horizontal axis with labels below the line.
func Bottom(parent *scene.Element, class string, rng [2]float64, ticks []Tick) *scene.Element {
	return Axis{Orient: OrientBottom, Class: class, Range: rng, Ticks: ticks}.Draw(parent)
}

// Left draws a vertical axis with labels left of the line.
func Left(parent *scene.Element, class string, rng [2]float64, ticks []Tick) *scene.Element {
	return Axis{Orient: OrientLeft, Class: class, Range: rng, Ticks: ticks}.Draw(parent)
}

// Draw joins the axis group into parent and returns it.
func (a Axis) Draw(parent *scene.Element) *scene.Element {
	fontSize := a.FontSize
	if fontSize == 0 {
		fontSize = FontSize
	}
	anchor := "middle"
	if a.Orient == OrientLeft {
		anchor = "end"
	}

	g := parent.JoinOne("g", a.Class, a.Class)
	g.Attr("fill", "none").
		Attr("font-size", fontSize).
		Attr("font-family", "sans-serif").
		Attr("text-anchor", anchor)

	g.JoinOne("path", "domain", "domain").
		Attr("stroke", "currentColor").
		Attr("d", a.domainPath())

	keys := make([]string, len(a.Ticks))
	for i, t := range a.Ticks {
		keys[i] = t.Key
	}
	for i, tg := range g.Join("g", "tick", keys) {
		t := a.Ticks[i]
		line := tg.JoinOne("line", "", "line").Attr("stroke", "currentColor")
		text := tg.JoinOne("text", "", "label").Attr("fill", "currentColor").SetText(t.Label)
		tg.Attr("opacity", 1)
		switch a.Orient {
		case OrientBottom:
			tg.Attr("transform", "translate("+shape.Num(t.Pos)+",0)")
			line.Attr("y2", TickSize)
			text.Attr("y", TickSize+TickPadding).Attr("dy", "0.71em")
		case OrientLeft:
			tg.Attr("transform", "translate(0,"+shape.Num(t.Pos)+")")
			line.Attr("x2", -TickSize)
			text.Attr("x", -(TickSize + TickPadding)).Attr("dy", "0.32em")
		}
	}
	return g
}

func (a Axis) domainPath() string {
	r0, r1 := shape.Num(a.Range[0]), shape.Num(a.Range[1])
	k := strconv.Itoa(TickSize)
	if a.Orient == OrientLeft {
		return "M-" + k + "," + r0 + "H0V" + r1 + "H-" + k
	}
	return "M" + r0 + "," + k + "V0H" + r1 + "V" + k
}

// TimeTicks returns count-ish ticks of s labelled by format.
func TimeTicks(s scale.Time, count int, format func(time.Time) string) []Tick {
	ts := s.Ticks(count)
	out := make([]Tick, len(ts))
	for i, t := range ts {
		out[i] = Tick{Key: t.Format(time.RFC3339), Pos: s.Apply(t), Label: format(t)}
	}
	return out
}

// LinearTicks returns count-ish ticks of s with its default format.
func LinearTicks(s scale.Linear, count int) []Tick {
	format := s.TickFormat(count)
	vs := s.Ticks(count)
	out := make([]Tick, len(vs))
	for i, v := range vs {
		label := format(v)
		out[i] = Tick{Key: label, Pos: s.Apply(v), Label: label}
	}
	return out
}

// BandTicks returns one tick per band, centred, keyed by position.
func BandTicks(b scale.Band) []Tick {
	out := make([]Tick, len(b.Domain))
	for i, label := range b.Domain {
		out[i] = Tick{Key: strconv.Itoa(i), Pos: b.Center(i), Label: label}
	}
	return out
}
