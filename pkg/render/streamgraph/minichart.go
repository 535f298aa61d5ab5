package streamgraph

import (
	"math"
	"strconv"
	"time"

	"github.com/matzehuels/llmstream/pkg/config"
	"github.com/matzehuels/llmstream/pkg/render/axis"
	"github.com/matzehuels/llmstream/pkg/scale"
	"github.com/matzehuels/llmstream/pkg/scene"
	"github.com/matzehuels/llmstream/pkg/shape"
	"github.com/matzehuels/llmstream/pkg/usage"
)

// Bar is one record of a mini chart, in inner-chart coordinates.
type Bar struct {
	Label  string
	Value  float64
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// MiniChart is the bar chart of one series shown in the tooltip.
type MiniChart struct {
	Series   string
	Color    string
	Width    float64
	Height   float64
	Margin   config.Margin
	X        scale.Band
	Y        scale.Linear
	YTicks   int
	Duration time.Duration
	Bars     []Bar
}

// BuildMiniChart lays out the mini chart of series with the default tooltip
// configuration.
func BuildMiniChart(series string, data usage.Dataset, color string) *MiniChart {
	return NewMiniChart(config.DefaultTooltip(), series, data, color)
}

// NewMiniChart lays out one bar per record of data: labelled with the
// record's month, sized by its value of series on a [0, max] scale.
// Missing values get a zero-height bar.
func NewMiniChart(tip config.Tooltip, series string, data usage.Dataset, color string) *MiniChart {
	iw, ih := tip.InnerWidth(), tip.InnerHeight()

	labels := make([]string, len(data))
	values := data.Values(series)
	peak := math.NaN()
	for i, rec := range data {
		labels[i] = usage.MonthLabel(rec.Date)
		if v := values[i]; !math.IsNaN(v) && (math.IsNaN(peak) || v > peak) {
			peak = v
		}
	}

	m := &MiniChart{
		Series:   series,
		Color:    color,
		Width:    tip.Width,
		Height:   tip.Height,
		Margin:   tip.Margin,
		X:        scale.NewBand(labels, 0, iw, tip.BarPadding),
		Y:        scale.NewLinear(0, peak, ih, 0),
		YTicks:   tip.YTicks,
		Duration: tip.BarDuration(),
		Bars:     make([]Bar, len(data)),
	}
	for i, v := range values {
		b := Bar{Label: labels[i], Value: v, X: m.X.Position(i), Width: m.X.Bandwidth(), Y: ih}
		if y := m.Y.Apply(v); !math.IsNaN(y) {
			b.Y = y
			b.Height = ih - y
		}
		m.Bars[i] = b
	}
	return m
}

// InnerHeight is the plot height inside the margins.
func (m *MiniChart) InnerHeight() float64 { return m.Height - m.Margin.Top - m.Margin.Bottom }

// InnerWidth is the plot width inside the margins.
func (m *MiniChart) InnerWidth() float64 { return m.Width - m.Margin.Left - m.Margin.Right }

// Element builds the chart's SVG subtree. Bars grow from the baseline to
// their height over Duration.
func (m *MiniChart) Element() *scene.Element {
	ih := m.InnerHeight()
	svg := scene.New("svg").
		Attr("class", "minichart").
		Attr("width", m.Width).
		Attr("height", m.Height)
	inner := svg.Append("g").
		Attr("transform", "translate("+shape.Num(m.Margin.Left)+","+shape.Num(m.Margin.Top)+")")

	xa := axis.Bottom(inner, "x-axis", [2]float64{0, m.InnerWidth()}, axis.BandTicks(m.X))
	xa.Attr("transform", "translate(0,"+shape.Num(ih)+")")
	ya := axis.Left(inner, "y-axis", [2]float64{ih, 0}, axis.LinearTicks(m.Y, m.YTicks))
	for _, a := range []*scene.Element{xa, ya} {
		for _, t := range a.FindAll("text", "") {
			t.Style("font-size", "10px").Style("fill", "black")
		}
		for _, l := range a.FindAll("line", "") {
			l.Style("stroke", "black")
		}
		a.Find("path", "domain").Style("stroke", "black")
	}

	keys := make([]string, len(m.Bars))
	for i := range m.Bars {
		keys[i] = strconv.Itoa(i)
	}
	dur := strconv.FormatInt(m.Duration.Milliseconds(), 10) + "ms"
	for i, rect := range inner.Join("rect", "bar", keys) {
		b := m.Bars[i]
		rect.Attr("x", b.X).
			Attr("y", b.Y).
			Attr("width", b.Width).
			Attr("height", b.Height).
			Attr("fill", m.Color)
		if m.Duration > 0 {
			rect.Append("animate").
				Attr("attributeName", "y").
				Attr("from", ih).
				Attr("to", b.Y).
				Attr("dur", dur).
				Attr("fill", "freeze")
			rect.Append("animate").
				Attr("attributeName", "height").
				Attr("from", 0).
				Attr("to", b.Height).
				Attr("dur", dur).
				Attr("fill", "freeze")
		}
	}
	return svg
}
