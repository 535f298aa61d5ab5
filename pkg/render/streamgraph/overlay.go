package streamgraph

import (
	"strconv"

	"github.com/matzehuels/llmstream/pkg/config"
	"github.com/matzehuels/llmstream/pkg/scene"
	"github.com/matzehuels/llmstream/pkg/shape"
	"github.com/matzehuels/llmstream/pkg/usage"
)

// FadeCSS declares the keyframes the overlay uses to fade in. Pages hosting
// the overlay include it once.
const FadeCSS = `@keyframes tooltip-fade { from { opacity: 0; } to { opacity: 1; } }`

// ClassTooltip is the overlay's class.
const ClassTooltip = "tooltip"

// Pointer is a pointer position in page coordinates.
type Pointer struct {
	X, Y float64
}

// Overlay is the floating tooltip container. Its content is rebuilt by
// Update and survives Hide.
type Overlay struct {
	tip     config.Tooltip
	root    *scene.Element
	chart   *MiniChart
	series  string
	visible bool
	pos     Pointer
}

// NewOverlay returns a hidden, empty overlay.
func NewOverlay(tip config.Tooltip) *Overlay {
	root := scene.New("div").Class(ClassTooltip).
		Attr("id", ClassTooltip).
		Style("position", "absolute").
		Style("background", "white").
		Style("border", "1px solid #ccc").
		Style("padding", "10px").
		Style("border-radius", "4px").
		Style("box-shadow", "0 2px 4px rgba(0,0,0,0.2)").
		Style("pointer-events", "none").
		Style("display", "none")
	return &Overlay{tip: tip, root: root}
}

// Update replaces the overlay content with a title and the mini chart of
// series.
func (o *Overlay) Update(series string, data usage.Dataset, color string) {
	o.root.Clear()
	o.root.Append("div").Class("tooltip-title").
		Style("font-weight", "bold").
		Style("margin-bottom", "5px").
		SetText(series)
	o.chart = NewMiniChart(o.tip, series, data, color)
	o.root.AppendChild(o.chart.Element())
	o.series = series
}

// Show places the overlay at p plus the configured offset and makes it
// visible with a fade-in.
func (o *Overlay) Show(p Pointer) {
	o.pos = Pointer{X: p.X + o.tip.OffsetX, Y: p.Y + o.tip.OffsetY}
	o.root.Style("left", shape.Num(o.pos.X)+"px").
		Style("top", shape.Num(o.pos.Y)+"px").
		Style("display", "block").
		Style("animation", "tooltip-fade "+strconv.Itoa(o.tip.FadeDurationMS)+"ms ease-in")
	o.visible = true
}

// Hide hides the overlay without discarding its content.
func (o *Overlay) Hide() {
	o.root.Style("display", "none")
	o.visible = false
}

// Visible reports whether the overlay is shown.
func (o *Overlay) Visible() bool { return o.visible }

// Position returns where the overlay was last shown.
func (o *Overlay) Position() Pointer { return o.pos }

// Series returns the series of the current content, or "".
func (o *Overlay) Series() string { return o.series }

// Chart returns the current mini chart, or nil before the first Update.
func (o *Overlay) Chart() *MiniChart { return o.chart }

// Element returns the overlay's element tree.
func (o *Overlay) Element() *scene.Element { return o.root }
