package streamgraph

import (
	"math"
	"testing"

	"github.com/matzehuels/llmstream/pkg/config"
	"github.com/matzehuels/llmstream/pkg/usage"
)

func twoMonths() usage.Dataset {
	return usage.Dataset{
		{Date: month(1), Values: map[string]float64{"GPT-4": 10, "Gemini": 1, "PaLM-2": 1, "Claude": 1, "LLaMA-3.1": 1}},
		{Date: month(2), Values: map[string]float64{"GPT-4": 20, "Gemini": 1, "PaLM-2": 1, "Claude": 1, "LLaMA-3.1": 1}},
	}
}

func TestHoverBuildsMiniChart(t *testing.T) {
	r := newTestRenderer()
	r.Render(twoMonths())
	if !r.Hover("GPT-4", Pointer{X: 100, Y: 200}) {
		t.Fatal("Hover() = false")
	}
	o := r.Overlay()
	if !o.Visible() {
		t.Error("overlay not visible after hover")
	}
	if o.Position() != (Pointer{X: 110, Y: 210}) {
		t.Errorf("Position() = %+v, want {110 210}", o.Position())
	}
	if title := o.Element().Find("div", "tooltip-title"); title == nil || title.Text != "GPT-4" {
		t.Errorf("title = %+v, want GPT-4", title)
	}
	if got := len(o.Element().FindAll("svg", "minichart")); got != 1 {
		t.Errorf("mini charts = %d, want 1", got)
	}

	bars := o.Chart().Bars
	if len(bars) != 2 {
		t.Fatalf("bars = %d, want 2", len(bars))
	}
	if bars[0].Label != "Jan" || bars[1].Label != "Feb" {
		t.Errorf("labels = %q,%q, want Jan,Feb", bars[0].Label, bars[1].Label)
	}
	if math.Abs(bars[1].Height-2*bars[0].Height) > 1e-9 {
		t.Errorf("heights = %v,%v, want 1:2", bars[0].Height, bars[1].Height)
	}
	if got := len(o.Element().FindAll("rect", "bar")); got != 2 {
		t.Errorf("rect.bar = %d, want 2", got)
	}
}

func TestHoverRebuildsContent(t *testing.T) {
	r := newTestRenderer()
	r.Render(twoMonths())
	r.Hover("GPT-4", Pointer{})
	r.Hover("GPT-4", Pointer{X: 5})
	r.Hover("Claude", Pointer{})
	o := r.Overlay()
	if got := len(o.Element().Children); got != 2 {
		t.Errorf("overlay children = %d, want 2 (title and chart)", got)
	}
	if o.Series() != "Claude" {
		t.Errorf("Series() = %q, want Claude", o.Series())
	}
}

func TestLeaveHidesWithoutClearing(t *testing.T) {
	r := newTestRenderer()
	r.Render(twoMonths())
	r.Hover("Gemini", Pointer{X: 1, Y: 1})
	r.Leave()
	o := r.Overlay()
	if o.Visible() {
		t.Error("overlay visible after Leave")
	}
	if d, _ := o.Element().GetStyle("display"); d != "none" {
		t.Errorf("display = %q, want none", d)
	}
	if o.Element().Find("svg", "minichart") == nil {
		t.Error("Leave discarded the mini chart")
	}
}

func TestHoverBeforeRender(t *testing.T) {
	r := newTestRenderer()
	if r.Hover("GPT-4", Pointer{}) {
		t.Error("Hover() before Render = true")
	}
	if r.Overlay().Visible() {
		t.Error("overlay visible before any render")
	}
	if r.MiniChart("GPT-4") != nil {
		t.Error("MiniChart() before Render should be nil")
	}
}

func TestHoverUnknownSeries(t *testing.T) {
	r := newTestRenderer()
	r.Render(twoMonths())
	if r.Hover("Mistral", Pointer{}) {
		t.Error("Hover(unknown) = true")
	}
}

func TestOverlayStyle(t *testing.T) {
	o := NewOverlay(config.DefaultTooltip())
	want := map[string]string{
		"position":      "absolute",
		"background":    "white",
		"border":        "1px solid #ccc",
		"padding":       "10px",
		"border-radius": "4px",
		"display":       "none",
	}
	for k, v := range want {
		if got, _ := o.Element().GetStyle(k); got != v {
			t.Errorf("style %s = %q, want %q", k, got, v)
		}
	}
	o.Show(Pointer{X: 1, Y: 2})
	if a, _ := o.Element().GetStyle("animation"); a != "tooltip-fade 200ms ease-in" {
		t.Errorf("animation = %q", a)
	}
	if l, _ := o.Element().GetStyle("left"); l != "11px" {
		t.Errorf("left = %q, want 11px", l)
	}
}
