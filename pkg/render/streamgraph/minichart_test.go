package streamgraph

import (
	"math"
	"testing"

	"github.com/matzehuels/llmstream/pkg/usage"
)

func TestBuildMiniChartLayout(t *testing.T) {
	m := BuildMiniChart("GPT-4", twoMonths(), "#e41a1c")
	if m.Width != 270 || m.Height != 170 {
		t.Errorf("size = %vx%v, want 270x170", m.Width, m.Height)
	}
	if m.InnerWidth() != 230 || m.InnerHeight() != 130 {
		t.Errorf("inner = %vx%v, want 230x130", m.InnerWidth(), m.InnerHeight())
	}
	if m.Y.Domain != [2]float64{0, 20} {
		t.Errorf("Y domain = %v, want [0 20]", m.Y.Domain)
	}
	tests := []struct {
		i     int
		y, h  float64
		label string
		value float64
	}{
		{0, 65, 65, "Jan", 10},
		{1, 0, 130, "Feb", 20},
	}
	for _, tt := range tests {
		b := m.Bars[tt.i]
		if b.Y != tt.y || b.Height != tt.h || b.Label != tt.label || b.Value != tt.value {
			t.Errorf("bar %d = %+v, want y=%v h=%v %s=%v", tt.i, b, tt.y, tt.h, tt.label, tt.value)
		}
		if b.Width != m.X.Bandwidth() {
			t.Errorf("bar %d width = %v, want %v", tt.i, b.Width, m.X.Bandwidth())
		}
	}
	if m.Bars[0].X >= m.Bars[1].X {
		t.Error("bars not in record order")
	}
}

func TestMiniChartElement(t *testing.T) {
	el := BuildMiniChart("GPT-4", twoMonths(), "#e41a1c").Element()
	if w, _ := el.GetAttr("width"); w != "270" {
		t.Errorf("width = %q, want 270", w)
	}
	inner := el.Find("g", "")
	if tr, _ := inner.GetAttr("transform"); tr != "translate(30,10)" {
		t.Errorf("inner transform = %q, want translate(30,10)", tr)
	}
	if inner.Count("g", "x-axis") != 1 || inner.Count("g", "y-axis") != 1 {
		t.Error("want one x-axis and one y-axis")
	}
	if tr, _ := inner.Find("g", "x-axis").GetAttr("transform"); tr != "translate(0,130)" {
		t.Errorf("x-axis transform = %q", tr)
	}
	for _, txt := range inner.FindAll("text", "") {
		if fs, _ := txt.GetStyle("font-size"); fs != "10px" {
			t.Errorf("axis text font-size = %q, want 10px", fs)
		}
	}
	rects := inner.Select("rect", "bar")
	if len(rects) != 2 {
		t.Fatalf("bars = %d, want 2", len(rects))
	}
	anims := rects[0].Select("animate", "")
	if len(anims) != 2 {
		t.Fatalf("animations = %d, want 2", len(anims))
	}
	if from, _ := anims[0].GetAttr("from"); from != "130" {
		t.Errorf("y animation from = %q, want 130", from)
	}
	if dur, _ := anims[1].GetAttr("dur"); dur != "300ms" {
		t.Errorf("dur = %q, want 300ms", dur)
	}
}

func TestMiniChartMissingValues(t *testing.T) {
	data := usage.Dataset{
		{Date: month(1), Values: map[string]float64{"Claude": 4}},
		{Date: month(2), Values: map[string]float64{}},
	}
	m := BuildMiniChart("Claude", data, "#984ea3")
	if !math.IsNaN(m.Bars[1].Value) {
		t.Errorf("missing value = %v, want NaN", m.Bars[1].Value)
	}
	if m.Bars[1].Height != 0 || m.Bars[1].Y != m.InnerHeight() {
		t.Errorf("missing bar = %+v, want zero height at baseline", m.Bars[1])
	}
	if m.Bars[0].Height != m.InnerHeight() {
		t.Errorf("peak bar height = %v, want %v", m.Bars[0].Height, m.InnerHeight())
	}
}

func TestMiniChartDuplicateMonths(t *testing.T) {
	data := usage.Dataset{
		{Date: month(1), Values: map[string]float64{"GPT-4": 1}},
		{Date: month(1).AddDate(1, 0, 0), Values: map[string]float64{"GPT-4": 2}},
	}
	m := BuildMiniChart("GPT-4", data, "#000")
	if m.Bars[0].Label != "Jan" || m.Bars[1].Label != "Jan" {
		t.Fatalf("labels = %q,%q", m.Bars[0].Label, m.Bars[1].Label)
	}
	if m.Bars[0].X == m.Bars[1].X {
		t.Error("records with the same month share a band")
	}
}
