package streamgraph

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/llmstream/pkg/config"
	"github.com/matzehuels/llmstream/pkg/shape"
	"github.com/matzehuels/llmstream/pkg/usage"
)

func month(m int) time.Time {
	return time.Date(2024, time.Month(m), 1, 0, 0, 0, 0, time.UTC)
}

// fullDataset returns n monthly records with every default series present.
func fullDataset(n int) usage.Dataset {
	data := make(usage.Dataset, n)
	for i := range data {
		vals := make(map[string]float64)
		for j, s := range config.DefaultSeries {
			vals[s] = float64(10*(j+1) + i)
		}
		data[i] = usage.Record{Date: month(i%12 + 1).AddDate(i/12, 0, 0), Values: vals}
	}
	return data
}

func newTestRenderer(opts ...Option) *Renderer {
	var quiet bytes.Buffer
	opts = append([]Option{WithLogger(log.New(&quiet))}, opts...)
	return New(config.DefaultChart(), opts...)
}

func TestRenderElementCounts(t *testing.T) {
	for _, n := range []int{1, 2, 12, 40} {
		r := newTestRenderer()
		if !r.Render(fullDataset(n)) {
			t.Fatalf("Render(%d records) = false", n)
		}
		s := r.Surface()
		if got := s.Count("path", ClassLayer); got != 5 {
			t.Errorf("n=%d: layers = %d, want 5", n, got)
		}
		if got := s.Count("g", ClassLegend); got != 5 {
			t.Errorf("n=%d: legend entries = %d, want 5", n, got)
		}
		if got := s.Count("g", ClassXAxis); got != 1 {
			t.Errorf("n=%d: axes = %d, want 1", n, got)
		}
	}
}

func TestRenderSurfaceSize(t *testing.T) {
	r := newTestRenderer()
	w, _ := r.Surface().GetAttr("width")
	h, _ := r.Surface().GetAttr("height")
	if w != "600" || h != "500" {
		t.Errorf("surface = %sx%s, want 600x500", w, h)
	}
}

func TestRenderReusesElements(t *testing.T) {
	r := newTestRenderer()
	r.Render(fullDataset(3))
	s := r.Surface()
	firstLayer := s.Select("path", ClassLayer)[0]
	firstLegend := s.Select("g", ClassLegend)[0]
	firstD, _ := firstLayer.GetAttr("d")

	r.Render(fullDataset(6))
	r.Render(fullDataset(6))

	if s.Select("path", ClassLayer)[0] != firstLayer {
		t.Error("layer path was recreated")
	}
	if s.Select("g", ClassLegend)[0] != firstLegend {
		t.Error("legend entry was recreated")
	}
	if d, _ := firstLayer.GetAttr("d"); d == firstD {
		t.Error("layer outline not updated for new data")
	}
	if got := len(s.FindAll("rect", "swatch")); got != 5 {
		t.Errorf("swatches = %d, want 5", got)
	}
	if got := len(s.FindAll("path", "domain")); got != 1 {
		t.Errorf("axis domain paths = %d, want 1", got)
	}
	if got := len(s.Children); got != 11 {
		t.Errorf("surface children = %d, want 11", got)
	}
	if r.Renders() != 3 {
		t.Errorf("Renders() = %d, want 3", r.Renders())
	}
}

func TestRenderEmptyIsNoop(t *testing.T) {
	r := newTestRenderer()
	before := r.SVG()
	if r.Render(nil) {
		t.Error("Render(nil) = true")
	}
	if r.Render(usage.Dataset{}) {
		t.Error("Render(empty) = true")
	}
	if r.SVG() != before {
		t.Error("empty render changed a fresh surface")
	}

	r.Render(fullDataset(4))
	drawn := r.SVG()
	if r.Render(usage.Dataset{}) {
		t.Error("Render(empty) after data = true")
	}
	if r.SVG() != drawn {
		t.Error("empty render changed a drawn surface")
	}
	if len(r.Data()) != 4 {
		t.Errorf("Data() = %d records, want 4", len(r.Data()))
	}
}

func TestStackedThicknessMatchesValues(t *testing.T) {
	r := newTestRenderer()
	data := fullDataset(7)
	r.Render(data)
	layers := r.Stacked()
	if len(layers) != 5 {
		t.Fatalf("layers = %d, want 5", len(layers))
	}
	for j, rec := range data {
		var thick, raw float64
		for _, l := range layers {
			thick += l.Points[j].Thickness()
			raw += rec.Value(l.Key)
		}
		if math.Abs(thick-raw) > 1e-9 {
			t.Errorf("record %d: thickness %v, want %v", j, thick, raw)
		}
	}
}

func TestScalesFitStack(t *testing.T) {
	r := newTestRenderer()
	data := fullDataset(3)
	r.Render(data)
	sc := r.Scales()
	if got := sc.X.Apply(data[0].Date); got != 30 {
		t.Errorf("X(first) = %v, want 30", got)
	}
	if got := sc.X.Apply(data[2].Date); got != 420 {
		t.Errorf("X(last) = %v, want 420", got)
	}
	if sc.Y.Range != [2]float64{410, 0} {
		t.Errorf("Y range = %v, want [410 0]", sc.Y.Range)
	}
	if sc.Y.Domain[1]-sc.Y.Domain[0] <= 0 {
		t.Errorf("Y domain = %v, want increasing", sc.Y.Domain)
	}
}

func TestLegendLayout(t *testing.T) {
	r := newTestRenderer()
	r.Render(fullDataset(2))
	entries := r.Surface().Select("g", ClassLegend)
	for i, g := range entries {
		want := "translate(460," + []string{"150", "170", "190", "210", "230"}[i] + ")"
		if tr, _ := g.GetAttr("transform"); tr != want {
			t.Errorf("legend %d transform = %q, want %q", i, tr, want)
		}
		if txt := g.Find("text", "label").Text; txt != config.DefaultSeries[i] {
			t.Errorf("legend %d label = %q, want %q", i, txt, config.DefaultSeries[i])
		}
	}
}

func TestColorsAreConsistent(t *testing.T) {
	r := newTestRenderer()
	r.Render(fullDataset(2))
	s := r.Surface()
	for i, name := range config.DefaultSeries {
		want := config.DefaultPalette[i]
		layer, _ := s.Select("path", ClassLayer)[i].GetStyle("fill")
		swatch, _ := s.Select("g", ClassLegend)[i].Find("rect", "swatch").GetStyle("fill")
		if layer != want || swatch != want {
			t.Errorf("%s: layer %q swatch %q, want %q", name, layer, swatch, want)
		}
		if r.Hover(name, Pointer{}) {
			bar, _ := r.Overlay().Element().Find("rect", "bar").GetAttr("fill")
			if bar != want {
				t.Errorf("%s: bar fill %q, want %q", name, bar, want)
			}
		}
	}
}

func TestAxisLabelsAreMonths(t *testing.T) {
	r := newTestRenderer()
	r.Render(fullDataset(12))
	var labels []string
	for _, tg := range r.Surface().Find("g", ClassXAxis).Select("g", "tick") {
		labels = append(labels, tg.Find("text", "").Text)
	}
	want := "Jan,Feb,Mar,Apr,May,Jun,Jul,Aug,Sep,Oct,Nov,Dec"
	if strings.Join(labels, ",") != want {
		t.Errorf("axis labels = %v, want %s", labels, want)
	}
	if tr, _ := r.Surface().Find("g", ClassXAxis).GetAttr("transform"); tr != "translate(0,420)" {
		t.Errorf("axis transform = %q", tr)
	}
}

func TestMissingSeriesWarns(t *testing.T) {
	var buf bytes.Buffer
	r := New(config.DefaultChart(), WithLogger(log.New(&buf)))
	data := usage.Dataset{{Date: month(1), Values: map[string]float64{"GPT-4": 1, "Claude": 2}}}
	if !r.Render(data) {
		t.Fatal("Render() = false")
	}
	if !strings.Contains(buf.String(), "missing") {
		t.Errorf("log = %q, want a missing-series warning", buf.String())
	}
	if got := r.Surface().Count("path", ClassLayer); got != 5 {
		t.Errorf("layers = %d, want 5", got)
	}
}

func TestUnknownOffsetFallsBackToWiggle(t *testing.T) {
	cfg := config.DefaultChart()
	cfg.Offset = "bogus"
	r := New(cfg, WithLogger(log.New(&bytes.Buffer{})))
	r.Render(usage.Dataset{{Date: month(1), Values: map[string]float64{
		"GPT-4": 1, "Gemini": 1, "PaLM-2": 1, "Claude": 1, "LLaMA-3.1": 1,
	}}})
	if y0 := r.Stacked()[0].Points[0].Y0; y0 != 0 {
		t.Errorf("first baseline = %v, want 0 for a single wiggle record", y0)
	}
}

func TestSeriesAt(t *testing.T) {
	cfg := config.DefaultChart()
	cfg.Offset = "none"
	r := New(cfg, WithLogger(log.New(&bytes.Buffer{})))
	data := fullDataset(2)
	for _, rec := range data {
		for _, s := range config.DefaultSeries {
			rec.Values[s] = 10
		}
	}
	r.Render(data)

	y := r.Scales().Y
	tests := []struct {
		value float64
		want  string
	}{
		{5, "GPT-4"},
		{15, "Gemini"},
		{45, "LLaMA-3.1"},
		{60, ""},
	}
	for _, tt := range tests {
		if got := r.SeriesAt(30, y.Apply(tt.value)); got != tt.want {
			t.Errorf("SeriesAt(value %v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestTraceLayerMatchesSurface(t *testing.T) {
	r := newTestRenderer()
	r.Render(fullDataset(5))

	var b shape.PathBuilder
	if !r.TraceLayer(&b, "Claude") {
		t.Fatal("TraceLayer(Claude) = false")
	}
	d, _ := r.Surface().FindKey("Claude").GetAttr("d")
	if b.String() != d {
		t.Errorf("traced path differs from surface:\n%s\n%s", b.String(), d)
	}
	if r.TraceLayer(&b, "Mistral") {
		t.Error("TraceLayer(unknown) = true")
	}
}
