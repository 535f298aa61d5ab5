package streamgraph

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/llmstream/pkg/config"
	"github.com/matzehuels/llmstream/pkg/observability"
	"github.com/matzehuels/llmstream/pkg/render/axis"
	"github.com/matzehuels/llmstream/pkg/scale"
	"github.com/matzehuels/llmstream/pkg/scene"
	"github.com/matzehuels/llmstream/pkg/shape"
	"github.com/matzehuels/llmstream/pkg/stack"
	"github.com/matzehuels/llmstream/pkg/usage"
)

// Element classes on the chart surface.
const (
	ClassLayer  = "layer"
	ClassLegend = "legend"
	ClassXAxis  = "x-axis"
)

// Scales are the scales fitted by the last render.
type Scales struct {
	X     scale.Time     // record date to horizontal pixel
	Y     scale.Linear   // stacked value to vertical pixel
	Color *scale.Ordinal // series name to fill colour
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger used for dataset warnings.
func WithLogger(l *log.Logger) Option {
	return func(r *Renderer) { r.logger = l }
}

// WithTooltip sets the mini chart configuration.
func WithTooltip(t config.Tooltip) Option {
	return func(r *Renderer) { r.tip = t }
}

// Renderer draws a streamgraph onto a surface it owns. It is safe for
// concurrent use.
type Renderer struct {
	mu      sync.Mutex
	cfg     config.Chart
	tip     config.Tooltip
	logger  *log.Logger
	offset  stack.Offset
	curve   shape.Curve
	surface *scene.Element
	overlay *Overlay

	data    usage.Dataset
	layers  []stack.Series
	scales  Scales
	renders int
}

// New returns a renderer with an empty surface of the configured size.
// An unknown offset name falls back to wiggle.
func New(cfg config.Chart, opts ...Option) *Renderer {
	r := &Renderer{
		cfg:    cfg,
		tip:    config.DefaultTooltip(),
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.offset = stack.ByName(cfg.Offset)
	if r.offset == nil {
		r.offset = stack.Wiggle
	}
	r.curve = shape.Cardinal{Tension: cfg.Tension}
	r.surface = scene.New("svg").
		Attr("xmlns", "http://www.w3.org/2000/svg").
		Attr("class", "streamgraph").
		Attr("width", cfg.Width).
		Attr("height", cfg.Height).
		Attr("viewBox", "0 0 "+shape.Num(cfg.Width)+" "+shape.Num(cfg.Height))
	r.overlay = NewOverlay(r.tip)
	return r
}

// Render draws data and reports whether anything was drawn. Nil or empty
// data leaves the surface untouched.
func (r *Renderer) Render(data usage.Dataset) bool {
	return r.RenderContext(context.Background(), data)
}

// RenderContext is Render with a context for observability hooks.
func (r *Renderer) RenderContext(ctx context.Context, data usage.Dataset) bool {
	if data.Empty() {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	hooks := observability.Render()
	hooks.OnRenderStart(ctx, len(data), len(r.cfg.Series))

	if missing := data.Missing(r.cfg.Series); len(missing) > 0 {
		r.logger.Warn("series missing from dataset", "missing", missing, "columns", data.Columns())
	}

	layers := stack.Stack(data, r.cfg.Series, r.offset)
	lo, hi := stack.Extent(layers)
	d0, d1 := data.DateExtent()
	sc := Scales{
		X:     scale.NewTime(d0, d1, r.cfg.XRange[0], r.cfg.XRange[1]),
		Y:     scale.NewLinear(lo, hi, r.cfg.YRange[0], r.cfg.YRange[1]),
		Color: scale.NewOrdinal(r.cfg.Series, r.cfg.Palette),
	}

	r.data, r.layers, r.scales = data, layers, sc
	r.drawLayers()
	r.drawLegend(sc.Color)
	r.drawAxis(sc.X)

	r.renders++
	r.logger.Debug("rendered streamgraph", "records", len(data), "series", len(layers), "render", r.renders)
	hooks.OnRenderComplete(ctx, len(data), len(layers), time.Since(start))
	return true
}

func (r *Renderer) drawLayers() {
	keys := make([]string, len(r.layers))
	for i, l := range r.layers {
		keys[i] = l.Key
	}
	for i, p := range r.surface.Join("path", ClassLayer, keys) {
		l := r.layers[i]
		p.Style("fill", r.scales.Color.Color(l.Key)).
			Attr("d", r.area(l).Path(len(l.Points)))
	}
}

func (r *Renderer) drawLegend(color *scale.Ordinal) {
	for i, g := range r.surface.Join("g", ClassLegend, r.cfg.Series) {
		name := r.cfg.Series[i]
		y := r.cfg.LegendY + float64(i)*r.cfg.LegendStep
		g.Attr("transform", "translate("+shape.Num(r.cfg.LegendX)+","+shape.Num(y)+")")
		g.JoinOne("rect", "swatch", "swatch").
			Attr("width", 15).
			Attr("height", 15).
			Style("fill", color.Color(name))
		g.JoinOne("text", "label", "label").
			Attr("x", 20).
			Attr("y", 12).
			Style("font-size", "12px").
			SetText(name)
	}
}

func (r *Renderer) drawAxis(x scale.Time) {
	ticks := axis.TimeTicks(x, r.cfg.XTicks, usage.MonthLabel)
	g := axis.Bottom(r.surface, ClassXAxis, [2]float64{r.cfg.XRange[0], r.cfg.XRange[1]}, ticks)
	g.Attr("transform", "translate(0,"+shape.Num(r.cfg.AxisY)+")")
}

// Hover rebuilds the overlay for series and shows it at p. It reports false
// when nothing has been rendered yet or series is not drawn.
func (r *Renderer) Hover(series string, p Pointer) bool {
	return r.HoverContext(context.Background(), series, p)
}

// HoverContext is Hover with a context for observability hooks.
func (r *Renderer) HoverContext(ctx context.Context, series string, p Pointer) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.data.Empty() || !slices.Contains(r.cfg.Series, series) {
		return false
	}
	r.overlay.Update(series, r.data, r.scales.Color.Color(series))
	r.overlay.Show(p)
	observability.Hover().OnHover(ctx, series)
	return true
}

// Leave hides the overlay.
func (r *Renderer) Leave() {
	r.LeaveContext(context.Background())
}

// LeaveContext is Leave with a context for observability hooks.
func (r *Renderer) LeaveContext(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overlay.Hide()
	observability.Hover().OnLeave(ctx)
}

// MiniChart builds the tooltip chart for series from the last rendered data
// without touching the overlay. It returns nil before the first render.
func (r *Renderer) MiniChart(series string) *MiniChart {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.data.Empty() {
		return nil
	}
	return NewMiniChart(r.tip, series, r.data, r.scales.Color.Color(series))
}

// TraceLayer draws the area of series onto p as computed by the last
// render. It reports false when series was not drawn.
func (r *Renderer) TraceLayer(p shape.Path, series string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.layers {
		if l.Key == series {
			r.area(l).Draw(p, len(l.Points))
			return true
		}
	}
	return false
}

func (r *Renderer) area(l stack.Series) shape.Area {
	data, sc, pts := r.data, r.scales, l.Points
	return shape.Area{
		X:     func(j int) float64 { return sc.X.Apply(data[j].Date) },
		Y0:    func(j int) float64 { return sc.Y.Apply(pts[j].Y0) },
		Y1:    func(j int) float64 { return sc.Y.Apply(pts[j].Y1) },
		Curve: r.curve,
	}
}

// Overlay returns the tooltip overlay.
func (r *Renderer) Overlay() *Overlay { return r.overlay }

// Surface returns the chart's element tree.
func (r *Renderer) Surface() *scene.Element { return r.surface }

// Stacked returns the layers computed by the last render.
func (r *Renderer) Stacked() []stack.Series {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.layers
}

// Scales returns the scales fitted by the last render.
func (r *Renderer) Scales() Scales {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scales
}

// Data returns the dataset drawn by the last render.
func (r *Renderer) Data() usage.Dataset {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.data
}

// Config returns the chart configuration.
func (r *Renderer) Config() config.Chart { return r.cfg }

// Tooltip returns the mini chart configuration.
func (r *Renderer) Tooltip() config.Tooltip { return r.tip }

// Renders returns how many renders have drawn data.
func (r *Renderer) Renders() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.renders
}

// SVG serialises the surface.
func (r *Renderer) SVG() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.surface.String()
}

// OverlayHTML serialises the overlay.
func (r *Renderer) OverlayHTML() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.overlay.root.HTML()
}

// SeriesAt returns the series whose area covers the surface point (x, y),
// or "" when the point is outside every layer. The nearest record column is
// used for the lookup.
func (r *Renderer) SeriesAt(x, y float64) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.data.Empty() {
		return ""
	}
	j := r.nearestRecord(x)
	v := r.scales.Y.Invert(y)
	for _, l := range r.layers {
		p := l.Points[j]
		lo, hi := min(p.Y0, p.Y1), max(p.Y0, p.Y1)
		if v >= lo && v <= hi {
			return l.Key
		}
	}
	return ""
}

func (r *Renderer) nearestRecord(x float64) int {
	best, bestDist := 0, -1.0
	for j, rec := range r.data {
		d := r.scales.X.Apply(rec.Date) - x
		if d < 0 {
			d = -d
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = j, d
		}
	}
	return best
}
