package sink

import (
	"bytes"
	"math"

	"github.com/fogleman/gg"

	"github.com/matzehuels/llmstream/pkg/render/axis"
	"github.com/matzehuels/llmstream/pkg/render/streamgraph"
	"github.com/matzehuels/llmstream/pkg/usage"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale      float64
	background string
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithBackground sets the fill behind the chart (default white).
func WithBackground(hex string) PNGOption {
	return func(r *pngRenderer) { r.background = hex }
}

// RenderPNG rasterises the chart: layer areas, legend and time axis.
func RenderPNG(r *streamgraph.Renderer, opts ...PNGOption) ([]byte, error) {
	p := pngRenderer{scale: 2.0, background: "#ffffff"}
	for _, opt := range opts {
		opt(&p)
	}
	cfg := r.Config()

	dc := gg.NewContext(int(math.Ceil(cfg.Width*p.scale)), int(math.Ceil(cfg.Height*p.scale)))
	dc.SetHexColor(p.background)
	dc.Clear()
	dc.Scale(p.scale, p.scale)

	if len(r.Data()) > 0 {
		color := r.Scales().Color
		for _, series := range cfg.Series {
			dc.NewSubPath()
			if r.TraceLayer(dc, series) {
				dc.SetHexColor(color.Color(series))
				dc.Fill()
			}
		}
		drawLegend(dc, r)
		drawTimeAxis(dc, r)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawLegend(dc *gg.Context, r *streamgraph.Renderer) {
	cfg := r.Config()
	color := r.Scales().Color
	for i, series := range cfg.Series {
		x, y := cfg.LegendX, cfg.LegendY+float64(i)*cfg.LegendStep
		dc.DrawRectangle(x, y, 15, 15)
		dc.SetHexColor(color.Color(series))
		dc.Fill()
		dc.SetHexColor("#000000")
		dc.DrawString(series, x+20, y+12)
	}
}

func drawTimeAxis(dc *gg.Context, r *streamgraph.Renderer) {
	cfg := r.Config()
	y := cfg.AxisY
	dc.SetHexColor("#000000")
	dc.SetLineWidth(1)
	dc.MoveTo(cfg.XRange[0], y+axis.TickSize)
	dc.LineTo(cfg.XRange[0], y)
	dc.LineTo(cfg.XRange[1], y)
	dc.LineTo(cfg.XRange[1], y+axis.TickSize)
	dc.Stroke()
	for _, t := range axis.TimeTicks(r.Scales().X, cfg.XTicks, usage.MonthLabel) {
		dc.DrawLine(t.Pos, y, t.Pos, y+axis.TickSize)
		dc.Stroke()
		dc.DrawStringAnchored(t.Label, t.Pos, y+axis.TickSize+axis.TickPadding, 0.5, 1)
	}
}
