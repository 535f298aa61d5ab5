package sink

import (
	"math"
	"time"

	"github.com/bytedance/sonic"

	"github.com/matzehuels/llmstream/pkg/render/streamgraph"
)

type jsonOutput struct {
	Width   float64     `json:"width"`
	Height  float64     `json:"height"`
	Offset  string      `json:"offset"`
	Records int         `json:"records"`
	X       jsonTime    `json:"x"`
	Y       jsonLinear  `json:"y"`
	Dates   []string    `json:"dates"`
	Layers  []jsonLayer `json:"layers"`
}

type jsonTime struct {
	Domain [2]string  `json:"domain"`
	Range  [2]float64 `json:"range"`
}

type jsonLinear struct {
	Domain [2]*float64 `json:"domain"`
	Range  [2]float64  `json:"range"`
}

type jsonLayer struct {
	Key    string        `json:"key"`
	Color  string        `json:"color"`
	Values []*float64    `json:"values"`
	Points [][2]*float64 `json:"points"`
}

// RenderJSON exports the last render: scales, dates and one entry per layer
// with its raw values and stacked [y0, y1] points. Missing and non-finite
// numbers are written as null.
func RenderJSON(r *streamgraph.Renderer) ([]byte, error) {
	cfg := r.Config()
	data := r.Data()
	sc := r.Scales()

	out := jsonOutput{
		Width:   cfg.Width,
		Height:  cfg.Height,
		Offset:  cfg.Offset,
		Records: len(data),
		Dates:   make([]string, len(data)),
		Layers:  []jsonLayer{},
	}
	for i, rec := range data {
		out.Dates[i] = rec.Date.Format(time.DateOnly)
	}
	if len(data) > 0 {
		out.X = jsonTime{
			Domain: [2]string{sc.X.Domain[0].Format(time.RFC3339), sc.X.Domain[1].Format(time.RFC3339)},
			Range:  sc.X.Range,
		}
		out.Y = jsonLinear{
			Domain: [2]*float64{num(sc.Y.Domain[0]), num(sc.Y.Domain[1])},
			Range:  sc.Y.Range,
		}
	}
	for _, l := range r.Stacked() {
		layer := jsonLayer{
			Key:    l.Key,
			Color:  sc.Color.Color(l.Key),
			Values: make([]*float64, len(l.Points)),
			Points: make([][2]*float64, len(l.Points)),
		}
		for j, p := range l.Points {
			layer.Values[j] = num(data[j].Value(l.Key))
			layer.Points[j] = [2]*float64{num(p.Y0), num(p.Y1)}
		}
		out.Layers = append(out.Layers, layer)
	}
	return sonic.ConfigStd.MarshalIndent(out, "", "  ")
}

func num(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
