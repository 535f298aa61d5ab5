// Package render groups the chart renderers.
//
// # Overview
//
//   - [streamgraph]: the stateful renderer that draws stacked layers, the
//     legend, the time axis and the hover overlay onto a scene tree
//   - [axis]: time-axis ticks shared by the SVG surface and the PNG sink
//   - [sink]: output formats (SVG, HTML, PNG, JSON) for a drawn renderer
//
// Typical usage:
//
//	r := streamgraph.New(cfg.Chart)
//	if !r.Render(data) {
//	    return nil
//	}
//	png, err := sink.RenderPNG(r, sink.WithScale(2))
//
// [streamgraph]: https://pkg.go.dev/github.com/matzehuels/llmstream/pkg/render/streamgraph
// [axis]: https://pkg.go.dev/github.com/matzehuels/llmstream/pkg/render/axis
// [sink]: https://pkg.go.dev/github.com/matzehuels/llmstream/pkg/render/sink
package render
