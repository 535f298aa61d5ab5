// Package sink provides output format renderers for streamgraphs.
//
// # Overview
//
// A "sink" turns a [streamgraph.Renderer] that has already drawn a dataset
// into a final output format:
//
//   - SVG: the chart surface, optionally with hover tooltips embedded
//   - HTML: a page hosting the chart and tooltip overlays
//   - PNG: a raster image drawn with fogleman/gg
//   - JSON: stacked layers, scales and colours for external tools
//
// Basic usage:
//
//	r := streamgraph.New(cfg.Chart)
//	if !r.Render(data) {
//	    return nil // empty dataset, nothing to export
//	}
//	svg := sink.RenderSVG(r, sink.WithTooltips())
//
// # Embedded Tooltips
//
// With [WithTooltips], [RenderSVG] and [RenderHTML] pre-build one mini chart
// per series and hide it. A small script shows the matching one next to the
// pointer while it is over a layer, so the exported file keeps the hover
// behaviour without a server.
//
// [streamgraph.Renderer]: github.com/matzehuels/llmstream/pkg/render/streamgraph.Renderer
package sink
