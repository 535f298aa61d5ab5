// Package streamgraph renders language-model usage as an interactive
// streamgraph.
//
// # Overview
//
// A [Renderer] owns a drawing surface (a [scene.Element] tree standing in for
// the chart's SVG) and a hover [Overlay]. Each call to [Renderer.Render]
// stacks the configured series with the configured offset (wiggle by
// default), fits a time scale and a value scale to the stacked layers, and
// brings the surface up to date:
//
//   - one filled area per series, keyed by series name, traced with a
//     cardinal curve
//   - one legend entry per series: a 15×15 swatch and the series name
//   - a time axis along the bottom, labelled with month abbreviations
//
// Every element is joined by key, so rendering again updates the existing
// elements instead of adding new ones. Rendering an empty dataset does
// nothing.
//
//	r := streamgraph.New(cfg.Chart, streamgraph.WithTooltip(cfg.Tooltip))
//	if !r.Render(data) {
//	    return // nothing to draw
//	}
//	svg := r.SVG()
//
// # Tooltip
//
// [Renderer.Hover] fills the overlay with a [MiniChart] of one series (one bar
// per record, coloured like the series' area) and shows it next to the
// pointer. [Renderer.Leave] hides it again; its content stays until the next
// hover rebuilds it.
//
// Hosts decide how pointer events arrive: the SVG sink embeds pre-built
// tooltips and a script, the server forwards browser events, and the terminal
// explorer maps its cursor onto series.
package streamgraph
