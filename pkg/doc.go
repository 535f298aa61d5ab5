// Package pkg provides the libraries behind llmstream, an interactive
// streamgraph of language-model usage over time.
//
// # Overview
//
// The pkg directory is organized by stage:
//
//  1. [usage] - Dataset types and CSV/JSON decoding
//  2. [source] - Where datasets come from (files, MongoDB) and file watching
//  3. [stack], [scale], [shape], [scene] - Chart primitives
//  4. [render] - The streamgraph renderer and its output sinks
//  5. [pipeline] - Load, draw and export with artifact caching
//  6. [server] - The live chart served over Datastar server-sent events
//
// # Architecture
//
// The typical data flow:
//
//	CSV / JSON / MongoDB
//	         ↓
//	    [source] package (load a usage.Dataset)
//	         ↓
//	    [render/streamgraph] package (stack, scale, draw, hover)
//	         ↓
//	    [render/sink] package (SVG, HTML, PNG, JSON)
//
// # Quick Start
//
//	data, _ := usage.ReadFile("usage.csv")
//	r := streamgraph.New(config.DefaultChart())
//	if r.Render(data) {
//	    svg := sink.RenderSVG(r, sink.WithTooltips())
//	    _ = os.WriteFile("usage.svg", svg, 0o644)
//	}
//
// # Infrastructure
//
// [cache] - Artifact and dataset caching (null, file, Redis backends).
//
// [config] - TOML configuration for chart, tooltip, cache and source.
//
// [errors] - Coded errors shared by every package.
//
// [observability] - Hook registry for pipeline, cache and source events.
//
// [usage]: https://pkg.go.dev/github.com/matzehuels/llmstream/pkg/usage
// [source]: https://pkg.go.dev/github.com/matzehuels/llmstream/pkg/source
// [stack]: https://pkg.go.dev/github.com/matzehuels/llmstream/pkg/stack
// [scale]: https://pkg.go.dev/github.com/matzehuels/llmstream/pkg/scale
// [shape]: https://pkg.go.dev/github.com/matzehuels/llmstream/pkg/shape
// [scene]: https://pkg.go.dev/github.com/matzehuels/llmstream/pkg/scene
// [render]: https://pkg.go.dev/github.com/matzehuels/llmstream/pkg/render
// [render/streamgraph]: https://pkg.go.dev/github.com/matzehuels/llmstream/pkg/render/streamgraph
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/llmstream/pkg/render/sink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/llmstream/pkg/pipeline
// [server]: https://pkg.go.dev/github.com/matzehuels/llmstream/pkg/server
// [cache]: https://pkg.go.dev/github.com/matzehuels/llmstream/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/llmstream/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/llmstream/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/llmstream/pkg/observability
package pkg
