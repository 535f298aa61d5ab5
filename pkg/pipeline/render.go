package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/llmstream/pkg/render/sink"
	"github.com/matzehuels/llmstream/pkg/render/streamgraph"
	"github.com/matzehuels/llmstream/pkg/usage"
)

// Draw renders data onto a fresh renderer. The boolean is false when data is
// empty and nothing was drawn.
func Draw(ctx context.Context, data usage.Dataset, opts Options) (*streamgraph.Renderer, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r := streamgraph.New(opts.Chart,
		streamgraph.WithTooltip(opts.Tooltip),
		streamgraph.WithLogger(opts.Logger))
	return r, r.RenderContext(ctx, data), nil
}

// Export serialises an already drawn renderer in every requested format.
func Export(r *streamgraph.Renderer, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := exportFormat(r, format, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func exportFormat(r *streamgraph.Renderer, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		var svgOpts []sink.SVGOption
		if opts.Tooltips {
			svgOpts = append(svgOpts, sink.WithTooltips())
		}
		return sink.RenderSVG(r, svgOpts...), nil
	case FormatHTML:
		var htmlOpts []sink.HTMLOption
		if opts.Title != "" {
			htmlOpts = append(htmlOpts, sink.WithTitle(opts.Title))
		}
		if opts.Tooltips {
			htmlOpts = append(htmlOpts, sink.WithHTMLTooltips())
		}
		return sink.RenderHTML(r, htmlOpts...), nil
	case FormatPNG:
		return sink.RenderPNG(r, sink.WithScale(opts.Scale))
	case FormatJSON:
		return sink.RenderJSON(r)
	default:
		return nil, ValidateFormat(format)
	}
}

// Render draws data and exports every requested format without caching.
// An empty dataset yields a nil map.
func Render(ctx context.Context, data usage.Dataset, opts Options) (map[string][]byte, error) {
	r, drawn, err := Draw(ctx, data, opts)
	if err != nil || !drawn {
		return nil, err
	}
	return Export(r, opts)
}
