package sink

import (
	"bytes"
	"fmt"
	"html"

	"github.com/matzehuels/llmstream/pkg/render/streamgraph"
)

const pageCSS = `
    body { font-family: sans-serif; margin: 0; padding: 24px; }
    #chart { width: %gpx; height: %gpx; display: flex; justify-content: center; align-items: center; }
    %s`

const overlayJS = `
    document.querySelectorAll('svg.streamgraph path.layer').forEach(el => {
      const tip = document.querySelector('.tooltip[data-for="' + el.dataset.key + '"]');
      if (!tip) return;
      const move = (evt) => {
        tip.style.left = (evt.pageX + %g) + 'px';
        tip.style.top = (evt.pageY + %g) + 'px';
        if (tip.style.display !== 'block') {
          tip.style.display = 'block';
          tip.style.animation = 'tooltip-fade %dms ease-in';
        }
      };
      el.addEventListener('mouseover', move);
      el.addEventListener('mousemove', move);
      el.addEventListener('mouseout', () => { tip.style.display = 'none'; });
    });`

// HTMLOption configures HTML rendering.
type HTMLOption func(*htmlRenderer)

type htmlRenderer struct {
	title    string
	head     []string
	tooltips bool
	overlay  bool
	attrs    [][2]string
}

// WithTitle sets the page title.
func WithTitle(t string) HTMLOption { return func(r *htmlRenderer) { r.title = t } }

// WithHead appends raw markup to the page head, e.g. a script tag.
func WithHead(markup string) HTMLOption {
	return func(r *htmlRenderer) { r.head = append(r.head, markup) }
}

// WithHTMLTooltips embeds one hidden overlay per series and the script that
// shows them on hover.
func WithHTMLTooltips() HTMLOption { return func(r *htmlRenderer) { r.tooltips = true } }

// WithOverlay includes the renderer's own overlay in its current state. Hosts
// that drive the overlay remotely patch this element.
func WithOverlay() HTMLOption { return func(r *htmlRenderer) { r.overlay = true } }

// WithChartAttr sets an attribute on the element wrapping the chart.
func WithChartAttr(name, value string) HTMLOption {
	return func(r *htmlRenderer) { r.attrs = append(r.attrs, [2]string{name, value}) }
}

// RenderHTML renders a page hosting the chart.
func RenderHTML(r *streamgraph.Renderer, opts ...HTMLOption) []byte {
	h := htmlRenderer{title: "LLM usage"}
	for _, opt := range opts {
		opt(&h)
	}
	cfg, tip := r.Config(), r.Tooltip()

	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	buf.WriteString("  <meta charset=\"utf-8\">\n")
	fmt.Fprintf(&buf, "  <title>%s</title>\n", html.EscapeString(h.title))
	fmt.Fprintf(&buf, "  <style>"+pageCSS+"\n  </style>\n", cfg.Width, cfg.Height, streamgraph.FadeCSS)
	for _, m := range h.head {
		buf.WriteString("  " + m + "\n")
	}
	buf.WriteString("</head>\n<body>\n<div id=\"chart\"")
	for _, a := range h.attrs {
		fmt.Fprintf(&buf, " %s=\"%s\"", a[0], html.EscapeString(a[1]))
	}
	buf.WriteString(">\n")
	buf.WriteString(r.SVG())
	buf.WriteString("</div>\n")

	if h.overlay {
		buf.WriteString(r.OverlayHTML())
	}
	if h.tooltips && len(r.Data()) > 0 {
		color := r.Scales().Color
		for _, series := range cfg.Series {
			o := streamgraph.NewOverlay(tip)
			o.Update(series, r.Data(), color.Color(series))
			el := o.Element()
			el.RemoveAttr("id")
			el.Attr("data-for", series)
			buf.WriteString(el.HTML())
		}
		fmt.Fprintf(&buf, "<script>"+overlayJS+"\n</script>\n", tip.OffsetX, tip.OffsetY, tip.FadeDurationMS)
	}
	buf.WriteString("</body>\n</html>\n")
	return buf.Bytes()
}
