package sink

import (
	"github.com/matzehuels/llmstream/pkg/render/streamgraph"
	"github.com/matzehuels/llmstream/pkg/scene"
)

const layerInteractionCSS = `
    .layer { transition: opacity 0.15s ease; cursor: pointer; }
    .streamgraph:hover .layer { opacity: 0.85; }
    .streamgraph .layer:hover { opacity: 1; }`

const popupCSS = `
    .popup { pointer-events: none; }`

const popupJS = `
    const svg = document.querySelector('svg.streamgraph');
    const vb = svg.viewBox.baseVal;
    const toLocal = (evt) => {
      const pt = svg.createSVGPoint();
      pt.x = evt.clientX; pt.y = evt.clientY;
      return pt.matrixTransform(svg.getScreenCTM().inverse());
    };
    svg.querySelectorAll('path.layer').forEach(el => {
      const popup = svg.querySelector('.popup[data-for="' + el.dataset.key + '"]');
      if (!popup) return;
      const move = (evt) => {
        const p = toLocal(evt);
        const box = popup.getBBox();
        let x = p.x + 10, y = p.y + 10;
        if (x + box.width > vb.x + vb.width) x = p.x - box.width - 10;
        if (y + box.height > vb.y + vb.height) y = vb.y + vb.height - box.height;
        popup.setAttribute('transform', 'translate(' + x.toFixed(1) + ',' + y.toFixed(1) + ')');
        popup.setAttribute('visibility', 'visible');
      };
      el.addEventListener('mouseover', move);
      el.addEventListener('mousemove', move);
      el.addEventListener('mouseout', () => popup.setAttribute('visibility', 'hidden'));
    });`

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	tooltips bool
}

// WithTooltips embeds one hidden mini chart per series and the script that
// shows them on hover.
func WithTooltips() SVGOption { return func(r *svgRenderer) { r.tooltips = true } }

// RenderSVG serialises the renderer's surface as a standalone SVG document.
func RenderSVG(r *streamgraph.Renderer, opts ...SVGOption) []byte {
	s := svgRenderer{}
	for _, opt := range opts {
		opt(&s)
	}

	root := r.Surface().Clone()
	addStyle(root, layerInteractionCSS)
	if s.tooltips && len(r.Data()) > 0 {
		for _, series := range r.Config().Series {
			if m := r.MiniChart(series); m != nil {
				root.AppendChild(buildPopup(m))
			}
		}
		addStyle(root, popupCSS)
		addScript(root, popupJS)
	}
	return []byte(root.String())
}

// buildPopup wraps a mini chart in a hidden SVG group styled like the HTML
// overlay: white card, grey border, rounded corners, bold title.
func buildPopup(m *streamgraph.MiniChart) *scene.Element {
	const pad, title = 10.0, 20.0
	g := scene.New("g").Class("popup").
		Attr("data-for", m.Series).
		Attr("visibility", "hidden")
	g.Append("rect").
		Attr("width", m.Width+2*pad).
		Attr("height", m.Height+title+2*pad).
		Attr("rx", 4).
		Attr("fill", "white").
		Attr("stroke", "#ccc").
		Style("filter", "drop-shadow(0 2px 4px rgba(0,0,0,0.2))")
	g.Append("text").
		Attr("x", pad).
		Attr("y", pad+12).
		Attr("font-weight", "bold").
		Attr("font-size", 12).
		Attr("font-family", "sans-serif").
		SetText(m.Series)
	chart := m.Element().Attr("x", pad).Attr("y", pad+title)
	g.AppendChild(chart)
	return g
}

func addStyle(root *scene.Element, css string) {
	root.Append("style").Raw = css + "\n  "
}

func addScript(root *scene.Element, js string) {
	root.Append("script").Attr("type", "text/javascript").Raw = "<![CDATA[" + js + "\n  ]]>"
}
