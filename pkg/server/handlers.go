package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	ds "github.com/starfederation/datastar-go/datastar"

	"github.com/matzehuels/llmstream/pkg/errors"
	"github.com/matzehuels/llmstream/pkg/pipeline"
	"github.com/matzehuels/llmstream/pkg/render/sink"
	"github.com/matzehuels/llmstream/pkg/render/streamgraph"
)

const (
	pageSignals = `{series: '', x: 0, y: 0, px: 0, py: 0}`
	hoverAction = `$series = evt.target.dataset.key || ''; $x = evt.offsetX; $y = evt.offsetY; $px = evt.pageX; $py = evt.pageY; @post('/hover')`
)

// hoverSignals is the signal state posted by the page. Series is the key of
// the layer under the pointer; when empty the layer is found from X and Y in
// chart coordinates. PX and PY are page coordinates for the overlay.
type hoverSignals struct {
	Series string  `json:"series"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	PX     float64 `json:"px"`
	PY     float64 `json:"py"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	id := clientID(w, r)
	rd := s.session(r.Context(), id)

	page := sink.RenderHTML(rd,
		sink.WithHead(DatastarScript),
		sink.WithOverlay(),
		sink.WithChartAttr("data-signals", pageSignals),
		sink.WithChartAttr("data-on-load", "@get('/events')"),
		sink.WithChartAttr("data-on-mousemove__throttle.50ms", hoverAction),
		sink.WithChartAttr("data-on-mouseleave", "@post('/leave')"),
	)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

// handleEvents holds a stream open and pushes the chart after each reload.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	id := clientID(w, r)
	rd, release := s.openStream(r.Context(), id)
	updates, unsubscribe := s.hub.Subscribe(id)
	defer func() {
		unsubscribe()
		release()
	}()

	sse := ds.NewSSE(w, r)
	if err := patchChart(sse, rd); err != nil {
		return
	}
	for {
		select {
		case <-r.Context().Done():
			return
		case <-updates:
			if err := patchChart(sse, rd); err != nil {
				s.logger.Debug("event stream closed", "client", id, "err", err)
				return
			}
		}
	}
}

func (s *Server) handleHover(w http.ResponseWriter, r *http.Request) {
	var sig hoverSignals
	if err := ds.ReadSignals(r, &sig); err != nil {
		s.logger.Warn("error reading signals", "err", err)
		http.Error(w, "bad signals", http.StatusBadRequest)
		return
	}
	rd := s.session(r.Context(), clientID(w, r))

	series := sig.Series
	if series == "" {
		series = rd.SeriesAt(sig.X, sig.Y)
	}
	if !rd.HoverContext(r.Context(), series, streamgraph.Pointer{X: sig.PX, Y: sig.PY}) {
		rd.LeaveContext(r.Context())
	}
	patchOverlay(ds.NewSSE(w, r), rd)
}

// handleLeave hides the overlay of a known client. Unknown clients have
// nothing on screen, so no session is created for them.
func (s *Server) handleLeave(w http.ResponseWriter, r *http.Request) {
	id, ok := cookieID(r)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	rd, ok := s.lookup(id)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	rd.LeaveContext(r.Context())
	patchOverlay(ds.NewSSE(w, r), rd)
}

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatHTML: "text/html; charset=utf-8",
}

// handleArtifact serves a static export of the current dataset through the
// runner's cache.
func (s *Server) handleArtifact(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		http.Error(w, errors.UserMessage(err), http.StatusNotFound)
		return
	}
	res, err := s.runner.Execute(r.Context(), s.Data(), pipeline.Options{
		Formats:  []string{format},
		Tooltips: r.URL.Query().Get("tooltips") != "false",
		Chart:    s.opts.Chart,
		Tooltip:  s.opts.Tooltip,
		Logger:   s.logger,
	})
	if err != nil {
		s.logger.Error("render artifact", "format", format, "err", err)
		http.Error(w, errors.UserMessage(err), http.StatusInternalServerError)
		return
	}
	if res.Empty {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	_, _ = w.Write(res.Artifacts[format])
}

func patchChart(sse *ds.ServerSentEventGenerator, rd *streamgraph.Renderer) error {
	return sse.PatchElements(rd.SVG(), ds.WithSelector("#chart"), ds.WithModeInner())
}

func patchOverlay(sse *ds.ServerSentEventGenerator, rd *streamgraph.Renderer) {
	_ = sse.PatchElements(rd.OverlayHTML())
}
