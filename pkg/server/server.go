// Package server serves the streamgraph to browsers and keeps it live.
//
// The page is rendered on the server. Hover and leave events are posted
// back and answered with a patch of the tooltip overlay; dataset reloads are
// pushed to every open page over a server-sent event stream. Both use the
// Datastar protocol, so the page carries no application script of its own.
//
// Each browser gets its own [streamgraph.Renderer], keyed by a client cookie,
// so one visitor's hover state never leaks into another's page.
package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/llmstream/pkg/config"
	"github.com/matzehuels/llmstream/pkg/pipeline"
	"github.com/matzehuels/llmstream/pkg/render/streamgraph"
	"github.com/matzehuels/llmstream/pkg/source"
	"github.com/matzehuels/llmstream/pkg/usage"
)

// DatastarScript loads the Datastar client.
const DatastarScript = `<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.5/bundles/datastar.js"></script>`

// Options configures a Server.
type Options struct {
	Chart   config.Chart
	Tooltip config.Tooltip

	// Watch re-reads file sources when they change.
	Watch    bool
	Debounce time.Duration

	// MaxSessions caps the number of client renderers kept in memory.
	// SessionTTL evicts renderers of clients without an open event stream
	// that have been idle for longer.
	MaxSessions int
	SessionTTL  time.Duration

	Logger *log.Logger
}

// Server hosts the live chart.
type Server struct {
	opts   Options
	runner *pipeline.Runner
	src    source.Source
	logger *log.Logger
	hub    *Hub
	router chi.Router

	mu       sync.RWMutex
	data     usage.Dataset
	sessions map[string]*session
	now      func() time.Time
}

// session is one client's renderer. streams counts open event streams;
// a session with a stream is never evicted.
type session struct {
	r       *streamgraph.Renderer
	seen    time.Time
	streams int
}

// New creates a server. src may be nil when data is supplied with SetData.
func New(runner *pipeline.Runner, src source.Source, opts Options) *Server {
	if opts.Chart.Width == 0 && len(opts.Chart.Series) == 0 {
		opts.Chart = config.DefaultChart()
	}
	if opts.Tooltip.Width == 0 {
		opts.Tooltip = config.DefaultTooltip()
	}
	if opts.Debounce == 0 {
		opts.Debounce = 200 * time.Millisecond
	}
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = 256
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 15 * time.Minute
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, opts.Logger)
	}
	s := &Server{
		opts:     opts,
		runner:   runner,
		src:      src,
		logger:   opts.Logger,
		hub:      NewHub(),
		sessions: make(map[string]*session),
		now:      time.Now,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.handleIndex)
	r.Get("/events", s.handleEvents)
	r.Post("/hover", s.handleHover)
	r.Post("/leave", s.handleLeave)
	r.Get("/chart.{format}", s.handleArtifact)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Hub returns the redraw hub.
func (s *Server) Hub() *Hub { return s.hub }

// Data returns the current dataset.
func (s *Server) Data() usage.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// SetData replaces the dataset, redraws every session and notifies open
// pages.
func (s *Server) SetData(ctx context.Context, data usage.Dataset) {
	s.mu.Lock()
	s.data = data
	for _, sess := range s.sessions {
		sess.r.RenderContext(ctx, data)
	}
	s.mu.Unlock()
	s.hub.Broadcast()
}

// Reload reads the source again and applies the result.
func (s *Server) Reload(ctx context.Context) error {
	if s.src == nil {
		return nil
	}
	data, _, err := s.runner.Load(ctx, s.src, true)
	if err != nil {
		return err
	}
	s.logger.Info("dataset loaded", "source", s.src.Name(), "records", len(data))
	s.SetData(ctx, data)
	return nil
}

// session returns the renderer for a client, creating and drawing it on
// first use. Creating a session may evict idle ones to stay under
// MaxSessions.
func (s *Server) session(ctx context.Context, id string) *streamgraph.Renderer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.acquire(ctx, id).r
}

// lookup returns the renderer of a known client without creating one.
func (s *Server) lookup(id string) (*streamgraph.Renderer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	sess.seen = s.now()
	return sess.r, true
}

// openStream pins a client's session while its event stream is open. The
// returned func unpins it.
func (s *Server) openStream(ctx context.Context, id string) (*streamgraph.Renderer, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.acquire(ctx, id)
	sess.streams++
	return sess.r, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		sess.streams--
		sess.seen = s.now()
	}
}

// acquire must be called with s.mu held.
func (s *Server) acquire(ctx context.Context, id string) *session {
	now := s.now()
	if sess, ok := s.sessions[id]; ok {
		sess.seen = now
		return sess
	}
	if len(s.sessions) >= s.opts.MaxSessions {
		s.evict(now)
	}
	sess := &session{
		r: streamgraph.New(s.opts.Chart,
			streamgraph.WithTooltip(s.opts.Tooltip),
			streamgraph.WithLogger(s.logger.With("client", id[:8]))),
		seen: now,
	}
	sess.r.RenderContext(ctx, s.data)
	s.sessions[id] = sess
	return sess
}

// evict drops expired sessions, then the least recently seen idle ones
// until there is room for one more. Must be called with s.mu held.
func (s *Server) evict(now time.Time) {
	s.expire(now)
	for len(s.sessions) >= s.opts.MaxSessions {
		oldest := ""
		for id, sess := range s.sessions {
			if sess.streams > 0 {
				continue
			}
			if oldest == "" || sess.seen.Before(s.sessions[oldest].seen) {
				oldest = id
			}
		}
		if oldest == "" {
			return
		}
		delete(s.sessions, oldest)
	}
}

func (s *Server) expire(now time.Time) int {
	n := 0
	for id, sess := range s.sessions {
		if sess.streams == 0 && now.Sub(sess.seen) > s.opts.SessionTTL {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// Prune drops sessions idle for longer than SessionTTL and returns how many
// were removed.
func (s *Server) Prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expire(s.now())
}

// Sessions returns the number of live renderers.
func (s *Server) Sessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Run loads the dataset, starts the watcher if enabled and serves addr until
// ctx is done.
func (s *Server) Run(ctx context.Context, addr string) error {
	if err := s.Reload(ctx); err != nil {
		return err
	}
	if f, ok := s.src.(*source.File); ok && s.opts.Watch {
		w, err := source.NewWatcher(f.Path, s.opts.Debounce, s.logger)
		if err != nil {
			return err
		}
		defer w.Close()
		go func() {
			_ = w.Run(ctx, func() {
				if err := s.Reload(ctx); err != nil {
					s.logger.Warn("reload failed", "err", err)
				}
			})
		}()
		s.logger.Info("watching dataset", "path", f.Path)
	}

	go s.pruneLoop(ctx)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) pruneLoop(ctx context.Context) {
	t := time.NewTicker(s.opts.SessionTTL / 2)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.Prune(); n > 0 {
				s.logger.Debug("pruned idle sessions", "count", n, "remaining", s.Sessions())
			}
		}
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}
