package live

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/filament-ui/filament/pkg/metrics"
	"github.com/filament-ui/filament/pkg/render"
	"github.com/filament-ui/filament/pkg/runtime"
	"github.com/filament-ui/filament/pkg/trace"
	"github.com/filament-ui/filament/pkg/upload"
)

// config holds the resolved server and session options.
type config struct {
	addr          string
	logger        *slog.Logger
	maxSessions   int
	sessionTTL    time.Duration
	sweepInterval time.Duration
	readTimeout   time.Duration
	writeTimeout  time.Duration
	checkOrigin   func(*http.Request) bool

	metrics *metrics.Metrics
	tracer  *trace.Tracer
	uploads upload.Store

	title       string
	styleSheets []string
	scripts     []render.ScriptTag
	propsFn     func(*http.Request) runtime.Props
}

func defaultOptions() *config {
	return &config{
		addr:          ":8080",
		logger:        slog.Default().With("component", "live"),
		maxSessions:   1000,
		sessionTTL:    30 * time.Minute,
		sweepInterval: time.Minute,
		readTimeout:   60 * time.Second,
		writeTimeout:  10 * time.Second,
	}
}

// Option configures a Server or a standalone Manager.
type Option func(*config)

// WithAddr sets the listen address (default ":8080").
func WithAddr(addr string) Option {
	return func(c *config) { c.addr = addr }
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithMaxSessions caps concurrent sessions. Zero means unlimited.
func WithMaxSessions(n int) Option {
	return func(c *config) { c.maxSessions = n }
}

// WithSessionTTL sets how long idle sessions survive before the sweeper
// closes them. Zero disables the sweep.
func WithSessionTTL(ttl time.Duration) Option {
	return func(c *config) { c.sessionTTL = ttl }
}

// WithReadTimeout sets the per-frame WebSocket read deadline.
func WithReadTimeout(d time.Duration) Option {
	return func(c *config) { c.readTimeout = d }
}

// WithWriteTimeout sets the per-frame WebSocket write deadline.
func WithWriteTimeout(d time.Duration) Option {
	return func(c *config) { c.writeTimeout = d }
}

// WithCheckOrigin sets the WebSocket origin check.
func WithCheckOrigin(fn func(*http.Request) bool) Option {
	return func(c *config) { c.checkOrigin = fn }
}

// WithMetrics wires Prometheus collectors into sessions and mounts
// /metrics on the router.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *config) { c.metrics = m }
}

// WithTracer wires OpenTelemetry spans around event dispatch.
func WithTracer(t *trace.Tracer) Option {
	return func(c *config) { c.tracer = t }
}

// WithUploadStore mounts /upload backed by the store, enabling file
// inputs.
func WithUploadStore(store upload.Store) Option {
	return func(c *config) { c.uploads = store }
}

// WithTitle sets the page title.
func WithTitle(title string) Option {
	return func(c *config) { c.title = title }
}

// WithStyleSheets adds stylesheet links to the page head.
func WithStyleSheets(hrefs ...string) Option {
	return func(c *config) { c.styleSheets = append(c.styleSheets, hrefs...) }
}

// WithScripts adds script tags to the page.
func WithScripts(scripts ...render.ScriptTag) Option {
	return func(c *config) { c.scripts = append(c.scripts, scripts...) }
}

// WithProps derives root component props from the incoming request.
func WithProps(fn func(*http.Request) runtime.Props) Option {
	return func(c *config) { c.propsFn = fn }
}

// Server serves a root component as a live page: GET / renders the page
// and creates a session, GET /live attaches the WebSocket.
type Server struct {
	root     *runtime.Component
	cfg      *config
	sessions *Manager
	upgrader websocket.Upgrader
	router   chi.Router

	httpServer *http.Server
}

// NewServer creates a live server for the root component.
func NewServer(root *runtime.Component, opts ...Option) *Server {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt(cfg)
	}

	s := &Server{
		root: root,
		cfg:  cfg,
		sessions: &Manager{
			sessions: make(map[string]*Session),
			cfg:      cfg,
			done:     make(chan struct{}),
		},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     cfg.checkOrigin,
		},
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Get("/", s.handlePage)
	r.Get("/live", s.handleWS)
	if cfg.metrics != nil {
		r.Handle("/metrics", promhttp.Handler())
	}
	if cfg.uploads != nil {
		r.Post("/upload", upload.Handler(cfg.uploads).ServeHTTP)
	}
	s.router = r

	return s
}

// Sessions exposes the session manager.
func (s *Server) Sessions() *Manager { return s.sessions }

// Handler returns the HTTP handler, for mounting under an existing mux
// or for tests.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	var props runtime.Props
	if s.cfg.propsFn != nil {
		props = s.cfg.propsFn(r)
	}

	session, err := s.sessions.Create(s.root, props)
	if err != nil {
		if errors.Is(err, ErrTooManySessions) {
			http.Error(w, "Too many sessions", http.StatusServiceUnavailable)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = render.RenderPage(w, render.PageData{
		Body:        session.HTML(),
		Title:       s.cfg.title,
		StyleSheets: s.cfg.styleSheets,
		Scripts:     s.cfg.scripts,
		SessionID:   session.ID(),
	})
	if err != nil {
		s.cfg.logger.Error("page render failed", "error", err, "session", session.ID())
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("session")
	session := s.sessions.Get(id)
	if session == nil {
		http.Error(w, "Unknown session", http.StatusNotFound)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.cfg.logger.Warn("websocket upgrade failed", "error", err)
		if s.cfg.metrics != nil {
			s.cfg.metrics.ObserveWSError("upgrade")
		}
		return
	}

	session.Attach(conn)
	conn.Close()
}

// ListenAndServe starts the HTTP server and blocks until it stops.
func (s *Server) ListenAndServe() error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.cfg.logger.Info("listening", "addr", s.cfg.addr)
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting connections, closes all sessions, and waits
// for in-flight requests up to the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.sessions.Close()
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
