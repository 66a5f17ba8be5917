package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/docnav/internal/config"
	"github.com/dgallion1/docnav/internal/metrics"
	"github.com/dgallion1/docnav/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the read-only HTTP API over the published sidebar build.
type Server struct {
	router  chi.Router
	holder  *pipeline.Holder
	metrics *metrics.Metrics
	log     *slog.Logger
	cfg     config.Config
}

// NewServer creates and configures the HTTP server. m may be nil.
func NewServer(holder *pipeline.Holder, m *metrics.Metrics, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		holder:  holder,
		metrics: m,
		log:     log,
		cfg:     cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))
	r.Use(RequestMetrics(s.metrics))

	// Public endpoints.
	r.Get("/health", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	// Authenticated endpoints when an API key is configured.
	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Get("/api/build", s.handleBuild)

		r.Get("/api/sidebars", s.handleListSidebars)
		r.Get("/api/sidebars/{name}", s.handleGetSidebar)

		r.Get("/api/documents", s.handleListDocuments)
		r.Get("/api/documents/*", s.handleGetDocument)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	b := s.holder.Current()
	if b == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "no valid build"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "build_id": b.ID})
}

// current returns the published build or writes a 503.
func (s *Server) current(w http.ResponseWriter) (*pipeline.Build, bool) {
	b := s.holder.Current()
	if b == nil {
		jsonError(w, "no valid build available", http.StatusServiceUnavailable)
		return nil, false
	}
	return b, true
}
