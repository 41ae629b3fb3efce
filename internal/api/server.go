package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/docnorm/internal/blankline"
	"github.com/dgallion1/docnorm/internal/config"
	"github.com/dgallion1/docnorm/internal/pipeline"
	"github.com/dgallion1/docnorm/internal/report"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for docnorm.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	stats        *report.Stats
	log          *slog.Logger
	cfg          config.Config
	opts         blankline.Options
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, stats *report.Stats, log *slog.Logger, cfg config.Config, opts blankline.Options) *Server {
	s := &Server{
		orchestrator: orch,
		stats:        stats,
		log:          log,
		cfg:          cfg,
		opts:         opts,
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

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/normalize", s.handleNormalize)
		r.Post("/api/normalize/batch", s.handleBatchNormalize)
		r.Get("/api/normalize/{jobID}/status", s.handleJobStatus)
		r.Get("/api/normalize/{jobID}/report", s.handleJobReport)
		r.Get("/api/stats", s.handleStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
