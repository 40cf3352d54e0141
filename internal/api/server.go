package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/isabelcabezasm/swiss-tax-form-stocks/internal/config"
	"github.com/isabelcabezasm/swiss-tax-form-stocks/internal/pipeline"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server is the HTTP API server for stock reports.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	gatherer     prometheus.Gatherer
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. Metrics are served
// from gatherer; a nil gatherer uses the default registry.
func NewServer(orch *pipeline.Orchestrator, gatherer prometheus.Gatherer, log *slog.Logger, cfg config.Config) *Server {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	s := &Server{
		orchestrator: orch,
		gatherer:     gatherer,
		log:          log,
		cfg:          cfg,
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
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/reports", s.handleCreateReport)
		r.Get("/api/reports/{jobID}", s.handleGetReport)
		r.Get("/api/reports/{jobID}/html", s.handleReportHTML)
		r.Get("/api/reports/{jobID}/export.{format}", s.handleReportExport)

		r.Post("/api/extract", s.handleExtract)
		r.Get("/api/stats", s.handleStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}
