package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"buoyqc/internal/config"
	"buoyqc/internal/middleware"
)

// Version is stamped at build time.
var Version = "dev"

// NewRouter assembles the report server routes and middleware chain.
func NewRouter(cfg config.ServerConfig, reportsDir string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.Recoverer(logger))
	if cfg.RateLimit.Enabled {
		r.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	}

	r.Get("/healthz", healthz)
	r.Handle("/metrics", promhttp.Handler())
	r.Mount("/api/reports", NewReportHandler(reportsDir, logger).Routes())

	return r
}

// HealthResponse is the /healthz payload.
type HealthResponse struct {
	Status  string    `json:"status"`
	Version string    `json:"version"`
	Time    time.Time `json:"time"`
}

// Render implements render.Renderer.
func (h *HealthResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func healthz(w http.ResponseWriter, r *http.Request) {
	render.Render(w, r, &HealthResponse{
		Status:  "ok",
		Version: Version,
		Time:    time.Now().UTC(),
	})
}
