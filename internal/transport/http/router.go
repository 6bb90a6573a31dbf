package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/loamlabs/wheelhouse/internal/platform/config"
	"github.com/loamlabs/wheelhouse/internal/platform/middleware"
)

// NewRouter wires all public endpoints. The cron trigger sits behind the
// shared-secret check; the capture endpoint behind the storefront CORS policy.
func NewRouter(h *Handler, cfg config.Server, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.WithRequestID)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireCronSecret(cfg.CronSecret, logger))
		r.Post("/api/run-daily-tasks", h.HandleRunDailyTasks)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.StorefrontCORS(cfg.AllowedOrigin))
		r.Post("/api/log-abandoned-build", h.HandleLogAbandonedBuild)
		// Preflight is answered inside the CORS middleware.
		r.Options("/api/log-abandoned-build", func(http.ResponseWriter, *http.Request) {})
	})

	r.Get("/healthz", h.HandleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}
