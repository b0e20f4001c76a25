// Package httptransport assembles the HTTP surface: middleware chain,
// domain handlers, liveness, and metrics.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"passport/internal/platform/metrics"
	"passport/internal/platform/middleware"
	"passport/pkg/platform/httputil"
)

// Registrar is anything that mounts routes on the router. The attendee,
// sponsor, and stamp handlers all satisfy it.
type Registrar interface {
	Register(r chi.Router)
}

// HealthChecker reports readiness of a backing dependency.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Deps carries everything the router needs from main.
type Deps struct {
	Logger   *slog.Logger
	Handlers []Registrar

	// HTTPMetrics enables request-level instrumentation when set.
	HTTPMetrics *metrics.HTTP

	// Checks maps a dependency name to its health probe. Probed by /healthz.
	Checks map[string]HealthChecker
}

// NewRouter builds the full middleware chain and mounts every handler.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.Logger))
	if deps.HTTPMetrics != nil {
		r.Use(middleware.Metrics(deps.HTTPMetrics))
	}
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.CORS)

	r.Get("/healthz", healthHandler(deps.Checks))
	r.Handle("/metrics", promhttp.Handler())

	for _, h := range deps.Handlers {
		h.Register(r)
	}
	return r
}

func healthHandler(checks map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		body := map[string]string{"status": "ok"}
		for name, check := range checks {
			if err := check.Health(r.Context()); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
				body[name] = err.Error()
				continue
			}
			body[name] = "ok"
		}
		httputil.WriteJSON(w, status, body)
	}
}
