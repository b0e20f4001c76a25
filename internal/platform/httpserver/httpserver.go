package httpserver

import (
	"net/http"

	"passport/internal/platform/config"
)

// New builds the process HTTP server. All timeouts come from configuration;
// kiosk scanners on venue wifi hold connections open far longer than a
// typical API client, so the defaults are deliberately generous on idle.
func New(cfg config.HTTPConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}
