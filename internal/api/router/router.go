// Package router assembles the chi router for the scheduler API: the public
// inbound-email webhook plus the JWT-protected admin surface.
package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/oakfield-labs/clinic-scheduler/internal/http/handlers"
	httpmiddleware "github.com/oakfield-labs/clinic-scheduler/internal/http/middleware"
	"github.com/oakfield-labs/clinic-scheduler/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger          *logging.Logger
	InboundEmail    *handlers.InboundEmailHandler
	Admin           *handlers.AdminHandler
	MetricsHandler  http.Handler
	AdminAuthSecret string
}

// New creates a chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints (webhooks, health checks)
	r.Group(func(public chi.Router) {
		public.Get("/healthz", healthCheck)
		if cfg.InboundEmail != nil {
			public.Post("/webhooks/inbound-email", cfg.InboundEmail.Handle)
		}
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// Admin routes (protected by HMAC JWT)
	if cfg.AdminAuthSecret != "" {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			if cfg.Admin != nil {
				admin.Get("/availability", cfg.Admin.GetAvailability)
				admin.Get("/messages", cfg.Admin.ListMessages)
				admin.Get("/stats", cfg.Admin.GetStats)
				admin.Get("/jobs/{jobID}", cfg.Admin.GetJob)
			}
			if cfg.InboundEmail != nil {
				admin.Post("/messages/simulate", cfg.InboundEmail.Simulate)
			}
		})
	}

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
