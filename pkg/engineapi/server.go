// Package engineapi's administrative HTTP surface.
//
// @title           enginecore administrative API
// @version         1.0.0
// @description     Type registry, archive engine and task scheduler surface for enginecore.
// @BasePath        /api/v1
//
// @securityDefinitions.apikey ApiKeyAuth
// @in              header
// @name            X-API-Key
package engineapi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the chi router for the administrative HTTP surface.
func NewRouter(deps Deps, config ServerConfig) http.Handler {
	metrics := NewMetrics()
	srv := newServer(deps, metrics)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/api/v1/health", metrics.InstrumentHandler("GET", "/api/v1/health", srv.handleHealth))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(metrics.InstrumentAuthMiddleware(apiKeyMiddleware(config.APIKey)))

		r.Get("/types", metrics.InstrumentHandler("GET", "/api/v1/types", srv.handleListTypes))
		r.Put("/assets", metrics.InstrumentHandler("PUT", "/api/v1/assets", srv.handlePutAsset))
		r.Get("/assets/{id}", metrics.InstrumentHandler("GET", "/api/v1/assets/{id}", srv.handleGetAsset))
		r.Post("/schedule", metrics.InstrumentHandler("POST", "/api/v1/schedule", srv.handleSchedule))
		r.Post("/schedule/execute", metrics.InstrumentHandler("POST", "/api/v1/schedule/execute", srv.handleScheduleExecute))
		r.Get("/stats", metrics.InstrumentHandler("GET", "/api/v1/stats", srv.handleStats))
	})

	return r
}

// StartServer builds the router and blocks serving it on config's bind
// address and port.
func StartServer(deps Deps, config ServerConfig) error {
	addr := fmt.Sprintf("%s:%d", config.Bind, config.Port)
	fmt.Printf("enginecore administrative API listening on %s\n", addr)
	return http.ListenAndServe(addr, NewRouter(deps, config))
}
