package http

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// Pinger is a dependency that can report its availability
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependency names a Pinger for readiness reports
type Dependency struct {
	Name   string
	Pinger Pinger
}

// HealthHandler serves the liveness and readiness endpoints
type HealthHandler struct {
	dependencies []Dependency
	logger       zerolog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(logger zerolog.Logger, dependencies ...Dependency) *HealthHandler {
	return &HealthHandler{
		dependencies: dependencies,
		logger:       logger.With().Str("component", "health_handler").Logger(),
	}
}

// RegisterRoutes registers /health and /ready
func (h *HealthHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/ready", h.handleReady).Methods(http.MethodGet)
}

// handleHealth returns 200 if the service is running
func (h *HealthHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// handleReady returns 200 if every dependency answers
func (h *HealthHandler) handleReady(w http.ResponseWriter, r *http.Request) {
	for _, dep := range h.dependencies {
		if err := dep.Pinger.Ping(r.Context()); err != nil {
			h.logger.Warn().Err(err).Str("dependency", dep.Name).Msg("readiness check failed")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(dep.Name + " unavailable"))
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("READY"))
}
