package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/mcoot/gemfall/internal/api/handler"
	"github.com/mcoot/gemfall/internal/api/middleware"
	"github.com/mcoot/gemfall/internal/services/profile"
	"github.com/mcoot/gemfall/internal/services/simulation"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger            zerolog.Logger
	ProfileService    *profile.Service
	SimulationService *simulation.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(handler.NotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(handler.MethodNotAllowed)

	// Create handlers
	profileHandler := handler.NewProfileHandler(cfg.ProfileService)
	simulationHandler := handler.NewSimulationHandler(cfg.SimulationService)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))
	api.NotFoundHandler = r.NotFoundHandler
	api.MethodNotAllowedHandler = r.MethodNotAllowedHandler

	// Profile routes
	api.HandleFunc("/profiles", profileHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/profiles/{name}", profileHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/profiles/{name}", profileHandler.Put).Methods(http.MethodPut)
	api.HandleFunc("/profiles/{name}", profileHandler.Delete).Methods(http.MethodDelete)

	// Simulation routes
	api.HandleFunc("/simulations", simulationHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/simulations", simulationHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/simulations/{id}", simulationHandler.Get).Methods(http.MethodGet)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
