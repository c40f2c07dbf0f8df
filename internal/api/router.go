package api

import (
	"log/slog"
	"net/http"
	"transit-pathset-service/internal/api/handlers"
	"transit-pathset-service/internal/ports"
)

type RouterConfig struct {
	Service handlers.PathSetEvaluator
	// DB, when set, backs the readiness part of /health.
	DB handlers.Pinger
	// Archive, when set, serves stored path sets on GET /pathsets/{id}.
	Archive ports.PathSetArchive
	// Metrics, when set, is served on /metrics.
	Metrics http.Handler
	Logger  *slog.Logger
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()

	health := &handlers.HealthHandler{DB: cfg.DB, Logger: logger}
	pathSets := &handlers.PathSetHandler{Service: cfg.Service, Logger: logger}

	mux.HandleFunc("/health", health.Health)
	mux.HandleFunc("/pathsets", pathSets.Evaluate)
	if cfg.Archive != nil {
		archive := &handlers.ArchiveHandler{Archive: cfg.Archive, Logger: logger}
		mux.HandleFunc("GET /pathsets/{id}", archive.Get)
	}
	if cfg.Metrics != nil {
		mux.Handle("/metrics", cfg.Metrics)
	}

	// Logging runs inside the request id middleware so its lines carry the id.
	return requestIDMiddleware(loggingMiddleware(logger, mux))
}
