package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler reports liveness, and readiness of the network database
// when DB is set.
type HealthHandler struct {
	DB     Pinger
	Logger *slog.Logger
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(h.logger(), w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if h.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.DB.PingContext(ctx); err != nil {
			h.logger().Warn("health check: database ping failed", "err", err)
			writeJSON(h.logger(), w, r, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}

	res := map[string]string{"status": "ok"}
	writeJSON(h.logger(), w, r, http.StatusOK, res)
}

func (h *HealthHandler) logger() *slog.Logger { return loggerOrDefault(h.Logger) }
