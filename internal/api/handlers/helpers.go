package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

func writeJSON(logger *slog.Logger, w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("encode response failed", "method", r.Method, "path", r.URL.Path, "status", status, "err", err)
	}
}

func writeError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(logger, w, r, status, map[string]string{"error": msg})
}

func loggerOrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
