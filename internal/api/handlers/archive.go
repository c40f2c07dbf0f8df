package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"transit-pathset-service/internal/ports"
)

// ArchiveHandler serves previously evaluated path sets.
type ArchiveHandler struct {
	Archive ports.PathSetArchive
	Logger  *slog.Logger
}

// Get handles GET /pathsets/{id}. The optional iteration query parameter
// selects an iteration; the latest one is returned by default.
func (h *ArchiveHandler) Get(w http.ResponseWriter, r *http.Request) {
	pathID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(h.logger(), w, r, http.StatusBadRequest, "path id must be an integer")
		return
	}

	iteration := -1
	if v := r.URL.Query().Get("iteration"); v != "" {
		iteration, err = strconv.Atoi(v)
		if err != nil || iteration < 0 {
			writeError(h.logger(), w, r, http.StatusBadRequest, "iteration must be a non-negative integer")
			return
		}
	}

	summary, ok, err := h.Archive.Lookup(r.Context(), pathID, iteration)
	if err != nil {
		h.logger().Error("lookup path set failed", "path_id", pathID, "err", err)
		writeError(h.logger(), w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	if !ok {
		writeError(h.logger(), w, r, http.StatusNotFound, "path set not found")
		return
	}

	writeJSON(h.logger(), w, r, http.StatusOK, summary)
}

func (h *ArchiveHandler) logger() *slog.Logger { return loggerOrDefault(h.Logger) }
