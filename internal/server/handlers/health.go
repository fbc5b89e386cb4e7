package handlers

import (
	"log/slog"
	"net/http"
)

// VersionInfo describes the running build
type VersionInfo struct {
	Version   string `json:"version"`
	BuildDate string `json:"build_date"`
	GitCommit string `json:"git_commit"`
}

// HealthHandler serves liveness and build info
type HealthHandler struct {
	logger  *slog.Logger
	version VersionInfo
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(logger *slog.Logger, version VersionInfo) *HealthHandler {
	return &HealthHandler{
		logger:  logger,
		version: version,
	}
}

// Health handles GET /api/health/
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	sendJSON(h.logger, w, map[string]string{"status": "ok"}, http.StatusOK)
}

// Version handles GET /api/version/
func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	sendJSON(h.logger, w, h.version, http.StatusOK)
}
