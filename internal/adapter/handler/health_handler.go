package handler

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
)

// Pinger is anything the health check can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	checks map[string]Pinger
	logger *slog.Logger
}

func NewHealthHandler(checks map[string]Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		checks: checks,
		logger: logger,
	}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	overallStatus := "healthy"
	statuses := make(map[string]string, len(h.checks))

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		statuses[name] = "healthy"
		if err := h.checks[name].Ping(r.Context()); err != nil {
			statuses[name] = "unhealthy"
			overallStatus = "degraded"
			h.logger.Warn("health check failed", "check", name, "error", err)
		}
	}

	statusCode := http.StatusOK
	if overallStatus == "degraded" {
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, map[string]any{
		"status": overallStatus,
		"checks": statuses,
	})
}
