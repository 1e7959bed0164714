package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"fxaverages/internal/application/service"
	"fxaverages/internal/domain/port"
	"fxaverages/internal/pipeline"
)

type JobHandler struct {
	service       *service.MovingAverageService
	jobs          port.JobLog
	defaultWindow int
	logger        *slog.Logger
}

func NewJobHandler(svc *service.MovingAverageService, jobs port.JobLog, defaultWindow int, logger *slog.Logger) *JobHandler {
	return &JobHandler{
		service:       svc,
		jobs:          jobs,
		defaultWindow: defaultWindow,
		logger:        logger,
	}
}

// Run serves POST /jobs?window=N and blocks until the job is done.
func (h *JobHandler) Run(w http.ResponseWriter, r *http.Request) {
	window := h.defaultWindow
	if v := r.URL.Query().Get("window"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "window must be an integer")
			return
		}
		window = n
	}

	report, err := h.service.RunJob(r.Context(), window)
	switch {
	case errors.Is(err, pipeline.ErrWindowSizeExceeded), errors.Is(err, pipeline.ErrInvalidWindowSize):
		writeError(w, http.StatusBadRequest, err.Error())
	case err != nil:
		h.logger.Error("job failed", "window", window, "error", err)
		if report != nil {
			writeJSON(w, http.StatusInternalServerError, report)
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeJSON(w, http.StatusOK, report)
	}
}

// Recent serves GET /jobs?limit=N.
func (h *JobHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	reports, err := h.jobs.RecentJobs(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list jobs", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, reports)
}
