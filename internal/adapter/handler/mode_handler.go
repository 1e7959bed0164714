package handler

import (
	"log/slog"
	"net/http"

	"fxaverages/internal/application/service"
	"fxaverages/internal/domain/model"
)

type ModeHandler struct {
	modeService *service.ModeService
	log         *slog.Logger
}

func NewModeHandler(ms *service.ModeService, log *slog.Logger) *ModeHandler {
	return &ModeHandler{
		modeService: ms,
		log:         log,
	}
}

func (h *ModeHandler) Current(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"mode": h.modeService.GetCurrentMode().String()})
}

// Switch serves POST /mode/{mode}.
func (h *ModeHandler) Switch(w http.ResponseWriter, r *http.Request) {
	mode, err := model.ParseFeedMode(r.PathValue("mode"))
	if err != nil {
		h.log.Warn("invalid mode requested", "mode", r.PathValue("mode"))
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	currentMode := h.modeService.GetCurrentMode()
	if currentMode == mode {
		h.log.Info("already in requested mode", "mode", mode)
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "already in requested mode", "mode": mode.String()})
		return
	}

	if err := h.modeService.SwitchMode(r.Context(), mode); err != nil {
		h.log.Error("switch mode failed", "from", currentMode, "to", mode, "error", err)
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	h.log.Info("mode switched successfully", "new_mode", mode)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "mode": mode.String()})
}
