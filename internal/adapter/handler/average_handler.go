package handler

import (
	"log/slog"
	"net/http"

	"fxaverages/internal/application/usecase"
	"fxaverages/internal/domain/model"
)

// averageView renders a result with the published two decimal places.
type averageView struct {
	Pair        string `json:"pair"`
	From        string `json:"from"`
	To          string `json:"to"`
	Description string `json:"description"`
	Value       string `json:"value"`
}

func newAverageView(r model.AverageResult) averageView {
	return averageView{
		Pair:        r.Pair.String(),
		From:        r.Pair.From.String(),
		To:          r.Pair.To.String(),
		Description: r.Pair.To.Description(),
		Value:       r.Value.StringFixed(model.AveragePlaces),
	}
}

type AverageHandler struct {
	useCase *usecase.AverageUseCase
	logger  *slog.Logger
}

func NewAverageHandler(useCase *usecase.AverageUseCase, logger *slog.Logger) *AverageHandler {
	return &AverageHandler{
		useCase: useCase,
		logger:  logger,
	}
}

// List serves GET /averages/{kind}.
func (h *AverageHandler) List(w http.ResponseWriter, r *http.Request) {
	kind, err := model.ParseAverageKind(r.PathValue("kind"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	results, err := h.useCase.List(r.Context(), kind)
	if err != nil {
		h.logger.Error("failed to list averages", "kind", kind, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	views := make([]averageView, len(results))
	for i, res := range results {
		views[i] = newAverageView(res)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"kind":     kind,
		"averages": views,
	})
}

// Get serves GET /averages/{kind}/{currency}.
func (h *AverageHandler) Get(w http.ResponseWriter, r *http.Request) {
	kind, err := model.ParseAverageKind(r.PathValue("kind"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	currency, err := model.ParseCurrency(r.PathValue("currency"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.useCase.Get(r.Context(), kind, currency)
	if err != nil {
		h.logger.Error("failed to get average", "kind", kind, "currency", currency, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if res == nil {
		writeError(w, http.StatusNotFound, "no data found")
		return
	}
	writeJSON(w, http.StatusOK, newAverageView(*res))
}
