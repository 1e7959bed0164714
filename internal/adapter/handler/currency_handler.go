package handler

import (
	"log/slog"
	"net/http"

	"fxaverages/internal/application/usecase"
	"fxaverages/internal/domain/model"
)

type CurrencyHandler struct {
	useCase *usecase.CurrencyUseCase
	logger  *slog.Logger
}

func NewCurrencyHandler(useCase *usecase.CurrencyUseCase, logger *slog.Logger) *CurrencyHandler {
	return &CurrencyHandler{
		useCase: useCase,
		logger:  logger,
	}
}

type pairView struct {
	Pair        string `json:"pair"`
	From        string `json:"from"`
	To          string `json:"to"`
	Description string `json:"description"`
}

func (h *CurrencyHandler) Pairs(w http.ResponseWriter, r *http.Request) {
	pairs, err := h.useCase.Pairs(r.Context())
	if err != nil {
		h.logger.Error("failed to list pairs", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	views := make([]pairView, len(pairs))
	for i, p := range pairs {
		views[i] = pairView{
			Pair:        p.String(),
			From:        p.From.String(),
			To:          p.To.String(),
			Description: p.To.Description(),
		}
	}
	writeJSON(w, http.StatusOK, views)
}

// History serves GET /currencies/{from}/{to}.
func (h *CurrencyHandler) History(w http.ResponseWriter, r *http.Request) {
	from, err := model.ParseCurrency(r.PathValue("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	to, err := model.ParseCurrency(r.PathValue("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	pair := model.CurrencyPair{From: from, To: to}

	prices, err := h.useCase.History(r.Context(), pair)
	if err != nil {
		h.logger.Error("failed to read history", "pair", pair.String(), "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if len(prices) == 0 {
		writeError(w, http.StatusNotFound, "no data found")
		return
	}
	writeJSON(w, http.StatusOK, prices)
}

// Load serves POST /feed/load.
func (h *CurrencyHandler) Load(w http.ResponseWriter, r *http.Request) {
	res, err := h.useCase.LoadFeed(r.Context())
	if err != nil {
		h.logger.Error("feed load failed", "error", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}
