package handler

import "net/http"

type Handlers struct {
	Average  *AverageHandler
	Job      *JobHandler
	Currency *CurrencyHandler
	Mode     *ModeHandler
	Health   *HealthHandler
}

func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /jobs", h.Job.Run)
	mux.HandleFunc("GET /jobs", h.Job.Recent)
	mux.HandleFunc("GET /averages/{kind}", h.Average.List)
	mux.HandleFunc("GET /averages/{kind}/{currency}", h.Average.Get)
	mux.HandleFunc("GET /currencies", h.Currency.Pairs)
	mux.HandleFunc("GET /currencies/{from}/{to}", h.Currency.History)
	mux.HandleFunc("POST /feed/load", h.Currency.Load)
	mux.HandleFunc("GET /mode", h.Mode.Current)
	mux.HandleFunc("POST /mode/{mode}", h.Mode.Switch)
	mux.HandleFunc("GET /health", h.Health.Check)

	return mux
}
