package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fxaverages/internal/adapter/memory"
	"fxaverages/internal/application/service"
	"fxaverages/internal/application/usecase"
	"fxaverages/internal/domain/model"
	"fxaverages/internal/domain/port"
)

type staticFeed struct {
	entries []model.HistoryEntry
}

func (f staticFeed) Name() string { return "static" }

func (f staticFeed) Fetch(context.Context) ([]model.HistoryEntry, error) { return f.entries, nil }

type downPinger struct{}

func (downPinger) Ping(context.Context) error { return errors.New("down") }

func prices(to model.Currency, closes ...string) []model.HistoryEntry {
	base := time.Date(2017, 5, 1, 0, 0, 0, 0, time.UTC)
	out := make([]model.HistoryEntry, len(closes))
	for i, c := range closes {
		out[i] = model.HistoryEntry{
			Key:   model.NewCurrencyKey(model.EUR, to, base.AddDate(0, 0, i)),
			Close: decimal.RequireFromString(c),
		}
	}
	return out
}

func newTestRouter(t *testing.T, extraChecks map[string]Pinger) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	history := memory.NewHistoryStore(3)
	simple := memory.NewResultStore(model.SimpleAverage)
	exponential := memory.NewResultStore(model.ExponentialAverage)
	jobs := memory.NewJobLog(10)

	entries := append(prices(model.USD, "1.00", "1.00", "1.00", "1.00", "1.00", "1.30"),
		prices(model.GBP, "0.86", "0.87", "0.88")...)
	modes := service.NewModeService(model.TestFeed, map[model.FeedMode]port.FeedPort{
		model.TestFeed:     staticFeed{entries: entries},
		model.SnapshotFeed: staticFeed{},
	}, logger)

	svc := service.NewMovingAverageService(history, simple, exponential, jobs, 2, logger)

	checks := map[string]Pinger{"history": history, "sma": simple, "ema": exponential, "jobs": jobs}
	for k, v := range extraChecks {
		checks[k] = v
	}

	return NewRouter(Handlers{
		Average:  NewAverageHandler(usecase.NewAverageUseCase(simple, exponential), logger),
		Job:      NewJobHandler(svc, jobs, 10, logger),
		Currency: NewCurrencyHandler(usecase.NewCurrencyUseCase(history, modes, logger), logger),
		Mode:     NewModeHandler(modes, logger),
		Health:   NewHealthHandler(checks, logger),
	})
}

func do(t *testing.T, h http.Handler, method, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))

	var body map[string]any
	if strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "{") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestRouter_LoadRunAndRead(t *testing.T) {
	h := newTestRouter(t, nil)

	rec, body := do(t, h, http.MethodPost, "/feed/load")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 9, body["entries"])

	rec, body = do(t, h, http.MethodPost, "/jobs?window=6")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "succeeded", body["status"])

	rec, body = do(t, h, http.MethodGet, "/averages/simple")
	require.Equal(t, http.StatusOK, rec.Code)
	averages := body["averages"].([]any)
	require.Len(t, averages, 2)
	assert.Equal(t, "GBP", averages[0].(map[string]any)["to"])
	assert.Equal(t, "0.87", averages[0].(map[string]any)["value"])

	rec, body = do(t, h, http.MethodGet, "/averages/exponential/usd")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1.20", body["value"])
	assert.Equal(t, "EUR/USD", body["pair"])

	rec, _ = do(t, h, http.MethodGet, "/averages/ema/GBP")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, h, http.MethodGet, "/averages/median")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, h, http.MethodGet, "/averages/sma/US")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, h, http.MethodGet, "/jobs")
	require.Equal(t, http.StatusOK, rec.Code)
	var reports []model.JobReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reports))
	require.Len(t, reports, 1)
	assert.Equal(t, 6, reports[0].WindowSize)
}

func TestRouter_JobWindowValidation(t *testing.T) {
	h := newTestRouter(t, nil)

	for _, q := range []string{"11", "0", "ten"} {
		rec, _ := do(t, h, http.MethodPost, "/jobs?window="+q)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}

	rec, body := do(t, h, http.MethodPost, "/jobs")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 10, body["window_size"])
}

func TestRouter_Currencies(t *testing.T) {
	h := newTestRouter(t, nil)
	rec, _ := do(t, h, http.MethodPost, "/feed/load")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, h, http.MethodGet, "/currencies")
	require.Equal(t, http.StatusOK, rec.Code)
	var pairs []pairView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pairs))
	require.Len(t, pairs, 2)
	assert.Equal(t, "EUR/GBP", pairs[0].Pair)
	assert.Equal(t, "British Pound", pairs[0].Description)

	rec, _ = do(t, h, http.MethodGet, "/currencies/EUR/USD")
	require.Equal(t, http.StatusOK, rec.Code)
	var history []model.CurrencyPrice
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history, 6)
	assert.Equal(t, "2017-05-06", history[0].Date)

	rec, _ = do(t, h, http.MethodGet, "/currencies/EUR/JPY")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_Mode(t *testing.T) {
	h := newTestRouter(t, nil)

	_, body := do(t, h, http.MethodGet, "/mode")
	assert.Equal(t, "test", body["mode"])

	rec, body := do(t, h, http.MethodPost, "/mode/snapshot")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "snapshot", body["mode"])

	rec, _ = do(t, h, http.MethodPost, "/mode/live")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = do(t, h, http.MethodPost, "/mode/paper")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// The snapshot feed here is empty.
	rec, _ = do(t, h, http.MethodPost, "/feed/load")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestRouter_Health(t *testing.T) {
	rec, body := do(t, newTestRouter(t, nil), http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])

	rec, body = do(t, newTestRouter(t, map[string]Pinger{"redis": downPinger{}}), http.MethodGet, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, "unhealthy", body["checks"].(map[string]any)["redis"])
}
