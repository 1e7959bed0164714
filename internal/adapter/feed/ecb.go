package feed

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"fxaverages/internal/domain/model"
)

const DefaultLiveURL = "https://www.ecb.europa.eu/stats/eurofxref/eurofxref-hist-90d.xml"

type LiveConfig struct {
	URL          string
	Timeout      time.Duration
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

// LiveFeed downloads the ECB 90 day history.
type LiveFeed struct {
	url    string
	client *retryablehttp.Client
	logger *slog.Logger
}

func NewLiveFeed(cfg LiveConfig, logger *slog.Logger) *LiveFeed {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.URL == "" {
		cfg.URL = DefaultLiveURL
	}

	client := retryablehttp.NewClient()
	client.Logger = logger.With("component", "ecb_client")
	client.RetryMax = cfg.RetryMax
	if cfg.RetryWaitMin > 0 {
		client.RetryWaitMin = cfg.RetryWaitMin
	}
	if cfg.RetryWaitMax > 0 {
		client.RetryWaitMax = cfg.RetryWaitMax
	}
	if cfg.Timeout > 0 {
		client.HTTPClient.Timeout = cfg.Timeout
	}

	return &LiveFeed{
		url:    cfg.URL,
		client: client,
		logger: logger.With("feed", "live"),
	}
}

func (f *LiveFeed) Name() string {
	return "ecb-live"
}

func (f *LiveFeed) Fetch(ctx context.Context) ([]model.HistoryEntry, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", f.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: status %d", f.url, resp.StatusCode)
	}

	entries, err := ParseGesmes(resp.Body)
	if err != nil {
		return nil, err
	}
	f.logger.Info("fetched", "url", f.url, "entries", len(entries))
	return entries, nil
}

// SnapshotFeed reads a saved copy of the ECB document.
type SnapshotFeed struct {
	path   string
	logger *slog.Logger
}

func NewSnapshotFeed(path string, logger *slog.Logger) *SnapshotFeed {
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotFeed{path: path, logger: logger.With("feed", "snapshot")}
}

func (f *SnapshotFeed) Name() string {
	return "ecb-snapshot"
}

func (f *SnapshotFeed) Fetch(ctx context.Context) ([]model.HistoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer file.Close()

	entries, err := ParseGesmes(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.path, err)
	}
	f.logger.Info("read", "path", f.path, "entries", len(entries))
	return entries, nil
}
