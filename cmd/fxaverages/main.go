package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fxaverages/internal/adapter/cache"
	"fxaverages/internal/adapter/feed"
	"fxaverages/internal/adapter/generator"
	"fxaverages/internal/adapter/handler"
	"fxaverages/internal/adapter/memory"
	"fxaverages/internal/adapter/storage"
	"fxaverages/internal/application/service"
	"fxaverages/internal/application/usecase"
	"fxaverages/internal/domain/model"
	"fxaverages/internal/domain/port"
	"fxaverages/internal/infrastructure/config"
	"fxaverages/internal/infrastructure/logger"
	"fxaverages/internal/infrastructure/server"
)

var (
	configPath = flag.String("config", "configs/config.yaml", "Path to config file")
	portFlag   = flag.Int("port", 0, "Port number")
	windowFlag = flag.Int("window", 0, "Window size for jobs (1-10)")
	onceFlag   = flag.Bool("once", false, "Load the feed, run one job, print the averages and exit")
	helpFlag   = flag.Bool("help", false, "Show help")
)

// stores holds the backends chosen by config.
type stores struct {
	history     port.HistoryStore
	simple      port.ResultStore
	exponential port.ResultStore
	jobs        port.JobLog
	checks      map[string]handler.Pinger
	closers     []func() error
}

func main() {
	flag.Parse()

	if *helpFlag {
		printUsage()
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if *portFlag != 0 {
		cfg.Server.Port = *portFlag
	}
	if *windowFlag != 0 {
		cfg.Pipeline.WindowSize = *windowFlag
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log.Info("starting fxaverages", "version", "1.0.0")

	st, err := openStores(context.Background(), cfg, log)
	if err != nil {
		log.Error("failed to initialize stores", "error", err)
		os.Exit(1)
	}
	defer st.close(log)

	mode, err := model.ParseFeedMode(cfg.Feed.Mode)
	if err != nil {
		log.Error("invalid feed mode", "error", err)
		os.Exit(1)
	}
	modeService := service.NewModeService(mode, buildFeeds(cfg, log), log)
	currencyUseCase := usecase.NewCurrencyUseCase(st.history, modeService, log)
	averageUseCase := usecase.NewAverageUseCase(st.simple, st.exponential)
	averageService := service.NewMovingAverageService(st.history, st.simple, st.exponential, st.jobs, cfg.Pipeline.Workers, log)

	if *onceFlag {
		if err := runOnce(context.Background(), cfg, currencyUseCase, averageService, averageUseCase); err != nil {
			log.Error("run failed", "error", err)
			os.Exit(1)
		}
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Feed.LoadOnStart {
		if _, err := currencyUseCase.LoadFeed(ctx); err != nil {
			log.Warn("initial feed load failed", "error", err)
		}
	}

	averageService.Start(ctx, cfg.Pipeline.Interval, cfg.Pipeline.WindowSize)
	defer averageService.Stop()

	mux := handler.NewRouter(handler.Handlers{
		Average:  handler.NewAverageHandler(averageUseCase, log),
		Job:      handler.NewJobHandler(averageService, st.jobs, cfg.Pipeline.WindowSize, log),
		Currency: handler.NewCurrencyHandler(currencyUseCase, log),
		Mode:     handler.NewModeHandler(modeService, log),
		Health:   handler.NewHealthHandler(st.checks, log),
	})

	srv := server.NewServer(cfg.Server.Port, mux, cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, log)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down gracefully")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("shutdown complete")
}

func openStores(ctx context.Context, cfg *config.Config, log *slog.Logger) (*stores, error) {
	st := &stores{checks: make(map[string]handler.Pinger)}

	var pg *storage.PostgresAdapter
	if cfg.UsesPostgres() {
		var err error
		pg, err = storage.NewPostgresAdapter(cfg.PostgresDSN())
		if err != nil {
			return nil, err
		}
		st.closers = append(st.closers, pg.Close)
		if err := pg.InitSchema(ctx); err != nil {
			st.close(log)
			return nil, err
		}
		st.checks["postgres"] = pg
	}

	var rd *cache.RedisAdapter
	if cfg.UsesRedis() {
		var err error
		rd, err = cache.NewRedisAdapter(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			st.close(log)
			return nil, err
		}
		st.closers = append(st.closers, rd.Close)
		st.checks["redis"] = rd
	}

	switch cfg.Storage.History {
	case "redis":
		st.history = rd.HistoryStore(cfg.Pipeline.Partitions)
	default:
		st.history = memory.NewHistoryStore(cfg.Pipeline.Partitions)
	}

	switch cfg.Storage.Results {
	case "redis":
		st.simple = rd.ResultStore(model.SimpleAverage)
		st.exponential = rd.ResultStore(model.ExponentialAverage)
	case "postgres":
		st.simple = pg.ResultStore(model.SimpleAverage)
		st.exponential = pg.ResultStore(model.ExponentialAverage)
	default:
		st.simple = memory.NewResultStore(model.SimpleAverage)
		st.exponential = memory.NewResultStore(model.ExponentialAverage)
	}

	switch cfg.Storage.Jobs {
	case "postgres":
		st.jobs = pg
	default:
		st.jobs = memory.NewJobLog(100)
	}

	st.checks["history"] = st.history
	st.checks["sma"] = st.simple
	st.checks["ema"] = st.exponential
	st.checks["jobs"] = st.jobs

	log.Info("stores ready",
		"history", cfg.Storage.History,
		"results", cfg.Storage.Results,
		"jobs", cfg.Storage.Jobs,
		"partitions", st.history.Partitions())
	return st, nil
}

func (s *stores) close(log *slog.Logger) {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			log.Error("failed to close store", "error", err)
		}
	}
	s.closers = nil
}

func buildFeeds(cfg *config.Config, log *slog.Logger) map[model.FeedMode]port.FeedPort {
	var currencies []model.Currency
	for _, c := range cfg.Feed.Test.Currencies {
		if cur, err := model.ParseCurrency(c); err == nil {
			currencies = append(currencies, cur)
		}
	}

	return map[model.FeedMode]port.FeedPort{
		model.LiveFeed: feed.NewLiveFeed(feed.LiveConfig{
			URL:      cfg.Feed.LiveURL,
			Timeout:  cfg.Feed.Timeout,
			RetryMax: cfg.Feed.RetryMax,
		}, log),
		model.SnapshotFeed: feed.NewSnapshotFeed(cfg.Feed.SnapshotPath, log),
		model.TestFeed: generator.NewTestGenerator("test-generator", currencies,
			cfg.Feed.Test.Days, time.Now(), cfg.Feed.Test.Seed, log),
	}
}

func runOnce(ctx context.Context, cfg *config.Config, currencies *usecase.CurrencyUseCase, svc *service.MovingAverageService, averages *usecase.AverageUseCase) error {
	if _, err := currencies.LoadFeed(ctx); err != nil {
		return err
	}

	report, err := svc.RunJob(ctx, cfg.Pipeline.WindowSize)
	if err != nil {
		return err
	}
	fmt.Printf("job %s: %s in %s\n", report.ID, report.Status, report.Elapsed)

	for _, kind := range []model.AverageKind{model.SimpleAverage, model.ExponentialAverage} {
		results, err := averages.List(ctx, kind)
		if err != nil {
			return err
		}
		fmt.Printf("\n%s (last %d)\n", kind, cfg.Pipeline.WindowSize)
		for _, r := range results {
			fmt.Printf("  %-8s %12s  %s\n", r.Pair, r.Value.StringFixed(model.AveragePlaces), r.Pair.To.Description())
		}
	}
	return nil
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  fxaverages [--config <path>] [--port <N>] [--window <N>]")
	fmt.Println("  fxaverages --once [--window <N>]")
	fmt.Println("  fxaverages --help")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --config PATH  Config file (default configs/config.yaml)")
	fmt.Println("  --port N       Port number")
	fmt.Println("  --window N     Number of most recent prices to average, 1 to 10")
	fmt.Println("  --once         Load the feed, run one job, print the averages and exit")
}
