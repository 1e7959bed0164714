package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"fxaverages/internal/concurrency/worker"
	"fxaverages/internal/domain/model"
	"fxaverages/internal/domain/port"
	"fxaverages/internal/domain/routing"
	"fxaverages/internal/pipeline"
)

// ErrJobFailed is returned when no partition of a job completed.
var ErrJobFailed = errors.New("moving average job failed")

type partitionRun struct {
	result *pipeline.PartitionResult
	err    error
}

// MovingAverageService runs the SMA/EMA job over every history partition and
// publishes the results.
type MovingAverageService struct {
	history     port.HistoryStore
	simple      port.ResultStore
	exponential port.ResultStore
	jobs        port.JobLog
	workers     int
	logger      *slog.Logger

	runMu  sync.Mutex
	mu     sync.Mutex
	ticker *time.Ticker
	done   chan struct{}
	loops  sync.WaitGroup
}

func NewMovingAverageService(history port.HistoryStore, simple, exponential port.ResultStore, jobs port.JobLog, workers int, logger *slog.Logger) *MovingAverageService {
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MovingAverageService{
		history:     history,
		simple:      simple,
		exponential: exponential,
		jobs:        jobs,
		workers:     workers,
		logger:      logger.With("component", "moving_average_service"),
	}
}

// RunJob computes both averages over the last windowSize prices of every
// currency pair. Only one job runs at a time.
func (s *MovingAverageService) RunJob(ctx context.Context, windowSize int) (*model.JobReport, error) {
	graph, err := pipeline.NewGraph(windowSize, s.logger)
	if err != nil {
		return nil, err
	}

	s.runMu.Lock()
	defer s.runMu.Unlock()

	report := &model.JobReport{
		ID:         uuid.NewString(),
		WindowSize: windowSize,
		StartedAt:  time.Now().UTC(),
	}
	logger := s.logger.With("job", report.ID, "window", windowSize)

	if err := s.history.Ping(ctx); err != nil {
		report.Status = model.JobFailed
		report.Elapsed = time.Since(report.StartedAt)
		s.saveReport(ctx, logger, report)
		logger.Error("history store unreachable, result stores untouched", "error", err)
		return report, fmt.Errorf("%w: failed to reach history store: %w", ErrJobFailed, err)
	}

	partitions := s.history.Partitions()
	logger.Info("job started", "partitions", partitions)

	runs := s.runPartitions(ctx, graph, partitions)

	var simple, exponential []model.AverageResult
	failed := make(map[int]bool)
	for p, run := range runs {
		outcome := model.PartitionOutcome{Partition: p}
		if run.err != nil {
			outcome.Err = run.err
			outcome.Error = run.err.Error()
			failed[p] = true
			report.FailedPartitions = append(report.FailedPartitions, p)
			logger.Error("partition failed", "partition", p, "error", run.err)
		} else {
			res := run.result
			outcome.Records = res.Records
			outcome.Currencies = res.Windows
			outcome.SkippedSimple = pairNames(res.SkippedSimple)
			outcome.SkippedExponential = pairNames(res.SkippedExponential)
			simple = append(simple, res.Simple...)
			exponential = append(exponential, res.Exponential...)
			report.SucceededPartitions = append(report.SucceededPartitions, p)
		}
		report.Partitions = append(report.Partitions, outcome)
	}

	switch {
	case len(failed) == 0:
		report.Status = model.JobSucceeded
	case len(failed) == partitions:
		report.Status = model.JobFailed
	default:
		report.Status = model.JobPartiallyFailed
	}

	if report.Status == model.JobFailed {
		report.Elapsed = time.Since(report.StartedAt)
		s.saveReport(ctx, logger, report)
		logger.Error("job failed, result stores untouched", "elapsed", report.Elapsed)
		return report, fmt.Errorf("%w: all %d partitions failed", ErrJobFailed, partitions)
	}

	if report.Status == model.JobPartiallyFailed {
		if simple, err = s.carryOver(ctx, s.simple, simple, failed, partitions); err != nil {
			return report, err
		}
		if exponential, err = s.carryOver(ctx, s.exponential, exponential, failed, partitions); err != nil {
			return report, err
		}
	}

	if err := s.publish(ctx, simple, exponential); err != nil {
		return report, err
	}

	report.SimpleCount = len(simple)
	report.ExponentialCount = len(exponential)
	report.Elapsed = time.Since(report.StartedAt)
	s.saveReport(ctx, logger, report)

	logger.Info("job complete",
		"status", report.Status,
		"sma", report.SimpleCount,
		"ema", report.ExponentialCount,
		"elapsed", report.Elapsed)
	return report, nil
}

// runPartitions feeds every partition index through a worker pool of at most
// one worker per partition. A partition the pool never reached reports the
// context error.
func (s *MovingAverageService) runPartitions(ctx context.Context, graph *pipeline.Graph, partitions int) []partitionRun {
	type indexed struct {
		partition int
		run       partitionRun
	}

	pool := worker.NewPool[int, indexed](min(s.workers, partitions), func(ctx context.Context, _ int, p int) indexed {
		res, err := graph.Run(ctx, s.history, p)
		return indexed{partition: p, run: partitionRun{result: res, err: err}}
	}, s.logger)

	in := make(chan int)
	go func() {
		defer close(in)
		for p := 0; p < partitions; p++ {
			select {
			case <-ctx.Done():
				return
			case in <- p:
			}
		}
	}()

	runs := make([]partitionRun, partitions)
	seen := make([]bool, partitions)
	for out := range pool.Start(ctx, in) {
		runs[out.partition] = out.run
		seen[out.partition] = true
	}
	for p := range runs {
		if !seen[p] {
			err := ctx.Err()
			if err == nil {
				err = errors.New("partition was not processed")
			}
			runs[p] = partitionRun{err: err}
		}
	}
	return runs
}

// carryOver keeps the published results of pairs owned by failed partitions.
func (s *MovingAverageService) carryOver(ctx context.Context, store port.ResultStore, fresh []model.AverageResult, failed map[int]bool, partitions int) ([]model.AverageResult, error) {
	previous, err := store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read previous %s results: %w", store.Kind(), err)
	}
	out := slices.Clone(fresh)
	for _, r := range previous {
		key := model.CurrencyKey{From: r.Pair.From, To: r.Pair.To}
		if failed[routing.PartitionOf(key, partitions)] {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *MovingAverageService) publish(ctx context.Context, simple, exponential []model.AverageResult) error {
	grp, ctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		return pipeline.NewSinkWriter(s.simple, s.logger).Write(ctx, simple)
	})
	grp.Go(func() error {
		return pipeline.NewSinkWriter(s.exponential, s.logger).Write(ctx, exponential)
	})
	return grp.Wait()
}

func (s *MovingAverageService) saveReport(ctx context.Context, logger *slog.Logger, report *model.JobReport) {
	if s.jobs == nil {
		return
	}
	if err := s.jobs.SaveJobReport(ctx, report); err != nil {
		logger.Error("failed to save job report", "error", err)
	}
}

// Start reruns the job every interval until Stop is called or ctx is done.
func (s *MovingAverageService) Start(ctx context.Context, interval time.Duration, windowSize int) {
	if interval <= 0 {
		s.logger.Info("job schedule disabled")
		return
	}

	s.mu.Lock()
	// A restart replaces the running schedule.
	s.stopLocked()
	s.ticker = time.NewTicker(interval)
	s.done = make(chan struct{})
	tick, done := s.ticker, s.done
	s.loops.Add(1)
	s.mu.Unlock()

	s.logger.Info("job schedule starting", "interval", interval.String(), "window", windowSize)
	go s.scheduleLoop(ctx, tick, done, windowSize)
}

func (s *MovingAverageService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	s.logger.Info("job schedule stopped")
}

func (s *MovingAverageService) stopLocked() {
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
	if s.done != nil {
		close(s.done)
		s.done = nil
	}
}

func (s *MovingAverageService) scheduleLoop(ctx context.Context, tick *time.Ticker, done <-chan struct{}, windowSize int) {
	defer s.loops.Done()
	for {
		select {
		case <-tick.C:
			if _, err := s.RunJob(ctx, windowSize); err != nil {
				s.logger.Error("scheduled job failed", "error", err)
			}
		case <-done:
			return
		case <-ctx.Done():
			s.logger.Info("job schedule cancelled by context")
			return
		}
	}
}

func pairNames(pairs []model.CurrencyPair) []string {
	if len(pairs) == 0 {
		return nil
	}
	out := make([]string, len(pairs))
	for i, p := range pairs {
		out[i] = p.String()
	}
	return out
}
