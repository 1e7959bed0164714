package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"fxaverages/internal/concurrency/fanout"
	"fxaverages/internal/domain/model"
	"fxaverages/internal/domain/routing"
)

// MaxWindowSize caps the number of most recent prices a job may average.
const MaxWindowSize = 10

// PartitionReader is the slice of the history store a graph instance needs.
type PartitionReader interface {
	Partitions() int
	ScanPartition(ctx context.Context, partition int) ([]model.HistoryEntry, error)
}

// PartitionResult is what one successful graph instance produced.
type PartitionResult struct {
	Partition          int
	Records            int
	Windows            int
	Simple             []model.AverageResult
	Exponential        []model.AverageResult
	SkippedSimple      []model.CurrencyPair
	SkippedExponential []model.CurrencyPair
}

// Graph wires reader -> router -> collator -> {sma, ema} for one partition.
type Graph struct {
	windowSize int
	logger     *slog.Logger
}

// NewGraph validates the window size before any data is touched.
func NewGraph(windowSize int, logger *slog.Logger) (*Graph, error) {
	if windowSize > MaxWindowSize {
		return nil, fmt.Errorf("%w: processing capped at last %d, supplied %d", ErrWindowSizeExceeded, MaxWindowSize, windowSize)
	}
	if windowSize < 1 {
		return nil, fmt.Errorf("%w: supplied %d", ErrInvalidWindowSize, windowSize)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Graph{
		windowSize: windowSize,
		logger:     logger,
	}, nil
}

func (g *Graph) WindowSize() int {
	return g.windowSize
}

// Run executes one instance of the graph over a single partition. Nothing is
// returned unless every stage finished; a failed instance yields no results.
func (g *Graph) Run(ctx context.Context, src PartitionReader, partition int) (*PartitionResult, error) {
	partitions := src.Partitions()
	if partition < 0 || partition >= partitions {
		return nil, fmt.Errorf("partition %d out of range [0,%d)", partition, partitions)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger := g.logger.With("partition", partition)
	grp, ctx := errgroup.WithContext(ctx)

	records := make(chan model.HistoryEntry)
	routed := make(chan model.HistoryEntry)
	windows := make(chan CollatedWindow)
	result := &PartitionResult{Partition: partition}

	grp.Go(guard("source", func() error {
		defer close(records)
		return readPartition(ctx, src, partition, records)
	}))

	grp.Go(guard("router", func() error {
		defer close(routed)
		return route(ctx, records, routed, partition, partitions)
	}))

	grp.Go(guard("collator", func() error {
		defer close(windows)
		n, emitted, err := g.collate(ctx, routed, windows)
		result.Records = n
		result.Windows = emitted
		return err
	}))

	simple := NewSimpleAggregator(logger)
	exponential := NewExponentialAggregator(logger)
	branches := fanout.Broadcast(ctx, windows, 2)
	for i, agg := range []Aggregator{simple, exponential} {
		in := branches[i]
		grp.Go(guard(agg.Kind().String(), func() error {
			return aggregate(ctx, agg, in)
		}))
	}

	if err := grp.Wait(); err != nil {
		logger.Error("partition pipeline failed", "error", err)
		return nil, err
	}

	result.Simple = simple.Results()
	result.Exponential = exponential.Results()
	result.SkippedSimple = simple.Skipped()
	result.SkippedExponential = exponential.Skipped()

	logger.Debug("partition pipeline complete",
		"records", result.Records,
		"windows", result.Windows,
		"sma", len(result.Simple),
		"ema", len(result.Exponential))
	return result, nil
}

func readPartition(ctx context.Context, src PartitionReader, partition int, out chan<- model.HistoryEntry) error {
	entries, err := src.ScanPartition(ctx, partition)
	if err != nil {
		return fmt.Errorf("failed to read partition %d: %w", partition, err)
	}
	for _, e := range entries {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case out <- e:
		}
	}
	return nil
}

// route checks each record against the shared routing function. The stores
// write with the same function, so a record owned by another partition means
// the store and the graph disagree.
func route(ctx context.Context, in <-chan model.HistoryEntry, out chan<- model.HistoryEntry, partition, partitions int) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e, ok := <-in:
			if !ok {
				return nil
			}
			if owner := routing.PartitionOf(e.Key, partitions); owner != partition {
				return fmt.Errorf("%w: %s owned by %d, read from %d", ErrMisrouted, e.Key, owner, partition)
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case out <- e:
			}
		}
	}
}

func (g *Graph) collate(ctx context.Context, in <-chan model.HistoryEntry, out chan<- CollatedWindow) (int, int, error) {
	collator := NewCollator(g.windowSize)
	observed := 0

loop:
	for {
		select {
		case <-ctx.Done():
			return observed, 0, ctx.Err()
		case e, ok := <-in:
			if !ok {
				break loop
			}
			if err := collator.Observe(e.Key, e.Close); err != nil {
				return observed, 0, err
			}
			observed++
		}
	}

	// The router has closed its output: all input for this partition is in.
	emitted := 0
	for _, w := range collator.Finalize() {
		select {
		case <-ctx.Done():
			return observed, emitted, ctx.Err()
		case out <- w:
			emitted++
		}
	}
	return observed, emitted, nil
}

func aggregate(ctx context.Context, agg Aggregator, in <-chan CollatedWindow) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case w, ok := <-in:
			if !ok {
				return nil
			}
			agg.Aggregate(w)
		}
	}
}

// guard turns a panic inside a stage into an error for this instance only.
func guard(stage string, fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%w: %s: %v", ErrStageFault, stage, r)
			}
		}()
		return fn()
	}
}
