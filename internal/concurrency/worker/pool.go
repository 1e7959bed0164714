package worker

import (
	"context"
	"log/slog"

	"fxaverages/internal/concurrency/fanin"
)

// ProcessFunc handles one item on the given worker.
type ProcessFunc[In, Out any] func(ctx context.Context, worker int, item In) Out

// Pool runs a fixed number of workers over a shared input channel.
type Pool[In, Out any] struct {
	workers int
	process ProcessFunc[In, Out]
	logger  *slog.Logger
}

// NewPool creates a pool with at least one worker.
func NewPool[In, Out any](workers int, process ProcessFunc[In, Out], logger *slog.Logger) *Pool[In, Out] {
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pool[In, Out]{
		workers: workers,
		process: process,
		logger:  logger,
	}
}

func (p *Pool[In, Out]) Workers() int {
	return p.workers
}

// Start launches the workers and returns the merged results. The output is
// closed when in is exhausted or ctx is done and every worker has returned.
func (p *Pool[In, Out]) Start(ctx context.Context, in <-chan In) <-chan Out {
	outs := make([]<-chan Out, p.workers)
	for i := 0; i < p.workers; i++ {
		out := make(chan Out)
		outs[i] = out
		go func(id int) {
			defer close(out)
			p.workerLoop(ctx, id, in, out)
		}(i)
	}
	p.logger.Debug("worker pool started", "workers", p.workers)
	return fanin.FanIn(outs...)
}

func (p *Pool[In, Out]) workerLoop(ctx context.Context, id int, in <-chan In, out chan<- Out) {
	for {
		select {
		case <-ctx.Done():
			return
		case item, ok := <-in:
			if !ok {
				return
			}
			result := p.process(ctx, id, item)

			select {
			case <-ctx.Done():
				return
			case out <- result:
			}
		}
	}
}
