package memory

import (
	"context"
	"sync"

	"fxaverages/internal/domain/model"
)

// JobLog keeps the most recent job reports, newest last.
type JobLog struct {
	mu      sync.RWMutex
	limit   int
	reports []model.JobReport
}

func NewJobLog(limit int) *JobLog {
	if limit < 1 {
		limit = 100
	}
	return &JobLog{limit: limit}
}

func (l *JobLog) SaveJobReport(_ context.Context, report *model.JobReport) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.reports = append(l.reports, *report)
	if len(l.reports) > l.limit {
		l.reports = l.reports[len(l.reports)-l.limit:]
	}
	return nil
}

// RecentJobs returns up to limit reports, newest first.
func (l *JobLog) RecentJobs(_ context.Context, limit int) ([]model.JobReport, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if limit <= 0 || limit > len(l.reports) {
		limit = len(l.reports)
	}
	out := make([]model.JobReport, 0, limit)
	for i := len(l.reports) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, l.reports[i])
	}
	return out, nil
}

func (l *JobLog) Ping(context.Context) error {
	return nil
}
