package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"fxaverages/internal/domain/model"
)

type PostgresAdapter struct {
	db *sql.DB
}

func NewPostgresAdapter(connStr string) (*PostgresAdapter, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresAdapter{db: db}, nil
}

// NewPostgresAdapterFromDB wraps an already opened handle.
func NewPostgresAdapterFromDB(db *sql.DB) *PostgresAdapter {
	return &PostgresAdapter{db: db}
}

func (a *PostgresAdapter) InitSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS moving_averages (
		kind VARCHAR(8) NOT NULL,
		currency CHAR(3) NOT NULL,
		source CHAR(3) NOT NULL,
		value NUMERIC(20, 2) NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (kind, currency)
	);
	CREATE TABLE IF NOT EXISTS job_runs (
		id UUID PRIMARY KEY,
		window_size INTEGER NOT NULL,
		status VARCHAR(20) NOT NULL,
		started_at TIMESTAMPTZ NOT NULL,
		elapsed_ms BIGINT NOT NULL,
		report JSONB NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_job_runs_started_at ON job_runs(started_at DESC);
	`
	if _, err := a.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to init schema: %w", err)
	}
	return nil
}

func (a *PostgresAdapter) Ping(ctx context.Context) error {
	return a.db.PingContext(ctx)
}

func (a *PostgresAdapter) Close() error {
	return a.db.Close()
}

// ResultStore returns the rows of moving_averages for one branch.
func (a *PostgresAdapter) ResultStore(kind model.AverageKind) *ResultStore {
	return &ResultStore{db: a.db, kind: kind}
}

func (a *PostgresAdapter) SaveJobReport(ctx context.Context, report *model.JobReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal job report: %w", err)
	}

	_, err = a.db.ExecContext(ctx,
		`INSERT INTO job_runs (id, window_size, status, started_at, elapsed_ms, report)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status, elapsed_ms = EXCLUDED.elapsed_ms, report = EXCLUDED.report`,
		report.ID, report.WindowSize, string(report.Status), report.StartedAt, report.Elapsed.Milliseconds(), data)
	if err != nil {
		return fmt.Errorf("failed to save job report: %w", err)
	}
	return nil
}

// RecentJobs returns up to limit reports, newest first.
func (a *PostgresAdapter) RecentJobs(ctx context.Context, limit int) ([]model.JobReport, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := a.db.QueryContext(ctx, `SELECT report FROM job_runs ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query job runs: %w", err)
	}
	defer rows.Close()

	var out []model.JobReport
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan job run: %w", err)
		}
		var report model.JobReport
		if err := json.Unmarshal(data, &report); err != nil {
			return nil, fmt.Errorf("failed to unmarshal job run: %w", err)
		}
		out = append(out, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate job runs: %w", err)
	}
	return out, nil
}

// ResultStore keeps one branch's averages keyed by (kind, currency).
type ResultStore struct {
	db   *sql.DB
	kind model.AverageKind
}

func (s *ResultStore) Kind() model.AverageKind {
	return s.kind
}

// Replace deletes the branch's rows and inserts results in one transaction.
func (s *ResultStore) Replace(ctx context.Context, results []model.AverageResult) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM moving_averages WHERE kind = $1`, s.kind.String()); err != nil {
		return fmt.Errorf("failed to clear %s: %w", s.kind, err)
	}
	for _, r := range results {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO moving_averages (kind, currency, source, value) VALUES ($1, $2, $3, $4)`,
			s.kind.String(), r.Currency().String(), r.Pair.From.String(), r.Value.StringFixed(model.AveragePlaces))
		if err != nil {
			return fmt.Errorf("failed to insert %s %s: %w", s.kind, r.Currency(), err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s: %w", s.kind, err)
	}
	return nil
}

func (s *ResultStore) List(ctx context.Context) ([]model.AverageResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT currency, source, value FROM moving_averages WHERE kind = $1 ORDER BY currency`, s.kind.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", s.kind, err)
	}
	defer rows.Close()

	var out []model.AverageResult
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", s.kind, err)
	}
	return out, nil
}

func (s *ResultStore) Get(ctx context.Context, currency model.Currency) (*model.AverageResult, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT currency, source, value FROM moving_averages WHERE kind = $1 AND currency = $2`,
		s.kind.String(), currency.String())

	r, err := scanResult(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &r, nil
}

func (s *ResultStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close is a no-op; the handle belongs to PostgresAdapter.
func (s *ResultStore) Close() error {
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(row scanner) (model.AverageResult, error) {
	var (
		to, from string
		value    decimal.Decimal
	)
	if err := row.Scan(&to, &from, &value); err != nil {
		if err == sql.ErrNoRows {
			return model.AverageResult{}, err
		}
		return model.AverageResult{}, fmt.Errorf("failed to scan average: %w", err)
	}
	return model.AverageResult{
		Pair:  model.CurrencyPair{From: model.Currency(from), To: model.Currency(to)},
		Value: value,
	}, nil
}
