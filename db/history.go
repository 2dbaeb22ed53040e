package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"bgclear/batch"
)

// RunRecord is a row of the runs table.
type RunRecord struct {
	ID           int64
	RunID        string
	Plan         string   // profile or manifest name
	Policies     []string // chain order
	ReplaceColor bool
	StartedAt    time.Time
	FinishedAt   time.Time // zero while the run is in progress
	Processed    int
	NotFound     int
	Failed       int
	Interrupted  bool
}

// FileResultRecord is a row of the file_results table.
type FileResultRecord struct {
	ID            int64
	RunID         string
	Path          string
	Output        string
	Status        batch.Status
	ErrorMessage  string
	PixelsTotal   int
	PixelsCleared int
	ByPolicy      map[string]int
	DurationMS    int64
	CreatedAt     time.Time
}

// HistoryStore writes an audit trail of runs. Nothing in the batch reads it
// back, so it never changes how files are processed.
//
// It implements batch.Observer. Write failures are logged, not returned,
// so a broken history database cannot fail a batch.
type HistoryStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// OpenHistory migrates and opens the history database at path.
func OpenHistory(path string, logger *zap.Logger) (*HistoryStore, error) {
	if err := MigrateUp(path); err != nil {
		return nil, fmt.Errorf("history migration failed: %w", err)
	}
	conn, err := NewSQLiteConnection(DefaultConnectionConfig(path))
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistoryStore{db: conn, logger: logger.Named("history")}, nil
}

// Close closes the database.
func (h *HistoryStore) Close() error {
	return h.db.Close()
}

// BeginRun inserts the run row. Call it before the first result is recorded.
func (h *HistoryStore) BeginRun(ctx context.Context, runID string, plan batch.Plan, startedAt time.Time) error {
	_, err := h.db.ExecContext(ctx, `
		INSERT INTO runs (run_id, plan, policies, replace_color, started_at)
		VALUES (?, ?, ?, ?, ?)`,
		runID, plan.Name, strings.Join(plan.Chain.Names(), ","), plan.ReplaceColor, startedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// OnResult records one file outcome.
func (h *HistoryStore) OnResult(ctx context.Context, res batch.Result) {
	if err := h.RecordResult(ctx, res); err != nil {
		h.logger.Warn("Failed to record file result", zap.String("path", res.Job.Path), zap.Error(err))
	}
}

// RecordResult inserts a file_results row.
func (h *HistoryStore) RecordResult(ctx context.Context, res batch.Result) error {
	var errMsg, byPolicy interface{}
	if res.Err != nil {
		errMsg = res.Err.Error()
	}
	if len(res.Stats.ByPolicy) > 0 {
		data, err := json.Marshal(res.Stats.ByPolicy)
		if err != nil {
			return fmt.Errorf("failed to encode policy counts: %w", err)
		}
		byPolicy = string(data)
	}

	_, err := h.db.ExecContext(ctx, `
		INSERT INTO file_results (
			run_id, path, output, status, error_message,
			pixels_total, pixels_cleared, by_policy, duration_ms, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.RunID, res.Job.Path, nullString(res.Job.Output), string(res.Status), errMsg,
		res.Stats.Total, res.Stats.Cleared, byPolicy, res.Duration.Milliseconds(), time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert file result: %w", err)
	}
	return nil
}

// FinishRun stores the run totals.
func (h *HistoryStore) FinishRun(ctx context.Context, sum batch.Summary) error {
	result, err := h.db.ExecContext(ctx, `
		UPDATE runs
		SET finished_at = ?, processed = ?, not_found = ?, failed = ?, interrupted = ?
		WHERE run_id = ?`,
		sum.FinishedAt.UnixMilli(), sum.Processed, sum.NotFound, sum.Failed, sum.Interrupted, sum.RunID,
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("run %s was never started", sum.RunID)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (h *HistoryStore) RecentRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := h.db.QueryContext(ctx, `
		SELECT id, run_id, plan, policies, replace_color, started_at,
		       COALESCE(finished_at, 0), processed, not_found, failed, interrupted
		FROM runs
		ORDER BY started_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var rec RunRecord
		var policies string
		var started, finished int64

		if err := rows.Scan(
			&rec.ID, &rec.RunID, &rec.Plan, &policies, &rec.ReplaceColor, &started,
			&finished, &rec.Processed, &rec.NotFound, &rec.Failed, &rec.Interrupted,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}

		if policies != "" {
			rec.Policies = strings.Split(policies, ",")
		}
		rec.StartedAt = time.UnixMilli(started)
		if finished != 0 {
			rec.FinishedAt = time.UnixMilli(finished)
		}
		runs = append(runs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run rows: %w", err)
	}
	return runs, nil
}

// ResultsForRun returns the file results of one run in processing order.
func (h *HistoryStore) ResultsForRun(ctx context.Context, runID string) ([]FileResultRecord, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT id, run_id, path, COALESCE(output, ''), status, COALESCE(error_message, ''),
		       pixels_total, pixels_cleared, COALESCE(by_policy, ''), duration_ms, created_at
		FROM file_results
		WHERE run_id = ?
		ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query file results: %w", err)
	}
	defer rows.Close()

	var results []FileResultRecord
	for rows.Next() {
		var rec FileResultRecord
		var status, byPolicy string
		var created int64

		if err := rows.Scan(
			&rec.ID, &rec.RunID, &rec.Path, &rec.Output, &status, &rec.ErrorMessage,
			&rec.PixelsTotal, &rec.PixelsCleared, &byPolicy, &rec.DurationMS, &created,
		); err != nil {
			return nil, fmt.Errorf("failed to scan file result row: %w", err)
		}

		rec.Status = batch.Status(status)
		rec.CreatedAt = time.UnixMilli(created)
		if byPolicy != "" {
			if err := json.Unmarshal([]byte(byPolicy), &rec.ByPolicy); err != nil {
				return nil, fmt.Errorf("failed to decode policy counts: %w", err)
			}
		}
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating file result rows: %w", err)
	}
	return results, nil
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
