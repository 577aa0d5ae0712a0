package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dexter-eng/bidextract/internal/entity"
)

// StartRun inserts a new run row with status "running" and no end time.
// Every call inserts; the ledger is append-only.
func (s *Store) StartRun(ctx context.Context, documentID int64, model, pipelineVersion string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO runs (document_id, pipeline_version, model, llm_model, started_at, status) VALUES (?, ?, ?, ?, ?, ?)",
		documentID, pipelineVersion, model, model, nowUTC(), string(entity.RunStatusRunning),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}
	s.log.Info("store.run_started", "run_id", id, "document_id", documentID, "model", model)
	return id, nil
}

// RecordRunMetrics writes the usage metrics of a run. Called at most once
// per run.
func (s *Store) RecordRunMetrics(ctx context.Context, runID int64, promptChars, responseChars int, cacheHit bool, requestID string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE runs SET prompt_chars = ?, response_chars = ?, cache_hit = ?, request_id = ? WHERE id = ?",
		promptChars, responseChars, boolToInt(cacheHit), nullString(requestID), runID,
	)
	if err != nil {
		return fmt.Errorf("recording run metrics: %w", err)
	}
	return nil
}

// FinishRun sets the terminal status and end timestamp. errMsg is stored
// only for error status.
func (s *Store) FinishRun(ctx context.Context, runID int64, status entity.RunStatus, errMsg string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE runs SET ended_at = ?, status = ?, error = ? WHERE id = ?",
		nowUTC(), string(status), nullString(errMsg), runID,
	)
	if err != nil {
		return fmt.Errorf("finishing run: %w", err)
	}
	s.log.Info("store.run_finished", "run_id", runID, "status", string(status))
	return nil
}

// GetRun reads one run row.
func (s *Store) GetRun(ctx context.Context, runID int64) (*entity.Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, document_id, pipeline_version, model, started_at, ended_at, status, error,
		       prompt_chars, response_chars, cache_hit, request_id
		FROM runs WHERE id = ?
	`, runID)

	var (
		run                             entity.Run
		startedAt, endedAt, errMsg      sql.NullString
		promptChars, responseChars, hit sql.NullInt64
		requestID                       sql.NullString
	)
	if err := row.Scan(&run.ID, &run.DocumentID, &run.PipelineVersion, &run.Model,
		&startedAt, &endedAt, &run.Status, &errMsg,
		&promptChars, &responseChars, &hit, &requestID); err != nil {
		return nil, fmt.Errorf("scanning run: %w", err)
	}

	if t, ok := parseTime(startedAt); ok {
		run.StartedAt = t
	}
	if t, ok := parseTime(endedAt); ok {
		run.EndedAt = &t
	}
	run.Error = errMsg.String
	run.PromptChars = int(promptChars.Int64)
	run.ResponseChars = int(responseChars.Int64)
	run.CacheHit = hit.Int64 == 1
	run.RequestID = requestID.String
	return &run, nil
}

// RunHistory returns the most recent runs, newest first.
func (s *Store) RunHistory(ctx context.Context, limit int) ([]entity.RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, status, cache_hit, prompt_chars, response_chars, model, started_at, ended_at
		FROM runs ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying run history: %w", err)
	}
	defer rows.Close()

	var history []entity.RunSummary
	for rows.Next() {
		var (
			sum                             entity.RunSummary
			status, model                   sql.NullString
			hit, promptChars, responseChars sql.NullInt64
			startedAt, endedAt              sql.NullString
		)
		if err := rows.Scan(&sum.ID, &status, &hit, &promptChars, &responseChars,
			&model, &startedAt, &endedAt); err != nil {
			return nil, fmt.Errorf("scanning run summary: %w", err)
		}
		sum.Status = status.String
		sum.CacheHit = hit.Int64 == 1
		sum.PromptChars = int(promptChars.Int64)
		sum.ResponseChars = int(responseChars.Int64)
		sum.Model = model.String
		if t, ok := parseTime(startedAt); ok {
			sum.StartedAt = &t
		}
		if t, ok := parseTime(endedAt); ok {
			sum.EndedAt = &t
		}
		history = append(history, sum)
	}
	return history, rows.Err()
}

// CacheStatistics aggregates cache entries and run-level hit counts. The hit
// rate is 0 when no runs exist.
func (s *Store) CacheStatistics(ctx context.Context) (entity.CacheStats, error) {
	var stats entity.CacheStats
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM llm_cache",
	).Scan(&stats.TotalCacheEntries); err != nil {
		return stats, fmt.Errorf("counting cache entries: %w", err)
	}
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(CASE WHEN cache_hit = 1 THEN 1 ELSE 0 END), 0) FROM runs",
	).Scan(&stats.TotalRuns, &stats.CacheHits); err != nil {
		return stats, fmt.Errorf("counting runs: %w", err)
	}
	if stats.TotalRuns > 0 {
		stats.HitRate = float64(stats.CacheHits) / float64(stats.TotalRuns)
	}
	return stats, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func parseTime(ns sql.NullString) (time.Time, bool) {
	if !ns.Valid || ns.String == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, ns.String)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
