// Package export produces XLSX reports from the run ledger.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/dexter-eng/bidextract/internal/entity"
	"github.com/dexter-eng/bidextract/internal/repository"
)

// Service is a tiny façade over the store that produces XLSX bytes for
// run-history exports.
type Service struct {
	store  *repository.Store
	logger *slog.Logger
}

func NewService(store *repository.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// RunHistoryXLSX returns an XLSX workbook (as bytes) with the most recent
// runs, newest first.
func (s *Service) RunHistoryXLSX(ctx context.Context, limit int) ([]byte, error) {
	start := time.Now()

	history, err := s.store.RunHistory(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("query run history: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Runs"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Run ID",
		"Status",
		"Model",
		"Cache Hit",
		"Prompt Chars",
		"Response Chars",
		"Started At",
		"Ended At",
		"Elapsed",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for rowIdx, run := range history {
		values := []any{
			run.ID,
			run.Status,
			run.Model,
			run.CacheHit,
			run.PromptChars,
			run.ResponseChars,
			formatTime(run.StartedAt),
			formatTime(run.EndedAt),
			formatElapsed(run),
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("export.run_history",
		"rows", len(history),
		"bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}

func formatElapsed(run entity.RunSummary) string {
	if elapsed, ok := run.Elapsed(); ok {
		return fmt.Sprintf("%.1fs", elapsed.Seconds())
	}
	return "-"
}
