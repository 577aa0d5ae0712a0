package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dexter-eng/bidextract/internal/common"
)

// Get looks up a cached response. Both the prompt fingerprint and the model
// must match; identical prompts sent to different models never share an
// entry.
func (s *Store) Get(ctx context.Context, promptHash, model string) (string, bool, error) {
	var response string
	err := s.db.QueryRowContext(ctx,
		"SELECT response_text FROM llm_cache WHERE prompt_hash = ? AND model = ?",
		promptHash, model,
	).Scan(&response)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("querying cache: %w", err)
	}
	return response, true, nil
}

// Put stores a response under (promptHash, model). First write wins: a later
// Put for the same key is a no-op, so a cached answer is a historical fact
// that never changes for the lifetime of the store.
func (s *Store) Put(ctx context.Context, promptHash, model, responseText string, promptChars, responseChars int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO llm_cache
			(prompt_hash, model, response_text, created_at, prompt_chars, response_chars, response_sha256)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, promptHash, model, responseText, nowUTC(), promptChars, responseChars, common.SHA256Hex(responseText))
	if err != nil {
		return fmt.Errorf("storing cache entry: %w", err)
	}
	return nil
}
