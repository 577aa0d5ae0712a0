package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// GetOrCreateDocument returns the id of the document with the given content
// fingerprint, inserting a new row when the fingerprint is unseen. Idempotent
// on sha256: the same content maps to the same document regardless of path.
func (s *Store) GetOrCreateDocument(ctx context.Context, path, sha256 string, pages, chars int) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		"SELECT id FROM documents WHERE sha256 = ?", sha256,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("querying document: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO documents (path, sha256, pages, chars, created_at) VALUES (?, ?, ?, ?, ?)",
		path, sha256, pages, chars, nowUTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting document: %w", err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading document id: %w", err)
	}
	s.log.Info("store.document_created", "document_id", id, "path", path)
	return id, nil
}
