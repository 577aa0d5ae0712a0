// Package repository is the SQLite-backed run ledger and LLM response cache.
// One store instance is opened per process and reused across pipeline runs.
package repository

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// Store wraps the single database holding documents, runs and the response
// cache. All writes commit immediately; there are no cross-step transactions.
type Store struct {
	db   *sql.DB
	path string
	log  *slog.Logger
}

const createTablesSQL = `
CREATE TABLE IF NOT EXISTS documents (
	id INTEGER PRIMARY KEY,
	path TEXT,
	sha256 TEXT UNIQUE,
	pages INTEGER,
	chars INTEGER,
	created_at TEXT
);

CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY,
	document_id INTEGER,
	pipeline_version TEXT,
	model TEXT,
	started_at TEXT,
	ended_at TEXT,
	status TEXT,
	error TEXT
);

CREATE TABLE IF NOT EXISTS llm_cache (
	id INTEGER PRIMARY KEY,
	prompt_hash TEXT,
	model TEXT,
	response_text TEXT,
	created_at TEXT,
	UNIQUE(prompt_hash, model)
);
`

// migrations lists columns added after the initial schema. Opening a store
// created under the old column set adds them with NULL defaults and leaves
// existing rows untouched; re-running against a migrated store is a no-op.
var migrations = map[string][]struct{ name, ddl string }{
	"runs": {
		{"prompt_chars", "prompt_chars INTEGER"},
		{"response_chars", "response_chars INTEGER"},
		{"cache_hit", "cache_hit INTEGER"},
		{"llm_model", "llm_model TEXT"},
		{"request_id", "request_id TEXT"},
	},
	"llm_cache": {
		{"prompt_chars", "prompt_chars INTEGER"},
		{"response_chars", "response_chars INTEGER"},
		{"response_sha256", "response_sha256 TEXT"},
	},
}

// Open opens (or creates) the store at path and brings the schema up to
// date.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: path, log: logger}
	if _, err := db.Exec(createTablesSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	logger.Info("store.opened", "path", path)
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate adds any missing columns. Additive and non-destructive only.
func (s *Store) migrate() error {
	for table, cols := range migrations {
		existing, err := s.tableColumns(table)
		if err != nil {
			return err
		}
		for _, col := range cols {
			if existing[col.name] {
				continue
			}
			stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", table, col.ddl)
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("adding column %s.%s: %w", table, col.name, err)
			}
			s.log.Info("store.migrated_column", "table", table, "column", col.name)
		}
	}
	return nil
}

func (s *Store) tableColumns(table string) (map[string]bool, error) {
	rows, err := s.db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, fmt.Errorf("reading columns of %s: %w", table, err)
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var (
			cid, notnull, pk int
			name, ctype      string
			dflt             sql.NullString
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("scanning column info: %w", err)
		}
		cols[name] = true
	}
	return cols, rows.Err()
}

func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}
