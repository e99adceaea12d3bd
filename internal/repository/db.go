package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"
)

// Config holds session-store settings. Path may be ":memory:" for a
// throwaway store that lives only as long as the process.
type Config struct {
	Path        string
	DialTimeout time.Duration
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS document_results (
	id              TEXT PRIMARY KEY,
	file_name       TEXT NOT NULL,
	employee_name   TEXT NOT NULL,
	total_hours     REAL,
	detected_values TEXT NOT NULL DEFAULT '',
	detected_count  INTEGER NOT NULL DEFAULT 0,
	kind            TEXT NOT NULL,
	origin          TEXT NOT NULL,
	processed_at    TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_document_results_processed_at
	ON document_results (processed_at);
`

// Open opens the SQLite store and ensures the schema exists.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*sql.DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Path == "" {
		cfg.Path = ":memory:"
	}
	logger.Info("opening result store", "path", cfg.Path)

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	// modernc sqlite does not support concurrent writers on one file.
	db.SetMaxOpenConns(1)

	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping store: %w", err)
	}
	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	logger.Info("result store ready")
	return db, nil
}

// Close closes the store gracefully.
func Close(db *sql.DB, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		logger.Error("failed to close result store", "error", err)
		return
	}
	logger.Info("result store closed")
}
