package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"iq-quiz-service/internal/domain"
)

const schema = `CREATE TABLE IF NOT EXISTS quiz_results (
	key        TEXT PRIMARY KEY,
	data       TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// ResultStore keeps result records in a local SQLite file, the closest
// server-side analogue of per-browser storage for single-node deployments.
type ResultStore struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and ensures the schema.
// Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path string) (*ResultStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one writer; also keeps a ":memory:" database on a single connection
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &ResultStore{db: db}, nil
}

func (s *ResultStore) Close() error {
	return s.db.Close()
}

func (s *ResultStore) Get(ctx context.Context, key string) (string, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM quiz_results WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrRecordNotFound
	}
	if err != nil {
		return "", fmt.Errorf("load result: %w", err)
	}
	return raw, nil
}

func (s *ResultStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO quiz_results (key, data, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`, key, value)
	if err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	return nil
}

func (s *ResultStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM quiz_results WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete result: %w", err)
	}
	return nil
}
