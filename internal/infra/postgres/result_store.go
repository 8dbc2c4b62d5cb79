package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"iq-quiz-service/internal/domain"
)

// ResultStore keeps result records as raw JSON text in the quiz_results table.
// The text is stored as written so a corrupt value reaches the decoder.
type ResultStore struct {
	pool *pgxpool.Pool
}

func NewResultStore(pool *pgxpool.Pool) *ResultStore {
	return &ResultStore{pool: pool}
}

func (s *ResultStore) Get(ctx context.Context, key string) (string, error) {
	var raw string
	err := s.pool.QueryRow(ctx, `SELECT data FROM quiz_results WHERE key=$1`, key).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", domain.ErrRecordNotFound
	}
	if err != nil {
		return "", fmt.Errorf("load result: %w", err)
	}
	return raw, nil
}

func (s *ResultStore) Set(ctx context.Context, key, value string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO quiz_results (key, data, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET data=EXCLUDED.data, updated_at=EXCLUDED.updated_at`, key, value)
	if err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	return nil
}

func (s *ResultStore) Delete(ctx context.Context, key string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM quiz_results WHERE key=$1`, key); err != nil {
		return fmt.Errorf("delete result: %w", err)
	}
	return nil
}
