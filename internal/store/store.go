package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS dataset_runs (
	id          uuid PRIMARY KEY,
	data_dir    text NOT NULL,
	output      text NOT NULL,
	records     integer NOT NULL,
	messages    integer NOT NULL,
	segments    integer NOT NULL,
	prompts     integer NOT NULL,
	started_at  timestamptz NOT NULL,
	finished_at timestamptz NOT NULL
);

CREATE TABLE IF NOT EXISTS dataset_prompts (
	id            uuid PRIMARY KEY,
	run_id        uuid NOT NULL REFERENCES dataset_runs(id) ON DELETE CASCADE,
	position      integer NOT NULL,
	instruction   text NOT NULL,
	messages      jsonb NOT NULL,
	message_count integer NOT NULL,
	UNIQUE (run_id, position)
);`

// Migrate creates the dataset tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
