package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/MikeSquared-Agency/convoset/internal/dataset"
)

// ErrNoRuns is returned by LatestRun when nothing has been recorded yet.
var ErrNoRuns = errors.New("no runs recorded")

// Run is the persisted summary of one pipeline run.
type Run struct {
	ID         uuid.UUID
	DataDir    string
	Output     string
	Records    int
	Messages   int
	Segments   int
	Prompts    int
	StartedAt  time.Time
	FinishedAt time.Time
}

// RecordRun writes the run summary and every prompt it produced in a single
// transaction. Prompts keep their emission order in the position column.
func (s *Store) RecordRun(ctx context.Context, run Run, prompts []dataset.Prompt) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO dataset_runs (id, data_dir, output, records, messages, segments, prompts, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		run.ID, run.DataDir, run.Output, run.Records, run.Messages, run.Segments, run.Prompts,
		run.StartedAt, run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	rows := make([][]any, len(prompts))
	for i, p := range prompts {
		rows[i] = []any{uuid.New(), run.ID, i, p.Instruction, p.Messages, len(p.Messages)}
	}
	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"dataset_prompts"},
		[]string{"id", "run_id", "position", "instruction", "messages", "message_count"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("copy prompts: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// LatestRun returns the most recently finished run.
func (s *Store) LatestRun(ctx context.Context) (*Run, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, data_dir, output, records, messages, segments, prompts, started_at, finished_at
		FROM dataset_runs
		ORDER BY finished_at DESC
		LIMIT 1`)

	var r Run
	err := row.Scan(&r.ID, &r.DataDir, &r.Output, &r.Records, &r.Messages, &r.Segments, &r.Prompts, &r.StartedAt, &r.FinishedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoRuns
	}
	if err != nil {
		return nil, fmt.Errorf("query latest run: %w", err)
	}
	return &r, nil
}

// RunPrompts returns the prompts stored for a run in emission order.
func (s *Store) RunPrompts(ctx context.Context, runID uuid.UUID) ([]dataset.Prompt, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT instruction, messages
		FROM dataset_prompts
		WHERE run_id = $1
		ORDER BY position`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query prompts: %w", err)
	}
	defer rows.Close()

	var prompts []dataset.Prompt
	for rows.Next() {
		var p dataset.Prompt
		if err := rows.Scan(&p.Instruction, &p.Messages); err != nil {
			return nil, fmt.Errorf("scan prompt: %w", err)
		}
		prompts = append(prompts, p)
	}
	return prompts, rows.Err()
}
