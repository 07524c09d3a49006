package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/convoset/internal/dataset"
	"github.com/MikeSquared-Agency/convoset/internal/hermes"
	"github.com/MikeSquared-Agency/convoset/internal/loader"
	"github.com/MikeSquared-Agency/convoset/internal/output"
	"github.com/MikeSquared-Agency/convoset/internal/store"
)

// Config holds the runner configuration.
type Config struct {
	DataDir   string
	Output    string
	StatePath string // empty disables the local run ledger
	DryRun    bool   // build prompts but write, persist and publish nothing
}

// RunRecorder persists a finished run.
type RunRecorder interface {
	RecordRun(ctx context.Context, run store.Run, prompts []dataset.Prompt) error
}

// Publisher announces finished runs.
type Publisher interface {
	Publish(subject string, data any) error
}

// Summary describes one run.
type Summary struct {
	RunID        uuid.UUID
	DataDir      string
	Output       string
	Files        int
	SkippedFiles int
	Records      int
	Messages     int
	Segments     int
	Prompts      int
	DryRun       bool
	StartedAt    time.Time
	FinishedAt   time.Time
}

// Status is a snapshot of the runner for the status endpoint.
type Status struct {
	Runs           int
	Failures       int
	LastRunID      uuid.UUID
	LastFinishedAt time.Time
}

// Runner loads chat exports, builds the dataset and writes it out.
type Runner struct {
	cfg       Config
	recorder  RunRecorder
	publisher Publisher
	logger    *slog.Logger

	runMu sync.Mutex // one run at a time

	mu     sync.Mutex
	status Status
}

// NewRunner creates a runner. recorder and publisher may be nil.
func NewRunner(cfg Config, recorder RunRecorder, publisher Publisher, logger *slog.Logger) *Runner {
	return &Runner{
		cfg:       cfg,
		recorder:  recorder,
		publisher: publisher,
		logger:    logger,
	}
}

// Run processes the configured data directory into the configured output.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	return r.RunDir(ctx, r.cfg.DataDir, r.cfg.Output)
}

// RunDir processes dataDir into outPath.
func (r *Runner) RunDir(ctx context.Context, dataDir, outPath string) (Summary, error) {
	r.runMu.Lock()
	defer r.runMu.Unlock()

	sum, prompts, err := r.build(ctx, dataDir, outPath)
	if err != nil {
		r.fail(sum, err)
		return sum, err
	}

	if !sum.DryRun {
		r.persist(ctx, sum, prompts)
		r.announce(sum)
	}
	r.recordState(sum)

	r.mu.Lock()
	r.status.Runs++
	r.status.LastRunID = sum.RunID
	r.status.LastFinishedAt = sum.FinishedAt
	r.mu.Unlock()

	r.logger.Info("run complete",
		"run_id", sum.RunID,
		"files", sum.Files,
		"records", sum.Records,
		"messages", sum.Messages,
		"segments", sum.Segments,
		"prompts", sum.Prompts,
		"output", sum.Output,
		"dry_run", sum.DryRun,
	)
	return sum, nil
}

func (r *Runner) build(ctx context.Context, dataDir, outPath string) (Summary, []dataset.Prompt, error) {
	sum := Summary{
		RunID:     uuid.New(),
		DataDir:   dataDir,
		Output:    outPath,
		DryRun:    r.cfg.DryRun,
		StartedAt: time.Now().UTC(),
	}

	records, files, err := loader.LoadDir(dataDir, r.logger)
	if err != nil {
		return sum, nil, fmt.Errorf("load: %w", err)
	}
	sum.Files = len(files)
	for _, f := range files {
		if f.Err != nil {
			sum.SkippedFiles++
		}
	}
	sum.Records = len(records)

	if err := ctx.Err(); err != nil {
		return sum, nil, err
	}

	msgs, err := dataset.NormalizeAll(records)
	if err != nil {
		return sum, nil, fmt.Errorf("normalize: %w", err)
	}
	sum.Messages = len(msgs)
	if len(msgs) == 0 {
		r.logger.Warn("no messages to process", "data_dir", dataDir)
	}

	res := dataset.Generate(msgs)
	sum.Segments = len(res.Segments)
	sum.Prompts = len(res.Prompts)

	if err := ctx.Err(); err != nil {
		return sum, nil, err
	}

	if !sum.DryRun {
		if err := output.WriteFile(outPath, res.Prompts); err != nil {
			return sum, nil, fmt.Errorf("write output: %w", err)
		}
	}

	sum.FinishedAt = time.Now().UTC()
	return sum, res.Prompts, nil
}

func (r *Runner) persist(ctx context.Context, sum Summary, prompts []dataset.Prompt) {
	if r.recorder == nil {
		return
	}
	run := store.Run{
		ID:         sum.RunID,
		DataDir:    sum.DataDir,
		Output:     sum.Output,
		Records:    sum.Records,
		Messages:   sum.Messages,
		Segments:   sum.Segments,
		Prompts:    sum.Prompts,
		StartedAt:  sum.StartedAt,
		FinishedAt: sum.FinishedAt,
	}
	if err := r.recorder.RecordRun(ctx, run, prompts); err != nil {
		r.logger.Warn("failed to persist run", "run_id", sum.RunID, "error", err)
	}
}

func (r *Runner) announce(sum Summary) {
	if r.publisher == nil {
		return
	}
	evt := hermes.DatasetWrittenEvent{
		RunID:     sum.RunID.String(),
		DataDir:   sum.DataDir,
		Output:    sum.Output,
		Messages:  sum.Messages,
		Segments:  sum.Segments,
		Prompts:   sum.Prompts,
		Timestamp: sum.FinishedAt,
	}
	if err := r.publisher.Publish(hermes.SubjectDatasetWritten, evt); err != nil {
		r.logger.Warn("failed to publish dataset event", "run_id", sum.RunID, "error", err)
	}
}

func (r *Runner) recordState(sum Summary) {
	if r.cfg.StatePath == "" {
		return
	}
	state, err := LoadState(r.cfg.StatePath)
	if err != nil {
		r.logger.Warn("failed to load state", "error", err)
		return
	}
	state.AddRun(RunRecord{
		RunID:      sum.RunID.String(),
		DataDir:    sum.DataDir,
		Output:     sum.Output,
		Messages:   sum.Messages,
		Segments:   sum.Segments,
		Prompts:    sum.Prompts,
		DryRun:     sum.DryRun,
		FinishedAt: sum.FinishedAt,
	})
	if err := state.Save(); err != nil {
		r.logger.Warn("failed to save state", "error", err)
	}
}

func (r *Runner) fail(sum Summary, err error) {
	r.logger.Error("run failed", "run_id", sum.RunID, "data_dir", sum.DataDir, "error", err)

	r.mu.Lock()
	r.status.Failures++
	r.mu.Unlock()

	if r.cfg.StatePath == "" {
		return
	}
	state, lerr := LoadState(r.cfg.StatePath)
	if lerr != nil {
		r.logger.Warn("failed to load state", "error", lerr)
		return
	}
	state.AddError(fmt.Sprintf("%s %s: %v", time.Now().UTC().Format(time.RFC3339), sum.DataDir, err))
	if serr := state.Save(); serr != nil {
		r.logger.Warn("failed to save state", "error", serr)
	}
}

// Status returns a snapshot of the runner's counters.
func (r *Runner) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// HandleExportStored is the NATS handler for swarm.convoset.export.stored.
func (r *Runner) HandleExportStored(subject string, data []byte) {
	var evt hermes.ExportStoredEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		r.logger.Error("failed to parse export event", "subject", subject, "error", err)
		return
	}
	if strings.TrimSpace(evt.DataDir) == "" {
		r.logger.Error("export event without data_dir", "subject", subject)
		return
	}

	out := evt.Output
	if out == "" {
		out = r.cfg.Output
	}

	r.logger.Info("processing export", "data_dir", evt.DataDir, "output", out)
	// Failures are already logged and counted by RunDir.
	_, _ = r.RunDir(context.Background(), evt.DataDir, out)
}
