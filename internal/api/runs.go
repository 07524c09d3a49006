package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/convoset/internal/dataset"
	"github.com/MikeSquared-Agency/convoset/internal/output"
	"github.com/MikeSquared-Agency/convoset/internal/store"
)

// RunStore serves persisted runs.
type RunStore interface {
	LatestRun(ctx context.Context) (*store.Run, error)
	RunPrompts(ctx context.Context, runID uuid.UUID) ([]dataset.Prompt, error)
}

type runResponse struct {
	ID         string `json:"id"`
	DataDir    string `json:"data_dir"`
	Output     string `json:"output"`
	Records    int    `json:"records"`
	Messages   int    `json:"messages"`
	Segments   int    `json:"segments"`
	Prompts    int    `json:"prompts"`
	StartedAt  string `json:"started_at"`
	FinishedAt string `json:"finished_at"`
}

func (s *Server) latestRun(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusServiceUnavailable, "run history not configured")
		return
	}

	run, err := s.history.LatestRun(r.Context())
	if errors.Is(err, store.ErrNoRuns) {
		writeError(w, http.StatusNotFound, "no runs recorded")
		return
	}
	if err != nil {
		s.logger.Error("failed to load latest run", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, runResponse{
		ID:         run.ID.String(),
		DataDir:    run.DataDir,
		Output:     run.Output,
		Records:    run.Records,
		Messages:   run.Messages,
		Segments:   run.Segments,
		Prompts:    run.Prompts,
		StartedAt:  run.StartedAt.Format(time.RFC3339),
		FinishedAt: run.FinishedAt.Format(time.RFC3339),
	})
}

// runPrompts streams a stored run's prompts as NDJSON.
func (s *Server) runPrompts(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusServiceUnavailable, "run history not configured")
		return
	}

	runID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid run id")
		return
	}

	prompts, err := s.history.RunPrompts(r.Context(), runID)
	if err != nil {
		s.logger.Error("failed to load run prompts", "run_id", runID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if len(prompts) == 0 {
		writeError(w, http.StatusNotFound, "no prompts for run")
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)
	if err := output.Write(w, prompts); err != nil {
		s.logger.Warn("failed to stream prompts", "run_id", runID, "error", err)
	}
}
