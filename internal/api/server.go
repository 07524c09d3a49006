package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MikeSquared-Agency/convoset/internal/pipeline"
)

// maxBodyBytes caps the raw export accepted by the prompts endpoint.
const maxBodyBytes = 64 << 20

// StatusSource reports runner counters for the status endpoint.
type StatusSource interface {
	Status() pipeline.Status
}

type Server struct {
	router   *chi.Mux
	port     int
	apiToken string
	runs     StatusSource
	history  RunStore
	logger   *slog.Logger
	http     *http.Server
}

// NewServer builds the API router. runs and history may be nil; apiToken empty
// disables authentication.
func NewServer(port int, apiToken string, runs StatusSource, history RunStore, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:   router,
		port:     port,
		apiToken: apiToken,
		runs:     runs,
		history:  history,
		logger:   logger,
	}

	router.Get("/health", s.health)
	router.Route("/api/v1/convoset", func(r chi.Router) {
		r.Get("/status", s.status)
		r.Group(func(r chi.Router) {
			r.Use(BearerAuthMiddleware(apiToken))
			r.Post("/prompts", s.buildPrompts)
			r.Get("/runs/latest", s.latestRun)
			r.Get("/runs/{id}/prompts", s.runPrompts)
		})
	})

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("API server starting", "addr", addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type statusResponse struct {
	Service        string `json:"service"`
	Runs           int    `json:"runs"`
	Failures       int    `json:"failures"`
	LastRunID      string `json:"last_run_id,omitempty"`
	LastFinishedAt string `json:"last_finished_at,omitempty"`
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{Service: "convoset"}
	if s.runs != nil {
		st := s.runs.Status()
		resp.Runs = st.Runs
		resp.Failures = st.Failures
		if st.Runs > 0 {
			resp.LastRunID = st.LastRunID.String()
			resp.LastFinishedAt = st.LastFinishedAt.Format(time.RFC3339)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
