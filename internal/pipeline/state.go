package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// maxStateErrors bounds the error history kept in the state file.
const maxStateErrors = 50

// RunRecord is one finished run as kept in the state file.
type RunRecord struct {
	RunID      string    `json:"run_id"`
	DataDir    string    `json:"data_dir"`
	Output     string    `json:"output"`
	Messages   int       `json:"messages"`
	Segments   int       `json:"segments"`
	Prompts    int       `json:"prompts"`
	DryRun     bool      `json:"dry_run,omitempty"`
	FinishedAt time.Time `json:"finished_at"`
}

// State is the local run ledger.
type State struct {
	StartedAt time.Time   `json:"started_at"`
	LastRunAt time.Time   `json:"last_run_at"`
	Runs      []RunRecord `json:"runs"`
	Errors    []string    `json:"errors"`

	path string // not serialized
}

// LoadState loads the state file at path, or returns a fresh state if it
// does not exist yet.
func LoadState(path string) (*State, error) {
	p := expandHome(path)

	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return &State{
				StartedAt: time.Now().UTC(),
				path:      p,
			}, nil
		}
		return nil, fmt.Errorf("read state: %w", err)
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse state: %w", err)
	}
	s.path = p
	return &s, nil
}

// Save persists the state to disk.
func (s *State) Save() error {
	s.LastRunAt = time.Now().UTC()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	return os.WriteFile(s.path, data, 0o644)
}

// AddRun records a finished run.
func (s *State) AddRun(r RunRecord) {
	s.Runs = append(s.Runs, r)
}

// LastRun returns the most recent run, if any.
func (s *State) LastRun() (RunRecord, bool) {
	if len(s.Runs) == 0 {
		return RunRecord{}, false
	}
	return s.Runs[len(s.Runs)-1], true
}

// AddError records a failed run, dropping the oldest entries past maxStateErrors.
func (s *State) AddError(msg string) {
	s.Errors = append(s.Errors, msg)
	if n := len(s.Errors); n > maxStateErrors {
		s.Errors = s.Errors[n-maxStateErrors:]
	}
}

func expandHome(path string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
