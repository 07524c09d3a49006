package hermes

import "time"

const (
	// SubjectDatasetWritten is published after a run writes its dataset.
	SubjectDatasetWritten = "swarm.convoset.dataset.written"
	// SubjectExportStored announces a new chat export directory to process.
	SubjectExportStored = "swarm.convoset.export.stored"
)

// DatasetWrittenEvent describes a finished pipeline run.
type DatasetWrittenEvent struct {
	RunID     string    `json:"run_id"`
	DataDir   string    `json:"data_dir"`
	Output    string    `json:"output"`
	Messages  int       `json:"messages"`
	Segments  int       `json:"segments"`
	Prompts   int       `json:"prompts"`
	Timestamp time.Time `json:"timestamp"`
}

// ExportStoredEvent asks for a run over DataDir. An empty Output means the
// configured output path.
type ExportStoredEvent struct {
	DataDir string `json:"data_dir"`
	Output  string `json:"output,omitempty"`
}
