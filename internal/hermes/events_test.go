package hermes

import (
	"encoding/json"
	"testing"
	"time"
)

func TestExportStoredEventParsing(t *testing.T) {
	raw := `{
		"data_dir": "/exports/guild-1",
		"output": "/datasets/guild-1.jsonl.zst"
	}`

	var evt ExportStoredEvent
	if err := json.Unmarshal([]byte(raw), &evt); err != nil {
		t.Fatalf("failed to parse ExportStoredEvent: %v", err)
	}

	if evt.DataDir != "/exports/guild-1" {
		t.Errorf("expected data_dir '/exports/guild-1', got '%s'", evt.DataDir)
	}
	if evt.Output != "/datasets/guild-1.jsonl.zst" {
		t.Errorf("expected output '/datasets/guild-1.jsonl.zst', got '%s'", evt.Output)
	}
}

func TestExportStoredEventOmitsEmptyOutput(t *testing.T) {
	data, err := json.Marshal(ExportStoredEvent{DataDir: "/exports"})
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	if string(data) != `{"data_dir":"/exports"}` {
		t.Errorf("unexpected payload: %s", data)
	}
}

func TestDatasetWrittenEventRoundTrip(t *testing.T) {
	evt := DatasetWrittenEvent{
		RunID:     "5f0c1f0e-7d7b-4c61-9a43-0d0f1d1a2b3c",
		DataDir:   "/exports",
		Output:    "/out/prompts.jsonl",
		Messages:  120,
		Segments:  9,
		Prompts:   21,
		Timestamp: time.Date(2026, 2, 11, 10, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(evt)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	var parsed DatasetWrittenEvent
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	if parsed != evt {
		t.Errorf("round-trip mismatch: got %+v, want %+v", parsed, evt)
	}
}

func TestSubjectConstants(t *testing.T) {
	if SubjectDatasetWritten != "swarm.convoset.dataset.written" {
		t.Errorf("unexpected SubjectDatasetWritten '%s'", SubjectDatasetWritten)
	}
	if SubjectExportStored != "swarm.convoset.export.stored" {
		t.Errorf("unexpected SubjectExportStored '%s'", SubjectExportStored)
	}
}
