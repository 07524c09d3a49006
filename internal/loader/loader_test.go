package loader

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoadDir_ConcatenatesInNameOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b-general.json", `[{"id": "3"}]`)
	writeFile(t, dir, "a-random.json", `[{"id": "1"}, {"id": "2"}]`)

	records, results, err := LoadDir(dir, slog.Default())
	if err != nil {
		t.Fatalf("LoadDir failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	for i, want := range []string{"1", "2", "3"} {
		if records[i]["id"] != want {
			t.Errorf("record %d id = %v, want %s", i, records[i]["id"], want)
		}
	}
	if len(results) != 2 || results[0].Records != 2 || results[1].Records != 1 {
		t.Errorf("unexpected file results: %+v", results)
	}
}

func TestLoadDir_SkipsNonJSONAndBadFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.json", `[{"id": "1"}]`)
	writeFile(t, dir, "notes.txt", `[{"id": "x"}]`)
	writeFile(t, dir, "object.json", `{"id": "not-an-array"}`)
	writeFile(t, dir, "broken.json", `[{"id": `)
	if err := os.Mkdir(filepath.Join(dir, "nested.json"), 0o755); err != nil {
		t.Fatal(err)
	}

	records, results, err := LoadDir(dir, slog.Default())
	if err != nil {
		t.Fatalf("LoadDir failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	skipped := 0
	for _, r := range results {
		if r.Err != nil {
			skipped++
		}
	}
	if skipped != 2 {
		t.Errorf("expected 2 skipped files, got %d (%+v)", skipped, results)
	}
}

func TestLoadDir_MissingDir(t *testing.T) {
	_, _, err := LoadDir(filepath.Join(t.TempDir(), "nope"), slog.Default())
	if err == nil {
		t.Fatal("expected error for missing dir")
	}
}

func TestLoadDir_EmptyDir(t *testing.T) {
	records, _, err := LoadDir(t.TempDir(), slog.Default())
	if err != nil {
		t.Fatalf("LoadDir failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}

func TestDecodeRecords_KeepsIntegerTimestamps(t *testing.T) {
	recs, err := DecodeRecords(strings.NewReader(`[{"createdTimestamp": 1712345678901234}]`))
	if err != nil {
		t.Fatalf("DecodeRecords failed: %v", err)
	}
	n, ok := recs[0]["createdTimestamp"].(json.Number)
	if !ok {
		t.Fatalf("expected json.Number, got %T", recs[0]["createdTimestamp"])
	}
	if n.String() != "1712345678901234" {
		t.Errorf("timestamp = %s", n)
	}
}
