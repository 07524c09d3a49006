package loader

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/MikeSquared-Agency/convoset/internal/dataset"
)

// FileResult summarizes one export file seen by LoadDir.
type FileResult struct {
	Path    string
	Records int
	Err     error // non-nil when the file was skipped
}

// LoadDir reads every *.json file directly inside dir, in name order, and
// returns the concatenated records. A file that cannot be read or does not
// hold a JSON array is logged and skipped.
func LoadDir(dir string, logger *slog.Logger) ([]dataset.Record, []FileResult, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("stat data dir: %w", err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("data dir %s is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("read data dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var records []dataset.Record
	var results []FileResult
	for _, name := range names {
		path := filepath.Join(dir, name)
		recs, err := LoadFile(path)
		if err != nil {
			logger.Warn("skipping export file", "file", name, "error", err)
			results = append(results, FileResult{Path: path, Err: err})
			continue
		}
		logger.Info("loaded export file", "file", name, "records", len(recs))
		results = append(results, FileResult{Path: path, Records: len(recs)})
		records = append(records, recs...)
	}

	return records, results, nil
}

// LoadFile reads a single export file holding a JSON array of records.
func LoadFile(path string) ([]dataset.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	return DecodeRecords(f)
}

// DecodeRecords decodes a JSON array of records. Numbers are kept as
// json.Number so millisecond timestamps survive without float rounding.
func DecodeRecords(r io.Reader) ([]dataset.Record, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var records []dataset.Record
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return records, nil
}
