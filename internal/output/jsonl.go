package output

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/MikeSquared-Agency/convoset/internal/dataset"
)

// compressedSuffix marks an output path that is written zstd-compressed.
const compressedSuffix = ".zst"

// Write encodes prompts as JSON Lines, one prompt per line.
func Write(w io.Writer, prompts []dataset.Prompt) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for i, p := range prompts {
		if err := enc.Encode(p); err != nil {
			return fmt.Errorf("encode prompt %d: %w", i, err)
		}
	}
	return nil
}

// Read decodes JSON Lines written by Write. Blank lines are ignored.
func Read(r io.Reader) ([]dataset.Prompt, error) {
	var prompts []dataset.Prompt
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 10*1024*1024) // 10MB line buffer
	line := 0
	for scanner.Scan() {
		line++
		if len(strings.TrimSpace(scanner.Text())) == 0 {
			continue
		}
		var p dataset.Prompt
		if err := json.Unmarshal(scanner.Bytes(), &p); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		prompts = append(prompts, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	return prompts, nil
}

// WriteFile writes prompts to path, creating parent directories. A path
// ending in .zst is zstd-compressed.
func WriteFile(path string, prompts []dataset.Prompt) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	if !IsCompressed(path) {
		bw := bufio.NewWriter(f)
		if err := Write(bw, prompts); err != nil {
			return err
		}
		if err := bw.Flush(); err != nil {
			return fmt.Errorf("flush: %w", err)
		}
		return f.Close()
	}

	encoder, err := zstd.NewWriter(f)
	if err != nil {
		return fmt.Errorf("create zstd encoder: %w", err)
	}
	if err := Write(encoder, prompts); err != nil {
		encoder.Close()
		return err
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("finalize compression: %w", err)
	}
	return f.Close()
}

// ReadFile reads a file written by WriteFile.
func ReadFile(path string) ([]dataset.Prompt, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	if !IsCompressed(path) {
		return Read(f)
	}

	decoder, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	defer decoder.Close()
	return Read(decoder)
}

// IsCompressed reports whether path is written zstd-compressed.
func IsCompressed(path string) bool {
	return strings.HasSuffix(path, compressedSuffix)
}
