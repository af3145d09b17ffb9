// Package numbers handles the plain-text files a run reads and writes: the input
// number list, the valid/invalid output lists and the run log.
package numbers

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrInputMissing is returned by Read when the input file does not exist.
var ErrInputMissing = errors.New("input file not found")

// Read returns the trimmed, non-empty lines of path, deduplicated with the first
// occurrence winning and input order preserved.
func Read(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputMissing, path)
		}
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	seen := make(map[string]struct{})
	var cleaned []string

	reader := bufio.NewReader(file)
	for {
		raw, err := reader.ReadString('\n')
		if line := strings.TrimSpace(raw); line != "" {
			if _, dup := seen[line]; !dup {
				seen[line] = struct{}{}
				cleaned = append(cleaned, line)
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read input file: %w", err)
		}
	}

	return cleaned, nil
}

// WriteAll rewrites path with one number per line.
func WriteAll(path string, numbers []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var b strings.Builder
	for _, n := range numbers {
		b.WriteString(n)
		b.WriteByte('\n')
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// AppendLine appends text and a newline to path, creating it and its parent
// directory when needed. The file is opened and closed on every call.
func AppendLine(path, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}

	if _, err := f.WriteString(text + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("failed to append to %s: %w", path, err)
	}
	return f.Close()
}

// FileSink receives classified numbers one at a time.
//
// Each Append opens the file in append mode and closes it again, so several
// sinks (or processes) can share a path without holding a handle open.
type FileSink struct {
	Path string

	mu sync.Mutex
}

// NewFileSink creates a sink for path.
func NewFileSink(path string) *FileSink {
	return &FileSink{Path: path}
}

// Append writes number on its own line.
func (s *FileSink) Append(number string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return AppendLine(s.Path, number)
}
