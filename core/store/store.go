// Package store implements the result log: an append-only JSON Lines file
// holding every scrape outcome in the order it was produced.
//
// Each append is a single O_APPEND write of one line under a mutex, so
// concurrent scrapes in one process never lose each other's records.
package store

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gaurav-prasanna/webscrape/core"
)

// DefaultPath is used when no path is configured.
const DefaultPath = "scrape_results.jsonl"

// maxLineBytes bounds a single record; full_text of large pages can be long.
const maxLineBytes = 64 << 20

// FileStore is a ResultStore backed by a JSON Lines file.
type FileStore struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// New creates a FileStore writing to path. Parent directories are created on
// first append.
func New(path string) *FileStore {
	if path == "" {
		path = DefaultPath
	}
	return &FileStore{path: path, now: time.Now}
}

// Path returns the log file location.
func (s *FileStore) Path() string {
	return s.path
}

// Append writes rec as one line. A missing ID or timestamp is filled in.
func (s *FileStore) Append(_ context.Context, rec core.Record) error {
	if rec.Result == nil && rec.Error == nil {
		return errors.New("record has neither result nor error")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = s.now().UTC()
	}

	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}
	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating log directory: %w", err)
		}
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening result log: %w", err)
	}
	if _, err := f.Write(line); err != nil {
		f.Close()
		return fmt.Errorf("writing result log: %w", err)
	}
	return f.Close()
}

// List returns every record, oldest first. A missing log is an empty list.
func (s *FileStore) List(_ context.Context) ([]core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []core.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening result log: %w", err)
	}
	defer f.Close()

	records := []core.Record{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec core.Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("decoding record on line %d: %w", lineNo, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading result log: %w", err)
	}
	return records, nil
}

// Tail returns the last n records, oldest first. n <= 0 returns all of them.
func (s *FileStore) Tail(ctx context.Context, n int) ([]core.Record, error) {
	records, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if n > 0 && len(records) > n {
		records = records[len(records)-n:]
	}
	return records, nil
}
