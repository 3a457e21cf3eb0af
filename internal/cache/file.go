package cache

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// FormatError reports a malformed line in a cache file.
type FormatError struct {
	Path    string
	Line    int
	Content string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("cache file %s line %d: expected url<TAB>body, got %q", e.Path, e.Line, truncate(e.Content, 80))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Store persists cache entries.
type Store interface {
	Load(ctx context.Context) ([]Entry, error)
	Save(ctx context.Context, entries []Entry) error
}

// FileStore keeps entries in a text file, one "url<TAB>body" line each.
// Neither field is escaped, so a URL or body containing a tab or newline
// does not survive a round trip.
type FileStore struct {
	Path string
}

// NewFileStore returns a FileStore for path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load reads the file. Extra tab-separated fields after the body are ignored.
func (s *FileStore) Load(_ context.Context) ([]Entry, error) {
	return LoadFile(s.Path)
}

// Save overwrites the file with entries.
func (s *FileStore) Save(_ context.Context, entries []Entry) error {
	return SaveFile(s.Path, entries)
}

// LoadFile parses a cache file.
func LoadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if text == "" {
			continue
		}
		parts := strings.Split(text, "\t")
		if len(parts) < 2 {
			return nil, &FormatError{Path: path, Line: line, Content: text}
		}
		entries = append(entries, Entry{URL: parts[0], Body: parts[1]})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}
	return entries, nil
}

// SaveFile writes entries in order, replacing any existing file.
func SaveFile(path string, entries []Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}

	w := bufio.NewWriter(f)
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", e.URL, e.Body); err != nil {
			_ = f.Close()
			return fmt.Errorf("failed to write cache file: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return f.Close()
}
