package task

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"
)

// DefaultFile is the store file name used when no path is configured.
const DefaultFile = "todos.json"

// Store reads and writes the task list at a fixed path.
type Store struct {
	Path   string
	logger *slog.Logger
}

// NewStore creates a store for path. A nil logger discards diagnostics.
func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(discardHandler)
	}
	return &Store{
		Path:   path,
		logger: logger.With("store", path),
	}
}

// Exists reports whether the store file is present.
func (s *Store) Exists() bool {
	info, err := os.Stat(s.Path)
	return err == nil && info.Mode().IsRegular()
}

// EnsureExists creates an empty store file if it is missing and
// createIfMissing is set. The file is left empty, not "[]".
func (s *Store) EnsureExists(createIfMissing bool) error {
	if s.Exists() || !createIfMissing {
		return nil
	}
	if dir := filepath.Dir(s.Path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	f, err := os.OpenFile(s.Path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", s.Path, err)
	}
	s.logger.Debug("created empty store")
	return f.Close()
}

// ErrMalformed marks a store that is valid JSON but cannot be read as a
// task list. Such a file is reported instead of being treated as empty, so
// a later save never overwrites it.
var ErrMalformed = errors.New("malformed store")

// Load reads the task list. A missing or empty file, or one that is not
// valid JSON at all, yields an empty list. Rows are decoded leniently (see
// Task.UnmarshalJSON); a document or row that still cannot be read as a
// task is returned as an error wrapping ErrMalformed.
func (s *Store) Load() (List, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return List{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", s.Path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return List{}, nil
	}
	if !json.Valid(data) {
		s.logger.Debug("ignoring unreadable store contents")
		return List{}, nil
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("%w %s: expected a JSON array", ErrMalformed, s.Path)
	}

	tasks := make(List, 0, len(rows))
	for i, row := range rows {
		if bytes.Equal(row, []byte("null")) {
			continue
		}
		t := new(Task)
		if err := json.Unmarshal(row, t); err != nil {
			return nil, fmt.Errorf("%w %s: row %d: %v", ErrMalformed, s.Path, i+1, err)
		}
		if !t.Status.IsValid() {
			s.logger.Debug("unknown status", "id", t.ID, "status", t.Status)
		}
		tasks = append(tasks, t)
	}
	s.logger.Debug("loaded tasks", "count", len(tasks))
	return tasks, nil
}

// Encode renders tasks in the store's on-disk format.
func Encode(tasks List) ([]byte, error) {
	if tasks == nil {
		tasks = List{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(tasks); err != nil {
		return nil, fmt.Errorf("failed to marshal: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Save overwrites the store with tasks. The data is written to a temp file
// in the same directory and renamed into place.
func (s *Store) Save(tasks List) error {
	data, err := Encode(tasks)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.Path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.Path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("failed to write: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("failed to sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("failed to chmod: %w", err)
	}
	if err := os.Rename(tmpPath, s.Path); err != nil {
		cleanup()
		return fmt.Errorf("failed to write %s: %w", s.Path, err)
	}

	s.logger.Debug("saved tasks", "count", len(tasks))
	return nil
}

// discardHandler mirrors slog.DiscardHandler (Go 1.24+) for older toolchains:
// it is never enabled and writes nowhere.
var discardHandler slog.Handler = slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)})
