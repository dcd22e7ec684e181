package registry

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// Header is the first row of every registry file.
var Header = []string{"group_id", "group_name"}

// Store reads and writes the registry file.
type Store struct {
	path   string
	logger *slog.Logger

	// mu serializes Update calls inside this process. Plain Load/Save calls and
	// other processes editing the file are not coordinated.
	mu sync.Mutex
}

// NewStore returns a store backed by the CSV file at path.
func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{
		path:   path,
		logger: logger.With("component", "registry_store", "path", path),
	}
}

// Path returns the location of the backing file.
func (s *Store) Path() string {
	return s.path
}

// Load reads the whole registry. A missing file is an empty registry. Rows that
// cannot be parsed are skipped with a warning.
func (s *Store) Load() (*Registry, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Info("Registry file not found, starting with an empty registry")
			return New(), nil
		}
		return nil, fmt.Errorf("failed to open registry file: %w", err)
	}
	defer f.Close()

	return s.read(f)
}

func (s *Store) read(r io.Reader) (*Registry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	reg := New()
	idCol, nameCol := 0, 1
	line := 0

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				s.logger.Warn("Skipping malformed registry row", "line", parseErr.Line, "error", err)
				continue
			}
			return nil, fmt.Errorf("failed to read registry file: %w", err)
		}

		if line == 1 && isHeader(record) {
			idCol, nameCol = headerColumns(record)
			continue
		}

		if len(record) <= idCol || len(record) <= nameCol {
			s.logger.Warn("Skipping registry row with missing fields", "line", line, "row", record)
			continue
		}

		id, err := strconv.ParseInt(strings.TrimSpace(record[idCol]), 10, 64)
		if err != nil {
			s.logger.Warn("Skipping registry row with invalid group id", "line", line, "row", record, "error", err)
			continue
		}

		reg.names[id] = record[nameCol]
	}

	return reg, nil
}

// Save rewrites the registry file with a header and rows in ascending id order.
// The data is written to a temporary file first and renamed into place.
func (s *Store) Save(reg *Registry) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create registry directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary registry file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once renamed

	if err := write(tmp, reg); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary registry file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to replace registry file: %w", err)
	}

	s.logger.Debug("Registry saved", "entries", reg.Len())
	return nil
}

// Update loads the registry, applies fn and saves the result. If fn returns an
// error nothing is written and the error is returned unchanged.
func (s *Store) Update(fn func(reg *Registry) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, err := s.Load()
	if err != nil {
		return err
	}
	if err := fn(reg); err != nil {
		return err
	}
	return s.Save(reg)
}

// Write encodes reg as CSV, header first.
func Write(w io.Writer, reg *Registry) error {
	return write(w, reg)
}

func write(w io.Writer, reg *Registry) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("failed to write registry header: %w", err)
	}
	for _, e := range reg.Entries() {
		if err := writer.Write([]string{strconv.FormatInt(e.ID, 10), e.Name}); err != nil {
			return fmt.Errorf("failed to write registry row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush registry file: %w", err)
	}
	return nil
}

func isHeader(record []string) bool {
	for _, field := range record {
		field = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(field, "\ufeff")))
		if field == Header[0] || field == Header[1] {
			return true
		}
	}
	return false
}

func headerColumns(record []string) (idCol, nameCol int) {
	idCol, nameCol = 0, 1
	for i, field := range record {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(field, "\ufeff"))) {
		case Header[0]:
			idCol = i
		case Header[1]:
			nameCol = i
		}
	}
	return idCol, nameCol
}
