package record

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrMissing marks a test case that has no record file yet.
	ErrMissing = errors.New("record missing")
	// ErrMalformed marks a record file that exists but cannot be read.
	ErrMalformed = errors.New("record unreadable")
)

// Store maps test cases to their record files and reads and writes them.
// Records hold the exact expected stdout bytes, nothing else.
type Store struct {
	recordExt string
}

// NewStore creates a Store for the given dot-prefixed record extension.
func NewStore(recordExt string) *Store {
	return &Store{recordExt: recordExt}
}

// PathFor derives the record path from a test case path: the test file's
// extension is replaced with the record extension, or the record extension
// is appended when the file has none. A dotfile like .gitignore keeps its
// full name as the base.
func (s *Store) PathFor(path string) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	if base == "" || strings.HasSuffix(base, string(filepath.Separator)) {
		base = path
	}
	return base + s.recordExt
}

// Read returns the recorded bytes for a test case. A missing file yields
// ErrMissing, any other read failure ErrMalformed; both wrap the record path.
func (s *Store) Read(path string) ([]byte, error) {
	recPath := s.PathFor(path)
	data, err := os.ReadFile(recPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissing, recPath)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, recPath, err)
	}
	return data, nil
}

// Write stores content as the test case's record, replacing any previous
// record whole.
func (s *Store) Write(path string, content []byte) error {
	recPath := s.PathFor(path)
	if err := os.WriteFile(recPath, content, 0644); err != nil {
		return fmt.Errorf("write record %s: %w", recPath, err)
	}
	return nil
}

// Exists reports whether the test case already has a regular record file.
func (s *Store) Exists(path string) bool {
	info, err := os.Stat(s.PathFor(path))
	return err == nil && info.Mode().IsRegular()
}
