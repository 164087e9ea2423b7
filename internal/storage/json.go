package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"rectest/internal/domain"
)

// JSONStorage keeps the last run as indented JSON at a fixed path.
type JSONStorage struct {
	path string
}

// NewJSONStorage returns a Storage reading and writing the given file.
func NewJSONStorage(path string) *JSONStorage {
	return &JSONStorage{path: path}
}

// Path returns the results file location.
func (s *JSONStorage) Path() string {
	return s.path
}

// Save writes the run, replacing any previous one. The parent directory is
// created when missing.
func (s *JSONStorage) Save(run *domain.RunRecord) error {
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create results dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}

// Load reads back the last saved run.
func (s *JSONStorage) Load() (*domain.RunRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read results file: %w", err)
	}
	var run domain.RunRecord
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("parse results file %s: %w", s.path, err)
	}
	return &run, nil
}
