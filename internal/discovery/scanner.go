package discovery

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"rectest/internal/domain"
)

// Scanner finds test case files under a set of root paths. A root may be a
// file, which is taken as given, or a directory, which is scanned. Record
// files never become test cases.
type Scanner struct {
	testExt    string
	recordExt  string
	recursive  bool
	ignoreDirs map[string]bool
}

// NewScanner creates a Scanner. testExt may be empty to accept any file;
// recordExt must be the dot-prefixed record extension.
func NewScanner(testExt, recordExt string, recursive bool, ignoreDirs []string) *Scanner {
	ignore := make(map[string]bool)
	for _, dir := range ignoreDirs {
		ignore[dir] = true
	}
	return &Scanner{
		testExt:    testExt,
		recordExt:  recordExt,
		recursive:  recursive,
		ignoreDirs: ignore,
	}
}

// Scan resolves every root into test cases, in root order, each directory's
// entries in lexical order. Duplicates across roots are dropped. A root that
// does not exist is a configuration error; an unreadable directory inside a
// root produces a warning and the rest of the scan continues.
func (s *Scanner) Scan(roots []string) ([]domain.TestCase, []string, error) {
	var cases []domain.TestCase
	var warnings []string
	seen := make(map[string]bool)

	add := func(path string) {
		path = filepath.Clean(path)
		if seen[path] {
			return
		}
		seen[path] = true
		cases = append(cases, domain.TestCase{Path: path})
	}

	for _, root := range roots {
		root = filepath.Clean(root)
		info, err := os.Stat(root)
		if err != nil {
			return nil, warnings, fmt.Errorf("%w: test path %s: %v", domain.ErrConfig, root, err)
		}
		if !info.IsDir() {
			// An explicitly named file is always a test case.
			add(root)
			continue
		}
		if s.recursive {
			warnings = s.walk(root, add, warnings)
		} else {
			warnings = s.list(root, add, warnings)
		}
	}

	return cases, warnings, nil
}

func (s *Scanner) walk(root string, add func(string), warnings []string) []string {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("cannot read %s: %v", path, err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path == root {
				return nil
			}
			name := d.Name()
			// Skip hidden directories (starting with .)
			if strings.HasPrefix(name, ".") || s.ignoreDirs[name] {
				return filepath.SkipDir
			}
			return nil
		}

		if s.isTestCase(d.Name()) {
			add(path)
		}
		return nil
	})
	return warnings
}

func (s *Scanner) list(root string, add func(string), warnings []string) []string {
	entries, err := os.ReadDir(root)
	if err != nil {
		return append(warnings, fmt.Sprintf("cannot read %s: %v", root, err))
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if s.isTestCase(e.Name()) {
			add(filepath.Join(root, e.Name()))
		}
	}
	return warnings
}

// isTestCase applies the extension partition: record files are never test
// cases, and when a test extension is set only matching files qualify.
func (s *Scanner) isTestCase(name string) bool {
	if s.recordExt != "" && strings.HasSuffix(name, s.recordExt) {
		return false
	}
	if s.testExt == "" {
		return true
	}
	return strings.HasSuffix(name, s.testExt)
}
