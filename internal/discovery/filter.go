package discovery

import (
	"path/filepath"
	"strings"

	"rectest/internal/domain"
)

// FilterByName keeps the test cases whose base name matches the pattern.
// Patterns use * and ? wildcards; a pattern without wildcards matches as a
// substring. An empty pattern keeps everything.
func FilterByName(cases []domain.TestCase, pattern string) []domain.TestCase {
	if pattern == "" {
		return cases
	}

	var filtered []domain.TestCase
	for _, tc := range cases {
		if matchName(filepath.Base(tc.Path), pattern) {
			filtered = append(filtered, tc)
		}
	}
	return filtered
}

func matchName(name, pattern string) bool {
	if !strings.ContainsAny(pattern, "*?") {
		return strings.Contains(name, pattern)
	}
	matched, err := filepath.Match(pattern, name)
	if err != nil {
		// A broken pattern matches nothing.
		return false
	}
	return matched
}
