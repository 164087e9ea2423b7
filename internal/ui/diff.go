package ui

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

const previewLimit = 160

// preview renders captured bytes as a quoted one-liner, truncated so a noisy
// command cannot flood the report.
func preview(b []byte) string {
	if len(b) <= previewLimit {
		return strconv.Quote(string(b))
	}
	return strconv.Quote(string(b[:previewLimit])) + fmt.Sprintf(" (+%d bytes)", len(b)-previewLimit)
}

// firstMismatchLine returns the 1-based number of the first line where the
// two outputs differ, or 0 when they are equal. When one output is a prefix
// of the other, the line after the shorter one is reported.
func firstMismatchLine(expected, actual []byte) int {
	if bytes.Equal(expected, actual) {
		return 0
	}
	e := strings.Split(string(expected), "\n")
	a := strings.Split(string(actual), "\n")
	for i := 0; i < len(e) && i < len(a); i++ {
		if e[i] != a[i] {
			return i + 1
		}
	}
	return min(len(e), len(a)) + 1
}
