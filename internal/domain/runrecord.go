package domain

// RunMeta describes a persisted run as a whole.
type RunMeta struct {
	ID              string   `json:"id"`
	Mode            string   `json:"mode"` // verify, update or seed
	Command         string   `json:"command,omitempty"`
	Roots           []string `json:"roots"`
	Total           int      `json:"total"`
	Passed          int      `json:"passed"`
	Failed          int      `json:"failed"`
	Skipped         int      `json:"skipped"`
	Recorded        int      `json:"recorded"`
	Jobs            int      `json:"jobs"`
	Duration        string   `json:"duration"`
	DurationSeconds float64  `json:"duration_seconds"`
	Timestamp       string   `json:"timestamp"`
}

// CaseResult is the persisted outcome of one test case.
type CaseResult struct {
	Path       string `json:"path"`
	Status     Status `json:"status"`
	Reason     string `json:"reason,omitempty"`
	Command    string `json:"command,omitempty"`
	DurationMS int64  `json:"duration_ms"`
	Expected   string `json:"expected,omitempty"`
	Actual     string `json:"actual,omitempty"`
	Resolved   bool   `json:"resolved,omitempty"` // set from the review screen
}

// RunRecord is the complete persisted form of a run. It feeds the review
// screen and failed-only reruns.
type RunRecord struct {
	Meta  RunMeta      `json:"meta"`
	Cases []CaseResult `json:"cases"`
}

// Failures returns the indices of failed cases in persisted order.
func (r *RunRecord) Failures() []int {
	var idx []int
	for i, c := range r.Cases {
		if c.Status == StatusFail {
			idx = append(idx, i)
		}
	}
	return idx
}

// FailedPaths returns the paths of failed cases, deduplicated, in persisted
// order.
func (r *RunRecord) FailedPaths() []string {
	seen := make(map[string]bool)
	var paths []string
	for _, c := range r.Cases {
		if c.Status != StatusFail || seen[c.Path] {
			continue
		}
		seen[c.Path] = true
		paths = append(paths, c.Path)
	}
	return paths
}
