package domain

import (
	"sync"
	"time"
)

// Tally accumulates outcome counts during a run. Safe for concurrent use.
type Tally struct {
	mu       sync.Mutex
	pass     int
	fail     int
	skip     int
	recorded int
}

// Record counts one outcome status.
func (t *Tally) Record(s Status) {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch s {
	case StatusPass:
		t.pass++
	case StatusFail:
		t.fail++
	case StatusSkip:
		t.skip++
	case StatusRecorded:
		t.recorded++
	}
}

// Counts returns the current pass and fail counts for live progress display.
func (t *Tally) Counts() (pass, fail int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pass, t.fail
}

// Snapshot freezes the tally into a summary for reporting.
func (t *Tally) Snapshot(elapsed time.Duration) RunSummary {
	t.mu.Lock()
	defer t.mu.Unlock()
	return RunSummary{
		Pass:     t.pass,
		Fail:     t.fail,
		Skip:     t.skip,
		Recorded: t.recorded,
		Total:    t.pass + t.fail + t.skip + t.recorded,
		Elapsed:  elapsed,
	}
}

// RunSummary aggregates a finished run.
type RunSummary struct {
	Pass     int
	Fail     int
	Skip     int
	Recorded int
	Total    int
	Elapsed  time.Duration
}

// Failed reports whether the run should exit non-zero.
func (s RunSummary) Failed() bool {
	return s.Fail > 0
}
