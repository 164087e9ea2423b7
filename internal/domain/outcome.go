package domain

import "time"

// Status classifies what a run did with one test case.
type Status string

const (
	// StatusPass means the command's stdout matched the record byte for byte.
	StatusPass Status = "pass"
	// StatusFail means the output diverged from the record, or the command
	// could not be run to completion.
	StatusFail Status = "fail"
	// StatusSkip means the case could not be judged: its record is missing or
	// unreadable, or the run was interrupted before the case executed.
	StatusSkip Status = "skip"
	// StatusRecorded means an update or seed run wrote the case's record.
	StatusRecorded Status = "recorded"
)

// Outcome is the judgement for a single test case.
type Outcome struct {
	Case     TestCase
	Status   Status
	Reason   string        // short human explanation, empty for a plain pass
	Command  string        // shell line that was executed, empty when nothing ran
	Duration time.Duration // execution time of this case, zero when nothing ran
	Expected []byte        // record contents, set on comparison failures
	Actual   []byte        // captured stdout, set on comparison failures
}
