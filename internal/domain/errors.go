package domain

import "errors"

// Sentinel errors that decide the process exit code. ErrRunFailed is returned
// after the summary has already been printed, so the top level exits silently
// with status 1. ErrConfig marks invalid invocations and maps to status 2.
var (
	ErrRunFailed = errors.New("run failed")
	ErrConfig    = errors.New("invalid configuration")
)
