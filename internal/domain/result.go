package domain

import "time"

// ExecutionResult captures one subprocess invocation of the command under
// test.
type ExecutionResult struct {
	Command  string        // the full shell line that was run
	Stdout   []byte        // captured standard output
	Stderr   []byte        // captured standard error, kept separate from Stdout
	ExitCode int           // process exit status, -1 when the process never ran or was killed
	Duration time.Duration // wall time from start to exit
	TimedOut bool          // the per-case time limit expired before exit
	Err      error         // launch or infrastructure failure, nil for a normal exit
}
