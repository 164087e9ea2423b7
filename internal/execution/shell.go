package execution

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"rectest/internal/domain"
)

// ShellRunner runs commands through "sh -c", so templates behave exactly as
// they would typed into a shell. Each child is placed in its own process
// group; on timeout or interrupt the whole group is killed, which reaps any
// grandchildren the command spawned.
type ShellRunner struct {
	Dir string   // working directory, empty inherits the caller's
	Env []string // extra KEY=value entries appended to the environment
}

// NewShellRunner creates a ShellRunner inheriting cwd and environment.
func NewShellRunner() *ShellRunner {
	return &ShellRunner{}
}

// Run executes argv and waits for exit, the timeout, or ctx cancellation,
// whichever comes first. Stdout and stderr are captured separately. The
// returned result always carries whatever output was produced before
// termination.
func (r *ShellRunner) Run(ctx context.Context, argv []string, timeout time.Duration) domain.ExecutionResult {
	line := strings.Join(argv, " ")
	res := domain.ExecutionResult{Command: line, ExitCode: -1}

	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.Command("sh", "-c", line)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Dir = r.Dir
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}
	setProcessGroup(cmd)

	start := time.Now()
	if err := cmd.Start(); err != nil {
		res.Err = fmt.Errorf("start command: %w", err)
		return res
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	var waitErr error
	select {
	case waitErr = <-done:
	case <-runCtx.Done():
		killProcessGroup(cmd)
		waitErr = <-done
		// A deadline on runCtx that the parent did not share means the
		// per-case timeout fired; anything else is an outside interrupt.
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			res.TimedOut = true
		} else {
			res.Err = ctx.Err()
		}
	}

	res.Duration = time.Since(start)
	res.Stdout = stdout.Bytes()
	res.Stderr = stderr.Bytes()
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}

	if res.Err == nil && !res.TimedOut && waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			res.Err = fmt.Errorf("wait for command: %w", waitErr)
		}
	}
	return res
}
