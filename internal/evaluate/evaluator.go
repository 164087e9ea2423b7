package evaluate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"rectest/internal/command"
	"rectest/internal/domain"
	"rectest/internal/execution"
	"rectest/internal/record"
)

// Mode selects what a run does with each test case.
type Mode int

const (
	// ModeVerify compares captured stdout against the stored record.
	ModeVerify Mode = iota
	// ModeUpdate captures stdout and writes it as the new record.
	ModeUpdate
	// ModeSeed creates empty records for cases that have none; nothing runs.
	ModeSeed
)

// Options tune a run.
type Options struct {
	Template     []string      // tokenized command template
	Timeout      time.Duration // per-case limit, 0 means none
	Jobs         int           // concurrent cases, floored to 1
	StrictStatus bool          // non-zero exit fails even when output matches

	// OnStart fires before a case executes. Called from worker goroutines.
	OnStart func(tc domain.TestCase, commandLine string)
	// OnOutcome fires after each case with the running completion count.
	// Calls are serialized.
	OnOutcome func(done int, o domain.Outcome)
}

// Evaluator drives test cases through build, execute and judge.
type Evaluator struct {
	mode    Mode
	builder *command.Builder
	runner  execution.Runner
	store   *record.Store
	opts    Options
}

// New creates an Evaluator.
func New(mode Mode, builder *command.Builder, runner execution.Runner, store *record.Store, opts Options) *Evaluator {
	return &Evaluator{
		mode:    mode,
		builder: builder,
		runner:  runner,
		store:   store,
		opts:    opts,
	}
}

// Run evaluates all cases and returns their outcomes in input order plus the
// aggregated summary. Every case gets exactly one outcome: after ctx is
// canceled the remaining cases are skipped, never dropped.
func (e *Evaluator) Run(ctx context.Context, cases []domain.TestCase) ([]domain.Outcome, domain.RunSummary) {
	outcomes := make([]domain.Outcome, len(cases))
	var tally domain.Tally
	start := time.Now()

	jobs := e.opts.Jobs
	if jobs < 1 {
		jobs = 1
	}
	if jobs == 1 || len(cases) <= 1 {
		e.runSequential(ctx, cases, outcomes, &tally)
	} else {
		e.runParallel(ctx, jobs, cases, outcomes, &tally)
	}

	return outcomes, tally.Snapshot(time.Since(start))
}

func (e *Evaluator) runSequential(ctx context.Context, cases []domain.TestCase, outcomes []domain.Outcome, tally *domain.Tally) {
	for i, tc := range cases {
		o := e.evaluate(ctx, tc)
		outcomes[i] = o
		tally.Record(o.Status)
		if e.opts.OnOutcome != nil {
			e.opts.OnOutcome(i+1, o)
		}
	}
}

// evaluate judges one case, short-circuiting to a skip once the run has been
// interrupted.
func (e *Evaluator) evaluate(ctx context.Context, tc domain.TestCase) domain.Outcome {
	if ctx.Err() != nil {
		return domain.Outcome{Case: tc, Status: domain.StatusSkip, Reason: "interrupted"}
	}
	if e.store.PathFor(tc.Path) == tc.Path {
		// The case is its own record; executing or writing would destroy it.
		return domain.Outcome{Case: tc, Status: domain.StatusSkip, Reason: "test file and record share a path"}
	}
	switch e.mode {
	case ModeUpdate:
		return e.update(ctx, tc)
	case ModeSeed:
		return e.seed(tc)
	default:
		return e.verify(ctx, tc)
	}
}

// execute runs the built command for tc and translates execution-level
// problems into a final outcome. It returns the result and a nil pointer, or
// a zero result and the outcome that ends the case.
func (e *Evaluator) execute(ctx context.Context, tc domain.TestCase) (domain.ExecutionResult, *domain.Outcome) {
	argv := e.builder.Build(e.opts.Template, tc.Path)
	line := command.Line(argv)
	if e.opts.OnStart != nil {
		e.opts.OnStart(tc, line)
	}

	res := e.runner.Run(ctx, argv, e.opts.Timeout)
	o := domain.Outcome{Case: tc, Command: line, Duration: res.Duration}

	switch {
	case errors.Is(res.Err, context.Canceled):
		o.Status = domain.StatusSkip
		o.Reason = "interrupted"
	case res.Err != nil:
		o.Status = domain.StatusFail
		o.Reason = res.Err.Error()
	case res.TimedOut:
		o.Status = domain.StatusFail
		o.Reason = fmt.Sprintf("timed out after %s", e.opts.Timeout)
	case res.ExitCode == 126 || res.ExitCode == 127:
		o.Status = domain.StatusFail
		o.Reason = fmt.Sprintf("command not found or not executable (exit %d)", res.ExitCode)
		o.Actual = res.Stderr
	default:
		return res, nil
	}
	return res, &o
}

func (e *Evaluator) verify(ctx context.Context, tc domain.TestCase) domain.Outcome {
	res, failed := e.execute(ctx, tc)
	if failed != nil {
		return *failed
	}
	o := domain.Outcome{Case: tc, Command: res.Command, Duration: res.Duration}

	expected, err := e.store.Read(tc.Path)
	if err != nil {
		o.Status = domain.StatusSkip
		o.Reason = err.Error()
		return o
	}

	if e.opts.StrictStatus && res.ExitCode != 0 {
		o.Status = domain.StatusFail
		o.Reason = fmt.Sprintf("exit status %d", res.ExitCode)
		o.Expected = expected
		o.Actual = res.Stdout
		return o
	}

	if !bytes.Equal(res.Stdout, expected) {
		o.Status = domain.StatusFail
		o.Reason = "output mismatch"
		o.Expected = expected
		o.Actual = res.Stdout
		return o
	}

	o.Status = domain.StatusPass
	return o
}

func (e *Evaluator) update(ctx context.Context, tc domain.TestCase) domain.Outcome {
	res, failed := e.execute(ctx, tc)
	if failed != nil {
		// Never record the output of a run that did not complete normally.
		return *failed
	}
	o := domain.Outcome{Case: tc, Command: res.Command, Duration: res.Duration}

	if err := e.store.Write(tc.Path, res.Stdout); err != nil {
		o.Status = domain.StatusFail
		o.Reason = err.Error()
		return o
	}

	o.Status = domain.StatusRecorded
	o.Reason = fmt.Sprintf("wrote %s (%d bytes)", e.store.PathFor(tc.Path), len(res.Stdout))
	return o
}

func (e *Evaluator) seed(tc domain.TestCase) domain.Outcome {
	o := domain.Outcome{Case: tc}

	if e.store.Exists(tc.Path) {
		o.Status = domain.StatusSkip
		o.Reason = fmt.Sprintf("record exists: %s", e.store.PathFor(tc.Path))
		return o
	}
	if err := e.store.Write(tc.Path, nil); err != nil {
		o.Status = domain.StatusFail
		o.Reason = err.Error()
		return o
	}

	o.Status = domain.StatusRecorded
	o.Reason = fmt.Sprintf("created empty %s", e.store.PathFor(tc.Path))
	return o
}
