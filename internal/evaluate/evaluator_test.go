package evaluate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"rectest/internal/command"
	"rectest/internal/domain"
	"rectest/internal/record"
)

// stubRunner returns canned results keyed by the test file path, which the
// templates used here always put last.
type stubRunner struct {
	mu      sync.Mutex
	results map[string]domain.ExecutionResult
	calls   int
}

func (s *stubRunner) Run(ctx context.Context, argv []string, timeout time.Duration) domain.ExecutionResult {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	path := argv[len(argv)-1]
	res, ok := s.results[path]
	if !ok {
		return domain.ExecutionResult{Command: strings.Join(argv, " ")}
	}
	res.Command = strings.Join(argv, " ")
	return res
}

func writeFile(t *testing.T, path string, content []byte) {
	t.Helper()
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func newEvaluator(mode Mode, runner *stubRunner, opts Options) *Evaluator {
	if len(opts.Template) == 0 {
		opts.Template = command.Split("prog")
	}
	return New(mode, command.NewBuilder("@"), runner, record.NewStore(".rec"), opts)
}

func TestEvaluator_Verify(t *testing.T) {
	dir := t.TempDir()
	casePath := filepath.Join(dir, "case.in")
	writeFile(t, casePath, []byte("input"))

	run := func(t *testing.T, res domain.ExecutionResult, recContent []byte, opts Options) domain.Outcome {
		t.Helper()
		recPath := filepath.Join(dir, "case.rec")
		os.Remove(recPath)
		if recContent != nil {
			writeFile(t, recPath, recContent)
		}
		runner := &stubRunner{results: map[string]domain.ExecutionResult{casePath: res}}
		ev := newEvaluator(ModeVerify, runner, opts)
		return ev.evaluate(context.Background(), domain.TestCase{Path: casePath})
	}

	t.Run("matching output passes", func(t *testing.T) {
		o := run(t, domain.ExecutionResult{Stdout: []byte("ok\n")}, []byte("ok\n"), Options{})
		if o.Status != domain.StatusPass {
			t.Errorf("expected pass, got %s (%s)", o.Status, o.Reason)
		}
		if o.Reason != "" {
			t.Errorf("a plain pass needs no reason, got %q", o.Reason)
		}
	})

	t.Run("byte difference fails", func(t *testing.T) {
		o := run(t, domain.ExecutionResult{Stdout: []byte("ok\n")}, []byte("ok \n"), Options{})
		if o.Status != domain.StatusFail {
			t.Fatalf("expected fail, got %s", o.Status)
		}
		if o.Reason != "output mismatch" {
			t.Errorf("expected output mismatch, got %q", o.Reason)
		}
		if string(o.Expected) != "ok \n" || string(o.Actual) != "ok\n" {
			t.Errorf("expected both sides captured, got %q / %q", o.Expected, o.Actual)
		}
	})

	t.Run("missing record skips", func(t *testing.T) {
		o := run(t, domain.ExecutionResult{Stdout: []byte("ok\n")}, nil, Options{})
		if o.Status != domain.StatusSkip {
			t.Fatalf("expected skip, got %s", o.Status)
		}
		if !strings.Contains(o.Reason, "record missing") {
			t.Errorf("expected reason to name the missing record, got %q", o.Reason)
		}
	})

	t.Run("timeout fails even without a record", func(t *testing.T) {
		o := run(t, domain.ExecutionResult{TimedOut: true, ExitCode: -1}, nil, Options{Timeout: 100 * time.Millisecond})
		if o.Status != domain.StatusFail {
			t.Fatalf("expected fail, got %s", o.Status)
		}
		if !strings.Contains(o.Reason, "timed out") {
			t.Errorf("expected timeout reason, got %q", o.Reason)
		}
	})

	t.Run("exit 127 fails before comparison", func(t *testing.T) {
		o := run(t, domain.ExecutionResult{ExitCode: 127, Stderr: []byte("sh: nope: not found\n")}, []byte(""), Options{})
		if o.Status != domain.StatusFail {
			t.Fatalf("expected fail, got %s", o.Status)
		}
		if !strings.Contains(o.Reason, "not found") {
			t.Errorf("expected command-not-found reason, got %q", o.Reason)
		}
	})

	t.Run("launch failure fails", func(t *testing.T) {
		o := run(t, domain.ExecutionResult{Err: errors.New("start command: fork failed"), ExitCode: -1}, []byte("ok"), Options{})
		if o.Status != domain.StatusFail {
			t.Fatalf("expected fail, got %s", o.Status)
		}
	})

	t.Run("interrupt skips", func(t *testing.T) {
		o := run(t, domain.ExecutionResult{Err: context.Canceled, ExitCode: -1}, []byte("ok"), Options{})
		if o.Status != domain.StatusSkip {
			t.Fatalf("expected skip, got %s", o.Status)
		}
		if o.Reason != "interrupted" {
			t.Errorf("expected interrupted, got %q", o.Reason)
		}
	})

	t.Run("strict status fails matching output with non-zero exit", func(t *testing.T) {
		res := domain.ExecutionResult{Stdout: []byte("same"), ExitCode: 2}
		o := run(t, res, []byte("same"), Options{StrictStatus: true})
		if o.Status != domain.StatusFail {
			t.Fatalf("expected fail, got %s", o.Status)
		}
		if o.Reason != "exit status 2" {
			t.Errorf("expected exit status reason, got %q", o.Reason)
		}

		o = run(t, res, []byte("same"), Options{})
		if o.Status != domain.StatusPass {
			t.Errorf("without strict status the same case should pass, got %s", o.Status)
		}
	})

	t.Run("case that is its own record skips", func(t *testing.T) {
		recCase := filepath.Join(dir, "selfie.rec")
		writeFile(t, recCase, []byte("x"))
		runner := &stubRunner{}
		ev := newEvaluator(ModeVerify, runner, Options{})
		o := ev.evaluate(context.Background(), domain.TestCase{Path: recCase})
		if o.Status != domain.StatusSkip {
			t.Fatalf("expected skip, got %s", o.Status)
		}
		if runner.calls != 0 {
			t.Error("nothing should execute for a self-aliasing case")
		}
	})
}

func TestEvaluator_Update(t *testing.T) {
	dir := t.TempDir()
	casePath := filepath.Join(dir, "case.in")
	recPath := filepath.Join(dir, "case.rec")
	writeFile(t, casePath, []byte("input"))

	t.Run("writes captured stdout as the record", func(t *testing.T) {
		runner := &stubRunner{results: map[string]domain.ExecutionResult{
			casePath: {Stdout: []byte("fresh output\n"), Stderr: []byte("noise\n")},
		}}
		ev := newEvaluator(ModeUpdate, runner, Options{})
		o := ev.evaluate(context.Background(), domain.TestCase{Path: casePath})
		if o.Status != domain.StatusRecorded {
			t.Fatalf("expected recorded, got %s (%s)", o.Status, o.Reason)
		}
		got, err := os.ReadFile(recPath)
		if err != nil {
			t.Fatalf("record not written: %v", err)
		}
		if string(got) != "fresh output\n" {
			t.Errorf("record must hold stdout only, got %q", got)
		}
	})

	t.Run("timeout leaves the record untouched", func(t *testing.T) {
		writeFile(t, recPath, []byte("precious"))
		runner := &stubRunner{results: map[string]domain.ExecutionResult{
			casePath: {TimedOut: true, Stdout: []byte("partial"), ExitCode: -1},
		}}
		ev := newEvaluator(ModeUpdate, runner, Options{Timeout: time.Second})
		o := ev.evaluate(context.Background(), domain.TestCase{Path: casePath})
		if o.Status != domain.StatusFail {
			t.Fatalf("expected fail, got %s", o.Status)
		}
		got, _ := os.ReadFile(recPath)
		if string(got) != "precious" {
			t.Errorf("timed-out run must not rewrite the record, got %q", got)
		}
	})

	t.Run("empty stdout becomes an empty record", func(t *testing.T) {
		runner := &stubRunner{results: map[string]domain.ExecutionResult{casePath: {}}}
		ev := newEvaluator(ModeUpdate, runner, Options{})
		o := ev.evaluate(context.Background(), domain.TestCase{Path: casePath})
		if o.Status != domain.StatusRecorded {
			t.Fatalf("expected recorded, got %s", o.Status)
		}
		got, _ := os.ReadFile(recPath)
		if len(got) != 0 {
			t.Errorf("expected empty record, got %q", got)
		}
	})
}

func TestEvaluator_Seed(t *testing.T) {
	dir := t.TempDir()
	fresh := filepath.Join(dir, "fresh.in")
	kept := filepath.Join(dir, "kept.in")
	writeFile(t, fresh, []byte("x"))
	writeFile(t, kept, []byte("x"))
	writeFile(t, filepath.Join(dir, "kept.rec"), []byte("do not touch"))

	runner := &stubRunner{}
	ev := newEvaluator(ModeSeed, runner, Options{})

	outcomes, sum := ev.Run(context.Background(), []domain.TestCase{{Path: fresh}, {Path: kept}})

	if runner.calls != 0 {
		t.Error("seeding must not execute anything")
	}
	if outcomes[0].Status != domain.StatusRecorded {
		t.Errorf("expected fresh case recorded, got %s (%s)", outcomes[0].Status, outcomes[0].Reason)
	}
	if outcomes[1].Status != domain.StatusSkip {
		t.Errorf("expected existing record skipped, got %s", outcomes[1].Status)
	}

	data, err := os.ReadFile(filepath.Join(dir, "fresh.rec"))
	if err != nil {
		t.Fatalf("seeded record not written: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("expected empty seeded record, got %q", data)
	}
	if got, _ := os.ReadFile(filepath.Join(dir, "kept.rec")); string(got) != "do not touch" {
		t.Errorf("existing record was overwritten: %q", got)
	}
	if sum.Recorded != 1 || sum.Skip != 1 || sum.Total != 2 {
		t.Errorf("unexpected summary: %+v", sum)
	}
}

func TestEvaluator_RunParallel(t *testing.T) {
	dir := t.TempDir()
	const n = 24

	cases := make([]domain.TestCase, n)
	results := make(map[string]domain.ExecutionResult, n)
	for i := 0; i < n; i++ {
		path := filepath.Join(dir, fmt.Sprintf("case%02d.in", i))
		writeFile(t, path, []byte("in"))
		out := []byte(fmt.Sprintf("output %d\n", i))
		if i%5 == 0 {
			// Make every fifth case a mismatch.
			writeFile(t, filepath.Join(dir, fmt.Sprintf("case%02d.rec", i)), []byte("different\n"))
		} else {
			writeFile(t, filepath.Join(dir, fmt.Sprintf("case%02d.rec", i)), out)
		}
		results[path] = domain.ExecutionResult{Stdout: out, Duration: time.Millisecond}
		cases[i] = domain.TestCase{Path: path}
	}

	var mu sync.Mutex
	var dones []int
	runner := &stubRunner{results: results}
	ev := newEvaluator(ModeVerify, runner, Options{
		Jobs: 4,
		OnOutcome: func(done int, o domain.Outcome) {
			mu.Lock()
			dones = append(dones, done)
			mu.Unlock()
		},
	})

	outcomes, sum := ev.Run(context.Background(), cases)

	if len(outcomes) != n {
		t.Fatalf("expected %d outcomes, got %d", n, len(outcomes))
	}
	for i, o := range outcomes {
		if o.Case.Path != cases[i].Path {
			t.Fatalf("outcome %d belongs to %s, order not preserved", i, o.Case.Path)
		}
		wantFail := i%5 == 0
		if wantFail && o.Status != domain.StatusFail {
			t.Errorf("case %d: expected fail, got %s", i, o.Status)
		}
		if !wantFail && o.Status != domain.StatusPass {
			t.Errorf("case %d: expected pass, got %s (%s)", i, o.Status, o.Reason)
		}
	}

	wantFails := (n + 4) / 5
	if sum.Fail != wantFails || sum.Pass != n-wantFails || sum.Total != n {
		t.Errorf("unexpected summary: %+v", sum)
	}

	if len(dones) != n {
		t.Fatalf("expected %d progress calls, got %d", n, len(dones))
	}
	for i, d := range dones {
		if d != i+1 {
			t.Errorf("progress counter out of order at %d: got %d", i, d)
			break
		}
	}
}

func TestEvaluator_RunInterrupted(t *testing.T) {
	dir := t.TempDir()
	cases := make([]domain.TestCase, 6)
	for i := range cases {
		path := filepath.Join(dir, fmt.Sprintf("c%d.in", i))
		writeFile(t, path, []byte("x"))
		cases[i] = domain.TestCase{Path: path}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ev := newEvaluator(ModeVerify, &stubRunner{}, Options{Jobs: 3})
	outcomes, sum := ev.Run(ctx, cases)

	if len(outcomes) != len(cases) {
		t.Fatalf("every case needs an outcome, got %d of %d", len(outcomes), len(cases))
	}
	for i, o := range outcomes {
		if o.Status != domain.StatusSkip || o.Reason != "interrupted" {
			t.Errorf("case %d: expected interrupted skip, got %s (%s)", i, o.Status, o.Reason)
		}
	}
	if sum.Skip != len(cases) {
		t.Errorf("expected %d skips, got %d", len(cases), sum.Skip)
	}
}
