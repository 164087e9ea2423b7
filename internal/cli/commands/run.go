package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"rectest/internal/command"
	"rectest/internal/config"
	"rectest/internal/domain"
	"rectest/internal/evaluate"
	"rectest/internal/execution"
	"rectest/internal/record"
	"rectest/internal/storage"
	"rectest/internal/ui"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// RunCommand handles the run command.
type RunCommand struct {
	config  *config.Config
	runner  execution.Runner
	storage storage.Storage
}

// NewRunCommand creates a new RunCommand.
func NewRunCommand(cfg *config.Config, runner execution.Runner, st storage.Storage) *RunCommand {
	return &RunCommand{config: cfg, runner: runner, storage: st}
}

// Execute runs the command.
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	cfg := rc.config

	template, roots, err := resolveArgs(cfg, args, true)
	if err != nil {
		return err
	}
	if cfg.Failed {
		roots, err = failedRoots(rc.storage)
		if err != nil {
			return err
		}
		if len(roots) == 0 {
			color.Green("No failures recorded in the previous run")
			return nil
		}
	}

	cases, err := discoverCases(cfg, roots)
	if err != nil {
		return err
	}
	if len(cases) == 0 {
		color.Yellow("No test cases found")
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	outcomes, sum := runCases(ctx, evaluate.ModeVerify, cfg, rc.runner, template, cases)

	reporter := ui.NewReporter(os.Stdout, cfg.FailOnly, cfg.ShowTime)
	reporter.Report(outcomes, sum)

	saveRun(rc.storage, "verify", template, roots, outcomes, sum, cfg.Jobs)

	if ctx.Err() != nil {
		// The summary is already printed; the interrupt still makes the run
		// incomplete.
		return domain.ErrRunFailed
	}
	if sum.Failed() {
		return domain.ErrRunFailed
	}
	return nil
}

// runCases evaluates the cases with live feedback: echo mode prints each
// command line to stderr, otherwise a progress bar runs when stderr is a
// terminal.
func runCases(ctx context.Context, mode evaluate.Mode, cfg *config.Config, runner execution.Runner, template string, cases []domain.TestCase) ([]domain.Outcome, domain.RunSummary) {
	opts := evaluate.Options{
		Template:     command.Split(template),
		Timeout:      cfg.Timeout(),
		Jobs:         cfg.Jobs,
		StrictStatus: cfg.StrictStatus,
	}

	var bar *ui.ProgressBar
	switch {
	case cfg.Echo && cfg.Jobs <= 1:
		opts.OnStart = func(tc domain.TestCase, line string) {
			fmt.Fprintf(os.Stderr, "$ %s\n", line)
		}
	case cfg.Echo:
		// Parallel workers would interleave pre-execution echoes, so echo
		// each command as its case completes. OnOutcome calls are serialized.
		opts.OnOutcome = func(done int, o domain.Outcome) {
			if o.Command != "" {
				fmt.Fprintf(os.Stderr, "$ %s\n", o.Command)
			}
		}
	case ui.ProgressEnabled():
		bar = ui.NewProgressBar(len(cases))
		var passed, failed int
		opts.OnOutcome = func(done int, o domain.Outcome) {
			switch o.Status {
			case domain.StatusPass, domain.StatusRecorded:
				passed++
			case domain.StatusFail:
				failed++
			}
			bar.Update(done, passed, failed)
		}
	}

	ev := evaluate.New(mode, command.NewBuilder(cfg.Symbol), runner, record.NewStore(cfg.RecordExt), opts)
	outcomes, sum := ev.Run(ctx, cases)
	if bar != nil {
		bar.Finish()
	}
	return outcomes, sum
}

// saveRun persists the run for review and failed-only reruns. Failing to
// save never fails the run itself.
func saveRun(st storage.Storage, mode, template string, roots []string, outcomes []domain.Outcome, sum domain.RunSummary, jobs int) {
	run := storage.BuildRunRecord(mode, template, roots, outcomes, sum, jobs)
	if err := st.Save(run); err != nil {
		fmt.Fprintln(os.Stderr, color.YellowString("warning: could not save results: %v", err))
	}
}
