package commands

import (
	"os"
	"os/signal"
	"syscall"

	"rectest/internal/config"
	"rectest/internal/domain"
	"rectest/internal/evaluate"
	"rectest/internal/execution"
	"rectest/internal/storage"
	"rectest/internal/ui"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// UpdateCommand handles the update command.
type UpdateCommand struct {
	config  *config.Config
	runner  execution.Runner
	storage storage.Storage
}

// NewUpdateCommand creates a new UpdateCommand.
func NewUpdateCommand(cfg *config.Config, runner execution.Runner, st storage.Storage) *UpdateCommand {
	return &UpdateCommand{config: cfg, runner: runner, storage: st}
}

// Execute runs the command.
func (uc *UpdateCommand) Execute(cmd *cobra.Command, args []string) error {
	cfg := uc.config

	template, roots, err := resolveArgs(cfg, args, true)
	if err != nil {
		return err
	}
	if cfg.Failed {
		roots, err = failedRoots(uc.storage)
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

	outcomes, sum := runCases(ctx, evaluate.ModeUpdate, cfg, uc.runner, template, cases)

	reporter := ui.NewReporter(os.Stdout, false, cfg.ShowTime)
	reporter.Report(outcomes, sum)

	saveRun(uc.storage, "update", template, roots, outcomes, sum, cfg.Jobs)

	if ctx.Err() != nil {
		return domain.ErrRunFailed
	}
	if sum.Failed() {
		return domain.ErrRunFailed
	}
	return nil
}
