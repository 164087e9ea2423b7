package commands

import (
	"os"
	"os/signal"
	"syscall"

	"rectest/internal/command"
	"rectest/internal/config"
	"rectest/internal/domain"
	"rectest/internal/evaluate"
	"rectest/internal/record"
	"rectest/internal/storage"
	"rectest/internal/ui"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// SeedCommand handles the seed command.
type SeedCommand struct {
	config  *config.Config
	storage storage.Storage
}

// NewSeedCommand creates a new SeedCommand.
func NewSeedCommand(cfg *config.Config, st storage.Storage) *SeedCommand {
	return &SeedCommand{config: cfg, storage: st}
}

// Execute runs the command. Seeding never executes anything, it only fills
// record gaps with empty files.
func (sc *SeedCommand) Execute(cmd *cobra.Command, args []string) error {
	cfg := sc.config

	_, roots, err := resolveArgs(cfg, args, false)
	if err != nil {
		return err
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

	ev := evaluate.New(evaluate.ModeSeed, command.NewBuilder(cfg.Symbol), nil, record.NewStore(cfg.RecordExt), evaluate.Options{})
	outcomes, sum := ev.Run(ctx, cases)

	reporter := ui.NewReporter(os.Stdout, false, false)
	reporter.Report(outcomes, sum)

	if sum.Failed() {
		return domain.ErrRunFailed
	}
	return nil
}
