package commands

import (
	"os"
	"path/filepath"

	"rectest/internal/config"
	"rectest/internal/record"
	"rectest/internal/storage"
	"rectest/internal/ui"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// ListCommand handles the list command.
type ListCommand struct {
	config  *config.Config
	storage storage.Storage
}

// NewListCommand creates a new ListCommand.
func NewListCommand(cfg *config.Config, st storage.Storage) *ListCommand {
	return &ListCommand{config: cfg, storage: st}
}

// Execute runs the command.
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	cfg := lc.config

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

	// Mark cases that failed in the previous run, when one exists.
	failed := make(map[string]bool)
	if run, loadErr := lc.storage.Load(); loadErr == nil {
		for _, path := range run.FailedPaths() {
			failed[filepath.Clean(path)] = true
		}
	}

	reporter := ui.NewReporter(os.Stdout, false, false)
	reporter.PrintCaseList(cases, record.NewStore(cfg.RecordExt), failed)
	return nil
}
