package commands

import (
	"fmt"

	"rectest/internal/config"
	"rectest/internal/storage"
	"rectest/internal/ui"

	"github.com/spf13/cobra"
)

// ReviewCommand handles the review command.
type ReviewCommand struct {
	config  *config.Config
	storage storage.Storage
	viewer  ui.Viewer
}

// NewReviewCommand creates a new ReviewCommand.
func NewReviewCommand(cfg *config.Config, st storage.Storage, viewer ui.Viewer) *ReviewCommand {
	return &ReviewCommand{config: cfg, storage: st, viewer: viewer}
}

// Execute runs the command.
func (rc *ReviewCommand) Execute(cmd *cobra.Command, args []string) error {
	run, err := rc.storage.Load()
	if err != nil {
		return fmt.Errorf("no saved run to review, run some tests first: %w", err)
	}
	return rc.viewer.View(run)
}
