package cli

import (
	"rectest/internal/config"

	"github.com/spf13/cobra"
)

// Flags holds raw command-line flag values before they are layered onto the
// config.
type Flags struct {
	TestExt      string
	RecordExt    string
	Symbol       string
	Filter       string
	NoRecursive  bool
	Jobs         int
	TimeoutMS    int
	StrictStatus bool
	FailOnly     bool
	Echo         bool
	ShowTime     bool
	NoColor      bool
	Failed       bool
	ConfigPath   string
}

// Apply copies onto cfg only the flags the user actually set, so values from
// the project file and environment survive unless overridden.
func (f *Flags) Apply(cmd *cobra.Command, cfg *config.Config) {
	set := cmd.Flags().Changed

	if set("ext") {
		cfg.TestExt = f.TestExt
	}
	if set("record-ext") {
		cfg.RecordExt = f.RecordExt
	}
	if set("symbol") {
		cfg.Symbol = f.Symbol
	}
	if set("filter") {
		cfg.Filter = f.Filter
	}
	if set("no-recursive") {
		cfg.Recursive = !f.NoRecursive
	}
	if set("jobs") {
		cfg.Jobs = f.Jobs
	}
	if set("timeout") {
		cfg.TimeoutMS = f.TimeoutMS
	}
	if set("strict-status") {
		cfg.StrictStatus = f.StrictStatus
	}
	if set("fail-only") {
		cfg.FailOnly = f.FailOnly
	}
	if set("echo") {
		cfg.Echo = f.Echo
	}
	if set("time") {
		cfg.ShowTime = f.ShowTime
	}
	if set("no-color") {
		cfg.NoColor = f.NoColor
	}
	if set("failed") {
		cfg.Failed = f.Failed
	}
}
