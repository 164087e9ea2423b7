package main

import (
	"errors"
	"fmt"
	"os"

	"rectest/internal/cli"
	"rectest/internal/cli/commands"
	"rectest/internal/config"
	"rectest/internal/domain"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "rectest",
		Short: "Record and replay test runner for arbitrary commands",
		Long: `rectest runs a command of your choice over a set of test case files and
compares its output byte for byte against stored record files. Records
are created and refreshed by the same tool, so any program with stable
stdout can be golden-tested without writing harness code.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Create initial config with defaults
	cfg := config.New()

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	// Create commands with dependencies
	cmds := commands.NewCommands(cfg)

	// Register all commands
	cmds.Register(rootCmd, &flags, cfg)

	// Execute root command; the sentinel errors carry the exit code. A failed
	// run already printed its summary, so it exits without extra noise.
	if err := rootCmd.Execute(); err != nil {
		switch {
		case errors.Is(err, domain.ErrRunFailed):
			os.Exit(1)
		case errors.Is(err, domain.ErrConfig):
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		default:
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}
