package commands

import (
	"fmt"
	"os"
	"strings"

	"rectest/internal/cli"
	"rectest/internal/config"
	"rectest/internal/discovery"
	"rectest/internal/domain"
	"rectest/internal/execution"
	"rectest/internal/storage"
	"rectest/internal/ui"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Commands holds all CLI commands.
type Commands struct {
	Run    *RunCommand
	Update *UpdateCommand
	Seed   *SeedCommand
	List   *ListCommand
	Review *ReviewCommand
}

// NewCommands creates all commands with their dependencies.
func NewCommands(cfg *config.Config) *Commands {
	runner := execution.NewShellRunner()
	jsonStorage := storage.NewJSONStorage(cfg.ResultsPath())
	viewer := ui.NewFailureViewer(jsonStorage)

	return &Commands{
		Run:    NewRunCommand(cfg, runner, jsonStorage),
		Update: NewUpdateCommand(cfg, runner, jsonStorage),
		Seed:   NewSeedCommand(cfg, jsonStorage),
		List:   NewListCommand(cfg, jsonStorage),
		Review: NewReviewCommand(cfg, jsonStorage, viewer),
	}
}

// Register registers all commands with cobra.
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	layers := func(cmd *cobra.Command, args []string) error {
		return applyLayers(cmd, flags, cfg)
	}

	runCmd := &cobra.Command{
		Use:   `run "<command template>" [path...]`,
		Short: "Run test cases and compare output against records",
		Long: `Discover test case files, run the command template once per case and
compare captured stdout byte for byte against each case's record file.
The placeholder symbol in the template is replaced with the case path;
a template without the symbol gets the path appended.`,
		Args:    cobra.ArbitraryArgs,
		PreRunE: layers,
		RunE:    c.Run.Execute,
	}
	addDiscoveryFlags(runCmd, flags)
	addExecutionFlags(runCmd, flags)
	runCmd.Flags().BoolVar(&flags.StrictStatus, "strict-status", false, "fail cases whose command exits non-zero even when output matches")
	runCmd.Flags().BoolVar(&flags.FailOnly, "fail-only", false, "report only failed cases")
	runCmd.Flags().BoolVar(&flags.Failed, "failed", false, "rerun only the cases that failed in the previous run")
	rootCmd.AddCommand(runCmd)

	updateCmd := &cobra.Command{
		Use:   `update "<command template>" [path...]`,
		Short: "Run test cases and rewrite their records",
		Long: `Run the command template once per test case and store the captured
stdout as the case's record, replacing any previous record. Cases that
time out or fail to launch keep their old record.`,
		Args:    cobra.ArbitraryArgs,
		PreRunE: layers,
		RunE:    c.Update.Execute,
	}
	addDiscoveryFlags(updateCmd, flags)
	addExecutionFlags(updateCmd, flags)
	updateCmd.Flags().BoolVar(&flags.Failed, "failed", false, "re-record only the cases that failed in the previous run")
	rootCmd.AddCommand(updateCmd)

	seedCmd := &cobra.Command{
		Use:   "seed [path...]",
		Short: "Create empty records for unrecorded test cases",
		Long: `Create an empty record file for every discovered test case that has
none yet. Existing records are left untouched and nothing is executed.`,
		Args:    cobra.ArbitraryArgs,
		PreRunE: layers,
		RunE:    c.Seed.Execute,
	}
	addDiscoveryFlags(seedCmd, flags)
	rootCmd.AddCommand(seedCmd)

	listCmd := &cobra.Command{
		Use:     "list [path...]",
		Short:   "List discovered test cases without running them",
		Long:    "Scan the given paths and list every test case, marking cases without records and cases that failed in the previous run.",
		Args:    cobra.ArbitraryArgs,
		PreRunE: layers,
		RunE:    c.List.Execute,
	}
	addDiscoveryFlags(listCmd, flags)
	rootCmd.AddCommand(listCmd)

	reviewCmd := &cobra.Command{
		Use:     "review",
		Short:   "Browse the previous run's failures interactively",
		Long:    "Open the failures of the previous run in an interactive viewer where they can be inspected and marked resolved.",
		Args:    cobra.NoArgs,
		PreRunE: layers,
		RunE:    c.Review.Execute,
	}
	reviewCmd.Flags().StringVarP(&flags.ConfigPath, "config", "c", "", "project config file (default "+config.DefaultConfigFile+")")
	rootCmd.AddCommand(reviewCmd)
}

func addDiscoveryFlags(cmd *cobra.Command, flags *cli.Flags) {
	cmd.Flags().StringVarP(&flags.TestExt, "ext", "e", "", "only files with this extension become test cases (default: any non-record file)")
	cmd.Flags().StringVarP(&flags.RecordExt, "record-ext", "r", config.DefaultRecordExt, "extension of record files")
	cmd.Flags().StringVarP(&flags.Filter, "filter", "f", "", "keep cases whose base name matches the pattern (wildcards allowed)")
	cmd.Flags().BoolVar(&flags.NoRecursive, "no-recursive", false, "do not descend into subdirectories")
	cmd.Flags().StringVarP(&flags.ConfigPath, "config", "c", "", "project config file (default "+config.DefaultConfigFile+")")
	cmd.Flags().BoolVar(&flags.NoColor, "no-color", false, "disable colored output")
}

func addExecutionFlags(cmd *cobra.Command, flags *cli.Flags) {
	cmd.Flags().StringVarP(&flags.Symbol, "symbol", "s", config.DefaultSymbol, "placeholder replaced with the test file path")
	cmd.Flags().IntVarP(&flags.Jobs, "jobs", "j", config.DefaultJobs, "number of cases to run at once")
	cmd.Flags().IntVarP(&flags.TimeoutMS, "timeout", "t", 0, "per-case time limit in milliseconds (0 = none)")
	cmd.Flags().BoolVar(&flags.Echo, "echo", false, "print each command line before it runs")
	cmd.Flags().BoolVar(&flags.ShowTime, "time", false, "show per-case and total timing")
}

// applyLayers folds environment, project file and set flags onto the config,
// then validates the result. Flags win over the file, the file over the
// environment.
func applyLayers(cmd *cobra.Command, flags *cli.Flags, cfg *config.Config) error {
	cfg.ApplyEnv()

	var fc *config.FileConfig
	var err error
	if cmd.Flags().Changed("config") {
		fc, err = config.LoadFile(flags.ConfigPath)
	} else {
		fc, err = config.LoadDefaultFile()
	}
	if err != nil {
		return err
	}
	cfg.ApplyFile(fc)

	flags.Apply(cmd, cfg)
	if err := cfg.Finalize(); err != nil {
		return err
	}

	if cfg.NoColor {
		color.NoColor = true
	}
	return nil
}

// resolveArgs splits positional arguments into the command template and the
// root paths, falling back to project-file defaults when arguments are
// omitted.
func resolveArgs(cfg *config.Config, args []string, needTemplate bool) (string, []string, error) {
	template := ""
	var roots []string

	if needTemplate {
		if len(args) > 0 {
			template = args[0]
			roots = args[1:]
		} else {
			template = cfg.Command
		}
		if strings.TrimSpace(template) == "" {
			return "", nil, fmt.Errorf("%w: missing command template", domain.ErrConfig)
		}
	} else {
		roots = args
	}

	if len(roots) == 0 {
		roots = append([]string(nil), cfg.Paths...)
	}
	return template, roots, nil
}

// discoverCases scans the roots and applies the name filter. Scan warnings
// go to stderr so they are visible but never mix into record comparisons.
func discoverCases(cfg *config.Config, roots []string) ([]domain.TestCase, error) {
	if len(roots) == 0 {
		return nil, fmt.Errorf("%w: no test paths given", domain.ErrConfig)
	}
	scanner := discovery.NewScanner(cfg.TestExt, cfg.RecordExt, cfg.Recursive, cfg.IgnoreDirs)
	cases, warnings, err := scanner.Scan(roots)
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, color.YellowString("warning: %s", w))
	}
	if err != nil {
		return nil, err
	}
	return discovery.FilterByName(cases, cfg.Filter), nil
}

// failedRoots resolves the previous run's failed cases into scan roots,
// dropping paths that no longer exist.
func failedRoots(st storage.Storage) ([]string, error) {
	run, err := st.Load()
	if err != nil {
		return nil, fmt.Errorf("%w: --failed needs a previous run: %v", domain.ErrConfig, err)
	}

	var roots []string
	for _, path := range run.FailedPaths() {
		if _, statErr := os.Stat(path); statErr != nil {
			fmt.Fprintln(os.Stderr, color.YellowString("warning: skipping %s: %v", path, statErr))
			continue
		}
		roots = append(roots, path)
	}
	return roots, nil
}
