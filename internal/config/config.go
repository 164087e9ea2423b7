package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"rectest/internal/domain"

	"github.com/joho/godotenv"
)

// Config holds all settings for a run. Values are layered in order: built-in
// defaults, environment variables, the project config file, command-line
// flags. Later layers win.
type Config struct {
	// Discovery settings
	TestExt    string   // only files with this extension become test cases, empty means all
	RecordExt  string   // extension of record files, always dot-prefixed after Finalize
	Recursive  bool     // descend into subdirectories of directory roots
	IgnoreDirs []string // directory names skipped during recursive discovery
	Filter     string   // wildcard pattern applied to test file base names

	// Execution settings
	Symbol       string // placeholder replaced with the test file path
	TimeoutMS    int    // per-case time limit in milliseconds, 0 means none
	Jobs         int    // number of cases executed concurrently
	StrictStatus bool   // treat a non-zero exit status as a failure

	// Output settings
	FailOnly bool // report only failed cases
	Echo     bool // print each command line before it runs
	ShowTime bool // include timing in the report
	NoColor  bool // disable colored output

	// Rerun settings
	Failed bool // run only the cases that failed in the previous run

	// Results persistence
	ResultsDir  string
	ResultsFile string

	// Project file defaults, used when the command line omits them
	Command string   // default command template
	Paths   []string // default test paths
}

// New creates a Config with built-in defaults.
func New() *Config {
	cfg := &Config{
		RecordExt:   DefaultRecordExt,
		Symbol:      DefaultSymbol,
		Recursive:   true,
		Jobs:        DefaultJobs,
		ResultsDir:  DefaultResultsDir,
		ResultsFile: DefaultResultsFile,
	}
	cfg.IgnoreDirs = make([]string, len(DefaultIgnoreDirs))
	copy(cfg.IgnoreDirs, DefaultIgnoreDirs)
	return cfg
}

// ApplyEnv overlays settings from the environment. A .env file in the
// working directory is loaded first when present.
func (c *Config) ApplyEnv() {
	_ = godotenv.Load()

	if v := os.Getenv("RECTEST_TEST_EXT"); v != "" {
		c.TestExt = v
	}
	if v := os.Getenv("RECTEST_RECORD_EXT"); v != "" {
		c.RecordExt = v
	}
	if v := os.Getenv("RECTEST_SYMBOL"); v != "" {
		c.Symbol = v
	}
	if v := os.Getenv("RECTEST_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.TimeoutMS = n
		}
	}
	if v := os.Getenv("RECTEST_JOBS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Jobs = n
		}
	}
	if v := os.Getenv("RECTEST_NO_COLOR"); v != "" {
		c.NoColor = isTruthy(v)
	}
	if v := os.Getenv("NO_COLOR"); v != "" {
		c.NoColor = true
	}
}

// ApplyFile overlays settings from a loaded project config file.
func (c *Config) ApplyFile(fc *FileConfig) {
	if fc == nil {
		return
	}
	if fc.Command != "" {
		c.Command = fc.Command
	}
	if len(fc.Paths) > 0 {
		c.Paths = append([]string(nil), fc.Paths...)
	}
	if fc.TestExt != "" {
		c.TestExt = fc.TestExt
	}
	if fc.RecordExt != "" {
		c.RecordExt = fc.RecordExt
	}
	if fc.Symbol != "" {
		c.Symbol = fc.Symbol
	}
	if fc.Recursive != nil {
		c.Recursive = *fc.Recursive
	}
	if fc.Jobs > 0 {
		c.Jobs = fc.Jobs
	}
	if fc.TimeoutMS > 0 {
		c.TimeoutMS = fc.TimeoutMS
	}
	if fc.StrictStatus != nil {
		c.StrictStatus = *fc.StrictStatus
	}
	if len(fc.Ignore) > 0 {
		c.IgnoreDirs = append([]string(nil), fc.Ignore...)
	}
}

// Finalize normalizes and validates the layered configuration. It must run
// after all layers are applied and before the config is used.
func (c *Config) Finalize() error {
	c.TestExt = normalizeExt(c.TestExt)
	c.RecordExt = normalizeExt(c.RecordExt)
	if c.RecordExt == "" {
		c.RecordExt = DefaultRecordExt
	}
	if c.Symbol == "" {
		c.Symbol = DefaultSymbol
	}
	if c.Jobs < 1 {
		c.Jobs = 1
	}

	if c.TestExt != "" && c.TestExt == c.RecordExt {
		return fmt.Errorf("%w: test extension and record extension are both %q", domain.ErrConfig, c.RecordExt)
	}
	for _, r := range c.Symbol {
		if unicode.IsSpace(r) {
			return fmt.Errorf("%w: placeholder symbol %q contains whitespace", domain.ErrConfig, c.Symbol)
		}
	}
	if c.TimeoutMS < 0 {
		return fmt.Errorf("%w: timeout must not be negative, got %d", domain.ErrConfig, c.TimeoutMS)
	}
	return nil
}

// Timeout returns the per-case time limit, zero when unlimited.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// ResultsPath returns the absolute location of the persisted results file so
// every subcommand reads and writes the same file regardless of cwd.
func (c *Config) ResultsPath() string {
	p := filepath.Join(c.ResultsDir, c.ResultsFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// normalizeExt gives an extension its leading dot, so "rec" and ".rec" mean
// the same thing. Empty stays empty.
func normalizeExt(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext == "" || strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}

func isTruthy(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
