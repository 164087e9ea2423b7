package config

const (
	// DefaultRecordExt is the extension of record files.
	DefaultRecordExt = ".rec"
	// DefaultSymbol is the placeholder substituted with the test file path.
	DefaultSymbol = "@"
	// DefaultJobs is the number of test cases executed at once.
	DefaultJobs = 1
	// DefaultResultsDir is the directory holding persisted run results.
	DefaultResultsDir = ".rectest"
	// DefaultResultsFile is the persisted results file name.
	DefaultResultsFile = "results.json"
	// DefaultConfigFile is the per-project config file looked up when no
	// explicit --config path is given.
	DefaultConfigFile = ".rectest.yaml"
)

// DefaultIgnoreDirs are directory names skipped during recursive discovery.
var DefaultIgnoreDirs = []string{
	".git",
	".hg",
	".svn",
	"node_modules",
	"vendor",
}
