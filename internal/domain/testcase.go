package domain

// TestCase is a single test input file discovered on disk. The file's
// contents are never interpreted; its path is handed to the command under
// test and its sibling record file names the expected output.
type TestCase struct {
	Path string // cleaned path as discovered or given on the command line
}
