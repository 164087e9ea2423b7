package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// ProgressBar shows live completion on stderr while cases run.
type ProgressBar struct {
	bar *progressbar.ProgressBar
}

// ProgressEnabled reports whether a live bar makes sense: stderr must be a
// terminal, otherwise the escape codes would end up in logs.
func ProgressEnabled() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// NewProgressBar creates a bar sized for count cases.
func NewProgressBar(count int) *ProgressBar {
	bar := progressbar.NewOptions(count,
		progressbar.OptionSetDescription(description(0, 0)),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)

	return &ProgressBar{bar: bar}
}

// Update advances the bar to done completed cases and refreshes the counts.
func (p *ProgressBar) Update(done, passed, failed int) {
	p.bar.Set(done)
	p.bar.Describe(description(passed, failed))
}

// Finish completes and clears off the bar.
func (p *ProgressBar) Finish() {
	p.bar.Finish()
}

func description(passed, failed int) string {
	return color.CyanString("Running cases: ") +
		color.GreenString("[passed: %d", passed) +
		" | " +
		color.RedString("failed: %d]", failed)
}
