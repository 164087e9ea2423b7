package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"rectest/internal/domain"
	"rectest/internal/record"

	"github.com/fatih/color"
)

// Reporter renders outcomes and the run summary as plain lines, one per
// case, in the order given.
type Reporter struct {
	out      io.Writer
	failOnly bool
	showTime bool
}

// NewReporter creates a Reporter writing to out.
func NewReporter(out io.Writer, failOnly, showTime bool) *Reporter {
	return &Reporter{out: out, failOnly: failOnly, showTime: showTime}
}

// Report prints every outcome followed by the summary line.
func (r *Reporter) Report(outcomes []domain.Outcome, sum domain.RunSummary) {
	for _, o := range outcomes {
		r.printOutcome(o)
	}
	r.printSummary(sum)
}

func (r *Reporter) printOutcome(o domain.Outcome) {
	if r.failOnly && o.Status != domain.StatusFail {
		return
	}

	line := fmt.Sprintf("%s %s", statusLabel(o.Status), o.Case.Path)
	if o.Reason != "" {
		line += ": " + o.Reason
	}
	if r.showTime && o.Duration > 0 {
		line += fmt.Sprintf(" [%s]", o.Duration.Round(time.Millisecond))
	}
	fmt.Fprintln(r.out, line)

	if o.Status == domain.StatusFail {
		r.printFailureDetail(o)
	}
}

// printFailureDetail shows what diverged. The command is always included so
// a failure can be reproduced by hand.
func (r *Reporter) printFailureDetail(o domain.Outcome) {
	if o.Command != "" {
		fmt.Fprintf(r.out, "    command:  %s\n", o.Command)
	}
	if len(o.Expected) == 0 && len(o.Actual) == 0 {
		return
	}
	fmt.Fprintf(r.out, "    expected: %s\n", preview(o.Expected))
	fmt.Fprintf(r.out, "    actual:   %s\n", preview(o.Actual))
	if n := firstMismatchLine(o.Expected, o.Actual); n > 0 {
		fmt.Fprintf(r.out, "    first difference at line %d\n", n)
	}
}

func (r *Reporter) printSummary(sum domain.RunSummary) {
	fmt.Fprintln(r.out)

	var parts []string
	if sum.Pass > 0 {
		parts = append(parts, color.GreenString("%d passed", sum.Pass))
	}
	if sum.Fail > 0 {
		parts = append(parts, color.RedString("%d failed", sum.Fail))
	}
	if sum.Skip > 0 {
		parts = append(parts, color.YellowString("%d skipped", sum.Skip))
	}
	if sum.Recorded > 0 {
		parts = append(parts, color.CyanString("%d recorded", sum.Recorded))
	}
	if len(parts) == 0 {
		parts = append(parts, "nothing to do")
	}

	line := strings.Join(parts, ", ") + fmt.Sprintf(" (%d total)", sum.Total)
	if r.showTime {
		line += " in " + sum.Elapsed.Round(time.Millisecond).String()
	}
	fmt.Fprintln(r.out, line)
}

// PrintCaseList renders discovered cases as a tree fragment with record and
// last-failure markers.
func (r *Reporter) PrintCaseList(cases []domain.TestCase, store *record.Store, failed map[string]bool) {
	fmt.Fprintln(r.out, color.GreenString("Found %d test case(s):", len(cases)))

	missing := 0
	for i, tc := range cases {
		connector := "├── "
		if i == len(cases)-1 {
			connector = "└── "
		}
		markers := ""
		if !store.Exists(tc.Path) {
			missing++
			markers += " " + color.YellowString("[no record]")
		}
		if failed[tc.Path] {
			markers += " " + color.RedString("[F]")
		}
		fmt.Fprintf(r.out, "%s%s%s\n", connector, color.CyanString(tc.Path), markers)
	}

	if missing > 0 {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, color.YellowString("%d case(s) have no record yet; run update or seed to create them", missing))
	}
}

func statusLabel(s domain.Status) string {
	switch s {
	case domain.StatusPass:
		return color.GreenString("PASS")
	case domain.StatusFail:
		return color.RedString("FAIL")
	case domain.StatusSkip:
		return color.YellowString("SKIP")
	case domain.StatusRecorded:
		return color.CyanString("REC ")
	}
	return string(s)
}
