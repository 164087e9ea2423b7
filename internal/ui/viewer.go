package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"rectest/internal/domain"
	"rectest/internal/storage"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// Viewer displays a persisted run in an interactive TUI.
type Viewer interface {
	View(run *domain.RunRecord) error
}

// FailureViewer walks the failed cases of the last run: a list on the left,
// the full expected/actual detail on the right. Failures can be marked
// resolved, which is written back to the results file.
type FailureViewer struct {
	storage storage.Storage
}

// NewFailureViewer creates a FailureViewer persisting through st.
func NewFailureViewer(st storage.Storage) *FailureViewer {
	return &FailureViewer{storage: st}
}

// View runs the TUI until the user exits. A run without failures prints a
// note and returns immediately.
func (v *FailureViewer) View(run *domain.RunRecord) error {
	failures := run.Failures()
	if len(failures) == 0 {
		color.Green("No failures in the last run (%d cases)", run.Meta.Total)
		return nil
	}

	// Resolved flags are kept by list position and flushed back onto the
	// run's cases on every toggle.
	resolved := make(map[int]bool)
	for pos, caseIdx := range failures {
		if run.Cases[caseIdx].Resolved {
			resolved[pos] = true
		}
	}
	saveResolved := func() error {
		for pos, caseIdx := range failures {
			run.Cases[caseIdx].Resolved = resolved[pos]
		}
		return v.storage.Save(run)
	}

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)

	itemText := func(pos int) string {
		c := run.Cases[failures[pos]]
		name := filepath.Base(c.Path)
		if resolved[pos] {
			return fmt.Sprintf("[gray]✓ [yellow]%d.[gray] %s[white]", pos+1, tview.Escape(name))
		}
		return fmt.Sprintf("[yellow]%d.[white] %s", pos+1, tview.Escape(name))
	}
	for pos := range failures {
		list.AddItem(itemText(pos), "", 0, nil)
	}
	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)

	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	detailsContainer := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(detailsView, 0, 1, false).
		AddItem(tview.NewBox(), 2, 0, false)

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(detailsContainer, 0, 1, false)

	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)

	countUnresolved := func() int {
		count := 0
		for pos := range failures {
			if !resolved[pos] {
				count++
			}
		}
		return count
	}
	updateHeader := func() {
		headerView.SetText(fmt.Sprintf(
			" Failed cases (%d total, %d unresolved) | ↑↓ navigate, [yellow]R[white] mark resolved, → details, ← back, Ctrl+C exit ",
			len(failures), countUnresolved(),
		))
	}
	updateHeader()

	updateDetails := func() {
		pos := list.GetCurrentItem()
		if pos < 0 || pos >= len(failures) {
			return
		}
		c := run.Cases[failures[pos]]
		statsView.SetText(fmt.Sprintf("[cyan]case:[white] [yellow]%s[white]", tview.Escape(c.Path)))
		detailsView.SetText(formatCaseDetails(c))
	}

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyUp, tcell.KeyDown:
			return event
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'r' || event.Rune() == 'R' {
				pos := list.GetCurrentItem()
				if pos >= 0 && pos < len(failures) {
					resolved[pos] = !resolved[pos]
					list.SetItemText(pos, itemText(pos), "")
					updateHeader()
					if err := saveResolved(); err != nil {
						// Keep the session alive; the toggle is still visible.
						_ = err
					}
				}
				return nil
			}
		}
		return event
	})

	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	list.SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		updateDetails()
	})
	updateDetails()

	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(flex, 0, 1, true)

	if err := app.SetRoot(mainLayout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("run failure viewer: %w", err)
	}
	return nil
}

// formatCaseDetails renders one failed case with tview color tags. Captured
// output is escaped so bracketed bytes cannot hijack the styling.
func formatCaseDetails(c domain.CaseResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[red]✗ %s[white]\n\n", tview.Escape(c.Path))
	if c.Command != "" {
		fmt.Fprintf(&b, "[cyan]Command:[white] %s\n", tview.Escape(c.Command))
	}
	if c.DurationMS > 0 {
		fmt.Fprintf(&b, "[cyan]Duration:[white] %dms\n", c.DurationMS)
	}
	if c.Reason != "" {
		fmt.Fprintf(&b, "\n[yellow]Reason:[white]\n%s\n", tview.Escape(c.Reason))
	}

	if c.Expected != "" || c.Actual != "" {
		fmt.Fprintf(&b, "\n[green]Expected output:[white]\n%s\n", tview.Escape(c.Expected))
		fmt.Fprintf(&b, "\n[red]Actual output:[white]\n%s\n", tview.Escape(c.Actual))
	}

	return b.String()
}
