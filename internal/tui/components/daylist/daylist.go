// Package daylist renders the habits of one challenge day.
package daylist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/daystreak/internal/constants"
	"github.com/julianstephens/daystreak/internal/progress"
	"github.com/julianstephens/daystreak/internal/tracker"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true)
	doneStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	satisfiedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("108"))
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Italic(true)
	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
)

// StateFunc reports the sync state of a habit on the rendered day.
type StateFunc func(habitID string) tracker.State

// Header is the one-line summary of a day.
func Header(status progress.DayStatus, duration int) string {
	return headerStyle.Render(fmt.Sprintf("Day %d of %d", status.Day, duration)) +
		mutedStyle.Render(fmt.Sprintf("  %s %s  ", status.Weekday.String()[:3], status.Date.Format(constants.DateFormat))) +
		headerStyle.Render(fmt.Sprintf("%d%%", status.Percentage))
}

// Render lists the day's habits. cursor highlights a row; -1 shows none.
func Render(status progress.DayStatus, state StateFunc, cursor int) string {
	if len(status.Habits) == 0 {
		return mutedStyle.Render("Nothing scheduled today.") + "\n"
	}

	var b strings.Builder
	for i, hs := range status.Habits {
		prefix := "  "
		if i == cursor {
			prefix = cursorStyle.Render("> ")
		}
		b.WriteString(prefix)
		b.WriteString(Row(hs, state))
		b.WriteString("\n")
	}
	return b.String()
}

// Row renders one habit line.
func Row(hs progress.HabitStatus, state StateFunc) string {
	box, style := "[ ]", lipgloss.NewStyle()
	switch {
	case hs.Done:
		box, style = "[x]", doneStyle
	case hs.Satisfied:
		box, style = "[-]", satisfiedStyle
	}

	line := style.Render(box + " " + hs.Habit.Name)
	if hs.Habit.Sublabel != "" {
		line += mutedStyle.Render(" (" + hs.Habit.Sublabel + ")")
	}
	if hs.Weekly != nil {
		line += mutedStyle.Render(fmt.Sprintf("  %d/%d this week", hs.Weekly.Completed, hs.Weekly.Target))
	}
	if state != nil {
		if s := state(hs.Habit.ID); s != tracker.Settled {
			line += pendingStyle.Render("  " + s.String())
		}
	}
	return line
}
