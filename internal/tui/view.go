package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/daystreak/internal/progress"
	"github.com/julianstephens/daystreak/internal/tracker"
	"github.com/julianstephens/daystreak/internal/tui/components/daylist"
	"github.com/julianstephens/daystreak/internal/tui/components/heatmap"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.tab {
	case TabDay:
		content = m.viewDay()
	case TabCalendar:
		content = m.viewCalendar()
	case TabStats:
		content = m.viewStats()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		docStyle.Render(content),
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	tabs := make([]string, len(tabTitles))
	for i, title := range tabTitles {
		if m.tab == Tab(i) {
			tabs[i] = activeTabStyle.Render(title)
		} else {
			tabs[i] = inactiveTabStyle.Render(title)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStatus() string {
	if m.syncing {
		return m.spinner.View() + statusStyle.Render(" Syncing...")
	}
	if m.err != nil {
		return dangerStyle.Render("✗ " + m.status + ": " + m.err.Error())
	}
	if m.ws.Snapshot.Stale {
		return warningStyle.Render("⚠ " + m.status)
	}
	return statusStyle.Render(m.status)
}

func (m Model) viewDay() string {
	status := m.dayStatus()
	state := func(habitID string) tracker.State {
		return m.ws.Tracker.State(habitID, m.day)
	}
	return daylist.Header(status, m.engine().Duration()) + "\n\n" +
		daylist.Render(status, state, m.cursor)
}

func (m Model) viewCalendar() string {
	e := m.engine()
	return titleStyle.Render(e.Challenge().Name) + "\n\n" +
		heatmap.Render(e.CalendarDays(m.current), e.WeeklySummary(m.current)) + "\n" +
		heatmap.Legend()
}

func (m Model) viewStats() string {
	s := m.engine().Summary(m.now())
	rows := [][2]string{
		{"Day", fmt.Sprintf("%d of %d", s.CurrentDay, s.Duration)},
		{"Today", fmt.Sprintf("%d%%", s.TodayPercentage)},
		{"Current streak", fmt.Sprintf("%d", s.CurrentStreak)},
		{"Best streak", fmt.Sprintf("%d", s.BestStreak)},
		{"Overall", fmt.Sprintf("%d%%", s.OverallCompletion)},
		{"Perfect days", fmt.Sprintf("%d", s.PerfectDays)},
		{"Success rate", fmt.Sprintf("%d%%", s.SuccessRate)},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.engine().Challenge().Name))
	b.WriteString("\n\n")
	for _, r := range rows {
		b.WriteString(statusStyle.Render(fmt.Sprintf("%-16s", r[0])))
		b.WriteString(r[1])
		b.WriteString("\n")
	}
	b.WriteString("\n")
	for i, pct := range s.Weeks {
		if pct == progress.WeekNotStarted {
			break
		}
		b.WriteString(fmt.Sprintf("W%-2d %s %3d%%\n", i+1, bar(pct, 20), pct))
	}
	return b.String()
}

func bar(pct, width int) string {
	filled := pct * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
