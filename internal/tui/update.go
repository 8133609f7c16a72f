package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/daystreak/internal/logger"
	"github.com/julianstephens/daystreak/internal/models"
	"github.com/julianstephens/daystreak/internal/tracker"
)

type toggledMsg struct {
	habit models.Habit
	day   int
	res   tracker.Result
	err   error
}

type syncedMsg struct {
	res tracker.ReplayResult
	err error
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case toggledMsg:
		return m.handleToggled(msg), nil

	case syncedMsg:
		return m.handleSynced(msg), nil

	case spinner.TickMsg:
		if !m.syncing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Tab):
		m.tab = (m.tab + 1) % tabCount
	case key.Matches(msg, m.keys.ShiftTab):
		m.tab = (m.tab - 1 + tabCount) % tabCount
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Sync):
		if m.syncing {
			return m, nil
		}
		m.syncing = true
		m.status = ""
		return m, tea.Batch(m.syncCmd(), m.spinner.Tick)
	}

	if m.tab != TabDay {
		return m, nil
	}

	n := len(m.dayStatus().Habits)
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < n-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.PrevDay):
		m.setDay(m.day - 1)
	case key.Matches(msg, m.keys.NextDay):
		m.setDay(m.day + 1)
	case key.Matches(msg, m.keys.Today):
		m.current = m.ws.CurrentDay(m.now())
		m.setDay(m.current)
	case key.Matches(msg, m.keys.Toggle):
		return m.toggle()
	}
	return m, nil
}

func (m *Model) setDay(day int) {
	m.day = m.clampDay(day)
	n := len(m.dayStatus().Habits)
	if m.cursor >= n {
		m.cursor = max(0, n-1)
	}
}

func (m Model) toggle() (tea.Model, tea.Cmd) {
	habits := m.dayStatus().Habits
	if len(habits) == 0 {
		return m, nil
	}
	if m.day > m.current {
		m.status = fmt.Sprintf("Day %d has not happened yet", m.day)
		return m, nil
	}

	habit := habits[m.cursor].Habit
	day := m.day
	tr := m.ws.Tracker
	// show the flip now; the store write follows as a command
	p := tr.Apply(habit.ID, day)
	m.refresh()
	return m, func() tea.Msg {
		res, err := tr.Send(context.Background(), p)
		return toggledMsg{habit: habit, day: day, res: res, err: err}
	}
}

func (m Model) handleToggled(msg toggledMsg) Model {
	m.err = nil
	switch {
	case msg.err != nil:
		m.err = msg.err
		m.status = fmt.Sprintf("Could not update %s", msg.habit.Name)
	case msg.res.Cancelled:
		m.status = fmt.Sprintf("%s: pending change cancelled", msg.habit.Name)
	case msg.res.Queued:
		m.status = fmt.Sprintf("%s queued for sync", msg.habit.Name)
	case msg.res.Done:
		m.status = fmt.Sprintf("%s done for day %d", msg.habit.Name, msg.day)
	default:
		m.status = fmt.Sprintf("%s cleared for day %d", msg.habit.Name, msg.day)
	}
	if msg.err == nil && !msg.res.Queued {
		m.ws.Remember()
	}
	m.refresh()
	return m
}

func (m Model) syncCmd() tea.Cmd {
	tr := m.ws.Tracker
	return func() tea.Msg {
		res, err := tr.Replay(context.Background())
		return syncedMsg{res: res, err: err}
	}
}

func (m Model) handleSynced(msg syncedMsg) Model {
	m.syncing = false
	m.err = msg.err
	switch {
	case msg.res.Offline && msg.res.Remaining > 0:
		m.status = fmt.Sprintf("Offline, %d change(s) queued", msg.res.Remaining)
	case msg.err != nil:
		m.status = fmt.Sprintf("Synced %d, %d still queued", msg.res.Applied, msg.res.Remaining)
	case msg.res.Applied > 0:
		m.status = fmt.Sprintf("Synced %d change(s)", msg.res.Applied)
	case m.status == "":
		m.status = "Up to date"
	}
	if msg.res.Applied > 0 {
		m.ws.Remember()
	}
	m.refresh()
	return m
}

// refresh rebuilds the progress engine after the tracker changed.
func (m *Model) refresh() {
	if err := m.ws.Refresh(); err != nil {
		logger.Error("Failed to rebuild progress", "error", err)
		m.err = err
	}
}
