// Package tui is the interactive view of a challenge: a day list to toggle
// habits, a calendar heatmap and summary stats.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/daystreak/internal/cli"
	"github.com/julianstephens/daystreak/internal/progress"
)

type Tab int

const (
	TabDay Tab = iota
	TabCalendar
	TabStats
	tabCount
)

var tabTitles = []string{"Day", "Calendar", "Stats"}

type Model struct {
	ws       *cli.Workspace
	now      func() time.Time
	keys     KeyMap
	help     help.Model
	spinner  spinner.Model
	tab      Tab
	day      int
	current  int
	cursor   int
	status   string
	err      error
	syncing  bool
	quitting bool
	width    int
	height   int
}

// NewModel opens on today's day list. now returns the time in the
// challenge's timezone.
func NewModel(ws *cli.Workspace, now func() time.Time) Model {
	current := ws.CurrentDay(now())
	m := Model{
		ws:      ws,
		now:     now,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(statusStyle)),
		tab:     TabDay,
		current: current,
		syncing: true,
	}
	m.day = m.clampDay(current)
	if ws.Snapshot.Stale {
		m.status = "Showing cached data"
	}
	return m
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	if m.tab == TabDay {
		keys = append(keys, m.keys.Toggle, m.keys.PrevDay, m.keys.NextDay)
	}
	return append(keys, m.keys.Sync)
}

func (m Model) FullHelp() [][]key.Binding {
	return m.keys.FullHelp()
}

// Init replays anything queued by an earlier offline run.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.syncCmd(), m.spinner.Tick)
}

func (m Model) Day() int       { return m.day }
func (m Model) Cursor() int    { return m.cursor }
func (m Model) ActiveTab() Tab { return m.tab }

// Status is the last message shown under the tabs.
func (m Model) Status() string { return m.status }

func (m Model) engine() *progress.Engine {
	return m.ws.Engine
}

// clampDay keeps day within the challenge.
func (m Model) clampDay(day int) int {
	return max(1, min(day, m.engine().Duration()))
}

func (m Model) dayStatus() progress.DayStatus {
	return m.engine().Day(m.day)
}
