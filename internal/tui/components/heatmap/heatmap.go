// Package heatmap renders a challenge as a grid of day cells shaded by
// completion.
package heatmap

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/daystreak/internal/constants"
	"github.com/julianstephens/daystreak/internal/progress"
)

var (
	levelColors = map[progress.HeatLevel]lipgloss.Color{
		progress.LevelFuture:  lipgloss.Color("238"),
		progress.LevelEmpty:   lipgloss.Color("240"),
		progress.LevelLow:     lipgloss.Color("124"),
		progress.LevelMedium:  lipgloss.Color("172"),
		progress.LevelHigh:    lipgloss.Color("106"),
		progress.LevelPerfect: lipgloss.Color("46"),
	}

	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	todayStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

// Cell renders one day number shaded by its level.
func Cell(d progress.CalendarDay) string {
	style := lipgloss.NewStyle().Foreground(levelColors[d.Level])
	if d.Today {
		style = style.Inherit(todayStyle)
	}
	return style.Render(fmt.Sprintf("%3d", d.Day))
}

// Render lays days out one challenge week per row. weeks, when given, adds
// each week's average after its row; progress.WeekNotStarted hides it.
func Render(days []progress.CalendarDay, weeks []int) string {
	var b strings.Builder
	for start := 0; start < len(days); start += constants.DaysPerWeek {
		end := min(start+constants.DaysPerWeek, len(days))
		week := start/constants.DaysPerWeek + 1

		b.WriteString(labelStyle.Render(fmt.Sprintf("W%-2d", week)))
		for _, d := range days[start:end] {
			b.WriteString(" ")
			b.WriteString(Cell(d))
		}
		if week-1 < len(weeks) && weeks[week-1] != progress.WeekNotStarted {
			pad := strings.Repeat("    ", constants.DaysPerWeek-(end-start))
			b.WriteString(pad)
			b.WriteString(labelStyle.Render(fmt.Sprintf("  %3d%%", weeks[week-1])))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Legend names each level in its color.
func Legend() string {
	levels := []struct {
		level progress.HeatLevel
		label string
	}{
		{progress.LevelEmpty, "0%"},
		{progress.LevelLow, "1-39%"},
		{progress.LevelMedium, "40-69%"},
		{progress.LevelHigh, "70-99%"},
		{progress.LevelPerfect, "100%"},
	}
	parts := make([]string, len(levels))
	for i, l := range levels {
		parts[i] = lipgloss.NewStyle().Foreground(levelColors[l.level]).Render("■ " + l.label)
	}
	return strings.Join(parts, "  ")
}
