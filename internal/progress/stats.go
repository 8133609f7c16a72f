package progress

import (
	"time"

	"github.com/julianstephens/daystreak/internal/constants"
)

// WeekNotStarted marks a week in WeeklySummary that lies after the current day.
const WeekNotStarted = -1

// Summary bundles the aggregate statistics shown by the stats screen.
type Summary struct {
	CurrentDay         int   `json:"current_day"`
	Duration           int   `json:"duration"`
	DaysRemaining      int   `json:"days_remaining"`
	ProgressPercentage int   `json:"progress_percentage"`
	TodayPercentage    int   `json:"today_percentage"`
	CurrentStreak      int   `json:"current_streak"`
	BestStreak         int   `json:"best_streak"`
	OverallCompletion  int   `json:"overall_completion"`
	PerfectDays        int   `json:"perfect_days"`
	SuccessRate        int   `json:"success_rate"`
	TotalCompletions   int   `json:"total_completions"`
	Weeks              []int `json:"weeks"`
}

// percentages returns DayPercentage for days 1..upTo, indexed from 0.
func (e *Engine) percentages(upTo int) []int {
	out := make([]int, upTo)
	for d := 1; d <= upTo; d++ {
		out[d-1] = e.DayPercentage(d)
	}
	return out
}

// CurrentStreak counts consecutive 100% days walking back from current.
func (e *Engine) CurrentStreak(current int) int {
	if current < 1 {
		return 0
	}
	e.checkDay(current)
	streak := 0
	for d := current; d >= 1; d-- {
		if e.DayPercentage(d) != 100 {
			break
		}
		streak++
	}
	return streak
}

// BestStreak returns the longest run of 100% days in [1, current].
func (e *Engine) BestStreak(current int) int {
	if current < 1 {
		return 0
	}
	e.checkDay(current)
	return bestRun(e.percentages(current))
}

// OverallCompletion is the rounded mean day percentage over [1, current].
func (e *Engine) OverallCompletion(current int) int {
	if current < 1 {
		return 0
	}
	e.checkDay(current)
	return meanPercent(e.percentages(current))
}

// PerfectDayCount counts the 100% days in [1, current].
func (e *Engine) PerfectDayCount(current int) int {
	if current < 1 {
		return 0
	}
	e.checkDay(current)
	return countPerfect(e.percentages(current))
}

// SuccessRate is the share of perfect days in [1, current] as a rounded percentage.
func (e *Engine) SuccessRate(current int) int {
	if current < 1 {
		return 0
	}
	return roundPercent(e.PerfectDayCount(current), current)
}

// WeeklySummary returns one entry per challenge week: the rounded mean day
// percentage over the week's elapsed days, or WeekNotStarted.
func (e *Engine) WeeklySummary(current int) []int {
	if current >= 1 {
		e.checkDay(current)
	}
	return weekAverages(e.percentages(max(current, 0)), e.challenge.Duration)
}

// Summary computes every aggregate for the day containing today.
func (e *Engine) Summary(today time.Time) Summary {
	current := e.CurrentDayNumber(today)
	pcts := e.percentages(current)
	perfect := countPerfect(pcts)
	return Summary{
		CurrentDay:         current,
		Duration:           e.challenge.Duration,
		DaysRemaining:      e.challenge.Duration - current,
		ProgressPercentage: roundPercent(current, e.challenge.Duration),
		TodayPercentage:    pcts[current-1],
		CurrentStreak:      trailingRun(pcts),
		BestStreak:         bestRun(pcts),
		OverallCompletion:  meanPercent(pcts),
		PerfectDays:        perfect,
		SuccessRate:        roundPercent(perfect, current),
		TotalCompletions:   e.index.Len(),
		Weeks:              weekAverages(pcts, e.challenge.Duration),
	}
}

func trailingRun(pcts []int) int {
	run := 0
	for i := len(pcts) - 1; i >= 0 && pcts[i] == 100; i-- {
		run++
	}
	return run
}

func bestRun(pcts []int) int {
	best, run := 0, 0
	for _, p := range pcts {
		if p == 100 {
			run++
			best = max(best, run)
		} else {
			run = 0
		}
	}
	return best
}

func meanPercent(pcts []int) int {
	sum := 0
	for _, p := range pcts {
		sum += p
	}
	return roundDiv(sum, len(pcts))
}

func countPerfect(pcts []int) int {
	n := 0
	for _, p := range pcts {
		if p == 100 {
			n++
		}
	}
	return n
}

// weekAverages groups pcts (days 1..len) into challenge weeks.
func weekAverages(pcts []int, duration int) []int {
	weeks := make([]int, WeekCount(duration))
	for k := range weeks {
		start, end := WeekBounds(k*constants.DaysPerWeek+1, duration)
		if start > len(pcts) {
			weeks[k] = WeekNotStarted
			continue
		}
		weeks[k] = meanPercent(pcts[start-1 : min(end, len(pcts))])
	}
	return weeks
}
