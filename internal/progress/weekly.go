package progress

import (
	"github.com/julianstephens/daystreak/internal/constants"
	"github.com/julianstephens/daystreak/internal/models"
)

// WeeklyProgress is a weekly-goal habit's standing in the week containing a day.
type WeeklyProgress struct {
	Completed int `json:"completed"`
	Target    int `json:"target"`
	WeekStart int `json:"week_start"`
	WeekEnd   int `json:"week_end"`
}

// Satisfied reports whether the week's target has been reached.
func (p WeeklyProgress) Satisfied() bool {
	return p.Completed >= p.Target
}

// Remaining is the number of completions still needed this week.
func (p WeeklyProgress) Remaining() int {
	return max(p.Target-p.Completed, 0)
}

// WeekNumber returns the 1-based challenge week of day. Weeks are anchored to
// the challenge start: days 1-7 are week 1, 8-14 week 2, and so on.
func WeekNumber(day int) int {
	return (day + constants.DaysPerWeek - 1) / constants.DaysPerWeek
}

// WeekBounds returns the first and last day-numbers of the week containing
// day. The last week is truncated at duration.
func WeekBounds(day, duration int) (start, end int) {
	week := WeekNumber(day)
	start = (week-1)*constants.DaysPerWeek + 1
	end = min(week*constants.DaysPerWeek, duration)
	return start, end
}

// WeekCount is the number of (possibly partial) weeks in a challenge.
func WeekCount(duration int) int {
	return WeekNumber(duration)
}

// WeeklyProgress counts habit's completions in the week containing day.
func (e *Engine) WeeklyProgress(habit models.Habit, day int) WeeklyProgress {
	e.checkDay(day)
	start, end := WeekBounds(day, e.challenge.Duration)
	return WeeklyProgress{
		Completed: e.index.CountInRange(habit.ID, start, end),
		Target:    habit.Recurrence.Target(),
		WeekStart: start,
		WeekEnd:   end,
	}
}
