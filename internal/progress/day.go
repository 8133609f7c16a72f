package progress

import (
	"time"

	"github.com/julianstephens/daystreak/internal/models"
	"github.com/julianstephens/daystreak/internal/utils"
)

// HabitStatus is one habit's row in a day view.
type HabitStatus struct {
	Habit     models.Habit
	Done      bool
	Satisfied bool
	// Weekly is set for weekly-goal habits only
	Weekly *WeeklyProgress
}

// DayStatus is the derived view of a single challenge day.
type DayStatus struct {
	Day        int
	Date       time.Time
	Weekday    time.Weekday
	Percentage int
	Habits     []HabitStatus
}

// ScheduledHabits returns the habits that appear on day, in sort order.
func (e *Engine) ScheduledHabits(day int) []models.Habit {
	e.checkDay(day)
	weekday := utils.WeekdayOfDay(e.start, day)
	var scheduled []models.Habit
	for _, h := range e.habits {
		if utils.IsScheduled(h, weekday) {
			scheduled = append(scheduled, h)
		}
	}
	return scheduled
}

// IsSatisfied reports whether habit counts as done on day: it was marked that
// day, or it is a weekly goal whose target for the week is already met.
func (e *Engine) IsSatisfied(habit models.Habit, day int) bool {
	e.checkDay(day)
	if e.index.IsDoneOn(habit.ID, day) {
		return true
	}
	if habit.Recurrence.IsWeeklyGoal() {
		return e.WeeklyProgress(habit, day).Satisfied()
	}
	return false
}

// DayPercentage returns the share of scheduled habits satisfied on day, as a
// rounded integer in [0, 100]. A day with nothing scheduled is 100.
func (e *Engine) DayPercentage(day int) int {
	scheduled := e.ScheduledHabits(day)
	if len(scheduled) == 0 {
		return 100
	}
	satisfied := 0
	for _, h := range scheduled {
		if e.IsSatisfied(h, day) {
			satisfied++
		}
	}
	return roundPercent(satisfied, len(scheduled))
}

// Day builds the full status of day for display.
func (e *Engine) Day(day int) DayStatus {
	scheduled := e.ScheduledHabits(day)
	date := utils.DateForDay(e.start, day)
	status := DayStatus{
		Day:        day,
		Date:       date,
		Weekday:    date.Weekday(),
		Percentage: e.DayPercentage(day),
	}
	for _, h := range scheduled {
		hs := HabitStatus{
			Habit:     h,
			Done:      e.index.IsDoneOn(h.ID, day),
			Satisfied: e.IsSatisfied(h, day),
		}
		if h.Recurrence.IsWeeklyGoal() {
			wp := e.WeeklyProgress(h, day)
			hs.Weekly = &wp
		}
		status.Habits = append(status.Habits, hs)
	}
	return status
}
