package utils

import (
	"slices"
	"time"

	"github.com/julianstephens/daystreak/internal/models"
)

// IsScheduled determines whether a habit appears on a day with the given
// weekday. Weekly goals are always schedulable; whether they are satisfied is
// decided by the weekly progress, not here. A specific-days habit with no days
// configured is treated as daily so a misconfigured habit stays visible.
func IsScheduled(habit models.Habit, weekday time.Weekday) bool {
	rec := habit.Recurrence
	switch rec.Kind {
	case models.RecurrenceDaily, models.RecurrenceWeeklyGoal:
		return true
	case models.RecurrenceSpecificDays:
		if len(rec.Weekdays) == 0 {
			return true
		}
		return slices.Contains(rec.Weekdays, weekday)
	default:
		return true
	}
}
