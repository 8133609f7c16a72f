package models

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/julianstephens/daystreak/internal/constants"
)

type RecurrenceKind string

const (
	RecurrenceDaily        RecurrenceKind = "daily"
	RecurrenceSpecificDays RecurrenceKind = "specific_days"
	RecurrenceWeeklyGoal   RecurrenceKind = "weekly_goal"
)

// Legacy frequency column values
const (
	FrequencyDaily        = "daily"
	FrequencySpecificDays = "specific_days"
	FrequencyWeekly       = "weekly"
)

// Recurrence is exactly one of Daily, SpecificDays(weekdays) or
// WeeklyGoal(target, optional weekdays).
type Recurrence struct {
	Kind     RecurrenceKind `json:"kind"`
	Weekdays []time.Weekday `json:"weekdays,omitempty"`
	// WeeklyTarget is only meaningful for weekly goals; zero means the default
	WeeklyTarget int `json:"weekly_target,omitempty"`
}

func Daily() Recurrence {
	return Recurrence{Kind: RecurrenceDaily}
}

func SpecificDays(days ...time.Weekday) Recurrence {
	return Recurrence{Kind: RecurrenceSpecificDays, Weekdays: normalizeWeekdays(days)}
}

func WeeklyGoal(target int, days ...time.Weekday) Recurrence {
	return Recurrence{Kind: RecurrenceWeeklyGoal, WeeklyTarget: target, Weekdays: normalizeWeekdays(days)}
}

// IsWeeklyGoal reports whether the habit is satisfied by a per-week quota.
func (r Recurrence) IsWeeklyGoal() bool {
	return r.Kind == RecurrenceWeeklyGoal
}

// Target returns the weekly target, falling back to the default of 3.
func (r Recurrence) Target() int {
	if r.WeeklyTarget <= 0 {
		return constants.DefaultWeeklyTarget
	}
	return r.WeeklyTarget
}

// Validate checks the variant's fields.
func (r Recurrence) Validate() error {
	switch r.Kind {
	case RecurrenceDaily:
		return nil
	case RecurrenceSpecificDays, RecurrenceWeeklyGoal:
		for _, wd := range r.Weekdays {
			if wd < time.Sunday || wd > time.Saturday {
				return fmt.Errorf("invalid weekday %d", wd)
			}
		}
		if r.Kind == RecurrenceWeeklyGoal && r.WeeklyTarget != 0 &&
			(r.WeeklyTarget < constants.MinWeeklyTarget || r.WeeklyTarget > constants.MaxWeeklyTarget) {
			return fmt.Errorf("weekly target must be between %d and %d, got %d",
				constants.MinWeeklyTarget, constants.MaxWeeklyTarget, r.WeeklyTarget)
		}
		return nil
	default:
		return fmt.Errorf("unknown recurrence kind %q", r.Kind)
	}
}

func (r Recurrence) String() string {
	switch r.Kind {
	case RecurrenceDaily:
		return "daily"
	case RecurrenceSpecificDays:
		if len(r.Weekdays) == 0 {
			return "specific days (none set)"
		}
		return "on " + formatWeekdays(r.Weekdays)
	case RecurrenceWeeklyGoal:
		s := fmt.Sprintf("%dx/week", r.Target())
		if len(r.Weekdays) > 0 {
			s += " (" + formatWeekdays(r.Weekdays) + ")"
		}
		return s
	default:
		return "unknown"
	}
}

// RecurrenceColumns is the persisted shape of a recurrence.
type RecurrenceColumns struct {
	Frequency    string
	SpecificDays []int
	IsWeeklyGoal bool
	WeeklyTarget int
}

// Columns flattens r into the persisted column shape.
func (r Recurrence) Columns() RecurrenceColumns {
	cols := RecurrenceColumns{Frequency: FrequencyDaily, WeeklyTarget: r.Target()}
	switch r.Kind {
	case RecurrenceSpecificDays:
		cols.Frequency = FrequencySpecificDays
	case RecurrenceWeeklyGoal:
		cols.Frequency = FrequencyWeekly
		cols.IsWeeklyGoal = true
	}
	for _, wd := range r.Weekdays {
		cols.SpecificDays = append(cols.SpecificDays, int(wd))
	}
	return cols
}

// RecurrenceFromColumns rebuilds a recurrence from persisted columns. The
// weekly-goal flag overrides the frequency value.
func RecurrenceFromColumns(cols RecurrenceColumns) Recurrence {
	days := make([]time.Weekday, 0, len(cols.SpecificDays))
	for _, d := range cols.SpecificDays {
		days = append(days, time.Weekday(d))
	}
	switch {
	case cols.IsWeeklyGoal:
		return WeeklyGoal(cols.WeeklyTarget, days...)
	case cols.Frequency == FrequencySpecificDays:
		return SpecificDays(days...)
	default:
		return Daily()
	}
}

// Habit represents a recurring task within a challenge
type Habit struct {
	ID          string     `json:"id"`
	ChallengeID string     `json:"challenge_id"`
	Name        string     `json:"name"`
	Sublabel    string     `json:"sublabel,omitempty"`
	Recurrence  Recurrence `json:"recurrence"`
	SortOrder   int        `json:"sort_order"`
	CreatedAt   time.Time  `json:"created_at"`
}

// HabitDraft is a habit that has not been saved yet
type HabitDraft struct {
	Name       string
	Sublabel   string
	Recurrence Recurrence
}

// HabitPatch carries the fields an edit changes; nil fields are left alone
type HabitPatch struct {
	Name       *string
	Sublabel   *string
	Recurrence *Recurrence
}

// Apply returns h with the patch applied.
func (p HabitPatch) Apply(h Habit) Habit {
	if p.Name != nil {
		h.Name = *p.Name
	}
	if p.Sublabel != nil {
		h.Sublabel = *p.Sublabel
	}
	if p.Recurrence != nil {
		h.Recurrence = *p.Recurrence
	}
	return h
}

// IsEmpty reports whether the patch changes nothing.
func (p HabitPatch) IsEmpty() bool {
	return p.Name == nil && p.Sublabel == nil && p.Recurrence == nil
}

func normalizeWeekdays(days []time.Weekday) []time.Weekday {
	if len(days) == 0 {
		return nil
	}
	out := slices.Clone(days)
	slices.Sort(out)
	return slices.Compact(out)
}

func formatWeekdays(days []time.Weekday) string {
	names := make([]string, 0, len(days))
	for _, wd := range days {
		names = append(names, wd.String()[:3])
	}
	return strings.Join(names, ",")
}
