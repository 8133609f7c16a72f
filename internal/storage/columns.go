package storage

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/daystreak/internal/models"
)

// Migrator is implemented by stores that manage their own schema.
type Migrator interface {
	Migrate(logFn func(string)) (int, error)
	// SchemaVersion reports the applied and the newest embedded migration.
	SchemaVersion() (current, latest int, err error)
}

// EncodeDays serializes a weekday list for the specific_days column.
func EncodeDays(days []int) (string, error) {
	if days == nil {
		days = []int{}
	}
	data, err := json.Marshal(days)
	if err != nil {
		return "", fmt.Errorf("failed to encode specific_days: %w", err)
	}
	return string(data), nil
}

// DecodeDays parses the specific_days column. Empty values decode to nil.
func DecodeDays(raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil, nil
	}
	var days []int
	if err := json.Unmarshal([]byte(raw), &days); err != nil {
		return nil, fmt.Errorf("failed to decode specific_days %q: %w", raw, err)
	}
	return days, nil
}

// HabitRow is the column shape shared by the SQL stores.
type HabitRow struct {
	ID           string
	ChallengeID  string
	Name         string
	Sublabel     string
	Frequency    string
	SpecificDays string
	IsWeeklyGoal bool
	WeeklyTarget int
	SortOrder    int
	CreatedAt    time.Time
}

// Habit converts the row into a model.
func (r HabitRow) Habit() (models.Habit, error) {
	days, err := DecodeDays(r.SpecificDays)
	if err != nil {
		return models.Habit{}, fmt.Errorf("habit %s: %w", r.ID, err)
	}
	return models.Habit{
		ID:          r.ID,
		ChallengeID: r.ChallengeID,
		Name:        r.Name,
		Sublabel:    r.Sublabel,
		Recurrence: models.RecurrenceFromColumns(models.RecurrenceColumns{
			Frequency:    r.Frequency,
			SpecificDays: days,
			IsWeeklyGoal: r.IsWeeklyGoal,
			WeeklyTarget: r.WeeklyTarget,
		}),
		SortOrder: r.SortOrder,
		CreatedAt: r.CreatedAt,
	}, nil
}

// NewHabitRow flattens h for insertion or update.
func NewHabitRow(h models.Habit) (HabitRow, error) {
	cols := h.Recurrence.Columns()
	days, err := EncodeDays(cols.SpecificDays)
	if err != nil {
		return HabitRow{}, err
	}
	return HabitRow{
		ID:           h.ID,
		ChallengeID:  h.ChallengeID,
		Name:         h.Name,
		Sublabel:     h.Sublabel,
		Frequency:    cols.Frequency,
		SpecificDays: days,
		IsWeeklyGoal: cols.IsWeeklyGoal,
		WeeklyTarget: cols.WeeklyTarget,
		SortOrder:    h.SortOrder,
		CreatedAt:    h.CreatedAt,
	}, nil
}
