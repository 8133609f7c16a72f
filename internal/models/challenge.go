package models

import (
	"strings"
	"time"

	"github.com/julianstephens/daystreak/internal/constants"
)

// Challenge is the fixed-duration program a user is tracking
type Challenge struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Duration  int       `json:"duration"`
	StartDate string    `json:"start_date"` // YYYY-MM-DD format, local civil date
	CreatedAt time.Time `json:"created_at"`
}

// Completion records that a habit was done on a challenge day
type Completion struct {
	ID          string    `json:"id"`
	HabitID     string    `json:"habit_id"`
	DayNumber   int       `json:"day_number"`
	CompletedAt time.Time `json:"completed_at"`
}

// IsProvisional reports whether the record was created locally and not yet confirmed.
func (c Completion) IsProvisional() bool {
	return strings.HasPrefix(c.ID, constants.ProvisionalIDPrefix)
}

// Key identifies the (habit, day) pair a completion belongs to.
func (c Completion) Key() CompletionKey {
	return CompletionKey{HabitID: c.HabitID, DayNumber: c.DayNumber}
}

// CompletionKey is the identity of a completion slot
type CompletionKey struct {
	HabitID   string
	DayNumber int
}

type IntentAction string

const (
	IntentCreate IntentAction = "create"
	IntentDelete IntentAction = "delete"
)

// Inverse returns the action that undoes a.
func (a IntentAction) Inverse() IntentAction {
	if a == IntentCreate {
		return IntentDelete
	}
	return IntentCreate
}

// Intent is a write to apply to the record store
type Intent struct {
	ID         string       `json:"id"`
	Action     IntentAction `json:"action"`
	HabitID    string       `json:"habit_id"`
	DayNumber  int          `json:"day_number"`
	EnqueuedAt time.Time    `json:"enqueued_at"`
}

// Key identifies the (habit, day) pair the intent writes.
func (i Intent) Key() CompletionKey {
	return CompletionKey{HabitID: i.HabitID, DayNumber: i.DayNumber}
}
