// Package progress derives day, week and aggregate completion statistics from
// a challenge's habits and completions. Everything here is a pure computation
// over the snapshot passed to New.
package progress

import (
	"fmt"
	"slices"
	"time"

	"github.com/julianstephens/daystreak/internal/models"
	"github.com/julianstephens/daystreak/internal/utils"
)

// Engine computes progress over an immutable snapshot.
type Engine struct {
	challenge models.Challenge
	start     time.Time
	habits    []models.Habit
	index     *Index
}

// New validates the challenge and builds an engine over copies of habits
// and completions.
func New(challenge models.Challenge, habits []models.Habit, completions []models.Completion) (*Engine, error) {
	if challenge.Duration <= 0 {
		return nil, fmt.Errorf("challenge %q has non-positive duration %d", challenge.ID, challenge.Duration)
	}
	start, err := utils.ParseDate(challenge.StartDate)
	if err != nil {
		return nil, fmt.Errorf("challenge %q: %w", challenge.ID, err)
	}
	return &Engine{
		challenge: challenge,
		start:     start,
		habits:    slices.Clone(habits),
		index:     NewIndex(completions),
	}, nil
}

func (e *Engine) Challenge() models.Challenge { return e.challenge }
func (e *Engine) Habits() []models.Habit      { return slices.Clone(e.habits) }
func (e *Engine) Index() *Index               { return e.index }
func (e *Engine) Duration() int               { return e.challenge.Duration }

// Habit looks a habit up by id.
func (e *Engine) Habit(id string) (models.Habit, bool) {
	for _, h := range e.habits {
		if h.ID == id {
			return h, true
		}
	}
	return models.Habit{}, false
}

// DateForDay returns the calendar date of day.
func (e *Engine) DateForDay(day int) time.Time {
	e.checkDay(day)
	return utils.DateForDay(e.start, day)
}

// CurrentDayNumber returns the challenge day containing today, in [1, duration].
func (e *Engine) CurrentDayNumber(today time.Time) int {
	return utils.CurrentDayNumber(e.start, e.challenge.Duration, today)
}

// checkDay panics on day-numbers outside the challenge. Callers own the range.
func (e *Engine) checkDay(day int) {
	if day < 1 || day > e.challenge.Duration {
		panic(fmt.Sprintf("progress: day %d outside challenge range [1, %d]", day, e.challenge.Duration))
	}
}

// roundPercent returns round-half-up(100*num/den) for non-negative inputs.
func roundPercent(num, den int) int {
	if den <= 0 {
		return 0
	}
	return (200*num + den) / (2 * den)
}

// roundDiv returns round-half-up(num/den) for non-negative inputs.
func roundDiv(num, den int) int {
	if den <= 0 {
		return 0
	}
	return (2*num + den) / (2 * den)
}
