package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/julianstephens/daystreak/internal/models"
)

func TestIndex(t *testing.T) {
	completions := []models.Completion{
		{ID: "3", HabitID: "a", DayNumber: 9},
		{ID: "1", HabitID: "a", DayNumber: 1},
		{ID: "2", HabitID: "a", DayNumber: 4},
		{ID: "4", HabitID: "b", DayNumber: 4},
		{ID: "dup", HabitID: "a", DayNumber: 4},
	}
	ix := NewIndex(completions)

	assert.Equal(t, 4, ix.Len())
	assert.True(t, ix.IsDoneOn("a", 4))
	assert.False(t, ix.IsDoneOn("a", 5))
	assert.False(t, ix.IsDoneOn("missing", 1))

	got := ix.CompletionsInRange("a", 1, 7)
	if assert.Len(t, got, 2) {
		assert.Equal(t, 1, got[0].DayNumber)
		assert.Equal(t, "2", got[1].ID)
	}
	assert.Len(t, ix.CompletionsInRange("a", 4, 9), 2)
	assert.Empty(t, ix.CompletionsInRange("a", 5, 8))
	assert.Empty(t, ix.CompletionsInRange("a", 9, 1))
	assert.Equal(t, 3, ix.CountInRange("a", 1, 100))
	assert.Equal(t, 0, ix.CountInRange("b", 5, 7))
}

func TestIndexRangeIsACopy(t *testing.T) {
	ix := NewIndex([]models.Completion{{ID: "1", HabitID: "a", DayNumber: 2}})

	first := ix.CompletionsInRange("a", 1, 7)
	first[0].DayNumber = 99

	assert.True(t, ix.IsDoneOn("a", 2))
	assert.Equal(t, 2, ix.CompletionsInRange("a", 1, 7)[0].DayNumber)
}
