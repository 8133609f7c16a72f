package progress

import (
	"cmp"
	"slices"

	"github.com/julianstephens/daystreak/internal/models"
)

// Index answers point and range queries over a completion set. Each habit's
// completions are kept sorted by day so range queries are a binary search.
type Index struct {
	byHabit map[string][]models.Completion
	size    int
}

// NewIndex builds an index over completions. Duplicate (habit, day) records
// are collapsed to the first one seen.
func NewIndex(completions []models.Completion) *Index {
	ix := &Index{byHabit: make(map[string][]models.Completion)}
	seen := make(map[models.CompletionKey]struct{}, len(completions))
	for _, c := range completions {
		if _, dup := seen[c.Key()]; dup {
			continue
		}
		seen[c.Key()] = struct{}{}
		ix.byHabit[c.HabitID] = append(ix.byHabit[c.HabitID], c)
		ix.size++
	}
	for _, list := range ix.byHabit {
		slices.SortFunc(list, byDay)
	}
	return ix
}

// Len returns the number of distinct completions.
func (ix *Index) Len() int {
	return ix.size
}

// IsDoneOn reports whether habitID has a completion on day.
func (ix *Index) IsDoneOn(habitID string, day int) bool {
	_, found := slices.BinarySearchFunc(ix.byHabit[habitID], day, dayCmp)
	return found
}

// CompletionsInRange returns habitID's completions with startDay <= day <= endDay,
// ascending by day. The returned slice is a copy.
func (ix *Index) CompletionsInRange(habitID string, startDay, endDay int) []models.Completion {
	list := ix.byHabit[habitID]
	if startDay > endDay || len(list) == 0 {
		return nil
	}
	lo, _ := slices.BinarySearchFunc(list, startDay, dayCmp)
	hi, found := slices.BinarySearchFunc(list, endDay, dayCmp)
	if found {
		hi++
	}
	if lo >= hi {
		return nil
	}
	return slices.Clone(list[lo:hi])
}

// CountInRange is CompletionsInRange without the allocation.
func (ix *Index) CountInRange(habitID string, startDay, endDay int) int {
	list := ix.byHabit[habitID]
	if startDay > endDay {
		return 0
	}
	lo, _ := slices.BinarySearchFunc(list, startDay, dayCmp)
	hi, found := slices.BinarySearchFunc(list, endDay, dayCmp)
	if found {
		hi++
	}
	return max(hi-lo, 0)
}

func byDay(a, b models.Completion) int {
	return cmp.Compare(a.DayNumber, b.DayNumber)
}

func dayCmp(c models.Completion, day int) int {
	return cmp.Compare(c.DayNumber, day)
}
