package progress

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/daystreak/internal/models"
)

// 2026-03-02 is a Monday, so day 1 is Monday and day 2 is Tuesday.
const testStart = "2026-03-02"

func testChallenge(duration int) models.Challenge {
	return models.Challenge{ID: "c1", UserID: "u1", Name: "Test", Duration: duration, StartDate: testStart}
}

func habit(id string, rec models.Recurrence) models.Habit {
	return models.Habit{ID: id, ChallengeID: "c1", Name: id, Recurrence: rec}
}

func done(habitID string, days ...int) []models.Completion {
	out := make([]models.Completion, 0, len(days))
	for _, d := range days {
		out = append(out, models.Completion{ID: fmt.Sprintf("%s-%d", habitID, d), HabitID: habitID, DayNumber: d})
	}
	return out
}

func newEngine(t *testing.T, duration int, habits []models.Habit, completions []models.Completion) *Engine {
	t.Helper()
	e, err := New(testChallenge(duration), habits, completions)
	require.NoError(t, err)
	return e
}

func TestNewRejectsBadChallenge(t *testing.T) {
	_, err := New(models.Challenge{ID: "c", Duration: 0, StartDate: testStart}, nil, nil)
	assert.Error(t, err)

	_, err = New(models.Challenge{ID: "c", Duration: 10, StartDate: "03/02/2026"}, nil, nil)
	assert.Error(t, err)
}

func TestScenarioNoCompletions(t *testing.T) {
	e := newEngine(t, 75, []models.Habit{habit("read", models.Daily())}, nil)

	assert.Equal(t, 0, e.DayPercentage(1))
	assert.Equal(t, 0, e.CurrentStreak(1))
}

func TestScenarioFirstDayDone(t *testing.T) {
	e := newEngine(t, 75, []models.Habit{habit("read", models.Daily())}, done("read", 1))

	assert.Equal(t, 100, e.DayPercentage(1))
	assert.Equal(t, 1, e.CurrentStreak(1))
}

func TestScenarioWeeklyGoal(t *testing.T) {
	gym := habit("gym", models.WeeklyGoal(3))

	e := newEngine(t, 75, []models.Habit{gym}, done("gym", 1, 2))
	wp := e.WeeklyProgress(gym, 3)
	assert.Equal(t, WeeklyProgress{Completed: 2, Target: 3, WeekStart: 1, WeekEnd: 7}, wp)
	assert.False(t, wp.Satisfied())
	assert.Equal(t, 1, wp.Remaining())
	assert.Equal(t, 0, e.DayPercentage(3))

	e = newEngine(t, 75, []models.Habit{gym}, done("gym", 1, 2, 3))
	assert.True(t, e.WeeklyProgress(gym, 3).Satisfied())
	assert.Equal(t, 100, e.DayPercentage(3))
	// the rest of the week is carried by the met target
	assert.Equal(t, 100, e.DayPercentage(6))
	assert.Equal(t, 0, e.DayPercentage(8))
}

func TestScenarioSpecificDays(t *testing.T) {
	monday := habit("swim", models.SpecificDays(time.Monday))
	e := newEngine(t, 75, []models.Habit{monday}, nil)

	assert.Empty(t, e.ScheduledHabits(2))
	assert.Equal(t, 100, e.DayPercentage(2))
	assert.Equal(t, 0, e.DayPercentage(1))
	assert.Len(t, e.ScheduledHabits(8), 1)
}

func TestDayPercentageRounding(t *testing.T) {
	tests := []struct {
		habits int
		done   int
		want   int
	}{
		{3, 1, 33},
		{3, 2, 67},
		{2, 1, 50},
		{8, 1, 13},
		{6, 5, 83},
		{4, 4, 100},
		{5, 0, 0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_of_%d", tt.done, tt.habits), func(t *testing.T) {
			var habits []models.Habit
			var completions []models.Completion
			for i := 0; i < tt.habits; i++ {
				id := fmt.Sprintf("h%d", i)
				habits = append(habits, habit(id, models.Daily()))
				if i < tt.done {
					completions = append(completions, done(id, 1)...)
				}
			}
			e := newEngine(t, 30, habits, completions)
			assert.Equal(t, tt.want, e.DayPercentage(1))
		})
	}
}

func TestDayPercentageBounds(t *testing.T) {
	habits := []models.Habit{
		habit("a", models.Daily()),
		habit("b", models.SpecificDays(time.Wednesday, time.Saturday)),
		habit("c", models.WeeklyGoal(2)),
	}
	e := newEngine(t, 21, habits, append(done("a", 1, 3, 5, 9), done("c", 2, 4, 15)...))

	for d := 1; d <= 21; d++ {
		pct := e.DayPercentage(d)
		assert.GreaterOrEqual(t, pct, 0, "day %d", d)
		assert.LessOrEqual(t, pct, 100, "day %d", d)
	}
}

func TestNothingScheduledIsComplete(t *testing.T) {
	e := newEngine(t, 14, nil, nil)
	for d := 1; d <= 14; d++ {
		assert.Equal(t, 100, e.DayPercentage(d))
	}
}

func TestStreaksAndAggregates(t *testing.T) {
	e := newEngine(t, 75, []models.Habit{habit("read", models.Daily())}, done("read", 1, 2, 4, 5, 6))

	assert.Equal(t, 3, e.CurrentStreak(6))
	assert.Equal(t, 3, e.BestStreak(6))
	assert.Equal(t, 0, e.CurrentStreak(3))
	assert.Equal(t, 2, e.BestStreak(3))
	assert.Equal(t, 83, e.OverallCompletion(6))
	assert.Equal(t, 5, e.PerfectDayCount(6))
	assert.Equal(t, 83, e.SuccessRate(6))
}

func TestAggregatesGuardEmptyRange(t *testing.T) {
	e := newEngine(t, 10, []models.Habit{habit("read", models.Daily())}, nil)

	assert.Equal(t, 0, e.OverallCompletion(0))
	assert.Equal(t, 0, e.SuccessRate(0))
	assert.Equal(t, 0, e.CurrentStreak(0))
	assert.Equal(t, 0, e.BestStreak(0))
	assert.Equal(t, []int{WeekNotStarted, WeekNotStarted}, e.WeeklySummary(0))
}

func TestStreakBounds(t *testing.T) {
	e := newEngine(t, 30, []models.Habit{habit("read", models.Daily())}, done("read", 1, 2, 3, 7, 8, 20, 21, 22, 23))

	for current := 1; current <= 30; current++ {
		cur := e.CurrentStreak(current)
		assert.LessOrEqual(t, cur, current)
		assert.GreaterOrEqual(t, e.BestStreak(current), cur)
	}
}

func TestWeeklyProgressMonotonicAndResets(t *testing.T) {
	gym := habit("gym", models.WeeklyGoal(5))
	var completions []models.Completion
	last := 0
	for d := 1; d <= 7; d++ {
		completions = append(completions, done("gym", d)...)
		e := newEngine(t, 30, []models.Habit{gym}, completions)
		got := e.WeeklyProgress(gym, 7).Completed
		assert.GreaterOrEqual(t, got, last)
		last = got

		assert.Equal(t, 0, e.WeeklyProgress(gym, 8).Completed)
	}
	assert.Equal(t, 7, last)
}

func TestWeekBounds(t *testing.T) {
	tests := []struct {
		day, duration int
		start, end    int
	}{
		{1, 75, 1, 7},
		{7, 75, 1, 7},
		{8, 75, 8, 14},
		{70, 75, 64, 70},
		{71, 75, 71, 75},
		{75, 75, 71, 75},
		{3, 3, 1, 3},
	}

	for _, tt := range tests {
		start, end := WeekBounds(tt.day, tt.duration)
		assert.Equal(t, tt.start, start, "start of day %d", tt.day)
		assert.Equal(t, tt.end, end, "end of day %d", tt.day)
	}
	assert.Equal(t, 11, WeekCount(75))
	assert.Equal(t, 3, WeekCount(21))
}

func TestWeeklyGoalTargetDefault(t *testing.T) {
	gym := habit("gym", models.Recurrence{Kind: models.RecurrenceWeeklyGoal})
	e := newEngine(t, 30, []models.Habit{gym}, nil)
	assert.Equal(t, 3, e.WeeklyProgress(gym, 1).Target)
}

func TestWeeklySummary(t *testing.T) {
	e := newEngine(t, 21, []models.Habit{habit("read", models.Daily())}, done("read", 1, 2, 4, 5, 6, 8))

	assert.Equal(t, []int{71, 50, WeekNotStarted}, e.WeeklySummary(9))
}

func TestSummary(t *testing.T) {
	e := newEngine(t, 75, []models.Habit{habit("read", models.Daily())}, done("read", 1, 2, 4, 5, 6))
	start, err := time.ParseInLocation("2006-01-02", testStart, time.Local)
	require.NoError(t, err)

	s := e.Summary(start.AddDate(0, 0, 5).Add(15 * time.Hour))
	assert.Equal(t, 6, s.CurrentDay)
	assert.Equal(t, 69, s.DaysRemaining)
	assert.Equal(t, 8, s.ProgressPercentage)
	assert.Equal(t, 100, s.TodayPercentage)
	assert.Equal(t, 3, s.CurrentStreak)
	assert.Equal(t, 3, s.BestStreak)
	assert.Equal(t, 83, s.OverallCompletion)
	assert.Equal(t, 5, s.PerfectDays)
	assert.Equal(t, 83, s.SuccessRate)
	assert.Equal(t, 5, s.TotalCompletions)
	assert.Len(t, s.Weeks, 11)
	assert.Equal(t, 83, s.Weeks[0])
	assert.Equal(t, WeekNotStarted, s.Weeks[1])
}

func TestSummaryBeforeStartClampsToDayOne(t *testing.T) {
	e := newEngine(t, 30, []models.Habit{habit("read", models.Daily())}, nil)
	start, err := time.ParseInLocation("2006-01-02", testStart, time.Local)
	require.NoError(t, err)

	s := e.Summary(start.AddDate(0, 0, -10))
	assert.Equal(t, 1, s.CurrentDay)
	assert.Equal(t, 29, s.DaysRemaining)
}

func TestCalendarDays(t *testing.T) {
	habits := []models.Habit{habit("a", models.Daily()), habit("b", models.Daily()), habit("c", models.Daily())}
	completions := append(done("a", 1, 2, 3), done("b", 1, 2)...)
	completions = append(completions, done("c", 1)...)
	e := newEngine(t, 10, habits, completions)

	cells := e.CalendarDays(4)
	require.Len(t, cells, 10)
	assert.Equal(t, LevelPerfect, cells[0].Level)
	assert.Equal(t, LevelMedium, cells[1].Level)
	assert.Equal(t, 67, cells[1].Percentage)
	assert.Equal(t, LevelLow, cells[2].Level)
	assert.Equal(t, LevelEmpty, cells[3].Level)
	assert.True(t, cells[3].Today)
	assert.Equal(t, LevelFuture, cells[4].Level)
	assert.Equal(t, 0, cells[4].Percentage)
	assert.Equal(t, time.Tuesday, cells[1].Date.Weekday())
}

func TestLevelFor(t *testing.T) {
	tests := map[int]HeatLevel{
		0:   LevelEmpty,
		1:   LevelLow,
		39:  LevelLow,
		40:  LevelMedium,
		69:  LevelMedium,
		70:  LevelHigh,
		99:  LevelHigh,
		100: LevelPerfect,
	}
	for pct, want := range tests {
		assert.Equal(t, want, LevelFor(pct), "pct %d", pct)
	}
}

func TestOutOfRangeDayPanics(t *testing.T) {
	e := newEngine(t, 10, []models.Habit{habit("read", models.Daily())}, nil)

	assert.Panics(t, func() { e.DayPercentage(0) })
	assert.Panics(t, func() { e.DayPercentage(11) })
	assert.Panics(t, func() { e.WeeklyProgress(models.Habit{ID: "read"}, 11) })
	assert.Panics(t, func() { e.CurrentStreak(11) })
}

func TestDayStatus(t *testing.T) {
	gym := habit("gym", models.WeeklyGoal(2))
	habits := []models.Habit{habit("read", models.Daily()), gym, habit("swim", models.SpecificDays(time.Monday))}
	e := newEngine(t, 14, habits, append(done("read", 2), done("gym", 1)...))

	status := e.Day(2)
	assert.Equal(t, time.Tuesday, status.Weekday)
	require.Len(t, status.Habits, 2)
	assert.True(t, status.Habits[0].Done)
	assert.Nil(t, status.Habits[0].Weekly)
	assert.False(t, status.Habits[1].Done)
	require.NotNil(t, status.Habits[1].Weekly)
	assert.Equal(t, 1, status.Habits[1].Weekly.Completed)
	assert.Equal(t, 50, status.Percentage)
}
