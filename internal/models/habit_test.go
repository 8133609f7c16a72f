package models

import (
	"reflect"
	"testing"
	"time"
)

func TestRecurrenceFromColumns(t *testing.T) {
	tests := []struct {
		name string
		cols RecurrenceColumns
		want Recurrence
	}{
		{
			name: "daily",
			cols: RecurrenceColumns{Frequency: "daily"},
			want: Daily(),
		},
		{
			name: "specific days",
			cols: RecurrenceColumns{Frequency: "specific_days", SpecificDays: []int{3, 1, 1}},
			want: SpecificDays(time.Monday, time.Wednesday),
		},
		{
			name: "weekly flag overrides daily frequency",
			cols: RecurrenceColumns{Frequency: "daily", IsWeeklyGoal: true, WeeklyTarget: 4},
			want: WeeklyGoal(4),
		},
		{
			name: "weekly flag overrides specific days frequency",
			cols: RecurrenceColumns{Frequency: "specific_days", SpecificDays: []int{2}, IsWeeklyGoal: true},
			want: WeeklyGoal(0, time.Tuesday),
		},
		{
			name: "unknown frequency falls back to daily",
			cols: RecurrenceColumns{Frequency: "weekly"},
			want: Daily(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RecurrenceFromColumns(tt.cols)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("RecurrenceFromColumns() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRecurrenceColumnsRoundTrip(t *testing.T) {
	for _, rec := range []Recurrence{
		Daily(),
		SpecificDays(time.Saturday, time.Sunday),
		WeeklyGoal(5, time.Monday),
	} {
		got := RecurrenceFromColumns(rec.Columns())
		if got.Kind != rec.Kind || !reflect.DeepEqual(got.Weekdays, rec.Weekdays) || got.Target() != rec.Target() {
			t.Errorf("round trip of %v produced %v", rec, got)
		}
	}
}

func TestRecurrenceTargetDefault(t *testing.T) {
	if got := WeeklyGoal(0).Target(); got != 3 {
		t.Errorf("Target() = %d, want 3", got)
	}
	if got := WeeklyGoal(6).Target(); got != 6 {
		t.Errorf("Target() = %d, want 6", got)
	}
}

func TestRecurrenceValidate(t *testing.T) {
	tests := []struct {
		name    string
		rec     Recurrence
		wantErr bool
	}{
		{"daily", Daily(), false},
		{"specific days", SpecificDays(time.Friday), false},
		{"empty specific days", SpecificDays(), false},
		{"weekly default target", WeeklyGoal(0), false},
		{"weekly target 7", WeeklyGoal(7), false},
		{"weekly target 8", WeeklyGoal(8), true},
		{"bad weekday", Recurrence{Kind: RecurrenceSpecificDays, Weekdays: []time.Weekday{9}}, true},
		{"unknown kind", Recurrence{Kind: "monthly"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rec.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRecurrenceString(t *testing.T) {
	tests := []struct {
		rec  Recurrence
		want string
	}{
		{Daily(), "daily"},
		{SpecificDays(time.Friday, time.Monday), "on Mon,Fri"},
		{SpecificDays(), "specific days (none set)"},
		{WeeklyGoal(0), "3x/week"},
		{WeeklyGoal(4, time.Saturday, time.Sunday), "4x/week (Sun,Sat)"},
	}
	for _, tt := range tests {
		if got := tt.rec.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestHabitPatchApply(t *testing.T) {
	h := Habit{ID: "h1", Name: "Read", Sublabel: "10 pages", Recurrence: Daily()}
	name := "Read more"
	rec := WeeklyGoal(2)

	got := HabitPatch{Name: &name, Recurrence: &rec}.Apply(h)
	if got.Name != "Read more" || got.Sublabel != "10 pages" || !got.Recurrence.IsWeeklyGoal() {
		t.Errorf("Apply() = %+v", got)
	}
	if !(HabitPatch{}).IsEmpty() {
		t.Error("zero patch should be empty")
	}
}

func TestIntentInverse(t *testing.T) {
	if IntentCreate.Inverse() != IntentDelete || IntentDelete.Inverse() != IntentCreate {
		t.Error("Inverse() should swap create and delete")
	}
	c := Completion{ID: "temp-abc", HabitID: "h", DayNumber: 2}
	if !c.IsProvisional() {
		t.Error("temp- ids should be provisional")
	}
	if c.Key() != (Intent{HabitID: "h", DayNumber: 2}).Key() {
		t.Error("completion and intent keys should match")
	}
}
