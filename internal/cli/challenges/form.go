package challenges

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/daystreak/internal/challenge"
	"github.com/julianstephens/daystreak/internal/constants"
	"github.com/julianstephens/daystreak/internal/models"
	"github.com/julianstephens/daystreak/internal/utils"
)

// customDuration is the select value that reveals the free-form input.
const customDuration = -1

type habitForm struct {
	Name     string
	Sublabel string
	Kind     models.RecurrenceKind
	Days     []time.Weekday
	Target   int
	More     bool
}

func weekdayOptions() []huh.Option[time.Weekday] {
	opts := make([]huh.Option[time.Weekday], 0, 7)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		opts = append(opts, huh.NewOption(wd.String(), wd))
	}
	return opts
}

func newChallengeForm(in *challenge.SetupInput, duration *int, custom *string) *huh.Form {
	options := make([]huh.Option[int], 0, len(constants.DurationPresets)+1)
	for _, d := range constants.DurationPresets {
		options = append(options, huh.NewOption(durationOptionLabel(d), d))
	}
	options = append(options, huh.NewOption("Custom", customDuration))

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Challenge name").
				Placeholder(constants.DefaultChallengeName).
				Value(&in.Name),
			huh.NewSelect[int]().
				Title("Duration").
				Options(options...).
				Value(duration),
			huh.NewInput().
				Title("Start date").
				Description("YYYY-MM-DD").
				Value(&in.StartDate).
				Validate(func(s string) error {
					_, err := utils.ParseDate(s)
					return err
				}),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Custom duration (days)").
				Value(custom).
				Validate(func(s string) error {
					n, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil || n <= 0 {
						return errors.New("duration must be a positive number of days")
					}
					return nil
				}),
		).WithHideFunc(func() bool { return *duration != customDuration }),
	).WithTheme(huh.ThemeDracula())
}

func newHabitForm(fm *habitForm) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit name").
				Description("Leave empty to skip").
				Value(&fm.Name),
			huh.NewInput().
				Title("Sublabel").
				Description("Optional detail, e.g. \"10 pages\"").
				Value(&fm.Sublabel),
			huh.NewSelect[models.RecurrenceKind]().
				Title("Frequency").
				Options(
					huh.NewOption("Every day", models.RecurrenceDaily),
					huh.NewOption("Specific days", models.RecurrenceSpecificDays),
					huh.NewOption("Weekly goal", models.RecurrenceWeeklyGoal),
				).
				Value(&fm.Kind),
		),
		huh.NewGroup(
			huh.NewMultiSelect[time.Weekday]().
				Title("Days").
				Options(weekdayOptions()...).
				Value(&fm.Days),
		).WithHideFunc(func() bool { return fm.Kind == models.RecurrenceDaily }),
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Times per week").
				Options(huh.NewOptions(1, 2, 3, 4, 5, 6, 7)...).
				Value(&fm.Target),
		).WithHideFunc(func() bool { return fm.Kind != models.RecurrenceWeeklyGoal }),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Add another habit?").
				Value(&fm.More),
		),
	).WithTheme(huh.ThemeDracula())
}

func (fm habitForm) draft() models.HabitDraft {
	d := models.HabitDraft{Name: fm.Name, Sublabel: fm.Sublabel}
	switch fm.Kind {
	case models.RecurrenceSpecificDays:
		d.Recurrence = models.SpecificDays(fm.Days...)
	case models.RecurrenceWeeklyGoal:
		d.Recurrence = models.WeeklyGoal(fm.Target, fm.Days...)
	default:
		d.Recurrence = models.Daily()
	}
	return d
}

// runSetupForm fills in from the interactive form.
func runSetupForm(in *challenge.SetupInput, defaultTarget int) error {
	duration := in.Duration
	custom := strconv.Itoa(in.Duration)
	if err := newChallengeForm(in, &duration, &custom).Run(); err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}
	if duration == customDuration {
		duration, _ = strconv.Atoi(strings.TrimSpace(custom))
	}
	in.Duration = duration

	for {
		fm := habitForm{Kind: models.RecurrenceDaily, Target: defaultTarget}
		if err := newHabitForm(&fm).Run(); err != nil {
			return fmt.Errorf("setup cancelled: %w", err)
		}
		in.Habits = append(in.Habits, fm.draft())
		if !fm.More {
			return nil
		}
	}
}
