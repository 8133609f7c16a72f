package challenges

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/daystreak/internal/challenge"
	"github.com/julianstephens/daystreak/internal/cli"
	"github.com/julianstephens/daystreak/internal/constants"
	apperrors "github.com/julianstephens/daystreak/internal/errors"
	"github.com/julianstephens/daystreak/internal/models"
	"github.com/julianstephens/daystreak/internal/utils"
)

type SetupCmd struct {
	Name     string   `help:"Challenge name." default:""`
	Duration int      `help:"Challenge length in days (default from settings)." default:"0"`
	Start    string   `help:"Start date in YYYY-MM-DD format (default: today)." default:""`
	Habit    []string `help:"Habit as NAME[:daily|:days=mon,wed|:weekly=N[@mon,wed]]. Repeat for more habits; omit for the interactive form." short:"H"`
}

func (c *SetupCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	user, err := sess.RequireUser()
	if err != nil {
		return err
	}

	in := challenge.SetupInput{
		Name:      c.Name,
		Duration:  c.Duration,
		StartDate: c.Start,
	}
	if in.Duration == 0 {
		in.Duration = ctx.Config.DefaultDuration
	}
	if in.StartDate == "" {
		in.StartDate = utils.FormatDate(ctx.Today())
	}

	if len(c.Habit) == 0 {
		if err := runSetupForm(&in, ctx.Config.DefaultWeeklyTarget); err != nil {
			return err
		}
	} else {
		for _, spec := range c.Habit {
			d, err := ParseHabitSpec(spec, ctx.Config.DefaultWeeklyTarget)
			if err != nil {
				return err
			}
			in.Habits = append(in.Habits, d)
		}
	}

	svc := challenge.NewService(sess.Store(), sess.Local(), sess.Offline())
	snap, err := svc.Setup(context.Background(), user, in)
	if err != nil {
		return err
	}

	ctx.Printf("✓ Created %q: %d days starting %s\n", snap.Challenge.Name, snap.Challenge.Duration, snap.Challenge.StartDate)
	for i, h := range snap.Habits {
		ctx.Printf("  %d. %s (%s)\n", i+1, h.Name, h.Recurrence)
	}
	return nil
}

// ParseHabitSpec parses NAME[:RULE] where RULE is daily, days=LIST or
// weekly=N[@LIST]. A weekly rule without N uses defaultTarget.
func ParseHabitSpec(spec string, defaultTarget int) (models.HabitDraft, error) {
	name, rule, _ := strings.Cut(spec, ":")
	d := models.HabitDraft{Name: strings.TrimSpace(name), Recurrence: models.Daily()}

	rule = strings.TrimSpace(strings.ToLower(rule))
	key, value, _ := strings.Cut(rule, "=")
	switch key {
	case "", "daily":
	case "days":
		days, err := cli.ParseWeekdays(value)
		if err != nil {
			return models.HabitDraft{}, apperrors.Validationf("habit %q: %v", d.Name, err)
		}
		d.Recurrence = models.SpecificDays(days...)
	case "weekly":
		target := defaultTarget
		countStr, daysStr, hasDays := strings.Cut(value, "@")
		if countStr != "" {
			n, err := strconv.Atoi(countStr)
			if err != nil {
				return models.HabitDraft{}, apperrors.Validationf("habit %q: invalid weekly target %q", d.Name, countStr)
			}
			target = n
		}
		var days []time.Weekday
		if hasDays {
			parsed, err := cli.ParseWeekdays(daysStr)
			if err != nil {
				return models.HabitDraft{}, apperrors.Validationf("habit %q: %v", d.Name, err)
			}
			days = parsed
		}
		d.Recurrence = models.WeeklyGoal(target, days...)
	default:
		return models.HabitDraft{}, apperrors.Validationf("habit %q: unknown rule %q", d.Name, rule)
	}
	if err := d.Recurrence.Validate(); err != nil {
		return models.HabitDraft{}, apperrors.Validationf("habit %q: %v", d.Name, err)
	}
	return d, nil
}

func durationOptionLabel(days int) string {
	if days == constants.DefaultDuration {
		return fmt.Sprintf("%d days (default)", days)
	}
	return fmt.Sprintf("%d days", days)
}
