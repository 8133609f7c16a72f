package habits

import (
	"context"

	"github.com/julianstephens/daystreak/internal/challenge"
	"github.com/julianstephens/daystreak/internal/cli"
	apperrors "github.com/julianstephens/daystreak/internal/errors"
	"github.com/julianstephens/daystreak/internal/models"
)

type EditCmd struct {
	Habit        string  `arg:"" help:"Habit name, number from 'habit list', or id."`
	Name         *string `help:"New name."`
	Sublabel     *string `help:"New sublabel (empty string clears it)."`
	Daily        bool    `help:"Schedule the habit every day." xor:"rule"`
	Days         string  `help:"Schedule on these weekdays (e.g. mon,wed,fri)." xor:"rule"`
	WeeklyTarget int     `help:"Make it a weekly goal of N completions." name:"weekly-target" xor:"rule"`
}

func (c *EditCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	w, err := ctx.Load(bg)
	if err != nil {
		return err
	}

	habit, ok := challenge.FindHabit(w.Engine.Habits(), c.Habit)
	if !ok {
		return apperrors.Validationf("habit %q not found", c.Habit)
	}

	patch, err := c.patch()
	if err != nil {
		return err
	}
	if patch.IsEmpty() {
		return apperrors.Validationf("nothing to change, pass --name, --sublabel, --daily, --days or --weekly-target")
	}

	updated, err := w.Service.EditHabit(bg, habit.ID, patch)
	if err != nil {
		return err
	}

	// keep the offline snapshot in step with the edit
	for i, h := range w.Snapshot.Habits {
		if h.ID == updated.ID {
			w.Snapshot.Habits[i] = updated
		}
	}
	w.Remember()

	ctx.Printf("✓ Updated %s (%s)\n", updated.Name, updated.Recurrence)
	return nil
}

func (c *EditCmd) patch() (models.HabitPatch, error) {
	patch := models.HabitPatch{Name: c.Name, Sublabel: c.Sublabel}

	var rec *models.Recurrence
	switch {
	case c.Daily:
		r := models.Daily()
		rec = &r
	case c.Days != "":
		days, err := cli.ParseWeekdays(c.Days)
		if err != nil {
			return patch, apperrors.Validationf("%v", err)
		}
		r := models.SpecificDays(days...)
		rec = &r
	case c.WeeklyTarget != 0:
		r := models.WeeklyGoal(c.WeeklyTarget)
		rec = &r
	}
	patch.Recurrence = rec
	return patch, nil
}
