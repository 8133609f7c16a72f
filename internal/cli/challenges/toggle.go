package challenges

import (
	"context"
	"fmt"

	"github.com/julianstephens/daystreak/internal/challenge"
	"github.com/julianstephens/daystreak/internal/cli"
	apperrors "github.com/julianstephens/daystreak/internal/errors"
)

type ToggleCmd struct {
	Habit string `arg:"" help:"Habit name, number from 'habit list', or id."`
	Day   int    `help:"Challenge day number (default: today)." default:"0"`
}

func (c *ToggleCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	w, err := ctx.Load(bg)
	if err != nil {
		return err
	}
	// drain first so this write is not held behind older ones
	w.Sync(bg)

	habit, ok := challenge.FindHabit(w.Engine.Habits(), c.Habit)
	if !ok {
		return apperrors.Validationf("habit %q not found", c.Habit)
	}

	current := w.CurrentDay(ctx.Today())
	day := c.Day
	if day == 0 {
		day = current
	}
	if day < 1 {
		return apperrors.Validationf("day must be at least 1, got %d", day)
	}
	if day > current {
		return apperrors.Validationf("day %d is in the future (today is day %d)", day, current)
	}

	res, err := w.Tracker.Toggle(bg, habit.ID, day)
	if err != nil {
		return err
	}
	if !res.Queued {
		w.Remember()
	}

	verb := "marked done"
	if !res.Done {
		verb = "cleared"
	}
	msg := fmt.Sprintf("✓ %s %s for day %d", habit.Name, verb, day)
	switch {
	case res.Cancelled:
		msg += " (pending change cancelled)"
	case res.Queued:
		msg += " (offline, will sync later)"
	}
	ctx.Println(msg)

	if err := w.Refresh(); err != nil {
		return err
	}
	ctx.Printf("Day %d: %d%%\n", day, w.Engine.DayPercentage(day))
	return nil
}
