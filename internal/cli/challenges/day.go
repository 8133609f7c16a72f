package challenges

import (
	"context"

	"github.com/julianstephens/daystreak/internal/cli"
	apperrors "github.com/julianstephens/daystreak/internal/errors"
	"github.com/julianstephens/daystreak/internal/tracker"
	"github.com/julianstephens/daystreak/internal/tui/components/daylist"
)

type DayCmd struct {
	Day int `arg:"" optional:"" help:"Challenge day number (default: today)."`
}

func (c *DayCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	w, err := ctx.Load(bg)
	if err != nil {
		return err
	}
	w.Sync(bg)

	day := c.Day
	if day == 0 {
		day = w.CurrentDay(ctx.Today())
	}
	if day < 1 || day > w.Engine.Duration() {
		return apperrors.Validationf("day must be between 1 and %d, got %d", w.Engine.Duration(), day)
	}

	status := w.Engine.Day(day)
	ctx.Println(daylist.Header(status, w.Engine.Duration()))
	ctx.Println()
	ctx.Printf("%s", daylist.Render(status, func(habitID string) tracker.State {
		return w.Tracker.State(habitID, day)
	}, -1))
	return nil
}
