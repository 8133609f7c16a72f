package challenges

import (
	"context"

	"github.com/julianstephens/daystreak/internal/cli"
	"github.com/julianstephens/daystreak/internal/constants"
)

type SyncCmd struct {
	List bool `help:"List queued changes without sending them."`
}

func (c *SyncCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	w, err := ctx.Load(bg)
	if err != nil {
		return err
	}

	items, err := w.Session.Queue().Items()
	if err != nil {
		return err
	}
	if c.List {
		if len(items) == 0 {
			ctx.Println("No queued changes.")
			return nil
		}
		ctx.Printf("%d queued change(s):\n", len(items))
		for _, it := range items {
			ctx.Printf("  %-6s %-24s day %-3d queued %s\n", it.Action, w.HabitName(it.HabitID), it.DayNumber,
				it.EnqueuedAt.Local().Format(constants.DateFormat+" 15:04"))
		}
		return nil
	}

	if len(items) == 0 {
		ctx.Println("Nothing to sync.")
		return nil
	}
	res, err := w.Tracker.Replay(bg)
	if res.Applied > 0 {
		w.Remember()
	}
	switch {
	case res.Offline:
		ctx.Printf("Offline: %d change(s) still queued.\n", res.Remaining)
	case err != nil:
		ctx.Printf("Synced %d change(s), %d still queued.\n", res.Applied, res.Remaining)
		return err
	default:
		ctx.Printf("✓ Synced %d change(s).\n", res.Applied)
	}
	return nil
}
