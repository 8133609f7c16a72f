package habits

import (
	"context"

	"github.com/julianstephens/daystreak/internal/cli"
)

type ListCmd struct{}

func (c *ListCmd) Run(ctx *cli.Context) error {
	w, err := ctx.Load(context.Background())
	if err != nil {
		return err
	}

	habits := w.Engine.Habits()
	ctx.Printf("%s: %d habit(s)\n\n", w.Engine.Challenge().Name, len(habits))
	for i, h := range habits {
		ctx.Printf("  %d. %-24s %s\n", i+1, h.Name, h.Recurrence)
		if h.Sublabel != "" {
			ctx.Printf("     %s\n", h.Sublabel)
		}
	}
	return nil
}
