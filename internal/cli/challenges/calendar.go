package challenges

import (
	"context"

	"github.com/julianstephens/daystreak/internal/cli"
	"github.com/julianstephens/daystreak/internal/tui/components/heatmap"
)

type CalendarCmd struct{}

func (c *CalendarCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	w, err := ctx.Load(bg)
	if err != nil {
		return err
	}
	w.Sync(bg)

	current := w.CurrentDay(ctx.Today())
	ch := w.Engine.Challenge()
	ctx.Printf("%s  (day %d of %d)\n\n", ch.Name, current, ch.Duration)
	ctx.Printf("%s\n", heatmap.Render(w.Engine.CalendarDays(current), w.Engine.WeeklySummary(current)))
	ctx.Println(heatmap.Legend())
	return nil
}
