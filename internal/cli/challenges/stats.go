package challenges

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/julianstephens/daystreak/internal/cli"
	"github.com/julianstephens/daystreak/internal/progress"
)

type StatsCmd struct {
	JSON bool `help:"Print the summary as JSON." name:"json"`
}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	w, err := ctx.Load(bg)
	if err != nil {
		return err
	}
	w.Sync(bg)

	s := w.Engine.Summary(ctx.Today())
	if c.JSON {
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal summary: %w", err)
		}
		ctx.Println(string(data))
		return nil
	}

	ctx.Printf("%s\n\n", w.Engine.Challenge().Name)
	ctx.Printf("Day               %d of %d (%d remaining, %d%% through)\n", s.CurrentDay, s.Duration, s.DaysRemaining, s.ProgressPercentage)
	ctx.Printf("Today             %d%%\n", s.TodayPercentage)
	ctx.Printf("Current streak    %d day(s)\n", s.CurrentStreak)
	ctx.Printf("Best streak       %d day(s)\n", s.BestStreak)
	ctx.Printf("Overall           %d%%\n", s.OverallCompletion)
	ctx.Printf("Perfect days      %d (%d%% success rate)\n", s.PerfectDays, s.SuccessRate)
	ctx.Printf("Completions       %d\n", s.TotalCompletions)
	ctx.Printf("Weeks             %s\n", formatWeeks(s.Weeks))
	return nil
}

func formatWeeks(weeks []int) string {
	parts := make([]string, 0, len(weeks))
	for i, pct := range weeks {
		if pct == progress.WeekNotStarted {
			parts = append(parts, fmt.Sprintf("W%d -", i+1))
			continue
		}
		parts = append(parts, fmt.Sprintf("W%d %d%%", i+1, pct))
	}
	return strings.Join(parts, "  ")
}
