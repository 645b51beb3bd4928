package cli

import (
	"context"
	"fmt"
)

// Stats prints the per-day status breakdown and today's severity counts.
func (a *App) Stats(ctx context.Context) error {
	daily, err := a.client.DailyStats(ctx)
	if err != nil {
		printlnFn("Could not load stats:", err.Error())
		return err
	}
	if len(daily) == 0 {
		printlnFn("No daily stats yet")
	}
	for _, row := range daily {
		printlnFn(fmt.Sprintf("%s  %-12s %d", row.Date, row.Status, row.Count))
	}

	severity, err := a.client.SeverityStats(ctx)
	if err != nil {
		printlnFn("Could not load severity stats:", err.Error())
		return err
	}
	for _, name := range []string{"LOW", "MEDIUM", "HIGH"} {
		if count, ok := severity[name]; ok {
			printlnFn(fmt.Sprintf("today %-8s %d", name, count))
		}
	}
	return nil
}

// Analytics prints the aggregate dashboard numbers.
func (a *App) Analytics(ctx context.Context) error {
	stats, err := a.client.Analytics(ctx)
	if err != nil {
		printlnFn("Could not load analytics:", err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("total=%d open=%d in_progress=%d done=%d",
		stats.TotalIssues, stats.OpenIssues, stats.InProgressIssues, stats.CompletedIssues))
	printlnFn(fmt.Sprintf("priority high=%d medium=%d low=%d",
		stats.HighPriorityIssues, stats.MediumPriorityIssues, stats.LowPriorityIssues))
	if len(stats.RecentIssues) > 0 {
		printlnFn("Recent:")
		for _, issue := range stats.RecentIssues {
			printlnFn("  " + formatIssueLine(issue))
		}
	}
	return nil
}
