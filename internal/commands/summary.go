package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sadopc/matcha/internal/analytics"
	"github.com/sadopc/matcha/internal/journal"
	"github.com/sadopc/matcha/internal/mood"
)

func addSummary(topLevel *cobra.Command, ro *rootOptions) {
	cmd := &cobra.Command{
		Use:     "summary",
		Aliases: []string{"stats"},
		Short:   "show mood trends, streaks and weekly statistics",
		Example: `
matcha summary
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return withJournal(ro, func(j *journal.Journal) error {
				sum, err := j.Summary()
				if err != nil {
					return err
				}
				printSummary(cmd.OutOrStdout(), sum)
				return nil
			})
		},
	}

	topLevel.AddCommand(cmd)
}

func printSummary(w io.Writer, sum analytics.Summary) {
	tbl := newTable()
	tbl.AddRow(bold.Sprint("Mood"), "")
	tbl.AddRow("  current", sum.Mood.Current)
	tbl.AddRow("  7-day average", sum.Mood.WeekAverage)
	tbl.AddRow("  30-day average", sum.Mood.MonthAverage)
	tbl.AddRow(bold.Sprint("Habits"), "")
	tbl.AddRow("  streak", fmt.Sprintf("%d days (best %d)", sum.Streak.Current, sum.Streak.Best))
	tbl.AddRow("  water today", fmt.Sprintf("%d/%d glasses (%d%%)", sum.Hydration.Today, sum.Hydration.Goal, sum.Hydration.Percent()))
	tbl.AddRow("  tasks", fmt.Sprintf("%d/%d completed (%d%%)", sum.Tasks.Completed, sum.Tasks.Total, sum.Tasks.Percent()))
	tbl.AddRow(bold.Sprint("This week"), "")
	tbl.AddRow("  entries", sum.Weekly.Entries)
	tbl.AddRow("  words", sum.Weekly.Words)
	tbl.AddRow("  most active", sum.Weekly.MostActive)
	tbl.AddRow("  pomodoros", fmt.Sprintf("%d/%d (%d%%)", sum.Weekly.Pomodoros, analytics.PomodoroGoal, sum.Weekly.PomodoroPercent()))
	tbl.AddRow("  tasks done", fmt.Sprintf("%d/%d (%d%%)", sum.Weekly.TasksCompleted, analytics.TaskGoal, sum.Weekly.TaskPercent()))
	printTable(w, tbl)

	if len(sum.Mood.Recent) == 0 {
		return
	}
	_, _ = fmt.Fprintln(w)
	recent := newTable()
	recent.AddRow(bold.Sprint("Recent"), bold.Sprint("Score"), bold.Sprint("Emotions"))
	for _, r := range sum.Mood.Recent {
		recent.AddRow(r.Label, fmt.Sprintf("%.1f %s", r.Score, mood.BandOf(r.Score)), strings.Join(r.Emotions, ", "))
	}
	printTable(w, recent)
}
