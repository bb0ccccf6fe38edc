package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sadopc/matcha/internal/analytics"
	"github.com/sadopc/matcha/internal/journal"
	"github.com/sadopc/matcha/internal/mood"
	"github.com/sadopc/matcha/internal/store"
)

func addChat(topLevel *cobra.Command, ro *rootOptions) {
	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "talk to Sage, or print the conversation when no message is given",
		Example: `
matcha chat I slept badly and still need to call the bank
matcha chat
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			sess, err := openSession(ro, false)
			if err != nil {
				return err
			}
			defer sess.Close()

			w := cmd.OutOrStdout()
			if len(args) == 0 {
				return printHistory(w, sess.journal)
			}
			return chat(context.Background(), w, sess.journal, strings.Join(args, " "))
		},
	}

	topLevel.AddCommand(cmd)
}

func chat(ctx context.Context, w io.Writer, j *journal.Journal, text string) error {
	turn, err := j.Send(ctx, text)
	if err != nil {
		return err
	}
	if turn.Err != nil {
		_, _ = fmt.Fprintln(w, warn.Sprint(turn.Reply.Content))
		return fmt.Errorf("assistant: %w", turn.Err)
	}

	_, _ = fmt.Fprint(w, renderMarkdown(turn.Reply.Content))

	tbl := newTable()
	if len(turn.Tasks) > 0 {
		titles := make([]string, len(turn.Tasks))
		for i, t := range turn.Tasks {
			titles[i] = t.Title
		}
		tbl.AddRow(bold.Sprint("New tasks"), strings.Join(titles, ", "))
	}
	if turn.Mood != nil {
		score := mood.Score(turn.Mood.Emotions)
		tbl.AddRow(bold.Sprint("Mood"), fmt.Sprintf("%.1f %s (%s)",
			score, mood.BandOf(score), strings.Join(turn.Mood.Emotions, ", ")))
	}
	if turn.WaterIntake > 0 {
		tbl.AddRow(bold.Sprint("Water"), fmt.Sprintf("%d/%d glasses", turn.WaterIntake, analytics.HydrationGoal))
	}
	printTable(w, tbl)
	return nil
}

func printHistory(w io.Writer, j *journal.Journal) error {
	msgs, err := j.Messages()
	if err != nil {
		return err
	}
	for _, m := range msgs {
		stamp := faint.Sprint(m.Timestamp.Local().Format("Jan 2 15:04"))
		who := success.Sprint("Sage")
		if m.Type == store.MessageUser {
			who = accent.Sprint("You ")
		}
		_, _ = fmt.Fprintf(w, "%s  %s  %s\n", stamp, who, m.Content)
	}
	return nil
}
