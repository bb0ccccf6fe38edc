package commands

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/matcha/internal/analytics"
	"github.com/sadopc/matcha/internal/journal"
)

func addTask(topLevel *cobra.Command, ro *rootOptions) {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"tasks"},
		Short:   "list and manage tasks",
		Example: `
matcha task
matcha task add Water the plants
matcha task done 4
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return withJournal(ro, func(j *journal.Journal) error {
				return listTasks(cmd.OutOrStdout(), j)
			})
		},
	}

	addTaskAdd(cmd, ro)
	addTaskList(cmd, ro)
	addTaskMark(cmd, ro, "done", "mark a task as completed", true)
	addTaskMark(cmd, ro, "undo", "mark a task as not completed", false)

	topLevel.AddCommand(cmd)
}

// withJournal opens a session for a non-interactive command.
func withJournal(ro *rootOptions, fn func(j *journal.Journal) error) error {
	sess, err := openSession(ro, false)
	if err != nil {
		return err
	}
	defer sess.Close()
	return fn(sess.journal)
}

func addTaskAdd(parent *cobra.Command, ro *rootOptions) {
	var title string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "add a task",
		Args: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if len(args) < 1 {
				return errors.New("requires a task title")
			}
			title = strings.Join(args, " ")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withJournal(ro, func(j *journal.Journal) error {
				t, err := j.AddTask(title)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added task %d: %s\n", t.ID, t.Title)
				return nil
			})
		},
	}

	parent.AddCommand(cmd)
}

func addTaskList(parent *cobra.Command, ro *rootOptions) {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "list all tasks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return withJournal(ro, func(j *journal.Journal) error {
				return listTasks(cmd.OutOrStdout(), j)
			})
		},
	}

	parent.AddCommand(cmd)
}

func addTaskMark(parent *cobra.Command, ro *rootOptions, use, short string, completed bool) {
	var id int64

	cmd := &cobra.Command{
		Use:   use + " <task id>",
		Short: short,
		Args: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if len(args) != 1 {
				return errors.New("requires a task id")
			}
			var err error
			if id, err = strconv.ParseInt(args[0], 10, 64); err != nil || id <= 0 {
				return fmt.Errorf("invalid task id %q", args[0])
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withJournal(ro, func(j *journal.Journal) error {
				if err := j.SetTaskCompleted(id, completed); err != nil {
					return err
				}
				return listTasks(cmd.OutOrStdout(), j)
			})
		},
	}

	parent.AddCommand(cmd)
}

func listTasks(w io.Writer, j *journal.Journal) error {
	tasks, err := j.Tasks()
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		_, _ = fmt.Fprintln(w, faint.Sprint("No tasks yet."))
		return nil
	}

	now := time.Now()
	tbl := newTable()
	tbl.AddRow(bold.Sprint("ID"), "", bold.Sprint("Task"), bold.Sprint("Added"))
	progress := analytics.TaskProgress{Total: len(tasks)}
	for _, t := range tasks {
		mark := "[ ]"
		title := t.Title
		if t.Completed {
			progress.Completed++
			mark = success.Sprint("[x]")
			title = faint.Sprint(title)
		}
		tbl.AddRow(t.ID, mark, title, analytics.RelativeDay(t.CreatedAt, now))
	}
	printTable(w, tbl)
	_, _ = fmt.Fprintf(w, "\n%d/%d completed (%d%%)\n", progress.Completed, progress.Total, progress.Percent())
	return nil
}
