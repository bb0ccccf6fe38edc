package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/matcha/internal/journal"
	"github.com/sadopc/matcha/internal/pomodoro"
	"github.com/sadopc/matcha/internal/ticker"
)

// tickInterval is one timer second.
var tickInterval = time.Second

func addFocus(topLevel *cobra.Command, ro *rootOptions) {
	var sessions, focus, rest int

	cmd := &cobra.Command{
		Use:     "focus",
		Aliases: []string{"pomodoro"},
		Short:   "run the focus timer in the terminal",
		Example: `
matcha focus
matcha focus --sessions 4 --focus 45 --break 10
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return withJournal(ro, func(j *journal.Journal) error {
				flags := cmd.Flags()
				if flags.Changed("sessions") || flags.Changed("focus") || flags.Changed("break") {
					cfg := j.Timer().Config()
					if flags.Changed("sessions") {
						cfg.Sessions = sessions
					}
					if flags.Changed("focus") {
						cfg.FocusMinutes = focus
					}
					if flags.Changed("break") {
						cfg.BreakMinutes = rest
					}
					if _, err := j.ConfigureTimer(cfg); err != nil {
						return err
					}
				}

				ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				return runFocus(ctx, cmd.OutOrStdout(), j, tickInterval)
			})
		},
	}

	cmd.Flags().IntVar(&sessions, "sessions", 0, "focus sessions per cycle, 1-10 (saved)")
	cmd.Flags().IntVar(&focus, "focus", 0, "focus minutes: 15, 25, 45 or 60 (saved)")
	cmd.Flags().IntVar(&rest, "break", 0, "break minutes: 5, 10 or 15 (saved)")
	topLevel.AddCommand(cmd)
}

// runFocus counts the journal's timer down until the cycle completes or ctx
// is cancelled. Stopping early keeps the session and records nothing.
func runFocus(ctx context.Context, w io.Writer, j *journal.Journal, interval time.Duration) error {
	tk, err := ticker.New(interval)
	if err != nil {
		return err
	}

	t := j.Timer()
	cfg := t.Config()
	_, _ = fmt.Fprintf(w, "%s %d x %d min, %d min breaks. Ctrl+C to stop.\n",
		bold.Sprint("Focus:"), cfg.Sessions, cfg.FocusMinutes, cfg.BreakMinutes)

	done := make(chan struct{})
	var once sync.Once

	t.Start()
	printFocusStatus(w, t)
	err = tk.Start(func() {
		ev, _ := j.TickTimer()
		switch ev {
		case pomodoro.EventBreakStarted:
			_, _ = fmt.Fprintf(w, "\n%s %s\n", success.Sprint("Break!"), pomodoro.BreakMessage())
		case pomodoro.EventWorkStarted:
			_, _ = fmt.Fprintf(w, "\n%s session %d of %d\n", accent.Sprint("Back to focus:"), t.Session(), cfg.Sessions)
		case pomodoro.EventCycleComplete:
			_, _ = fmt.Fprintf(w, "\n%s\n", success.Sprint("Focus cycle complete!"))
			once.Do(func() { close(done) })
			return
		}
		printFocusStatus(w, t)
	})
	if err != nil {
		t.Stop()
		_ = tk.Shutdown()
		return err
	}

	select {
	case <-ctx.Done():
	case <-done:
	}

	// Shutdown waits for a handler still in flight.
	err = tk.Shutdown()
	t.Stop()
	if ctx.Err() != nil {
		_, _ = fmt.Fprintf(w, "\n%s at %s, session %d of %d\n",
			warn.Sprint("Stopped"), pomodoro.FormatRemaining(t.Remaining()), t.Session(), cfg.Sessions)
	}
	return err
}

func printFocusStatus(w io.Writer, t *pomodoro.Timer) {
	phase := accent.Sprint("focus")
	if t.Phase() == pomodoro.PhaseBreak {
		phase = success.Sprint("break")
	}
	_, _ = fmt.Fprintf(w, "\r%s %s  session %d of %d ", phase,
		pomodoro.FormatRemaining(t.Remaining()), t.Session(), t.Config().Sessions)
}
