package commands

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sadopc/matcha/internal/tui"
)

func addUI(topLevel *cobra.Command, ro *rootOptions) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the terminal user interface (the default)",
		Example: `
matcha ui
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runUI(ro)
		},
	}

	topLevel.AddCommand(cmd)
}

func runUI(ro *rootOptions) error {
	sess, err := openSession(ro, true)
	if err != nil {
		return err
	}
	defer sess.Close()

	p := tea.NewProgram(tui.NewApp(sess.journal), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
