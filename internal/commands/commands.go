// Package commands builds the matcha command line.
package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	ConfigFile string
	EnvFile    string
	DBPath     string
}

func New() *cobra.Command {
	ro := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "matcha",
		Short: "A journaling companion with tasks, a focus timer and mood analytics.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runUI(ro)
		},
	}
	cmd.SetOut(color.Output)

	flags := cmd.PersistentFlags()
	flags.StringVar(&ro.ConfigFile, "config", "", "config file (default ./.matcha.yaml or ~/.config/matcha/.matcha.yaml)")
	flags.StringVar(&ro.EnvFile, "env-file", "", "dotenv file loaded before the environment (default .env)")
	flags.StringVar(&ro.DBPath, "db", "", "database path, overrides db_path")

	AddCommands(cmd, ro)
	return cmd
}

func AddCommands(topLevel *cobra.Command, ro *rootOptions) {
	addUI(topLevel, ro)
	addChat(topLevel, ro)
	addTask(topLevel, ro)
	addSummary(topLevel, ro)
	addFocus(topLevel, ro)
	addExport(topLevel, ro)
}
