package commands

import (
	"fmt"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/sadopc/matcha/internal/export"
	"github.com/sadopc/matcha/internal/journal"
)

func addExport(topLevel *cobra.Command, ro *rootOptions) {
	var (
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "export mood sessions (csv) or the whole journal (json)",
		Example: `
matcha export
matcha export --format json --out ~/journal.json
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			path := out
			if path == "" {
				path = export.DefaultPath(f, time.Now())
			} else if path, err = homedir.Expand(path); err != nil {
				return err
			}

			return withJournal(ro, func(j *journal.Journal) error {
				d, err := export.Collect(j.Store())
				if err != nil {
					return err
				}
				if err := export.Write(d, f, path); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d mood sessions to %s\n", len(d.Sessions), path)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "csv", "export format: csv or json")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (default ~/matcha-export-<date>.<format>)")
	topLevel.AddCommand(cmd)
}
