package commands

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
)

var (
	bold    = color.New(color.Bold)
	faint   = color.New(color.Faint)
	success = color.New(color.FgGreen)
	accent  = color.New(color.FgCyan)
	warn    = color.New(color.FgYellow)
)

func newTable() *uitable.Table {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.Wrap = true
	tbl.MaxColWidth = 60
	return tbl
}

func printTable(w io.Writer, tbl *uitable.Table) {
	if len(tbl.Rows) == 0 {
		return
	}
	_, _ = fmt.Fprintln(w, tbl)
}

// renderMarkdown formats an assistant reply for the terminal, falling back to
// the raw text.
func renderMarkdown(text string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return out
}
