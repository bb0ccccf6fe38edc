package main

import (
	"os"

	"github.com/sadopc/matcha/internal/commands"
)

func main() {
	// cobra has already reported the error on stderr.
	if err := commands.New().Execute(); err != nil {
		os.Exit(1)
	}
}
