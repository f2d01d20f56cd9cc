package main

import (
	"os"

	"github.com/organic-growth/organic-growth/internal/cli/commands"
)

func main() {
	// Errors are printed by Execute
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
