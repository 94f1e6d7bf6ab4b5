package main

import (
	"os"

	"github.com/stmtbooks/stmtbooks/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
