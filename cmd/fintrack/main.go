package main

import (
	"os"

	"github.com/fintrack-dev/fintrack/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
