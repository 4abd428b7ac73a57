package main

import (
	"os"

	"github.com/edificio-dev/edificio/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
