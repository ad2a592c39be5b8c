package main

import (
	"os"

	"github.com/f3rmion/splitdh/cmd/splitdh/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
