package main

import (
	"os"

	"github.com/gradebook-tools/canvas-sync/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
