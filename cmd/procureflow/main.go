package main

import (
	"os"

	"github.com/procureflow/registry/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
