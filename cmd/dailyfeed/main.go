// Package main is the entry point for the dailyfeed CLI.
package main

import (
	"os"

	"github.com/jmylchreest/dailyfeed/cmd/dailyfeed/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
