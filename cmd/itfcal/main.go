// Package main is the entry point for the itfcal CLI.
package main

import (
	"os"

	"github.com/jmylchreest/itfcal/cmd/itfcal/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
