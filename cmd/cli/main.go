// Package main is the entry point for the toll-tracker CLI.
package main

import (
	"os"

	"toll-tracker/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
