// Package main provides the entry point for the FraudLens CLI.
package main

import (
	"fmt"
	"os"

	"github.com/fraudlens-ai/fraudlens/cmd/fraudlens/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
