// Package main is the entry point for the alertrelay CLI tool.
package main

import (
	"os"

	"github.com/good-yellow-bee/alertrelay/cmd/relayctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
