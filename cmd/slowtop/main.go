// Package main is the entry point for the slowtop CLI.
package main

import (
	"os"

	"github.com/slowtop/slowtop/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
