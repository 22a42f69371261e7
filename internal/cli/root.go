// Package cli implements the slowtop CLI commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "slowtop",
	Short: "Rank URLs by request time from nginx access logs",
	Long: `Slowtop finds the newest nginx access-log artifact in a directory,
aggregates per-URL request-time statistics, and writes a ranked HTML report.

Each invocation processes one complete log artifact. Reports are keyed by the
date embedded in the artifact name, so re-running against the same log is a
no-op.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, styleError.Render("Error: ")+err.Error())
	}
	return err
}

func init() {
	// Add subcommands (alphabetical)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(watchCmd)
}
