// Package main provides the entry point for the replaylab CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/HEATLabs/replaylab/cmd/replaylab/commands"
	"github.com/HEATLabs/replaylab/pkg/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "replaylab",
		Short: "Replaylab - replay corpus extraction and analytics",
		Long: `Replaylab recovers structured match data from opaque binary replay files
and computes corpus-wide statistics over the extracted data.

Commands:
  scan      Rebuild the corpus document from a replay directory
  stats     Compute and print the statistics report
  inspect   Dump the recoverable contents of a single replay file`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	app := commands.NewApp(rootCmd)

	rootCmd.AddCommand(commands.NewScanCommand(app))
	rootCmd.AddCommand(commands.NewStatsCommand(app))
	rootCmd.AddCommand(commands.NewInspectCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintln(os.Stdout, version.String())
		},
	}
}
