// Package cli implements the Ember command-line interface using Cobra.
// Each subcommand maps to one engine capability (serve, top, streak, ...).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ember",
	Short: "Ember — Points for finished focus sessions",
	Long: `Ember rewards completed focus sessions and tasks with points:
base awards, daily bonuses, streak bonuses, one-time milestones, and
the occasional random drop. Streaks and leaderboards are derived from
the same activity history.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
