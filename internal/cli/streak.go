package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/emberfocus/ember/internal/daemon"
)

func init() {
	rootCmd.AddCommand(streakCmd)
}

var streakCmd = &cobra.Command{
	Use:   "streak <user-id>",
	Short: "Show a user's current and best streak",
	Args:  cobra.ExactArgs(1),
	RunE:  runStreak,
}

func runStreak(cmd *cobra.Command, args []string) error {
	userID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", args[0], err)
	}

	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	info, err := d.Rewarder.Streak(cmd.Context(), userID)
	if err != nil {
		return err
	}

	fmt.Printf("Current streak: %d day(s)\n", info.Current)
	fmt.Printf("Best streak:    %d day(s)\n", info.Best)
	return nil
}
