package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/emberfocus/ember/internal/daemon"
	"github.com/emberfocus/ember/internal/domain"
)

func init() {
	topCmd.Flags().StringVar(&topWindow, "window", "week", "Ranking window: week or month")
	topCmd.Flags().IntVar(&topLimit, "limit", 10, "Number of entries to show")
	rootCmd.AddCommand(topCmd)
}

var (
	topWindow string
	topLimit  int
)

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Show the completions leaderboard",
	RunE:  runTop,
}

func runTop(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	ctx := cmd.Context()
	now := time.Now()

	var entries []domain.LeaderboardEntry
	switch topWindow {
	case "month":
		entries, err = d.Board.Month(ctx, now, topLimit)
	default:
		entries, err = d.Board.Week(ctx, now, topLimit)
	}
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("No completions in this window yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tNAME\tCOMPLETIONS\tBALANCE")
	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\n", e.Rank, e.Name, e.Completions, e.Balance)
	}
	return w.Flush()
}
