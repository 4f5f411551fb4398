package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/emberfocus/ember/internal/daemon"
)

func init() {
	awardsCmd.Flags().IntVar(&awardsLimit, "limit", 20, "Number of events to show")
	rootCmd.AddCommand(awardsCmd)
}

var awardsLimit int

var awardsCmd = &cobra.Command{
	Use:   "awards <user-id>",
	Short: "Show a user's recent award events and balance",
	Args:  cobra.ExactArgs(1),
	RunE:  runAwards,
}

func runAwards(cmd *cobra.Command, args []string) error {
	userID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", args[0], err)
	}

	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	ctx := cmd.Context()

	balance, err := d.Ledger.Balance(ctx, userID)
	if err != nil {
		return err
	}

	events, err := d.Ledger.History(ctx, userID, awardsLimit)
	if err != nil {
		return err
	}

	fmt.Printf("Balance: %d point(s)\n", balance)
	if len(events) == 0 {
		fmt.Println("No awards yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tKEY\tPOINTS")
	for _, e := range events {
		fmt.Fprintf(w, "%s\t%s\t%d\n",
			e.CreatedAt.Format("2006-01-02 15:04"), e.EventKey, e.Points)
	}
	return w.Flush()
}
