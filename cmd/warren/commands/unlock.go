package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/burrowhq/warren/internal/printer"
)

var unlockIfStale time.Duration

var unlockCmd = &cobra.Command{
	Use:   "unlock",
	Short: "Release the work lock",
	Long: `Release the work lock and return the document to idle.

Unlock never changes the feature's status: write the final outcome with
'warren update' before unlocking.

With --if-stale the lock is only released when it has been held longer
than the given duration, so recovery from a crashed worker cannot evict
a live one by accident.`,
	Args: cobra.NoArgs,
	RunE: runUnlock,
}

func init() {
	unlockCmd.Flags().DurationVar(&unlockIfStale, "if-stale", 0, "only release locks held longer than this (e.g. 30m)")
	rootCmd.AddCommand(unlockCmd)
}

func runUnlock(cmd *cobra.Command, args []string) error {
	store := newStore(settings())

	if unlockIfStale > 0 {
		if _, err := store.UnlockIfStale(unlockIfStale); err != nil {
			return err
		}
		printer.Success("Lock released (stale check passed)\n")
		return nil
	}

	if _, err := store.Unlock(); err != nil {
		return err
	}
	printer.Success("Lock released\n")
	return nil
}
