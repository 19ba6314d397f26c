package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/burrowhq/warren/internal/printer"
	"github.com/burrowhq/warren/pkg/memory"
)

var lockCmd = &cobra.Command{
	Use:   "lock <feature-id>",
	Short: "Acquire the work lock for a feature",
	Long: `Acquire the single work lock for a feature and mark it in_progress.

Exactly one feature may be locked at a time; a conflicting lock fails
and names the current holder. The lock records the agent identity,
process ID, and start time so a stale lock left by a crashed worker can
be told apart from a live one.`,
	Args: cobra.ExactArgs(1),
	RunE: runLock,
}

func init() {
	rootCmd.AddCommand(lockCmd)
}

func runLock(cmd *cobra.Command, args []string) error {
	s := settings()
	store := newStore(s)
	featureID := args[0]

	_, err := store.Lock(featureID, s.Agent)
	if err != nil {
		var locked *memory.AlreadyLockedError
		if errors.As(err, &locked) {
			return printer.Error(
				err.Error(),
				"Only one feature may be worked on at a time.",
				[]string{
					"Wait for the holder to finish and unlock.",
					fmt.Sprintf("If the holder crashed, recover with:\n  warren unlock --if-stale 30m -f %s", s.MemoryFile),
				},
			)
		}
		return err
	}

	printer.Success("Locked %s for %s\n", featureID, s.Agent)
	return nil
}
