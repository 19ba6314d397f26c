package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/burrowhq/warren/internal/printer"
	"github.com/burrowhq/warren/pkg/memory"
)

var updateError string

var updateCmd = &cobra.Command{
	Use:   "update <feature-id> <status>",
	Short: "Change a feature's status",
	Long: `Change a feature's status and record the outcome as its last attempt.

Valid statuses: untested, passing, failing, in_progress, blocked.

Transitions follow a fixed table: work moves through in_progress to
passing or failing, and re-opening passing or blocked work goes through
untested. Illegal transitions are rejected and leave the document
unchanged.`,
	Args: cobra.ExactArgs(2),
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().StringVar(&updateError, "error", "", "error detail to record with a failing outcome")
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	s := settings()
	store := newStore(s)
	featureID, status := args[0], memory.Status(args[1])

	_, err := store.UpdateStatus(featureID, status, s.Agent, updateError)
	if err != nil {
		var transition *memory.InvalidTransitionError
		if errors.As(err, &transition) {
			return printer.Error(
				err.Error(),
				"Status changes follow a fixed transition table.",
				[]string{
					"Re-open finished or blocked work first:\n  warren update <feature-id> untested",
				},
			)
		}
		return err
	}

	printer.Success("Feature %s is now %s\n", featureID, status)
	return nil
}
