package commands

import (
	"github.com/spf13/cobra"

	"github.com/burrowhq/warren/internal/printer"
)

var triedCmd = &cobra.Command{
	Use:   "tried <feature-id> <approach> <result>",
	Short: "Record an attempted approach and its outcome",
	Long: `Record one (approach, result) attempt against a feature.

Attempts are append-only failure memory: workers inspect a feature's
history before choosing an implementation strategy so they never repeat
an approach already known to fail.

Example:
  warren tried F003 "async pattern" "Failed: race condition in handler"`,
	Args: cobra.ExactArgs(3),
	RunE: runTried,
}

func init() {
	rootCmd.AddCommand(triedCmd)
}

func runTried(cmd *cobra.Command, args []string) error {
	store := newStore(settings())
	featureID, approach, result := args[0], args[1], args[2]

	doc, err := store.RecordTried(featureID, approach, result)
	if err != nil {
		return err
	}

	printer.Success("Recorded attempt %d for %s\n", len(doc.Feature(featureID).Attempts), featureID)
	return nil
}
