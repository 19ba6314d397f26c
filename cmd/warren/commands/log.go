package commands

import (
	"github.com/spf13/cobra"

	"github.com/burrowhq/warren/internal/printer"
)

var logCmd = &cobra.Command{
	Use:   "log <agent> <action> <message> [feature-id]",
	Short: "Append an entry to the audit log",
	Long: `Append one entry to the document's append-only audit log.

The log is never truncated or redacted by the store; keep it concise
and keep secrets out of messages.

Example:
  warren log worker-7 implemented "added retry with backoff" F004`,
	Args: cobra.RangeArgs(3, 4),
	RunE: runLog,
}

func init() {
	rootCmd.AddCommand(logCmd)
}

func runLog(cmd *cobra.Command, args []string) error {
	store := newStore(settings())

	agent, action, message := args[0], args[1], args[2]
	featureID := ""
	if len(args) > 3 {
		featureID = args[3]
	}

	if _, err := store.AppendLog(agent, action, message, featureID); err != nil {
		return err
	}

	printer.Success("Log entry appended\n")
	return nil
}
