package commands

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/burrowhq/warren/internal/printer"
)

var testsCommand string

var recordTestsCmd = &cobra.Command{
	Use:   "record-tests <passing> <failing>",
	Short: "Record normalized aggregate test counters",
	Long: `Record the aggregate test counters for the unit of work.

The store never parses test-runner output itself: an external adapter
normalizes the framework's results into plain passing/failing counts
and writes them here.

Example:
  warren record-tests 42 3 --command "go test ./..."`,
	Args: cobra.ExactArgs(2),
	RunE: runRecordTests,
}

func init() {
	recordTestsCmd.Flags().StringVar(&testsCommand, "command", "", "the command the counters were produced by")
	rootCmd.AddCommand(recordTestsCmd)
}

func runRecordTests(cmd *cobra.Command, args []string) error {
	store := newStore(settings())

	passing, err := strconv.Atoi(args[0])
	if err != nil {
		return printer.Error("invalid passing count "+args[0], "Counters must be non-negative integers.", nil)
	}
	failing, err := strconv.Atoi(args[1])
	if err != nil {
		return printer.Error("invalid failing count "+args[1], "Counters must be non-negative integers.", nil)
	}

	if _, err := store.RecordTests(passing, failing, testsCommand); err != nil {
		return err
	}

	printer.Success("Recorded %d passing, %d failing\n", passing, failing)
	return nil
}
