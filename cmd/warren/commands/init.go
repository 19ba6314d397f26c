package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/burrowhq/warren/internal/printer"
	"github.com/burrowhq/warren/pkg/memory"
)

var initGoal string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a fresh memory document",
	Long: `Create a fresh, empty memory document at the configured path.

The document starts with no features and an idle lock. Add work with
'warren add-feature' or build a document from an existing checklist
with 'warren generate-from-tasks'.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&initGoal, "goal", "", "free-text description of the overall objective")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	s := settings()
	store := newStore(s)

	doc, err := store.Init(initGoal)
	if err != nil {
		var exists *memory.AlreadyExistsError
		if errors.As(err, &exists) {
			return printer.Error(
				err.Error(),
				"Refusing to overwrite an existing memory document.",
				[]string{
					fmt.Sprintf("Inspect it first:\n  warren status -f %s", s.MemoryFile),
					"Or point at a new location:\n  warren init -f <path>",
				},
			)
		}
		return err
	}

	printer.Success("Memory document created: %s (revision %d)\n", s.MemoryFile, doc.Revision)
	return nil
}
