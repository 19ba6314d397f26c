package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/burrowhq/warren/internal/printer"
	"github.com/burrowhq/warren/pkg/memory"
)

var generateCmd = &cobra.Command{
	Use:   "generate-from-tasks <checklist-file>",
	Short: "Build a memory document from an existing task checklist",
	Long: `Build a brand-new memory document from a line-oriented checklist.

Each checklist entry becomes one feature:

  - [ ] T001: Add login     -> untested
  - [x] T002: Add logout    -> passing
  - [!] T003: Fix sessions  -> failing

Features get stable F-prefixed IDs and increasing priority in checklist
order. Import is one-time only: it fails, writing nothing, when a
document already exists at the target path.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	s := settings()
	store := newStore(s)
	checklistPath := args[0]

	f, err := os.Open(checklistPath)
	if err != nil {
		return fmt.Errorf("failed to open checklist: %w", err)
	}
	defer f.Close()

	doc, err := store.ImportTaskList(f, checklistPath)
	if err != nil {
		var exists *memory.AlreadyExistsError
		if errors.As(err, &exists) {
			return printer.Error(
				err.Error(),
				"Import is intentionally not idempotent or mergeable; the existing document was left unchanged.",
				[]string{
					fmt.Sprintf("Inspect the existing document:\n  warren status -f %s", s.MemoryFile),
					"Or import to a new location:\n  warren generate-from-tasks <checklist> -f <path>",
				},
			)
		}
		return err
	}

	printer.Success("Imported %d features from %s into %s\n", len(doc.Features), checklistPath, s.MemoryFile)
	return nil
}
