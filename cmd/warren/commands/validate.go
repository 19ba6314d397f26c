package commands

import (
	"github.com/spf13/cobra"

	"github.com/burrowhq/warren/internal/printer"
	"github.com/burrowhq/warren/pkg/memory"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the structural invariants of the memory document",
	Long: `Check the structural invariants of the memory document: schema
version, feature IDs and statuses, dependency references, lock
consistency, and agreement between the tried index and per-feature
attempt histories.

Every problem is reported, not just the first. Exits non-zero when the
document is invalid.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	store := newStore(settings())

	doc, err := store.Load()
	if err != nil {
		return err
	}

	problems := doc.Validate()
	if len(problems) == 0 {
		printer.Success("Document is valid (%d features, revision %d)\n", len(doc.Features), doc.Revision)
		return nil
	}

	for _, p := range problems {
		printer.Printf("  ✗ %v\n", p)
	}
	return &memory.ValidationFailedError{Problems: problems}
}
