package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/burrowhq/warren/internal/render"
	"github.com/burrowhq/warren/pkg/memory"
)

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Select the next feature to work on",
	Long: `Select the next eligible feature and emit it as JSON on stdout.

Selection order: the feature already locked (resuming), then the
lowest-priority failing feature, then the lowest-priority untested
feature whose dependencies are all passing. When no eligible work
remains the result is "complete" - or "deadlocked" with the cycle
members when untested features block each other in a dependency cycle.

Pick never mutates the document; the calling orchestrator follows a
"feature" result with 'warren lock'.`,
	Args: cobra.NoArgs,
	RunE: runPick,
}

func init() {
	rootCmd.AddCommand(pickCmd)
}

func runPick(cmd *cobra.Command, args []string) error {
	store := newStore(settings())

	doc, err := store.Load()
	if err != nil {
		return err
	}

	result := memory.Pick(doc)
	return render.JSON(os.Stdout, result)
}
