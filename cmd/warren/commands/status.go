package commands

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/burrowhq/warren/internal/printer"
	"github.com/burrowhq/warren/internal/render"
	"github.com/burrowhq/warren/pkg/memory"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Summarize the memory document",
	Long: `Summarize the memory document: feature counts per status, the
current lock holder, aggregate test counters, and recent activity.

Status is read-only and safe to run while a worker holds the lock; it
may observe a snapshot that is already being superseded.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "emit the summary as JSON")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	s := settings()
	store := newStore(s)

	doc, err := store.Load()
	if err != nil {
		var notFound *memory.NotFoundError
		if errors.As(err, &notFound) {
			return printer.Error(
				err.Error(),
				"No memory document exists at the configured path.",
				[]string{
					fmt.Sprintf("Create one:\n  warren init -f %s", s.MemoryFile),
					"Or import an existing checklist:\n  warren generate-from-tasks <checklist>",
				},
			)
		}
		return err
	}

	summary := memory.Summarize(doc, time.Now().UTC(), s.StaleAfter)
	if statusJSON {
		return render.JSON(os.Stdout, summary)
	}

	render.Summary(os.Stdout, s.MemoryFile, summary)
	return nil
}
