package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/burrowhq/warren/internal/printer"
	"github.com/burrowhq/warren/pkg/memory"
)

var addDependsOn []string

var addFeatureCmd = &cobra.Command{
	Use:   "add-feature <id> <name> [description] [domain] [priority]",
	Short: "Append a feature to the memory document",
	Long: `Append one feature to the memory document.

New features start untested. Priority defaults to one past the current
highest, so new work schedules after everything already tracked; lower
values are more urgent. Dependencies declared with --depends-on must
already be tracked, and must all be passing before the feature becomes
eligible for scheduling.

Examples:
  warren add-feature F010 "Rate limiting"
  warren add-feature F011 "Login UI" "OAuth flow" frontend 2 --depends-on F010`,
	Args: cobra.RangeArgs(2, 5),
	RunE: runAddFeature,
}

func init() {
	addFeatureCmd.Flags().StringSliceVar(&addDependsOn, "depends-on", nil, "feature IDs that must be passing first (repeatable)")
	rootCmd.AddCommand(addFeatureCmd)
}

func runAddFeature(cmd *cobra.Command, args []string) error {
	s := settings()
	store := newStore(s)

	feature := &memory.Feature{
		ID:           args[0],
		Name:         args[1],
		Status:       memory.StatusUntested,
		Dependencies: addDependsOn,
	}
	if len(args) > 2 {
		feature.Description = args[2]
	}
	if len(args) > 3 {
		feature.Domain = args[3]
	}
	if len(args) > 4 {
		priority, err := strconv.Atoi(args[4])
		if err != nil || priority < 1 {
			return printer.Error(
				fmt.Sprintf("invalid priority %q", args[4]),
				"Priority must be a positive integer; lower values are more urgent.",
				nil,
			)
		}
		feature.Priority = priority
	}

	doc, err := store.AddFeature(feature)
	if err != nil {
		return err
	}

	printer.Success("Feature %s added (%d features tracked)\n", feature.ID, len(doc.Features))
	return nil
}
