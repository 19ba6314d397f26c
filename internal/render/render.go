// Package render formats store output for humans and for the calling
// orchestrator. Tables are for terminals; JSON is the machine contract.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/burrowhq/warren/pkg/memory"
)

// JSON writes v as pretty-printed JSON followed by a newline.
func JSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON output: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

// Summary writes a human-readable document summary: per-status feature
// counts, the lock holder, test counters, and the most recent activity.
func Summary(w io.Writer, path string, s memory.Summary) {
	fmt.Fprintf(w, "Memory document: %s (revision %d, updated %s)\n", path, s.Revision, s.LastUpdated.Format(time.RFC3339))
	if s.GoalPrompt != "" {
		fmt.Fprintf(w, "Goal: %s\n", s.GoalPrompt)
	}
	fmt.Fprintln(w)

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Status", "Features"})
	for _, status := range memory.Statuses() {
		tw.AppendRow(table.Row{string(status), s.ByStatus[status]})
	}
	tw.AppendFooter(table.Row{"total", s.Total})
	tw.Render()
	fmt.Fprintln(w)

	switch s.Lock.State {
	case memory.LockWorking:
		line := fmt.Sprintf("Lock: working on %s", s.Lock.FeatureID)
		if s.Lock.Owner != "" {
			line += fmt.Sprintf(" (owner %s)", s.Lock.Owner)
		}
		if s.Lock.Age > 0 {
			line += fmt.Sprintf(", held for %s", s.Lock.Age.Round(time.Second))
		}
		if s.Lock.Stale {
			line += " [STALE]"
		}
		fmt.Fprintln(w, line)
	default:
		fmt.Fprintln(w, "Lock: idle")
	}

	if s.Tests.LastRun != nil {
		fmt.Fprintf(w, "Tests: %d passing, %d failing (last run %s)\n",
			s.Tests.Passing, s.Tests.Failing, s.Tests.LastRun.Format(time.RFC3339))
	} else {
		fmt.Fprintln(w, "Tests: not recorded")
	}

	if len(s.RecentLog) > 0 {
		fmt.Fprintln(w, "\nRecent activity:")
		for _, entry := range s.RecentLog {
			LogEntry(w, entry)
		}
	}
}

// LogEntry writes one audit-log entry as a single line.
func LogEntry(w io.Writer, entry memory.LogEntry) {
	line := fmt.Sprintf("  %s  %s  %s: %s",
		entry.Timestamp.Format(time.RFC3339), entry.Agent, entry.Action, entry.Result)
	if entry.FeatureID != "" {
		line += fmt.Sprintf(" [%s]", entry.FeatureID)
	}
	fmt.Fprintln(w, line)
}
