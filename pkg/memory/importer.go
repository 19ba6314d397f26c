package memory

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"time"
)

// taskLinePattern matches one checklist entry: a checkbox, an optional
// identifier with a colon, and a title. Examples:
//
//	- [ ] T001: Add login
//	- [x] T002: Add logout
//	- [!] T003: Fix session expiry
var taskLinePattern = regexp.MustCompile(`^\s*-\s*\[([ xX!])\]\s*(?:([A-Za-z][A-Za-z0-9_-]*):\s*)?(.+?)\s*$`)

// ParseTaskList reads a line-oriented checklist and converts every
// matching entry into a feature. Checkbox state maps to initial status:
// checked is passing, bang is failing, unchecked is untested. Features
// get stable F-prefixed IDs and strictly increasing priority in
// document order, starting at 1; the checklist's own identifier is
// preserved in the description.
//
// Lines that do not match the checkbox pattern are ignored, so headings
// and prose in the checklist are harmless.
func ParseTaskList(r io.Reader) ([]*Feature, error) {
	var features []*Feature

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		m := taskLinePattern.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		box, taskID, title := m[1], m[2], m[3]

		status := StatusUntested
		switch box {
		case "x", "X":
			status = StatusPassing
		case "!":
			status = StatusFailing
		}

		n := len(features) + 1
		feature := &Feature{
			ID:       fmt.Sprintf("F%03d", n),
			Name:     title,
			Status:   status,
			Priority: n,
		}
		if taskID != "" {
			feature.Description = fmt.Sprintf("Imported from task %s", taskID)
		}
		features = append(features, feature)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read task list: %w", err)
	}
	if len(features) == 0 {
		return nil, fmt.Errorf("no checklist entries found (expected lines like \"- [ ] T001: title\")")
	}
	return features, nil
}

// ImportTaskList builds a brand-new document from an externally
// authored checklist. Import is deliberately not idempotent or
// mergeable: it fails with AlreadyExistsError, writing nothing, when a
// document already exists at the store's path.
func (s *Store) ImportTaskList(r io.Reader, source string) (*Document, error) {
	features, err := ParseTaskList(r)
	if err != nil {
		return nil, err
	}

	return s.create("generate-from-tasks", func(now time.Time) (*Document, error) {
		doc := NewDocument(fmt.Sprintf("Imported from %s", source), now)
		doc.Features = features
		doc.Metadata["source"] = source
		doc.Metadata["migrated_at"] = now.Format(time.RFC3339)
		doc.Log = append(doc.Log, LogEntry{
			Timestamp: now,
			Agent:     "migration",
			Action:    "migrated_from_tasks",
			Result:    fmt.Sprintf("imported %d features from %s", len(features), source),
		})
		return doc, nil
	})
}
