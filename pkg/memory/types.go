package memory

import (
	"fmt"
	"time"
)

// SchemaVersion is written to every new document and checked by the
// validator. Bump only with a migration path for existing documents.
const SchemaVersion = "1"

// Document is the whole persisted state for one unit of coordinated
// work. Exactly one document exists per unit of work; it is created
// once (Init or the task-list importer), mutated in place by many
// worker invocations, and never deleted by this package.
type Document struct {
	Version  string `yaml:"version" json:"version"`   // Schema version, see SchemaVersion
	Revision int64  `yaml:"revision" json:"revision"` // Monotonically increasing write counter
	Goal     Goal   `yaml:"goal" json:"goal"`

	// Features in insertion order. Order is provenance, not priority;
	// scheduling uses the Priority field and status classes.
	Features []*Feature `yaml:"features" json:"features"`

	// Current is the single active lock. At most one feature may be
	// locked at a time.
	Current Current `yaml:"current" json:"current"`

	// Tried is a read-only projection of every feature's Attempts,
	// keyed by feature ID. It is rebuilt from Features on every save so
	// it can never diverge from the per-feature history.
	Tried map[string][]Attempt `yaml:"tried" json:"tried"`

	// Log is the append-only audit trail. Entries are never removed or
	// reordered.
	Log []LogEntry `yaml:"log" json:"log"`

	Tests    TestStats         `yaml:"tests" json:"tests"`
	Metadata map[string]string `yaml:"metadata,omitempty" json:"metadata,omitempty"`

	// LastUpdated is set on every mutation and is monotonically
	// non-decreasing even across clock adjustments.
	LastUpdated time.Time `yaml:"last_updated" json:"last_updated"`
}

// Goal describes the overall objective this document coordinates.
type Goal struct {
	OriginalPrompt string `yaml:"original_prompt" json:"original_prompt"`
}

// Status is the lifecycle state of a feature.
type Status string

const (
	// StatusUntested marks work that has not been attempted yet.
	StatusUntested Status = "untested"

	// StatusPassing marks work that is done and verified.
	StatusPassing Status = "passing"

	// StatusFailing marks work that was attempted and is broken.
	// Failing features always outrank untested ones in scheduling.
	StatusFailing Status = "failing"

	// StatusInProgress marks the feature currently held by the lock.
	StatusInProgress Status = "in_progress"

	// StatusBlocked marks work parked by an operator. Blocked features
	// are never scheduled; they re-enter via an explicit transition
	// back to untested.
	StatusBlocked Status = "blocked"
)

// Statuses lists every valid feature status, in lifecycle order.
func Statuses() []Status {
	return []Status{StatusUntested, StatusPassing, StatusFailing, StatusInProgress, StatusBlocked}
}

// Validate checks if the Status is a valid enum value.
func (s Status) Validate() error {
	switch s {
	case StatusUntested, StatusPassing, StatusFailing, StatusInProgress, StatusBlocked:
		return nil
	default:
		return &InvalidStatusError{Status: string(s)}
	}
}

// LockState is the state of the document-level lock.
type LockState string

const (
	// LockIdle means no feature is being worked on.
	LockIdle LockState = "idle"

	// LockWorking means exactly one feature is held; Current.FeatureID
	// names it and that feature's status is in_progress.
	LockWorking LockState = "working"
)

// Validate checks if the LockState is a valid enum value.
func (ls LockState) Validate() error {
	switch ls {
	case LockIdle, LockWorking:
		return nil
	default:
		return fmt.Errorf("unknown lock state: %q", ls)
	}
}

// Current is the single active lock. When Status is idle, all other
// fields are empty.
type Current struct {
	FeatureID string     `yaml:"feature_id,omitempty" json:"feature_id,omitempty"`
	StartedAt *time.Time `yaml:"started_at,omitempty" json:"started_at,omitempty"`
	Status    LockState  `yaml:"status" json:"status"`

	// Owner identity, recorded so staleness checks can tell a crashed
	// worker apart from a live one.
	Owner    string `yaml:"owner,omitempty" json:"owner,omitempty"`
	OwnerPID int    `yaml:"owner_pid,omitempty" json:"owner_pid,omitempty"`
	LockID   string `yaml:"lock_id,omitempty" json:"lock_id,omitempty"` // UUID minted per acquisition
}

// Feature is one discrete, independently schedulable unit of work.
type Feature struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Status      Status `yaml:"status" json:"status"`

	// Priority tie-breaks within a status class; lower is more urgent.
	// It never lets an untested feature outrank a failing one.
	Priority int `yaml:"priority" json:"priority"`

	// Dependencies must all be passing before this feature is eligible
	// for scheduling.
	Dependencies []string `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`

	Domain string `yaml:"domain,omitempty" json:"domain,omitempty"`

	// LastAttempt is the most recent outcome, overwritten each time.
	LastAttempt *AttemptOutcome `yaml:"last_attempt,omitempty" json:"last_attempt,omitempty"`

	// Attempts is the append-only history used for failure memoization.
	// Workers inspect it before choosing an approach so they don't
	// repeat one already known to fail.
	Attempts []Attempt `yaml:"attempts,omitempty" json:"attempts,omitempty"`
}

// Validate checks if the Feature has valid field values.
func (f *Feature) Validate() error {
	if f.ID == "" {
		return fmt.Errorf("feature ID cannot be empty")
	}
	if f.Name == "" {
		return fmt.Errorf("feature %s: name cannot be empty", f.ID)
	}
	if err := f.Status.Validate(); err != nil {
		return fmt.Errorf("feature %s: %w", f.ID, err)
	}
	return nil
}

// AttemptOutcome records the most recent result for a feature.
type AttemptOutcome struct {
	Timestamp time.Time `yaml:"timestamp" json:"timestamp"`
	Agent     string    `yaml:"agent,omitempty" json:"agent,omitempty"`
	Result    string    `yaml:"result" json:"result"`
	Error     string    `yaml:"error,omitempty" json:"error,omitempty"`
}

// Attempt is one (approach, result) pair in a feature's history.
type Attempt struct {
	Approach  string    `yaml:"approach" json:"approach"`
	Result    string    `yaml:"result" json:"result"`
	Timestamp time.Time `yaml:"timestamp" json:"timestamp"`
}

// LogEntry is one record in the append-only audit log.
type LogEntry struct {
	Timestamp time.Time `yaml:"timestamp" json:"timestamp"`
	Agent     string    `yaml:"agent" json:"agent"`
	Action    string    `yaml:"action" json:"action"`
	Result    string    `yaml:"result" json:"result"`
	FeatureID string    `yaml:"feature_id,omitempty" json:"feature_id,omitempty"`
}

// TestStats holds the aggregate test counters. The store does not parse
// test-runner output itself; an external adapter normalizes framework
// output into this shape and writes it via RecordTests.
type TestStats struct {
	Passing int        `yaml:"passing" json:"passing"`
	Failing int        `yaml:"failing" json:"failing"`
	LastRun *time.Time `yaml:"last_run,omitempty" json:"last_run,omitempty"`
	Command string     `yaml:"command,omitempty" json:"command,omitempty"`
}

// NewDocument creates an empty document for the given goal with an idle
// lock and no features.
func NewDocument(goal string, now time.Time) *Document {
	return &Document{
		Version:     SchemaVersion,
		Revision:    0,
		Goal:        Goal{OriginalPrompt: goal},
		Features:    []*Feature{},
		Current:     Current{Status: LockIdle},
		Tried:       map[string][]Attempt{},
		Log:         []LogEntry{},
		Metadata:    map[string]string{},
		LastUpdated: now,
	}
}

// Feature returns the feature with the given ID, or nil if absent.
func (d *Document) Feature(id string) *Feature {
	for _, f := range d.Features {
		if f.ID == id {
			return f
		}
	}
	return nil
}

// RebuildTried recomputes the Tried projection from the per-feature
// attempt histories. Called on every save so the projection and the
// source of truth cannot diverge.
func (d *Document) RebuildTried() {
	tried := make(map[string][]Attempt, len(d.Features))
	for _, f := range d.Features {
		if len(f.Attempts) > 0 {
			tried[f.ID] = append([]Attempt(nil), f.Attempts...)
		}
	}
	d.Tried = tried
}

// Touch advances LastUpdated to now while keeping it monotonically
// non-decreasing, and bumps the revision counter.
func (d *Document) Touch(now time.Time) {
	if now.After(d.LastUpdated) {
		d.LastUpdated = now
	}
	d.Revision++
}
