package memory

import (
	"testing"
	"time"
)

// TestStatusValidate_Valid tests that every declared status passes validation
func TestStatusValidate_Valid(t *testing.T) {
	for _, status := range Statuses() {
		if err := status.Validate(); err != nil {
			t.Errorf("valid status %q failed validation: %v", status, err)
		}
	}
}

// TestStatusValidate_Invalid tests that unknown statuses fail validation
func TestStatusValidate_Invalid(t *testing.T) {
	testCases := []string{"", "done", "DONE", "not_a_real_status", "Passing"}

	for _, tc := range testCases {
		if err := Status(tc).Validate(); err == nil {
			t.Errorf("expected validation to fail for status %q, but it passed", tc)
		}
	}
}

// TestLockStateValidate tests lock state enum membership
func TestLockStateValidate(t *testing.T) {
	if err := LockIdle.Validate(); err != nil {
		t.Errorf("idle failed validation: %v", err)
	}
	if err := LockWorking.Validate(); err != nil {
		t.Errorf("working failed validation: %v", err)
	}
	if err := LockState("busy").Validate(); err == nil {
		t.Error("expected validation to fail for unknown lock state, but it passed")
	}
}

// TestFeatureValidate tests feature field validation
func TestFeatureValidate(t *testing.T) {
	valid := &Feature{ID: "F001", Name: "Add login", Status: StatusUntested, Priority: 1}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid feature failed validation: %v", err)
	}

	noID := &Feature{Name: "Add login", Status: StatusUntested}
	if err := noID.Validate(); err == nil {
		t.Error("expected validation to fail for empty ID, but it passed")
	}

	badStatus := &Feature{ID: "F001", Name: "Add login", Status: Status("done")}
	if err := badStatus.Validate(); err == nil {
		t.Error("expected validation to fail for unknown status, but it passed")
	}
}

// TestRebuildTried tests that the tried index is an exact projection of
// per-feature attempt histories
func TestRebuildTried(t *testing.T) {
	now := time.Now().UTC()
	doc := NewDocument("goal", now)
	doc.Features = []*Feature{
		{ID: "F001", Name: "a", Status: StatusUntested, Priority: 1, Attempts: []Attempt{
			{Approach: "async pattern", Result: "Failed: race condition", Timestamp: now},
			{Approach: "mutex", Result: "passed", Timestamp: now},
		}},
		{ID: "F002", Name: "b", Status: StatusUntested, Priority: 2},
	}
	// Poison the projection to prove it gets rebuilt.
	doc.Tried = map[string][]Attempt{"F999": {{Approach: "stale", Result: "stale", Timestamp: now}}}

	doc.RebuildTried()

	if len(doc.Tried) != 1 {
		t.Fatalf("expected 1 tried entry, got %d", len(doc.Tried))
	}
	if got := len(doc.Tried["F001"]); got != 2 {
		t.Errorf("expected 2 attempts for F001, got %d", got)
	}
	if _, ok := doc.Tried["F002"]; ok {
		t.Error("feature without attempts should not appear in tried index")
	}
}

// TestTouch_MonotonicLastUpdated tests that last_updated never goes backwards
func TestTouch_MonotonicLastUpdated(t *testing.T) {
	future := time.Now().UTC().Add(time.Hour)
	doc := NewDocument("goal", future)

	doc.Touch(time.Now().UTC()) // a clock that jumped backwards

	if doc.LastUpdated.Before(future) {
		t.Errorf("last_updated went backwards: %v < %v", doc.LastUpdated, future)
	}
	if doc.Revision != 1 {
		t.Errorf("expected revision 1 after one touch, got %d", doc.Revision)
	}
}
