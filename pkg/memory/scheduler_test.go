package memory

import (
	"testing"
	"time"
)

func docWithFeatures(features ...*Feature) *Document {
	doc := NewDocument("test goal", time.Now().UTC())
	doc.Features = features
	return doc
}

// TestPick_ResumesLockedFeature tests that a working lock always wins
func TestPick_ResumesLockedFeature(t *testing.T) {
	doc := docWithFeatures(
		&Feature{ID: "F001", Name: "a", Status: StatusFailing, Priority: 1},
		&Feature{ID: "F002", Name: "b", Status: StatusInProgress, Priority: 2},
	)
	now := time.Now().UTC()
	doc.Current = Current{FeatureID: "F002", StartedAt: &now, Status: LockWorking}

	for i := 0; i < 3; i++ {
		result := Pick(doc)
		if result.Result != PickFeature || result.Feature.ID != "F002" {
			t.Fatalf("pick %d: expected to resume F002, got %+v", i, result)
		}
	}
}

// TestPick_FailingBeatsUntested tests the regression-fix-first policy
// across status classes regardless of priority
func TestPick_FailingBeatsUntested(t *testing.T) {
	doc := docWithFeatures(
		&Feature{ID: "F001", Name: "a", Status: StatusUntested, Priority: 1},
		&Feature{ID: "F002", Name: "b", Status: StatusFailing, Priority: 2},
	)

	result := Pick(doc)
	if result.Result != PickFeature || result.Feature.ID != "F002" {
		t.Fatalf("expected failing F002 to beat untested F001, got %+v", result)
	}
}

// TestPick_LowestPriorityWithinClass tests the priority tie-break
func TestPick_LowestPriorityWithinClass(t *testing.T) {
	doc := docWithFeatures(
		&Feature{ID: "F001", Name: "a", Status: StatusFailing, Priority: 5},
		&Feature{ID: "F002", Name: "b", Status: StatusFailing, Priority: 2},
		&Feature{ID: "F003", Name: "c", Status: StatusFailing, Priority: 9},
	)

	result := Pick(doc)
	if result.Feature == nil || result.Feature.ID != "F002" {
		t.Fatalf("expected lowest-priority failing feature F002, got %+v", result)
	}
}

// TestPick_EqualPriorityUsesDocumentOrder tests deterministic ties
func TestPick_EqualPriorityUsesDocumentOrder(t *testing.T) {
	doc := docWithFeatures(
		&Feature{ID: "F001", Name: "a", Status: StatusUntested, Priority: 1},
		&Feature{ID: "F002", Name: "b", Status: StatusUntested, Priority: 1},
	)

	result := Pick(doc)
	if result.Feature == nil || result.Feature.ID != "F001" {
		t.Fatalf("expected first-inserted feature on priority tie, got %+v", result)
	}
}

// TestPick_SkipsUnmetDependencies tests that untested features wait for
// their dependencies to pass
func TestPick_SkipsUnmetDependencies(t *testing.T) {
	doc := docWithFeatures(
		&Feature{ID: "F001", Name: "a", Status: StatusUntested, Priority: 1, Dependencies: []string{"F003"}},
		&Feature{ID: "F002", Name: "b", Status: StatusUntested, Priority: 2, Dependencies: []string{"F004"}},
		&Feature{ID: "F003", Name: "c", Status: StatusUntested, Priority: 3},
		&Feature{ID: "F004", Name: "d", Status: StatusPassing, Priority: 4},
	)

	result := Pick(doc)
	if result.Feature == nil || result.Feature.ID != "F002" {
		t.Fatalf("expected F002 (dependency passing), got %+v", result)
	}
}

// TestPick_DanglingDependencyNeverEligible tests that an unknown
// dependency ID counts as unmet
func TestPick_DanglingDependencyNeverEligible(t *testing.T) {
	doc := docWithFeatures(
		&Feature{ID: "F001", Name: "a", Status: StatusUntested, Priority: 1, Dependencies: []string{"F999"}},
	)

	result := Pick(doc)
	if result.Result != PickComplete {
		t.Fatalf("expected complete for dangling dependency, got %+v", result)
	}
}

// TestPick_BlockedNeverSelected tests that blocked features require an
// explicit transition to re-enter scheduling
func TestPick_BlockedNeverSelected(t *testing.T) {
	doc := docWithFeatures(
		&Feature{ID: "F001", Name: "a", Status: StatusBlocked, Priority: 1},
	)

	result := Pick(doc)
	if result.Result != PickComplete {
		t.Fatalf("expected complete when only blocked work remains, got %+v", result)
	}
}

// TestPick_Complete tests the completion sentinel
func TestPick_Complete(t *testing.T) {
	doc := docWithFeatures(
		&Feature{ID: "F001", Name: "a", Status: StatusPassing, Priority: 1},
		&Feature{ID: "F002", Name: "b", Status: StatusPassing, Priority: 2},
	)

	result := Pick(doc)
	if result.Result != PickComplete {
		t.Fatalf("expected complete, got %+v", result)
	}
}

// TestPick_DetectsDependencyCycle tests that a cycle among untested
// features is reported as deadlocked, not complete
func TestPick_DetectsDependencyCycle(t *testing.T) {
	doc := docWithFeatures(
		&Feature{ID: "F001", Name: "a", Status: StatusUntested, Priority: 1, Dependencies: []string{"F002"}},
		&Feature{ID: "F002", Name: "b", Status: StatusUntested, Priority: 2, Dependencies: []string{"F003"}},
		&Feature{ID: "F003", Name: "c", Status: StatusUntested, Priority: 3, Dependencies: []string{"F001"}},
	)

	result := Pick(doc)
	if result.Result != PickDeadlocked {
		t.Fatalf("expected deadlocked, got %+v", result)
	}
	if len(result.Cycle) != 3 {
		t.Fatalf("expected 3 cycle members, got %v", result.Cycle)
	}
	members := map[string]bool{}
	for _, id := range result.Cycle {
		members[id] = true
	}
	for _, id := range []string{"F001", "F002", "F003"} {
		if !members[id] {
			t.Errorf("cycle missing %s: %v", id, result.Cycle)
		}
	}
}

// TestPick_SelfCycle tests the degenerate self-dependency case
func TestPick_SelfCycle(t *testing.T) {
	doc := docWithFeatures(
		&Feature{ID: "F001", Name: "a", Status: StatusUntested, Priority: 1, Dependencies: []string{"F001"}},
	)

	result := Pick(doc)
	if result.Result != PickDeadlocked {
		t.Fatalf("expected deadlocked for self-dependency, got %+v", result)
	}
	if len(result.Cycle) != 1 || result.Cycle[0] != "F001" {
		t.Fatalf("expected cycle [F001], got %v", result.Cycle)
	}
}

// TestPick_EligibleWorkBeatsCycleReport tests that a cycle elsewhere in
// the graph does not hide schedulable work
func TestPick_EligibleWorkBeatsCycleReport(t *testing.T) {
	doc := docWithFeatures(
		&Feature{ID: "F001", Name: "a", Status: StatusUntested, Priority: 1, Dependencies: []string{"F002"}},
		&Feature{ID: "F002", Name: "b", Status: StatusUntested, Priority: 2, Dependencies: []string{"F001"}},
		&Feature{ID: "F003", Name: "c", Status: StatusUntested, Priority: 3},
	)

	result := Pick(doc)
	if result.Result != PickFeature || result.Feature.ID != "F003" {
		t.Fatalf("expected F003 despite cycle between F001/F002, got %+v", result)
	}
}

// TestPick_NeverReturnsUnmetDependency is the property test: pick never
// selects a feature whose dependencies are not all passing
func TestPick_NeverReturnsUnmetDependency(t *testing.T) {
	doc := docWithFeatures(
		&Feature{ID: "F001", Name: "a", Status: StatusUntested, Priority: 1, Dependencies: []string{"F002", "F003"}},
		&Feature{ID: "F002", Name: "b", Status: StatusPassing, Priority: 2},
		&Feature{ID: "F003", Name: "c", Status: StatusBlocked, Priority: 3},
	)

	result := Pick(doc)
	if result.Result == PickFeature {
		for _, depID := range result.Feature.Dependencies {
			dep := doc.Feature(depID)
			if dep == nil || dep.Status != StatusPassing {
				t.Fatalf("picked %s with unmet dependency %s", result.Feature.ID, depID)
			}
		}
	}
}
