package memory

// PickOutcome classifies the scheduler's decision.
type PickOutcome string

const (
	// PickFeature means a feature was selected and should be locked.
	PickFeature PickOutcome = "feature"

	// PickComplete means no eligible work remains.
	PickComplete PickOutcome = "complete"

	// PickDeadlocked means unfinished untested work remains but a
	// dependency cycle keeps all of it ineligible forever. Reported
	// distinctly so the orchestrator never mistakes a wedged document
	// for a finished one.
	PickDeadlocked PickOutcome = "deadlocked"
)

// PickResult is the scheduler's answer, serialized as-is for the
// calling orchestrator.
type PickResult struct {
	Result  PickOutcome `json:"result" yaml:"result"`
	Feature *Feature    `json:"feature,omitempty" yaml:"feature,omitempty"`

	// Cycle lists the feature IDs forming a dependency cycle when
	// Result is deadlocked, in edge order.
	Cycle []string `json:"cycle,omitempty" yaml:"cycle,omitempty"`
}

// Pick selects the next feature to work on. Pure and side-effect-free
// over the document snapshot; the result is re-validated by the Lock
// call that follows, so a stale snapshot is harmless.
//
// Selection order, first match wins:
//  1. The feature already held by the work lock (resuming is
//     idempotent: repeated picks return the same feature).
//  2. The failing feature with the lowest priority. Broken work always
//     outranks new work.
//  3. The untested feature with the lowest priority whose dependencies
//     are all passing.
//  4. Deadlocked, when the remaining untested features form a
//     dependency cycle; otherwise complete.
func Pick(doc *Document) PickResult {
	if doc.Current.Status == LockWorking {
		if f := doc.Feature(doc.Current.FeatureID); f != nil {
			return PickResult{Result: PickFeature, Feature: f}
		}
	}

	if f := lowestPriority(doc, func(f *Feature) bool {
		return f.Status == StatusFailing
	}); f != nil {
		return PickResult{Result: PickFeature, Feature: f}
	}

	if f := lowestPriority(doc, func(f *Feature) bool {
		return f.Status == StatusUntested && dependenciesMet(doc, f)
	}); f != nil {
		return PickResult{Result: PickFeature, Feature: f}
	}

	if cycle := findDependencyCycle(doc); len(cycle) > 0 {
		return PickResult{Result: PickDeadlocked, Cycle: cycle}
	}

	return PickResult{Result: PickComplete}
}

// lowestPriority returns the matching feature with the smallest
// priority value, breaking ties by document (insertion) order.
func lowestPriority(doc *Document, match func(*Feature) bool) *Feature {
	var best *Feature
	for _, f := range doc.Features {
		if !match(f) {
			continue
		}
		if best == nil || f.Priority < best.Priority {
			best = f
		}
	}
	return best
}

// dependenciesMet reports whether every dependency of f is passing.
// Unknown dependency IDs count as unmet, so a feature with a dangling
// reference can never be scheduled.
func dependenciesMet(doc *Document, f *Feature) bool {
	for _, depID := range f.Dependencies {
		dep := doc.Feature(depID)
		if dep == nil || dep.Status != StatusPassing {
			return false
		}
	}
	return true
}

// findDependencyCycle looks for a cycle in the dependency graph
// restricted to untested features. Only untested features matter here:
// anything failing would have been picked already, and blocked features
// wait for an explicit operator transition rather than a dependency.
func findDependencyCycle(doc *Document) []string {
	untested := make(map[string]*Feature)
	for _, f := range doc.Features {
		if f.Status == StatusUntested {
			untested[f.ID] = f
		}
	}
	if len(untested) == 0 {
		return nil
	}

	const (
		unvisited = 0
		inStack   = 1
		done      = 2
	)
	state := make(map[string]int, len(untested))
	var stack []string

	var visit func(id string) []string
	visit = func(id string) []string {
		state[id] = inStack
		stack = append(stack, id)

		for _, depID := range untested[id].Dependencies {
			if _, ok := untested[depID]; !ok {
				continue
			}
			switch state[depID] {
			case inStack:
				// Found a back edge; slice the cycle out of the stack.
				for i, sid := range stack {
					if sid == depID {
						return append([]string(nil), stack[i:]...)
					}
				}
			case unvisited:
				if cycle := visit(depID); cycle != nil {
					return cycle
				}
			}
		}

		stack = stack[:len(stack)-1]
		state[id] = done
		return nil
	}

	// Iterate in document order for a deterministic cycle report.
	for _, f := range doc.Features {
		if f.Status != StatusUntested || state[f.ID] != unvisited {
			continue
		}
		stack = stack[:0]
		if cycle := visit(f.ID); cycle != nil {
			return cycle
		}
	}
	return nil
}
