package memory

import "fmt"

// Validate checks the structural invariants of a loaded document
// without mutating it. It returns every problem found rather than
// stopping at the first, so callers can report all of them at once; an
// empty slice means the document is valid.
func (d *Document) Validate() []error {
	var problems []error

	if d.Version == "" {
		problems = append(problems, fmt.Errorf("version is missing"))
	}
	if d.Revision < 0 {
		problems = append(problems, fmt.Errorf("revision must not be negative, got %d", d.Revision))
	}

	seen := make(map[string]bool, len(d.Features))
	for i, f := range d.Features {
		if f.ID == "" {
			problems = append(problems, fmt.Errorf("feature at index %d has an empty ID", i))
			continue
		}
		if seen[f.ID] {
			problems = append(problems, fmt.Errorf("duplicate feature ID %s", f.ID))
		}
		seen[f.ID] = true

		if err := f.Status.Validate(); err != nil {
			problems = append(problems, fmt.Errorf("feature %s: %w", f.ID, err))
		}
		for _, depID := range f.Dependencies {
			if d.Feature(depID) == nil {
				problems = append(problems, fmt.Errorf("feature %s depends on unknown feature %s", f.ID, depID))
			}
		}
	}

	if err := d.Current.Status.Validate(); err != nil {
		problems = append(problems, err)
	}
	switch d.Current.Status {
	case LockWorking:
		if d.Current.FeatureID == "" {
			problems = append(problems, fmt.Errorf("lock is working but feature_id is empty"))
		} else if f := d.Feature(d.Current.FeatureID); f == nil {
			problems = append(problems, fmt.Errorf("lock holds unknown feature %s", d.Current.FeatureID))
		} else if f.Status != StatusInProgress {
			problems = append(problems, fmt.Errorf("locked feature %s has status %s, want %s",
				f.ID, f.Status, StatusInProgress))
		}
	case LockIdle:
		if d.Current.FeatureID != "" {
			problems = append(problems, fmt.Errorf("lock is idle but feature_id is %s", d.Current.FeatureID))
		}
	}

	for id, attempts := range d.Tried {
		f := d.Feature(id)
		if f == nil {
			problems = append(problems, fmt.Errorf("tried index references unknown feature %s", id))
			continue
		}
		if len(attempts) != len(f.Attempts) {
			problems = append(problems, fmt.Errorf("tried index for %s has %d attempts, feature has %d",
				id, len(attempts), len(f.Attempts)))
		}
	}

	return problems
}
