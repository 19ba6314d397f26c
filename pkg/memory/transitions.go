package memory

// transitions is the allowed (from -> to) table for feature status
// changes. Re-opening passing or blocked work always goes through
// untested; only the lock path (and a worker resuming under it) may
// move a feature to in_progress.
var transitions = map[Status][]Status{
	StatusUntested:   {StatusInProgress, StatusBlocked},
	StatusInProgress: {StatusPassing, StatusFailing, StatusBlocked, StatusUntested},
	StatusFailing:    {StatusInProgress, StatusPassing, StatusBlocked},
	StatusPassing:    {StatusFailing, StatusUntested},
	StatusBlocked:    {StatusUntested},
}

// CanTransition reports whether a feature may move from one status to
// another. Self-transitions are permitted so repeated writes of the
// same outcome stay idempotent.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
