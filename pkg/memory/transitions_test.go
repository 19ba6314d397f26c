package memory

import "testing"

// TestCanTransition tests the status transition table
func TestCanTransition(t *testing.T) {
	testCases := []struct {
		name    string
		from    Status
		to      Status
		allowed bool
	}{
		{"start work", StatusUntested, StatusInProgress, true},
		{"park new work", StatusUntested, StatusBlocked, true},
		{"finish passing", StatusInProgress, StatusPassing, true},
		{"finish failing", StatusInProgress, StatusFailing, true},
		{"abandon work", StatusInProgress, StatusUntested, true},
		{"retry broken work", StatusFailing, StatusInProgress, true},
		{"fix confirmed externally", StatusFailing, StatusPassing, true},
		{"regression found", StatusPassing, StatusFailing, true},
		{"reopen finished work", StatusPassing, StatusUntested, true},
		{"unpark", StatusBlocked, StatusUntested, true},

		{"no restart without reopen", StatusPassing, StatusInProgress, false},
		{"no direct pass", StatusUntested, StatusPassing, false},
		{"no direct fail", StatusUntested, StatusFailing, false},
		{"blocked cannot start", StatusBlocked, StatusInProgress, false},
		{"blocked cannot pass", StatusBlocked, StatusPassing, false},

		{"self transition idempotent", StatusFailing, StatusFailing, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanTransition(tc.from, tc.to); got != tc.allowed {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.allowed)
			}
		})
	}
}
