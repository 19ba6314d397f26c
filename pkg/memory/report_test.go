package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize_CountsAndLock(t *testing.T) {
	now := time.Now().UTC()
	started := now.Add(-45 * time.Minute)

	doc := NewDocument("goal", now)
	doc.Features = []*Feature{
		{ID: "F001", Name: "a", Status: StatusPassing, Priority: 1},
		{ID: "F002", Name: "b", Status: StatusPassing, Priority: 2},
		{ID: "F003", Name: "c", Status: StatusFailing, Priority: 3},
		{ID: "F004", Name: "d", Status: StatusInProgress, Priority: 4},
	}
	doc.Current = Current{FeatureID: "F004", StartedAt: &started, Status: LockWorking, Owner: "worker-9"}

	summary := Summarize(doc, now, 30*time.Minute)

	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 2, summary.ByStatus[StatusPassing])
	assert.Equal(t, 1, summary.ByStatus[StatusFailing])
	assert.Equal(t, 1, summary.ByStatus[StatusInProgress])
	assert.Equal(t, 0, summary.ByStatus[StatusUntested])

	assert.Equal(t, LockWorking, summary.Lock.State)
	assert.Equal(t, "F004", summary.Lock.FeatureID)
	assert.Equal(t, "worker-9", summary.Lock.Owner)
	assert.True(t, summary.Lock.Stale, "a 45m lock is stale at a 30m threshold")
}

func TestSummarize_RecentLogIsLastThree(t *testing.T) {
	now := time.Now().UTC()
	doc := NewDocument("goal", now)
	for _, action := range []string{"one", "two", "three", "four", "five"} {
		doc.Log = append(doc.Log, LogEntry{Timestamp: now, Agent: "a", Action: action, Result: "ok"})
	}

	summary := Summarize(doc, now, 0)
	require.Len(t, summary.RecentLog, 3)
	assert.Equal(t, "three", summary.RecentLog[0].Action)
	assert.Equal(t, "five", summary.RecentLog[2].Action)
}

func TestSummarize_FreshLockNotStale(t *testing.T) {
	now := time.Now().UTC()
	started := now.Add(-time.Minute)
	doc := NewDocument("goal", now)
	doc.Features = []*Feature{{ID: "F001", Name: "a", Status: StatusInProgress, Priority: 1}}
	doc.Current = Current{FeatureID: "F001", StartedAt: &started, Status: LockWorking}

	summary := Summarize(doc, now, 30*time.Minute)
	assert.False(t, summary.Lock.Stale)

	// Zero threshold disables the staleness flag entirely.
	summary = Summarize(doc, now, 0)
	assert.False(t, summary.Lock.Stale)
}
