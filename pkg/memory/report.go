package memory

import "time"

// recentLogEntries is how many trailing log entries a summary carries.
const recentLogEntries = 3

// Summary is the read-only aggregation backing the status command.
type Summary struct {
	GoalPrompt  string         `json:"goal_prompt,omitempty" yaml:"goal_prompt,omitempty"`
	Revision    int64          `json:"revision" yaml:"revision"`
	LastUpdated time.Time      `json:"last_updated" yaml:"last_updated"`
	Total       int            `json:"total_features" yaml:"total_features"`
	ByStatus    map[Status]int `json:"by_status" yaml:"by_status"`
	Lock        LockSummary    `json:"lock" yaml:"lock"`
	Tests       TestStats      `json:"tests" yaml:"tests"`
	RecentLog   []LogEntry     `json:"recent_log,omitempty" yaml:"recent_log,omitempty"`
}

// LockSummary describes the current work lock for human output.
type LockSummary struct {
	State     LockState     `json:"state" yaml:"state"`
	FeatureID string        `json:"feature_id,omitempty" yaml:"feature_id,omitempty"`
	Owner     string        `json:"owner,omitempty" yaml:"owner,omitempty"`
	Age       time.Duration `json:"age,omitempty" yaml:"age,omitempty"`

	// Stale flags a lock held longer than the configured threshold. It
	// is advisory only; nothing evicts the lock automatically.
	Stale bool `json:"stale,omitempty" yaml:"stale,omitempty"`
}

// Summarize aggregates the document for human-facing status output.
// Never mutates. staleAfter of zero disables the staleness flag.
func Summarize(doc *Document, now time.Time, staleAfter time.Duration) Summary {
	summary := Summary{
		GoalPrompt:  doc.Goal.OriginalPrompt,
		Revision:    doc.Revision,
		LastUpdated: doc.LastUpdated,
		Total:       len(doc.Features),
		ByStatus:    make(map[Status]int, len(Statuses())),
		Tests:       doc.Tests,
		Lock:        LockSummary{State: doc.Current.Status},
	}
	for _, status := range Statuses() {
		summary.ByStatus[status] = 0
	}
	for _, f := range doc.Features {
		summary.ByStatus[f.Status]++
	}

	if doc.Current.Status == LockWorking {
		summary.Lock.FeatureID = doc.Current.FeatureID
		summary.Lock.Owner = doc.Current.Owner
		if doc.Current.StartedAt != nil {
			summary.Lock.Age = now.Sub(*doc.Current.StartedAt)
			summary.Lock.Stale = staleAfter > 0 && summary.Lock.Age >= staleAfter
		}
	}

	start := len(doc.Log) - recentLogEntries
	if start < 0 {
		start = 0
	}
	summary.RecentLog = append([]LogEntry(nil), doc.Log[start:]...)

	return summary
}
