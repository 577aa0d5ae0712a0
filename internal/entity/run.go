// Package entity holds the persistence-side records of the run ledger.
package entity

import "time"

// RunStatus is the lifecycle state of a pipeline run.
type RunStatus string

const (
	RunStatusRunning RunStatus = "running"
	RunStatusSuccess RunStatus = "success"
	RunStatusError   RunStatus = "error"
)

// Document identifies one source file by content fingerprint. Re-processing
// the same bytes yields the same document row regardless of path.
type Document struct {
	ID        int64
	Path      string
	SHA256    string
	Pages     int
	Chars     int
	CreatedAt time.Time
}

// Run is one pipeline execution against a document. Rows are append-only:
// metrics are written at most once and the terminal status exactly once.
type Run struct {
	ID              int64
	DocumentID      int64
	PipelineVersion string
	Model           string
	StartedAt       time.Time
	EndedAt         *time.Time
	Status          RunStatus
	Error           string

	PromptChars   int
	ResponseChars int
	CacheHit      bool
	RequestID     string
}

// RunSummary is the read model for history reporting.
type RunSummary struct {
	ID            int64
	Status        string
	CacheHit      bool
	PromptChars   int
	ResponseChars int
	Model         string
	StartedAt     *time.Time
	EndedAt       *time.Time
}

// Elapsed returns the run duration, or false when the run has not finished.
func (r RunSummary) Elapsed() (time.Duration, bool) {
	if r.StartedAt == nil || r.EndedAt == nil {
		return 0, false
	}
	return r.EndedAt.Sub(*r.StartedAt), true
}

// CacheStats aggregates cache usage across all runs. HitRate is defined as 0
// when there are no runs.
type CacheStats struct {
	TotalCacheEntries int
	TotalRuns         int
	CacheHits         int
	HitRate           float64
}
