package history

import "time"

// Status captures the outcome of a run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusRejected  Status = "rejected"
	StatusFailed    Status = "failed"
)

// Run is one row of the ledger.
type Run struct {
	ID             string
	Status         Status
	StartedAt      time.Time
	FinishedAt     time.Time
	SourceDir      string
	FillerDir      string
	PrimaryCount   int
	FillerCount    int
	MatchedCount   int
	OperationCount int
	ProgramLength  int64
	OutputPath     string
	ErrorMessage   string
}

// Elapsed returns the wall-clock duration of a finished run, or zero.
func (r Run) Elapsed() time.Duration {
	if r.StartedAt.IsZero() || r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
