package domain

import "time"

// SyncPlan lists the business days that need to be fetched, oldest first.
type SyncPlan struct {
	LatestStored time.Time   // Latest stored date, or the synthetic lower bound when storage was empty
	HasStored    bool        // False when LatestStored is synthetic
	Today        time.Time   // Calendar date the plan was computed for
	MissingDates []time.Time // Weekdays in (LatestStored, Today]
}

// IsEmpty reports whether there is nothing to fetch.
func (p SyncPlan) IsEmpty() bool {
	return len(p.MissingDates) == 0
}

// SyncStepStatus is the progress state of a single sync step.
type SyncStepStatus string

const (
	SyncStepPending    SyncStepStatus = "pending"
	SyncStepInProgress SyncStepStatus = "in-progress"
	SyncStepDone       SyncStepStatus = "done"
	SyncStepFailed     SyncStepStatus = "failed"
)

// SyncStep is one entry of the progress report of a sync run.
type SyncStep struct {
	Step   int
	Name   string
	Status SyncStepStatus
	Detail string
	Error  string
}

// SyncRunResult summarizes one execution of the sync workflow.
//
// Success is false only for precondition failures or unexpected errors; dates
// that could not be fetched or written are listed in FailedDates regardless.
type SyncRunResult struct {
	Success     bool
	Steps       []SyncStep
	Summary     string
	Error       string
	FailedDates []time.Time
	Planned     int
	Inserted    int
	Updated     int
	Skipped     int // Business days with no published rates (holidays)
}
