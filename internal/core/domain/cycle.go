package domain

import "time"

// CycleStatus classifies the outcome of one upload cycle.
type CycleStatus string

const (
	// CycleSucceeded means the whole delta was uploaded (or was empty).
	CycleSucceeded CycleStatus = "succeeded"

	// CycleFailed means the cycle aborted. Chunks uploaded before the
	// failure are not rolled back, so the remote item may hold a
	// prefix of the intended delta.
	CycleFailed CycleStatus = "failed"
)

// CycleRecord is the journal entry for one upload cycle against one
// remote item.
type CycleRecord struct {
	// ID is a unique identifier for the cycle.
	ID string

	// ItemURI is the remote item the cycle targeted.
	ItemURI string

	// StartedAt is when the cycle began.
	StartedAt time.Time

	// Uploaded is the number of annotations submitted successfully.
	Uploaded int

	// Chunks is the number of batch submissions that succeeded.
	Chunks int

	// Status records the cycle outcome.
	Status CycleStatus

	// Error holds the failure message for failed cycles.
	Error string
}
