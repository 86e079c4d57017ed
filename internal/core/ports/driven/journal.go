package driven

import (
	"context"

	"github.com/sindhuchary/alveo-uima/internal/core/domain"
)

// UploadJournal persists the outcome of upload cycles. The journal is
// bookkeeping only: the engine's deduplication never consults it, and
// journal write failures must not fail a cycle.
type UploadJournal interface {
	// RecordCycle appends one cycle record.
	RecordCycle(ctx context.Context, rec domain.CycleRecord) error

	// History returns the recorded cycles for an item, newest first.
	// An empty itemURI returns all records.
	History(ctx context.Context, itemURI string) ([]domain.CycleRecord, error)
}
