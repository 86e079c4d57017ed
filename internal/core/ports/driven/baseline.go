package driven

import (
	"context"

	"github.com/sindhuchary/alveo-uima/internal/core/domain"
)

// BaselineAdapter reconstructs a remote item's existing content as a
// local document, so the engine can compare the pipeline's output
// against what the remote store already holds.
type BaselineAdapter interface {
	// Reconstruct populates a fresh document with the item's text and
	// annotations. Reconstructed annotations use types defined in ts
	// (defining them on demand), so converting them with a chain bound
	// to ts reproduces each annotation's canonical form exactly.
	Reconstruct(ctx context.Context, item Item, ts *domain.TypeSystem) (*domain.Document, error)
}
