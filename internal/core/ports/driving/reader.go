package driving

import (
	"context"

	"github.com/sindhuchary/alveo-uima/internal/core/domain"
)

// ItemListReader walks a remote item list and reconstructs each item
// as a local document.
type ItemListReader interface {
	// Documents streams the list's items as documents. The documents
	// channel is closed when the walk completes; a failure is sent on
	// the error channel and ends the walk. Both channels are closed on
	// return of the producer.
	Documents(ctx context.Context, listID string) (<-chan *domain.Document, <-chan error)

	// Progress reports how far the current walk has advanced.
	Progress() Progress
}

// Progress is a snapshot of an item list walk.
type Progress struct {
	// Fetched is the number of items reconstructed so far.
	Fetched int

	// Total is the number of items in the list.
	Total int
}
