package driven

import (
	"context"

	"github.com/sindhuchary/alveo-uima/internal/core/domain"
)

// ItemClient is the remote annotation store's API surface as seen by
// the core. Implementations own transport, authentication and
// throttling.
type ItemClient interface {
	// ItemByURI resolves a remote item by its catalog URI.
	// Returns domain.ErrItemNotFound or domain.ErrUnauthorized on
	// resolution failure.
	ItemByURI(ctx context.Context, uri string) (Item, error)

	// ItemList fetches a named item list.
	ItemList(ctx context.Context, listID string) (*ItemList, error)
}

// Item is a handle on one remote item.
type Item interface {
	// URI returns the item's catalog URI.
	URI() string

	// PrimaryText fetches the item's primary text.
	PrimaryText(ctx context.Context) (string, error)

	// Annotations fetches the item's current annotation set in
	// canonical form.
	Annotations(ctx context.Context) ([]domain.RemoteAnnotation, error)

	// Metadata returns the item's catalog metadata.
	Metadata() map[string]string

	// StoreAnnotations submits new annotations to the item. One call
	// is one independent remote write; callers are responsible for
	// chunking. Failures map to domain.ErrItemNotFound,
	// domain.ErrUploadIntegrity or domain.ErrInvalidAnnotation.
	StoreAnnotations(ctx context.Context, anns []domain.RemoteAnnotation) error
}

// ItemList is a named collection of item URIs on the remote store.
type ItemList struct {
	// ID is the list identifier used for lookup.
	ID string

	// Name is the human-readable list name.
	Name string

	// ItemURIs are the catalog URIs of the member items, in list order.
	ItemURIs []string
}
