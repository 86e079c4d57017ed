package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/sindhuchary/alveo-uima/internal/core/domain"
	"github.com/sindhuchary/alveo-uima/internal/core/ports/driven"
	"github.com/sindhuchary/alveo-uima/internal/core/ports/driving"
	"github.com/sindhuchary/alveo-uima/internal/logger"
)

// Ensure ItemListService implements the interface.
var _ driving.ItemListReader = (*ItemListService)(nil)

// ItemListService walks a remote item list and reconstructs each item
// as a local document, so the pipeline can process existing remote
// content.
type ItemListService struct {
	client   driven.ItemClient
	baseline driven.BaselineAdapter

	mu       sync.Mutex
	progress driving.Progress
}

// NewItemListService creates an item list reader.
func NewItemListService(client driven.ItemClient, baseline driven.BaselineAdapter) *ItemListService {
	return &ItemListService{
		client:   client,
		baseline: baseline,
	}
}

// Documents streams the list's items as reconstructed documents.
// Each document carries its own fresh type system so a later upload
// cycle observes a type-system change per pull, never a stale binding.
func (s *ItemListService) Documents(ctx context.Context, listID string) (<-chan *domain.Document, <-chan error) {
	docs := make(chan *domain.Document)
	errs := make(chan error, 1)

	go func() {
		defer close(docs)
		defer close(errs)

		list, err := s.client.ItemList(ctx, listID)
		if err != nil {
			errs <- fmt.Errorf("fetch item list %s: %w", listID, err)
			return
		}
		s.setProgress(0, len(list.ItemURIs))
		logger.Info("item list %s: %d items", listID, len(list.ItemURIs))

		for i, uri := range list.ItemURIs {
			item, err := s.client.ItemByURI(ctx, uri)
			if err != nil {
				errs <- fmt.Errorf("resolve item %s: %w", uri, err)
				return
			}
			doc, err := s.baseline.Reconstruct(ctx, item, domain.NewTypeSystem())
			if err != nil {
				errs <- fmt.Errorf("reconstruct item %s: %w", uri, err)
				return
			}
			select {
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			case docs <- doc:
				s.setProgress(i+1, len(list.ItemURIs))
			}
		}
	}()

	return docs, errs
}

// Progress reports how far the current walk has advanced.
func (s *ItemListService) Progress() driving.Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

func (s *ItemListService) setProgress(fetched, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress = driving.Progress{Fetched: fetched, Total: total}
}
