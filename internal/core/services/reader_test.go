package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sindhuchary/alveo-uima/internal/core/domain"
	"github.com/sindhuchary/alveo-uima/internal/core/ports/driven"
)

func TestItemListService_Documents(t *testing.T) {
	uris := []string{
		"https://app.alveo.edu.au/catalog/cooee/1-001",
		"https://app.alveo.edu.au/catalog/cooee/1-002",
	}
	client := &mockItemClient{
		list: &driven.ItemList{ID: "7", Name: "cooee sample", ItemURIs: uris},
		items: map[string]*mockItem{
			uris[0]: {uri: uris[0], text: "first", anns: []domain.RemoteAnnotation{
				{Start: 0, End: 5, TypeURI: "http://example.org/t/word", Label: "w"},
			}},
			uris[1]: {uri: uris[1], text: "second"},
		},
	}
	svc := NewItemListService(client, &mockBaseline{})

	docsCh, errsCh := svc.Documents(context.Background(), "7")

	var docs []*domain.Document
	for doc := range docsCh {
		docs = append(docs, doc)
	}
	require.NoError(t, <-errsCh)

	require.Len(t, docs, 2)
	assert.Equal(t, uris[0], docs[0].SourceURI)
	assert.Equal(t, 1, docs[0].Annotations.Len())
	assert.Equal(t, uris[1], docs[1].SourceURI)
	assert.Zero(t, docs[1].Annotations.Len())

	progress := svc.Progress()
	assert.Equal(t, 2, progress.Fetched)
	assert.Equal(t, 2, progress.Total)
}

func TestItemListService_ListLookupFailure(t *testing.T) {
	client := &mockItemClient{listErr: domain.ErrNotFound}
	svc := NewItemListService(client, &mockBaseline{})

	docsCh, errsCh := svc.Documents(context.Background(), "missing")

	for range docsCh {
		t.Fatal("no documents expected")
	}
	assert.ErrorIs(t, <-errsCh, domain.ErrNotFound)
}

func TestItemListService_ItemFailureEndsWalk(t *testing.T) {
	uris := []string{"https://app.alveo.edu.au/catalog/cooee/1-001", "https://app.alveo.edu.au/catalog/cooee/1-404"}
	client := &mockItemClient{
		list: &driven.ItemList{ID: "7", ItemURIs: uris},
		items: map[string]*mockItem{
			uris[0]: {uri: uris[0]},
			// second URI missing: lookup returns ErrItemNotFound
		},
	}
	svc := NewItemListService(client, &mockBaseline{})

	docsCh, errsCh := svc.Documents(context.Background(), "7")

	var count int
	for range docsCh {
		count++
	}
	assert.Equal(t, 1, count)
	assert.ErrorIs(t, <-errsCh, domain.ErrItemNotFound)
}
