package alveo

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/sindhuchary/alveo-uima/internal/core/domain"
	"github.com/sindhuchary/alveo-uima/internal/core/ports/driven"
)

// Ensure BaselineAdapter implements the interface.
var _ driven.BaselineAdapter = (*BaselineAdapter)(nil)

// BaselineAdapter rebuilds a remote item as a local document. Each
// remote annotation becomes a generic item annotation whose label and
// annType features carry the remote values, so converting the
// reconstruction through the default converter reproduces the
// original canonical form exactly.
type BaselineAdapter struct {
	includeText bool
}

// NewBaselineAdapter creates a baseline adapter. includeText controls
// whether the item's primary text is fetched; the upload engine's
// comparison never reads it, so the extra request can be skipped.
func NewBaselineAdapter(includeText bool) *BaselineAdapter {
	return &BaselineAdapter{includeText: includeText}
}

// Reconstruct populates a fresh document from the item's remote state.
func (b *BaselineAdapter) Reconstruct(ctx context.Context, remote driven.Item, ts *domain.TypeSystem) (*domain.Document, error) {
	if remote == nil || ts == nil {
		return nil, domain.ErrInvalidInput
	}

	itemType, err := domain.EnsureItemAnnotationType(ts)
	if err != nil {
		return nil, fmt.Errorf("define item annotation type: %w", err)
	}

	doc := &domain.Document{
		ID:          uuid.New().String(),
		SourceURI:   remote.URI(),
		TypeSystem:  ts,
		Annotations: domain.NewAnnotationStore(),
		Metadata:    remote.Metadata(),
	}

	if b.includeText {
		text, err := remote.PrimaryText(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch primary text: %w", err)
		}
		doc.Text = text
	}

	anns, err := remote.Annotations(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch annotations: %w", err)
	}
	for _, ra := range anns {
		doc.Annotations.Add(&domain.Annotation{
			Type:  itemType,
			Begin: ra.Start,
			End:   ra.End,
			Features: map[string]string{
				domain.ItemAnnotationLabelFeature: ra.Label,
				domain.ItemAnnotationTypeFeature:  ra.TypeURI,
			},
		})
	}

	return doc, nil
}
