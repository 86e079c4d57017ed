package driving

import (
	"context"

	"github.com/sindhuchary/alveo-uima/internal/core/domain"
)

// AnnotationUploader runs one upload cycle per document. The
// surrounding driver calls ProcessDocument once per document,
// sequentially; an uploader instance must not be shared across
// concurrent cycles.
type AnnotationUploader interface {
	// ProcessDocument synchronises one document's annotations with its
	// remote item. An unchanged document yields an empty delta and a
	// successful no-op cycle.
	ProcessDocument(ctx context.Context, doc *domain.Document) (*UploadReport, error)
}

// UploadReport summarises one upload cycle.
type UploadReport struct {
	// ItemURI is the remote item the cycle ran against.
	ItemURI string

	// Considered is the number of pipeline annotations examined.
	Considered int

	// Skipped is the number excluded by the eligibility filter or by
	// deduplication against the baseline.
	Skipped int

	// Uploaded is the number of annotations submitted.
	Uploaded int

	// Chunks is the number of batch submissions made.
	Chunks int
}
