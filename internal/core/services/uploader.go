package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sindhuchary/alveo-uima/internal/core/domain"
	"github.com/sindhuchary/alveo-uima/internal/core/ports/driven"
	"github.com/sindhuchary/alveo-uima/internal/core/ports/driving"
	"github.com/sindhuchary/alveo-uima/internal/logger"
)

// uploadChunkSize bounds one remote write. Large single submissions
// are known to hit server-side socket timeouts, so the delta is split
// into independent writes of at most this many annotations.
const uploadChunkSize = 200

// Ensure UploadService implements the interface.
var _ driving.AnnotationUploader = (*UploadService)(nil)

// UploadService runs the per-document synchronisation cycle: it
// resolves the document's remote item, rebuilds the item's existing
// annotations as a comparison baseline, computes the delta of
// annotations present locally but absent remotely, and uploads the
// delta in bounded chunks.
//
// The service keeps one piece of cross-cycle state, the type system
// it last bound its converter chain and filter against, so
// consecutive cycles over the same type system skip the rebind. It
// must not be shared across concurrent cycles.
type UploadService struct {
	client   driven.ItemClient
	baseline driven.BaselineAdapter
	chain    driven.Converter
	filter   *TypeFilter

	// journal is optional; nil disables cycle history.
	journal driven.UploadJournal

	lastTypeSystem *domain.TypeSystem
}

// NewUploadService creates an upload service. The chain is the
// fallback converter chain; the filter may be built from a nil
// allow-list to make every type eligible; journal may be nil.
func NewUploadService(
	client driven.ItemClient,
	baseline driven.BaselineAdapter,
	chain driven.Converter,
	filter *TypeFilter,
	journal driven.UploadJournal,
) *UploadService {
	return &UploadService{
		client:   client,
		baseline: baseline,
		chain:    chain,
		filter:   filter,
		journal:  journal,
	}
}

// ProcessDocument synchronises one document with its remote item.
func (s *UploadService) ProcessDocument(ctx context.Context, doc *domain.Document) (*driving.UploadReport, error) {
	if doc == nil || doc.Annotations == nil {
		return nil, domain.ErrInvalidInput
	}
	if doc.SourceURI == "" {
		return nil, domain.ErrMissingItemSource
	}

	started := time.Now()

	report, err := s.runCycle(ctx, doc)
	s.recordCycle(ctx, doc.SourceURI, started, report, err)
	if err != nil {
		return report, err
	}
	return report, nil
}

func (s *UploadService) runCycle(ctx context.Context, doc *domain.Document) (*driving.UploadReport, error) {
	report := &driving.UploadReport{ItemURI: doc.SourceURI}

	// 1. Bind. Rebinding happens exactly when the type system differs
	// from the last one processed.
	if err := s.bindForTypeSystem(doc.TypeSystem); err != nil {
		return report, err
	}

	// 2. Fetch the remote baseline.
	item, err := s.client.ItemByURI(ctx, doc.SourceURI)
	if err != nil {
		return report, fmt.Errorf("resolve item %s: %w", doc.SourceURI, err)
	}
	orig, err := s.baseline.Reconstruct(ctx, item, doc.TypeSystem)
	if err != nil {
		return report, fmt.Errorf("reconstruct baseline: %w", err)
	}

	// 3. Build the comparison set from the converted baseline. The
	// baseline was produced by this same pipeline in an earlier run,
	// so a conversion failure here is fatal, not a decline.
	seen := make(map[domain.RemoteAnnotation]struct{}, orig.Annotations.Len())
	for _, old := range orig.Annotations.Annotations() {
		remote, err := s.chain.Convert(old)
		if err != nil {
			return report, fmt.Errorf("convert baseline annotation: %w", err)
		}
		seen[remote] = struct{}{}
	}

	// 4. Compute the delta.
	var delta []domain.RemoteAnnotation
	for _, ann := range doc.Annotations.Annotations() {
		report.Considered++
		if !s.filter.Eligible(ann) {
			report.Skipped++
			continue
		}
		// Identity pre-filter: annotations already present in the
		// baseline need no conversion at all.
		if orig.Annotations.Contains(ann) {
			report.Skipped++
			continue
		}
		remote, err := s.chain.Convert(ann)
		if err != nil {
			return report, fmt.Errorf("convert annotation: %w", err)
		}
		// Post-conversion dedup: distinct source annotations can
		// collapse onto one canonical form; only the first survives.
		if _, dup := seen[remote]; dup {
			report.Skipped++
			continue
		}
		seen[remote] = struct{}{}
		delta = append(delta, remote)
	}

	logger.Debug("item %s: %d of %d annotations to upload",
		doc.SourceURI, len(delta), report.Considered)

	// 5. Upload in chunks, sequentially. A chunk failure aborts the
	// remainder; earlier chunks are not rolled back, and a retried
	// cycle will skip them through the dedup above.
	for _, chunk := range partition(delta, uploadChunkSize) {
		if err := item.StoreAnnotations(ctx, chunk); err != nil {
			return report, fmt.Errorf("store annotations: %w", err)
		}
		report.Chunks++
		report.Uploaded += len(chunk)
	}

	return report, nil
}

// bindForTypeSystem rebinds the converter chain and recomputes the
// eligibility filter iff ts differs from the last bound type system.
func (s *UploadService) bindForTypeSystem(ts *domain.TypeSystem) error {
	if ts == nil {
		return domain.ErrInvalidInput
	}
	if ts == s.lastTypeSystem {
		return nil
	}
	if err := s.chain.BindTypeSystem(ts); err != nil {
		return fmt.Errorf("bind converter chain: %w", err)
	}
	if err := s.filter.Bind(ts); err != nil {
		return fmt.Errorf("bind type filter: %w", err)
	}
	s.lastTypeSystem = ts
	return nil
}

// recordCycle journals the cycle outcome. Best effort: a journal
// failure is logged, never surfaced.
func (s *UploadService) recordCycle(ctx context.Context, itemURI string, started time.Time, report *driving.UploadReport, cycleErr error) {
	if s.journal == nil {
		return
	}
	rec := domain.CycleRecord{
		ID:        uuid.New().String(),
		ItemURI:   itemURI,
		StartedAt: started,
		Status:    domain.CycleSucceeded,
	}
	if report != nil {
		rec.Uploaded = report.Uploaded
		rec.Chunks = report.Chunks
	}
	if cycleErr != nil {
		rec.Status = domain.CycleFailed
		rec.Error = cycleErr.Error()
	}
	if err := s.journal.RecordCycle(ctx, rec); err != nil {
		logger.Warn("journal write failed for %s: %v", itemURI, err)
	}
}

// partition splits anns into contiguous chunks of at most size,
// preserving order. The chunks alias the input slice.
func partition(anns []domain.RemoteAnnotation, size int) [][]domain.RemoteAnnotation {
	if len(anns) == 0 {
		return nil
	}
	chunks := make([][]domain.RemoteAnnotation, 0, (len(anns)+size-1)/size)
	for start := 0; start < len(anns); start += size {
		end := start + size
		if end > len(anns) {
			end = len(anns)
		}
		chunks = append(chunks, anns[start:end])
	}
	return chunks
}
