package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sindhuchary/alveo-uima/internal/conversions"
	"github.com/sindhuchary/alveo-uima/internal/core/domain"
	"github.com/sindhuchary/alveo-uima/internal/core/ports/driven"
)

// --- Mock implementations for uploader testing ---

// mockItem implements driven.Item.
type mockItem struct {
	uri  string
	text string
	anns []domain.RemoteAnnotation

	storeCalls  [][]domain.RemoteAnnotation
	failOnCall  int // 1-based index of the StoreAnnotations call that fails; 0 = never
	storeErr    error
	annsErr     error
	primaryErr  error
	metadataMap map[string]string
}

func (m *mockItem) URI() string { return m.uri }

func (m *mockItem) PrimaryText(_ context.Context) (string, error) {
	return m.text, m.primaryErr
}

func (m *mockItem) Annotations(_ context.Context) ([]domain.RemoteAnnotation, error) {
	return m.anns, m.annsErr
}

func (m *mockItem) Metadata() map[string]string { return m.metadataMap }

func (m *mockItem) StoreAnnotations(_ context.Context, anns []domain.RemoteAnnotation) error {
	// Copy: the engine hands out subslices of its delta.
	chunk := make([]domain.RemoteAnnotation, len(anns))
	copy(chunk, anns)
	m.storeCalls = append(m.storeCalls, chunk)
	if m.failOnCall > 0 && len(m.storeCalls) == m.failOnCall {
		return m.storeErr
	}
	return nil
}

// mockItemClient implements driven.ItemClient.
type mockItemClient struct {
	items   map[string]*mockItem
	itemErr error
	list    *driven.ItemList
	listErr error
}

func (c *mockItemClient) ItemByURI(_ context.Context, uri string) (driven.Item, error) {
	if c.itemErr != nil {
		return nil, c.itemErr
	}
	item, ok := c.items[uri]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	return item, nil
}

func (c *mockItemClient) ItemList(_ context.Context, _ string) (*driven.ItemList, error) {
	if c.listErr != nil {
		return nil, c.listErr
	}
	return c.list, nil
}

// mockBaseline implements driven.BaselineAdapter the way the alveo
// adapter does: one generic item annotation per remote annotation,
// carrying label and type URI as features.
type mockBaseline struct {
	err   error
	calls int
}

func (b *mockBaseline) Reconstruct(ctx context.Context, item driven.Item, ts *domain.TypeSystem) (*domain.Document, error) {
	b.calls++
	if b.err != nil {
		return nil, b.err
	}
	itemType, err := domain.EnsureItemAnnotationType(ts)
	if err != nil {
		return nil, err
	}
	remote, err := item.Annotations(ctx)
	if err != nil {
		return nil, err
	}
	store := domain.NewAnnotationStore()
	for _, ra := range remote {
		store.Add(&domain.Annotation{
			Type:  itemType,
			Begin: ra.Start,
			End:   ra.End,
			Features: map[string]string{
				domain.ItemAnnotationLabelFeature: ra.Label,
				domain.ItemAnnotationTypeFeature:  ra.TypeURI,
			},
		})
	}
	return &domain.Document{
		SourceURI:   item.URI(),
		TypeSystem:  ts,
		Annotations: store,
	}, nil
}

// mockJournal implements driven.UploadJournal.
type mockJournal struct {
	records []domain.CycleRecord
	err     error
}

func (j *mockJournal) RecordCycle(_ context.Context, rec domain.CycleRecord) error {
	if j.err != nil {
		return j.err
	}
	j.records = append(j.records, rec)
	return nil
}

func (j *mockJournal) History(_ context.Context, _ string) ([]domain.CycleRecord, error) {
	return j.records, nil
}

// countingChain wraps a converter chain and counts bind calls.
type countingChain struct {
	inner     driven.Converter
	bindCalls int
	convCalls int
}

func (c *countingChain) BindTypeSystem(ts *domain.TypeSystem) error {
	c.bindCalls++
	return c.inner.BindTypeSystem(ts)
}

func (c *countingChain) Convert(ann *domain.Annotation) (domain.RemoteAnnotation, error) {
	c.convCalls++
	return c.inner.Convert(ann)
}

// --- Test fixtures ---

const testItemURI = "https://app.alveo.edu.au/catalog/cooee/1-001"

// newUploaderFixture builds a service over one mock item with the
// given baseline annotations.
func newUploaderFixture(t *testing.T, baseline []domain.RemoteAnnotation) (*UploadService, *mockItem) {
	t.Helper()
	item := &mockItem{uri: testItemURI, anns: baseline, storeErr: domain.ErrUploadIntegrity}
	client := &mockItemClient{items: map[string]*mockItem{testItemURI: item}}
	chain := conversions.NewChain(nil, conversions.NewDefaultConverter(nil, nil))
	svc := NewUploadService(client, &mockBaseline{}, chain, NewTypeFilter(nil), nil)
	return svc, item
}

// newPipelineDocument builds a document with n token annotations.
func newPipelineDocument(t *testing.T, n int) *domain.Document {
	t.Helper()
	ts := domain.NewTypeSystem()
	token, err := ts.DefineType("pipeline.Token", "")
	require.NoError(t, err)

	store := domain.NewAnnotationStore()
	for i := 0; i < n; i++ {
		store.Add(&domain.Annotation{Type: token, Begin: i * 10, End: i*10 + 5})
	}
	return &domain.Document{
		SourceURI:   testItemURI,
		TypeSystem:  ts,
		Annotations: store,
	}
}

// --- Tests ---

func TestProcessDocument_UploadsAgainstEmptyBaseline(t *testing.T) {
	svc, item := newUploaderFixture(t, nil)
	doc := newPipelineDocument(t, 3)

	report, err := svc.ProcessDocument(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Considered)
	assert.Equal(t, 3, report.Uploaded)
	assert.Equal(t, 1, report.Chunks)
	require.Len(t, item.storeCalls, 1)
	assert.Equal(t, conversions.SynthesiseTypeURI("pipeline.Token"), item.storeCalls[0][0].TypeURI)
}

func TestProcessDocument_Resync_IsIdempotent(t *testing.T) {
	svc, item := newUploaderFixture(t, nil)
	doc := newPipelineDocument(t, 3)

	first, err := svc.ProcessDocument(context.Background(), doc)
	require.NoError(t, err)
	require.Equal(t, 3, first.Uploaded)

	// The remote item now holds what the first cycle uploaded.
	item.anns = item.storeCalls[0]
	item.storeCalls = nil

	second, err := svc.ProcessDocument(context.Background(), doc)
	require.NoError(t, err)
	assert.Zero(t, second.Uploaded)
	assert.Zero(t, second.Chunks)
	assert.Empty(t, item.storeCalls, "no submission expected for an empty delta")
}

func TestProcessDocument_ConvertedValueDeduplication(t *testing.T) {
	// Two annotations with distinct source types whose converted
	// forms coincide must yield exactly one delta entry.
	item := &mockItem{uri: testItemURI}
	client := &mockItemClient{items: map[string]*mockItem{testItemURI: item}}
	chain := conversions.NewChain(nil, conversions.NewDefaultConverter(
		[]string{"pipeline.Span:annType"},
		[]string{"pipeline.Span:label"},
	))
	svc := NewUploadService(client, &mockBaseline{}, chain, NewTypeFilter(nil), nil)

	ts := domain.NewTypeSystem()
	_, err := ts.DefineType("pipeline.Span", "")
	require.NoError(t, err)
	require.NoError(t, ts.DefineFeature("pipeline.Span", "label"))
	require.NoError(t, ts.DefineFeature("pipeline.Span", "annType"))
	a, err := ts.DefineType("pipeline.SpanA", "pipeline.Span")
	require.NoError(t, err)
	b, err := ts.DefineType("pipeline.SpanB", "pipeline.Span")
	require.NoError(t, err)

	features := map[string]string{"label": "x", "annType": "http://example.org/t/shared"}
	store := domain.NewAnnotationStore()
	store.Add(&domain.Annotation{Type: a, Begin: 0, End: 5, Features: features})
	store.Add(&domain.Annotation{Type: b, Begin: 0, End: 5, Features: features})

	doc := &domain.Document{SourceURI: testItemURI, TypeSystem: ts, Annotations: store}

	report, err := svc.ProcessDocument(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Uploaded)
	assert.Equal(t, 1, report.Skipped)
	require.Len(t, item.storeCalls, 1)
	require.Len(t, item.storeCalls[0], 1)
	assert.Equal(t, domain.RemoteAnnotation{
		Start: 0, End: 5, TypeURI: "http://example.org/t/shared", Label: "x",
	}, item.storeCalls[0][0])
}

func TestProcessDocument_IdentityPreFilterSkipsConversion(t *testing.T) {
	// Annotations matching the baseline by type and span are skipped
	// before any conversion happens.
	baseline := []domain.RemoteAnnotation{
		{Start: 0, End: 5, TypeURI: "http://example.org/t/turn", Label: "a"},
	}
	item := &mockItem{uri: testItemURI, anns: baseline}
	client := &mockItemClient{items: map[string]*mockItem{testItemURI: item}}
	chain := &countingChain{inner: conversions.NewChain(nil, conversions.NewDefaultConverter(nil, nil))}
	svc := NewUploadService(client, &mockBaseline{}, chain, NewTypeFilter(nil), nil)

	ts := domain.NewTypeSystem()
	itemType, err := domain.EnsureItemAnnotationType(ts)
	require.NoError(t, err)

	store := domain.NewAnnotationStore()
	store.Add(&domain.Annotation{Type: itemType, Begin: 0, End: 5})

	doc := &domain.Document{SourceURI: testItemURI, TypeSystem: ts, Annotations: store}

	report, err := svc.ProcessDocument(context.Background(), doc)
	require.NoError(t, err)
	assert.Zero(t, report.Uploaded)
	assert.Equal(t, 1, report.Skipped)
	// One conversion for the baseline annotation, none for the
	// identity-matched pipeline annotation.
	assert.Equal(t, 1, chain.convCalls)
}

func TestProcessDocument_ChunkingBoundary(t *testing.T) {
	svc, item := newUploaderFixture(t, nil)
	doc := newPipelineDocument(t, 401)

	report, err := svc.ProcessDocument(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, 401, report.Uploaded)
	assert.Equal(t, 3, report.Chunks)
	require.Len(t, item.storeCalls, 3)
	assert.Len(t, item.storeCalls[0], 200)
	assert.Len(t, item.storeCalls[1], 200)
	assert.Len(t, item.storeCalls[2], 1)
}

func TestProcessDocument_ChunkFailureAbortsRemainder(t *testing.T) {
	svc, item := newUploaderFixture(t, nil)
	item.failOnCall = 2
	doc := newPipelineDocument(t, 401)

	report, err := svc.ProcessDocument(context.Background(), doc)
	require.ErrorIs(t, err, domain.ErrUploadIntegrity)

	// The third chunk is never submitted; the first chunk's success
	// is preserved.
	assert.Len(t, item.storeCalls, 2)
	assert.Equal(t, 1, report.Chunks)
	assert.Equal(t, 200, report.Uploaded)
}

func TestProcessDocument_RebindOnTypeSystemChange(t *testing.T) {
	item := &mockItem{uri: testItemURI}
	client := &mockItemClient{items: map[string]*mockItem{testItemURI: item}}
	chain := &countingChain{inner: conversions.NewChain(nil, conversions.NewDefaultConverter(nil, nil))}
	svc := NewUploadService(client, &mockBaseline{}, chain, NewTypeFilter(nil), nil)

	doc1 := newPipelineDocument(t, 1)
	doc2 := newPipelineDocument(t, 1)

	_, err := svc.ProcessDocument(context.Background(), doc1)
	require.NoError(t, err)
	assert.Equal(t, 1, chain.bindCalls)

	// New type system: exactly one rebind.
	item.anns = nil
	_, err = svc.ProcessDocument(context.Background(), doc2)
	require.NoError(t, err)
	assert.Equal(t, 2, chain.bindCalls)

	// Same type system again: cached fast path, no rebind.
	_, err = svc.ProcessDocument(context.Background(), doc2)
	require.NoError(t, err)
	assert.Equal(t, 2, chain.bindCalls)
}

func TestProcessDocument_EligibilityFilter(t *testing.T) {
	item := &mockItem{uri: testItemURI}
	client := &mockItemClient{items: map[string]*mockItem{testItemURI: item}}
	chain := conversions.NewChain(nil, conversions.NewDefaultConverter(nil, nil))
	svc := NewUploadService(client, &mockBaseline{}, chain, NewTypeFilter([]string{"pipeline.Entity"}), nil)

	ts := domain.NewTypeSystem()
	entity, err := ts.DefineType("pipeline.Entity", "")
	require.NoError(t, err)
	person, err := ts.DefineType("pipeline.Person", "pipeline.Entity")
	require.NoError(t, err)
	token, err := ts.DefineType("pipeline.Token", "")
	require.NoError(t, err)

	store := domain.NewAnnotationStore()
	store.Add(&domain.Annotation{Type: entity, Begin: 0, End: 5})
	store.Add(&domain.Annotation{Type: person, Begin: 6, End: 9}) // subtype: eligible
	store.Add(&domain.Annotation{Type: token, Begin: 10, End: 12})

	doc := &domain.Document{SourceURI: testItemURI, TypeSystem: ts, Annotations: store}

	report, err := svc.ProcessDocument(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Uploaded)
	assert.Equal(t, 1, report.Skipped)
}

func TestProcessDocument_NoEligibleTypesIsFatal(t *testing.T) {
	item := &mockItem{uri: testItemURI}
	client := &mockItemClient{items: map[string]*mockItem{testItemURI: item}}
	chain := conversions.NewChain(nil, conversions.NewDefaultConverter(nil, nil))
	svc := NewUploadService(client, &mockBaseline{}, chain, NewTypeFilter([]string{"no.such.Type"}), nil)

	doc := newPipelineDocument(t, 1)

	_, err := svc.ProcessDocument(context.Background(), doc)
	assert.ErrorIs(t, err, domain.ErrNoEligibleTypes)
	assert.Empty(t, item.storeCalls)
}

func TestProcessDocument_MissingSourceURI(t *testing.T) {
	svc, _ := newUploaderFixture(t, nil)
	doc := newPipelineDocument(t, 1)
	doc.SourceURI = ""

	_, err := svc.ProcessDocument(context.Background(), doc)
	assert.ErrorIs(t, err, domain.ErrMissingItemSource)
}

func TestProcessDocument_RemoteLookupFailure(t *testing.T) {
	client := &mockItemClient{itemErr: domain.ErrUnauthorized}
	chain := conversions.NewChain(nil, conversions.NewDefaultConverter(nil, nil))
	svc := NewUploadService(client, &mockBaseline{}, chain, NewTypeFilter(nil), nil)

	_, err := svc.ProcessDocument(context.Background(), newPipelineDocument(t, 1))
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestProcessDocument_BaselineConversionFailureIsFatal(t *testing.T) {
	// A baseline annotation the chain cannot convert fails the cycle.
	baseline := []domain.RemoteAnnotation{{Start: 0, End: 1, TypeURI: "u", Label: "l"}}
	item := &mockItem{uri: testItemURI, anns: baseline}
	client := &mockItemClient{items: map[string]*mockItem{testItemURI: item}}

	failing := &failingConverter{}
	svc := NewUploadService(client, &mockBaseline{}, failing, NewTypeFilter(nil), nil)

	_, err := svc.ProcessDocument(context.Background(), newPipelineDocument(t, 1))
	require.Error(t, err)
	assert.ErrorContains(t, err, "convert baseline annotation")
}

// failingConverter binds fine but fails every conversion.
type failingConverter struct{}

func (f *failingConverter) BindTypeSystem(_ *domain.TypeSystem) error { return nil }

func (f *failingConverter) Convert(_ *domain.Annotation) (domain.RemoteAnnotation, error) {
	return domain.RemoteAnnotation{}, fmt.Errorf("broken feature table")
}

func TestProcessDocument_JournalRecordsOutcome(t *testing.T) {
	item := &mockItem{uri: testItemURI}
	client := &mockItemClient{items: map[string]*mockItem{testItemURI: item}}
	chain := conversions.NewChain(nil, conversions.NewDefaultConverter(nil, nil))
	journal := &mockJournal{}
	svc := NewUploadService(client, &mockBaseline{}, chain, NewTypeFilter(nil), journal)

	_, err := svc.ProcessDocument(context.Background(), newPipelineDocument(t, 2))
	require.NoError(t, err)

	require.Len(t, journal.records, 1)
	rec := journal.records[0]
	assert.Equal(t, domain.CycleSucceeded, rec.Status)
	assert.Equal(t, testItemURI, rec.ItemURI)
	assert.Equal(t, 2, rec.Uploaded)
	assert.NotEmpty(t, rec.ID)
}

func TestProcessDocument_JournalRecordsFailure(t *testing.T) {
	item := &mockItem{uri: testItemURI, failOnCall: 1, storeErr: domain.ErrInvalidAnnotation}
	client := &mockItemClient{items: map[string]*mockItem{testItemURI: item}}
	chain := conversions.NewChain(nil, conversions.NewDefaultConverter(nil, nil))
	journal := &mockJournal{}
	svc := NewUploadService(client, &mockBaseline{}, chain, NewTypeFilter(nil), journal)

	_, err := svc.ProcessDocument(context.Background(), newPipelineDocument(t, 1))
	require.ErrorIs(t, err, domain.ErrInvalidAnnotation)

	require.Len(t, journal.records, 1)
	assert.Equal(t, domain.CycleFailed, journal.records[0].Status)
	assert.NotEmpty(t, journal.records[0].Error)
}

func TestProcessDocument_JournalFailureDoesNotFailCycle(t *testing.T) {
	item := &mockItem{uri: testItemURI}
	client := &mockItemClient{items: map[string]*mockItem{testItemURI: item}}
	chain := conversions.NewChain(nil, conversions.NewDefaultConverter(nil, nil))
	journal := &mockJournal{err: errors.New("disk full")}
	svc := NewUploadService(client, &mockBaseline{}, chain, NewTypeFilter(nil), journal)

	_, err := svc.ProcessDocument(context.Background(), newPipelineDocument(t, 1))
	assert.NoError(t, err)
}

func TestPartition(t *testing.T) {
	anns := make([]domain.RemoteAnnotation, 5)
	chunks := partition(anns, 2)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 2)
	assert.Len(t, chunks[2], 1)

	assert.Nil(t, partition(nil, 2))
}
