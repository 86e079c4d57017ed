package domain

// ItemAnnotationType is the generic annotation type used when a
// remote annotation is reconstructed locally without a more specific
// type. Its label and annType features carry the remote label and
// type URI so that re-conversion reproduces the original values.
const (
	ItemAnnotationType = "alveo.ItemAnnotation"

	// ItemAnnotationLabelFeature holds the remote label.
	ItemAnnotationLabelFeature = "label"

	// ItemAnnotationTypeFeature holds the remote type URI.
	ItemAnnotationTypeFeature = "annType"
)

// Document is one unit of pipeline work: the text of a remote item,
// the type system its annotations are defined against, and the
// annotation store holding them. Its lifetime is one processing
// cycle.
type Document struct {
	// ID identifies the document within this process.
	ID string

	// SourceURI is the remote item URI this document was derived
	// from. Empty when the document has no remote counterpart.
	SourceURI string

	// Text is the item's primary text.
	Text string

	// TypeSystem defines the annotation types used by this document.
	TypeSystem *TypeSystem

	// Annotations is the document's annotation store.
	Annotations *AnnotationStore

	// Metadata holds item metadata fields from the remote catalog.
	Metadata map[string]string
}

// EnsureItemAnnotationType defines the generic item annotation type
// and its features in ts if they are not present. Safe to call
// repeatedly.
func EnsureItemAnnotationType(ts *TypeSystem) (*Type, error) {
	t, err := ts.DefineType(ItemAnnotationType, "")
	if err != nil {
		return nil, err
	}
	if err := ts.DefineFeature(ItemAnnotationType, ItemAnnotationLabelFeature); err != nil {
		return nil, err
	}
	if err := ts.DefineFeature(ItemAnnotationType, ItemAnnotationTypeFeature); err != nil {
		return nil, err
	}
	return t, nil
}
