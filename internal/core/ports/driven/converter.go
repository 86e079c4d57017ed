package driven

import (
	"github.com/sindhuchary/alveo-uima/internal/core/domain"
)

// Converter turns one local annotation into its canonical remote
// form. A converter must be bound to the type system defining the
// annotation's type before use; binding is idempotent, rebinding on a
// type-system change is expected and must be cheap (no I/O).
type Converter interface {
	// BindTypeSystem binds the converter to a type system. Called once
	// per processing cycle at most, and again whenever the engine
	// observes a different type system.
	BindTypeSystem(ts *domain.TypeSystem) error

	// Convert produces the canonical remote annotation for ann.
	//
	// Returns domain.ErrNotInitialized if called before binding.
	// Returns domain.ErrUnsupportedAnnotationType to decline an
	// annotation whose type is out of scope for this converter; the
	// fallback chain treats that as "try the next converter", not as
	// a failure. Must be deterministic: equal inputs produce
	// value-equal outputs, which the deduplication set relies on.
	Convert(ann *domain.Annotation) (domain.RemoteAnnotation, error)
}

// ConverterFactory produces a fresh Converter instance. Factories are
// registered under configuration-supplied names and resolved once at
// startup, replacing per-annotation dynamic dispatch.
type ConverterFactory func() Converter
