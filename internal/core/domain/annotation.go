package domain

import "strings"

// Annotation is one span of a document's text as produced by the
// processing pipeline: an interval, a type from the document's type
// system, and an open set of named feature values.
type Annotation struct {
	// Type is the annotation's type within the owning document's
	// type system.
	Type *Type

	// Begin is the start offset into the document text (inclusive).
	Begin int

	// End is the end offset into the document text (exclusive).
	End int

	// Features holds named feature values. Lookup is plain map
	// access; absent features are simply absent.
	Features map[string]string
}

// Feature returns the value of a feature by its unqualified name.
func (a *Annotation) Feature(name string) (string, bool) {
	if a.Features == nil {
		return "", false
	}
	v, ok := a.Features[name]
	return v, ok
}

// QualifiedFeature splits a fully-qualified feature name of the form
// "type.Name:feature" into its type and feature parts.
// Returns ok=false if the name has no qualifier.
func QualifiedFeature(name string) (typeName, feature string, ok bool) {
	idx := strings.LastIndex(name, ":")
	if idx <= 0 || idx == len(name)-1 {
		return "", "", false
	}
	return name[:idx], name[idx+1:], true
}

// RemoteAnnotation is the canonical, value-comparable form an
// annotation takes on the remote store: a span, a type URI and a
// label. Two remote annotations are equal iff all four fields are
// equal, which makes the struct directly usable as a deduplication
// key regardless of which side (pipeline or remote baseline) an
// instance was reconstructed from.
type RemoteAnnotation struct {
	Start   int
	End     int
	TypeURI string
	Label   string
}
