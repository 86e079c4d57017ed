// Package conversions provides converters from local annotations to
// the remote store's canonical annotation form, the fallback chain
// composing them, and the registry for configuration-named converter
// plugins.
package conversions

import (
	"strings"

	"github.com/sindhuchary/alveo-uima/internal/core/domain"
	"github.com/sindhuchary/alveo-uima/internal/core/ports/driven"
)

// Default fully-qualified feature names scanned by the default
// converter. Baseline reconstruction writes these, so a round trip
// through the default converter is lossless.
const (
	DefaultLabelFeature = domain.ItemAnnotationType + ":" + domain.ItemAnnotationLabelFeature
	DefaultTypeFeature  = domain.ItemAnnotationType + ":" + domain.ItemAnnotationTypeFeature
)

// typeURIBase prefixes type URIs synthesised from local type names.
const typeURIBase = "http://ns.ausnc.org.au/schemas/annotation/uima/"

// Ensure DefaultConverter implements the interface.
var _ driven.Converter = (*DefaultConverter)(nil)

// DefaultConverter is the built-in, always-applicable conversion
// strategy: the label comes from the first present feature in an
// ordered list of qualified feature names, the type URI likewise from
// a second list, falling back to a URI synthesised from the
// annotation's fully-qualified type name.
type DefaultConverter struct {
	labelFeatures   []string
	typeURIFeatures []string
	ts              *domain.TypeSystem
}

// NewDefaultConverter creates a default converter scanning the given
// qualified feature names, first match wins. Nil slices fall back to
// the package defaults.
func NewDefaultConverter(typeURIFeatures, labelFeatures []string) *DefaultConverter {
	if typeURIFeatures == nil {
		typeURIFeatures = []string{DefaultTypeFeature}
	}
	if labelFeatures == nil {
		labelFeatures = []string{DefaultLabelFeature}
	}
	return &DefaultConverter{
		labelFeatures:   labelFeatures,
		typeURIFeatures: typeURIFeatures,
	}
}

// BindTypeSystem binds the converter to a type system. Rebinding is
// cheap: feature names are resolved lazily per annotation, so nothing
// is precomputed here.
func (c *DefaultConverter) BindTypeSystem(ts *domain.TypeSystem) error {
	if ts == nil {
		return domain.ErrInvalidInput
	}
	c.ts = ts
	return nil
}

// Convert produces the canonical remote annotation for ann.
func (c *DefaultConverter) Convert(ann *domain.Annotation) (domain.RemoteAnnotation, error) {
	if c.ts == nil {
		return domain.RemoteAnnotation{}, domain.ErrNotInitialized
	}
	if ann == nil || ann.Type == nil {
		return domain.RemoteAnnotation{}, domain.ErrUnsupportedAnnotationType
	}

	label, _ := c.firstFeatureValue(ann, c.labelFeatures)

	typeURI, ok := c.firstFeatureValue(ann, c.typeURIFeatures)
	if !ok {
		typeURI = SynthesiseTypeURI(ann.Type.Name)
	}

	return domain.RemoteAnnotation{
		Start:   ann.Begin,
		End:     ann.End,
		TypeURI: typeURI,
		Label:   label,
	}, nil
}

// firstFeatureValue scans qualified feature names in order and returns
// the value of the first one applicable to and present on ann.
func (c *DefaultConverter) firstFeatureValue(ann *domain.Annotation, names []string) (string, bool) {
	for _, qualified := range names {
		typeName, feature, ok := domain.QualifiedFeature(qualified)
		if !ok {
			continue
		}
		owner := c.ts.Type(typeName)
		if owner == nil || !c.ts.Subsumes(owner, ann.Type) {
			continue
		}
		if v, present := ann.Feature(feature); present {
			return v, true
		}
	}
	return "", false
}

// SynthesiseTypeURI derives a deterministic type URI from a
// fully-qualified local type name.
func SynthesiseTypeURI(typeName string) string {
	return typeURIBase + strings.ReplaceAll(typeName, ".", "/")
}
