package conversions

import (
	"errors"
	"fmt"

	"github.com/sindhuchary/alveo-uima/internal/core/domain"
	"github.com/sindhuchary/alveo-uima/internal/core/ports/driven"
)

// Ensure Chain implements the interface.
var _ driven.Converter = (*Chain)(nil)

// Chain composes explicit converters with the default converter into
// a single ordered-attempt strategy. Explicit converters are tried in
// configured order; the default converter always sits last, so the
// chain only declines an annotation the default itself cannot handle.
type Chain struct {
	converters []driven.Converter
}

// NewChain builds a chain from the explicit converters followed by
// the given default converter.
func NewChain(explicit []driven.Converter, def *DefaultConverter) *Chain {
	converters := make([]driven.Converter, 0, len(explicit)+1)
	converters = append(converters, explicit...)
	converters = append(converters, def)
	return &Chain{converters: converters}
}

// BindTypeSystem binds every converter in the chain. Rebinding on a
// type-system change is the normal path, once per processing cycle at
// most.
func (c *Chain) BindTypeSystem(ts *domain.TypeSystem) error {
	for _, conv := range c.converters {
		if err := conv.BindTypeSystem(ts); err != nil {
			return fmt.Errorf("bind converter: %w", err)
		}
	}
	return nil
}

// Convert attempts each converter in order and returns the first
// successful result. A converter declining with
// domain.ErrUnsupportedAnnotationType falls through to the next one;
// any other error aborts immediately.
func (c *Chain) Convert(ann *domain.Annotation) (domain.RemoteAnnotation, error) {
	for _, conv := range c.converters {
		remote, err := conv.Convert(ann)
		if err == nil {
			return remote, nil
		}
		if errors.Is(err, domain.ErrUnsupportedAnnotationType) {
			continue
		}
		return domain.RemoteAnnotation{}, err
	}
	return domain.RemoteAnnotation{}, domain.ErrUnsupportedAnnotationType
}
