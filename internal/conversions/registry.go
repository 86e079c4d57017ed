package conversions

import (
	"fmt"

	"github.com/sindhuchary/alveo-uima/internal/core/ports/driven"
)

// Registry maps converter names to their factories. It replaces
// dynamic class loading: converter plugins are registered under a
// name at startup and resolved once when the chain is built, never at
// per-annotation granularity.
type Registry struct {
	factories map[string]driven.ConverterFactory
}

// NewRegistry creates an empty converter registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]driven.ConverterFactory),
	}
}

// Register adds a converter factory under a unique name.
func (r *Registry) Register(name string, factory driven.ConverterFactory) {
	r.factories[name] = factory
}

// Has returns true if a converter with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.factories[name]
	return ok
}

// Names returns all registered converter names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	return names
}

// Build instantiates the named converters in the order given.
// An unknown name is a configuration error.
func (r *Registry) Build(names []string) ([]driven.Converter, error) {
	converters := make([]driven.Converter, 0, len(names))
	for _, name := range names {
		factory, ok := r.factories[name]
		if !ok {
			return nil, fmt.Errorf("unknown converter: %s", name)
		}
		converters = append(converters, factory())
	}
	return converters, nil
}

// NewChainFromConfig resolves the named explicit converters from the
// registry and appends a default converter built from the feature
// name lists.
func (r *Registry) NewChainFromConfig(names, typeURIFeatures, labelFeatures []string) (*Chain, error) {
	explicit, err := r.Build(names)
	if err != nil {
		return nil, err
	}
	return NewChain(explicit, NewDefaultConverter(typeURIFeatures, labelFeatures)), nil
}
