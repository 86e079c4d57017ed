package domain

import "sort"

// Type is a node in a type system's single-inheritance hierarchy.
// Instances are owned by exactly one TypeSystem; identity comparison
// is valid within that type system.
type Type struct {
	// Name is the fully-qualified type name, e.g. "alveo.ItemAnnotation".
	Name string

	parent   *Type
	features map[string]struct{}
}

// Parent returns the supertype, or nil for a root type.
func (t *Type) Parent() *Type {
	return t.parent
}

// HasFeature reports whether the feature is defined on this type or
// inherited from a supertype.
func (t *Type) HasFeature(name string) bool {
	for cur := t; cur != nil; cur = cur.parent {
		if _, ok := cur.features[name]; ok {
			return true
		}
	}
	return false
}

// Features returns the features declared directly on this type,
// sorted by name. Inherited features are not included.
func (t *Type) Features() []string {
	if len(t.features) == 0 {
		return nil
	}
	names := make([]string, 0, len(t.features))
	for name := range t.features {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TypeSystem is the schema for one processing cycle's annotations:
// a set of named types with single inheritance and per-type features.
// It is mutable during document construction and treated as immutable
// once a document enters an upload cycle.
type TypeSystem struct {
	types map[string]*Type
}

// NewTypeSystem creates an empty type system.
func NewTypeSystem() *TypeSystem {
	return &TypeSystem{types: make(map[string]*Type)}
}

// DefineType adds a type under the named parent. An empty parentName
// creates a root type. Defining an existing name returns the existing
// type, so repeated definition is harmless.
func (ts *TypeSystem) DefineType(name, parentName string) (*Type, error) {
	if name == "" {
		return nil, ErrInvalidInput
	}
	if existing, ok := ts.types[name]; ok {
		return existing, nil
	}

	var parent *Type
	if parentName != "" {
		p, ok := ts.types[parentName]
		if !ok {
			return nil, ErrNotFound
		}
		parent = p
	}

	t := &Type{
		Name:     name,
		parent:   parent,
		features: make(map[string]struct{}),
	}
	ts.types[name] = t
	return t, nil
}

// DefineFeature declares a named feature on a type.
func (ts *TypeSystem) DefineFeature(typeName, feature string) error {
	t, ok := ts.types[typeName]
	if !ok {
		return ErrNotFound
	}
	t.features[feature] = struct{}{}
	return nil
}

// Type looks up a type by its fully-qualified name.
// Returns nil if the name is unknown.
func (ts *TypeSystem) Type(name string) *Type {
	return ts.types[name]
}

// Subsumes reports whether sub is sup or a descendant of sup.
func (ts *TypeSystem) Subsumes(sup, sub *Type) bool {
	if sup == nil || sub == nil {
		return false
	}
	for cur := sub; cur != nil; cur = cur.parent {
		if cur == sup {
			return true
		}
	}
	return false
}

// ProperSubtypes returns every type strictly below t in the hierarchy.
func (ts *TypeSystem) ProperSubtypes(t *Type) []*Type {
	var subs []*Type
	for _, cand := range ts.types {
		if cand != t && ts.Subsumes(t, cand) {
			subs = append(subs, cand)
		}
	}
	return subs
}

// Types returns all defined types in no particular order.
func (ts *TypeSystem) Types() []*Type {
	result := make([]*Type, 0, len(ts.types))
	for _, t := range ts.types {
		result = append(result, t)
	}
	return result
}
