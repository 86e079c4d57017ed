package domain

import "sort"

// AnnotationStore is the working set of annotations for one document.
// Iteration follows index order: begin ascending, end descending
// (longer spans first), then type name. The store is not safe for
// concurrent use; each processing cycle owns its stores exclusively.
type AnnotationStore struct {
	annotations []*Annotation
	sorted      bool
}

// NewAnnotationStore creates an empty store.
func NewAnnotationStore() *AnnotationStore {
	return &AnnotationStore{}
}

// Add inserts an annotation into the store.
func (s *AnnotationStore) Add(a *Annotation) {
	if a == nil {
		return
	}
	s.annotations = append(s.annotations, a)
	s.sorted = false
}

// Len returns the number of annotations held.
func (s *AnnotationStore) Len() int {
	return len(s.annotations)
}

// Annotations returns all annotations in index order.
// The returned slice is owned by the store; callers must not modify it.
func (s *AnnotationStore) Annotations() []*Annotation {
	s.ensureSorted()
	return s.annotations
}

// AnnotationsOfType returns, in index order, the annotations whose
// type is exactly t.
func (s *AnnotationStore) AnnotationsOfType(t *Type) []*Annotation {
	s.ensureSorted()
	var result []*Annotation
	for _, a := range s.annotations {
		if a.Type == t {
			result = append(result, a)
		}
	}
	return result
}

// Contains reports whether the store holds an annotation matching a
// under index comparator semantics: same type name and same span.
// Feature values do not participate, so an annotation whose features
// changed since the store was built still counts as present.
func (s *AnnotationStore) Contains(a *Annotation) bool {
	if a == nil || a.Type == nil {
		return false
	}
	for _, cand := range s.annotations {
		if cand.Begin == a.Begin && cand.End == a.End &&
			cand.Type != nil && cand.Type.Name == a.Type.Name {
			return true
		}
	}
	return false
}

func (s *AnnotationStore) ensureSorted() {
	if s.sorted {
		return
	}
	sort.SliceStable(s.annotations, func(i, j int) bool {
		ai, aj := s.annotations[i], s.annotations[j]
		if ai.Begin != aj.Begin {
			return ai.Begin < aj.Begin
		}
		if ai.End != aj.End {
			return ai.End > aj.End
		}
		return typeName(ai.Type) < typeName(aj.Type)
	})
	s.sorted = true
}

func typeName(t *Type) string {
	if t == nil {
		return ""
	}
	return t.Name
}
