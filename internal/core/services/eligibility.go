package services

import (
	"fmt"

	"github.com/sindhuchary/alveo-uima/internal/core/domain"
)

// TypeFilter decides which annotation types may be uploaded. With no
// allow-list configured every type is eligible; otherwise the
// eligible set is the listed types plus all their proper subtypes,
// computed once per type system binding.
type TypeFilter struct {
	allowList []string

	// eligible is nil when no allow-list is configured.
	eligible map[string]struct{}
	ts       *domain.TypeSystem
}

// NewTypeFilter creates a filter for the given allow-list of type
// names. A nil list disables filtering.
func NewTypeFilter(allowList []string) *TypeFilter {
	return &TypeFilter{allowList: allowList}
}

// Bind computes the eligible type set against ts. Allow-list names
// unknown to ts are skipped; if the whole list matches nothing the
// configuration is unusable and Bind fails with
// domain.ErrNoEligibleTypes.
func (f *TypeFilter) Bind(ts *domain.TypeSystem) error {
	f.ts = ts
	if f.allowList == nil {
		f.eligible = nil
		return nil
	}

	eligible := make(map[string]struct{})
	for _, name := range f.allowList {
		t := ts.Type(name)
		if t == nil {
			continue
		}
		eligible[t.Name] = struct{}{}
		for _, sub := range ts.ProperSubtypes(t) {
			eligible[sub.Name] = struct{}{}
		}
	}
	if len(eligible) == 0 {
		return fmt.Errorf("%w: allow-list %v matched no known types",
			domain.ErrNoEligibleTypes, f.allowList)
	}
	f.eligible = eligible
	return nil
}

// Eligible reports whether the annotation's type may be uploaded.
func (f *TypeFilter) Eligible(ann *domain.Annotation) bool {
	if f.eligible == nil {
		return true
	}
	if ann == nil || ann.Type == nil {
		return false
	}
	_, ok := f.eligible[ann.Type.Name]
	return ok
}
