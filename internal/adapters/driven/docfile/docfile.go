// Package docfile reads and writes documents as JSON files on disk.
// It is the interchange format between annotation pipelines and the
// upload commands: a file carries the source item URI, the text, the
// type system, and the annotation set.
package docfile

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/google/uuid"

	"github.com/sindhuchary/alveo-uima/internal/core/domain"
)

// filePayload is the on-disk form of a document.
type filePayload struct {
	SourceURI   string            `json:"source_uri"`
	Text        string            `json:"text,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Types       []typePayload     `json:"types"`
	Annotations []annPayload      `json:"annotations"`
}

type typePayload struct {
	Name     string   `json:"name"`
	Parent   string   `json:"parent,omitempty"`
	Features []string `json:"features,omitempty"`
}

type annPayload struct {
	Type     string            `json:"type"`
	Begin    int               `json:"begin"`
	End      int               `json:"end"`
	Features map[string]string `json:"features,omitempty"`
}

// Load reads a document file. The returned document carries a type
// system built from the file's type declarations.
func Load(path string) (*domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var payload filePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", path, err)
	}
	if payload.SourceURI == "" {
		return nil, fmt.Errorf("%w: document %s has no source_uri", domain.ErrMissingItemSource, path)
	}

	ts := domain.NewTypeSystem()
	if err := defineTypes(ts, payload.Types); err != nil {
		return nil, fmt.Errorf("document %s: %w", path, err)
	}

	store := domain.NewAnnotationStore()
	for _, ap := range payload.Annotations {
		typ := ts.Type(ap.Type)
		if typ == nil {
			return nil, fmt.Errorf("%w: document %s: annotation references undeclared type %s",
				domain.ErrInvalidInput, path, ap.Type)
		}
		store.Add(&domain.Annotation{
			Type:     typ,
			Begin:    ap.Begin,
			End:      ap.End,
			Features: ap.Features,
		})
	}

	return &domain.Document{
		ID:          uuid.New().String(),
		SourceURI:   payload.SourceURI,
		Text:        payload.Text,
		TypeSystem:  ts,
		Annotations: store,
		Metadata:    payload.Metadata,
	}, nil
}

// Save writes a document to path, overwriting any existing file.
func Save(path string, doc *domain.Document) error {
	if doc == nil || doc.TypeSystem == nil || doc.Annotations == nil {
		return domain.ErrInvalidInput
	}

	payload := filePayload{
		SourceURI: doc.SourceURI,
		Text:      doc.Text,
		Metadata:  doc.Metadata,
		Types:     collectTypes(doc.TypeSystem),
	}
	for _, a := range doc.Annotations.Annotations() {
		ap := annPayload{
			Begin:    a.Begin,
			End:      a.End,
			Features: a.Features,
		}
		if a.Type != nil {
			ap.Type = a.Type.Name
		}
		payload.Annotations = append(payload.Annotations, ap)
	}
	if payload.Annotations == nil {
		payload.Annotations = []annPayload{}
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document %s: %w", path, err)
	}
	return os.WriteFile(path, append(data, '\n'), 0600)
}

// defineTypes declares the file's types into ts. Parents may appear
// after their children in the file, so unresolved definitions are
// retried until the list stops shrinking.
func defineTypes(ts *domain.TypeSystem, types []typePayload) error {
	pending := types
	for len(pending) > 0 {
		var next []typePayload
		for _, tp := range pending {
			if tp.Parent != "" && ts.Type(tp.Parent) == nil {
				next = append(next, tp)
				continue
			}
			if _, err := ts.DefineType(tp.Name, tp.Parent); err != nil {
				return fmt.Errorf("define type %s: %w", tp.Name, err)
			}
			for _, f := range tp.Features {
				if err := ts.DefineFeature(tp.Name, f); err != nil {
					return fmt.Errorf("define feature %s on %s: %w", f, tp.Name, err)
				}
			}
		}
		if len(next) == len(pending) {
			return fmt.Errorf("%w: unresolvable type parents in %v", domain.ErrInvalidInput, typeNames(next))
		}
		pending = next
	}
	return nil
}

func typeNames(types []typePayload) []string {
	names := make([]string, 0, len(types))
	for _, tp := range types {
		names = append(names, tp.Name)
	}
	return names
}

// collectTypes flattens a type system into declarations, sorted by
// name for stable output.
func collectTypes(ts *domain.TypeSystem) []typePayload {
	all := ts.Types()
	out := make([]typePayload, 0, len(all))
	for _, typ := range all {
		tp := typePayload{Name: typ.Name, Features: typ.Features()}
		if p := typ.Parent(); p != nil {
			tp.Parent = p.Name
		}
		out = append(out, tp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
