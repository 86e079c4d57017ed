package alveo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sindhuchary/alveo-uima/internal/core/domain"
	"github.com/sindhuchary/alveo-uima/internal/core/ports/driven"
)

// itemPayload is the catalog representation of one item.
type itemPayload struct {
	CatalogURL     string            `json:"alveo:catalog_url"`
	PrimaryTextURL string            `json:"alveo:primary_text_url"`
	AnnotationsURL string            `json:"alveo:annotations_url"`
	Metadata       map[string]string `json:"alveo:metadata"`
}

// itemListPayload is the wire form of an item list.
type itemListPayload struct {
	Name     string   `json:"name"`
	NumItems int      `json:"num_items"`
	Items    []string `json:"items"`
}

// annotationsPayload wraps an item's annotation set on the wire.
type annotationsPayload struct {
	Annotations []wireAnnotation `json:"alveo:annotations"`
}

// wireAnnotation is one annotation on the wire. Offsets are
// json.Number because the server emits them both as numbers and as
// strings depending on the collection's vintage.
type wireAnnotation struct {
	Type    string      `json:"@type,omitempty"`
	AnnType string      `json:"type"`
	Label   string      `json:"label"`
	Start   json.Number `json:"start"`
	End     json.Number `json:"end"`
}

// textAnnotationClass is the @type emitted for uploaded annotations.
const textAnnotationClass = "dada:TextAnnotation"

// Ensure item implements the interface.
var _ driven.Item = (*item)(nil)

// item is a handle on one remote item.
type item struct {
	client  *Client
	payload itemPayload
}

// URI returns the item's catalog URI.
func (i *item) URI() string {
	return i.payload.CatalogURL
}

// Metadata returns the item's catalog metadata.
func (i *item) Metadata() map[string]string {
	return i.payload.Metadata
}

// PrimaryText fetches the item's primary text.
func (i *item) PrimaryText(ctx context.Context) (string, error) {
	if i.payload.PrimaryTextURL == "" {
		return "", nil
	}
	return i.client.getText(ctx, i.payload.PrimaryTextURL)
}

// Annotations fetches the item's current annotation set in canonical
// form.
func (i *item) Annotations(ctx context.Context) ([]domain.RemoteAnnotation, error) {
	if i.payload.AnnotationsURL == "" {
		return nil, nil
	}

	var payload annotationsPayload
	if err := i.client.getJSON(ctx, i.payload.AnnotationsURL, &payload); err != nil {
		return nil, err
	}

	anns := make([]domain.RemoteAnnotation, 0, len(payload.Annotations))
	for _, wa := range payload.Annotations {
		start, err := numberToInt(wa.Start)
		if err != nil {
			return nil, fmt.Errorf("%w: bad start offset %q", domain.ErrInvalidAnnotation, wa.Start)
		}
		end, err := numberToInt(wa.End)
		if err != nil {
			return nil, fmt.Errorf("%w: bad end offset %q", domain.ErrInvalidAnnotation, wa.End)
		}
		anns = append(anns, domain.RemoteAnnotation{
			Start:   start,
			End:     end,
			TypeURI: wa.AnnType,
			Label:   wa.Label,
		})
	}
	return anns, nil
}

// StoreAnnotations submits one batch of annotations as a single
// remote write.
func (i *item) StoreAnnotations(ctx context.Context, anns []domain.RemoteAnnotation) error {
	if len(anns) == 0 {
		return nil
	}
	if i.payload.AnnotationsURL == "" {
		return fmt.Errorf("%w: item %s has no annotations endpoint", domain.ErrItemNotFound, i.URI())
	}

	payload := annotationsPayload{Annotations: make([]wireAnnotation, 0, len(anns))}
	for _, a := range anns {
		payload.Annotations = append(payload.Annotations, wireAnnotation{
			Type:    textAnnotationClass,
			AnnType: a.TypeURI,
			Label:   a.Label,
			Start:   json.Number(fmt.Sprintf("%d", a.Start)),
			End:     json.Number(fmt.Sprintf("%d", a.End)),
		})
	}
	return i.client.postJSON(ctx, i.payload.AnnotationsURL, payload)
}

// numberToInt parses a wire offset. Empty offsets default to zero.
func numberToInt(n json.Number) (int, error) {
	if n == "" {
		return 0, nil
	}
	v, err := n.Int64()
	if err != nil {
		return 0, err
	}
	return int(v), nil
}
