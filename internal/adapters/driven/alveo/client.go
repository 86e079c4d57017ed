// Package alveo is the REST/JSON adapter for the Alveo annotation
// store. It implements the ItemClient and BaselineAdapter ports.
package alveo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/sindhuchary/alveo-uima/internal/core/domain"
	"github.com/sindhuchary/alveo-uima/internal/core/ports/driven"
)

const (
	// apiKeyHeader carries the account's API key on every request.
	apiKeyHeader = "X-API-KEY"

	// requestsPerSecond throttles outgoing requests client-side.
	requestsPerSecond = 5

	defaultTimeout = 30 * time.Second
)

// Ensure Client implements the interface.
var _ driven.ItemClient = (*Client)(nil)

// Client talks to an Alveo server. All requests carry the API key and
// pass through a client-side rate limiter.
type Client struct {
	baseURL *url.URL
	apiKey  string
	httpc   *http.Client
	limiter *rate.Limiter
}

// NewClient creates a client for the given server base URL and API
// key. Both are mandatory configuration.
func NewClient(baseURL, apiKey string) (*Client, error) {
	if baseURL == "" || apiKey == "" {
		return nil, fmt.Errorf("%w: server URL and API key are required", domain.ErrMissingConfig)
	}
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidServerAddress, baseURL)
	}
	return &Client{
		baseURL: parsed,
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: defaultTimeout},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}, nil
}

// ItemByURI resolves a remote item by its catalog URI.
func (c *Client) ItemByURI(ctx context.Context, uri string) (driven.Item, error) {
	var payload itemPayload
	if err := c.getJSON(ctx, uri, &payload); err != nil {
		return nil, err
	}
	if payload.CatalogURL == "" {
		payload.CatalogURL = uri
	}
	return &item{client: c, payload: payload}, nil
}

// ItemList fetches a named item list from the server.
func (c *Client) ItemList(ctx context.Context, listID string) (*driven.ItemList, error) {
	listURL := c.baseURL.JoinPath("item_lists", listID+".json")

	var payload itemListPayload
	if err := c.getJSON(ctx, listURL.String(), &payload); err != nil {
		return nil, err
	}
	return &driven.ItemList{
		ID:       listID,
		Name:     payload.Name,
		ItemURIs: payload.Items,
	}, nil
}

// getJSON issues a GET and decodes the JSON response into out.
func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	body, err := c.do(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response from %s: %w", rawURL, err)
	}
	return nil
}

// getText issues a GET and returns the raw response body.
func (c *Client) getText(ctx context.Context, rawURL string) (string, error) {
	body, err := c.do(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// postJSON issues a POST with a JSON body.
func (c *Client) postJSON(ctx context.Context, rawURL string, payload any) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request for %s: %w", rawURL, err)
	}
	_, err = c.do(ctx, http.MethodPost, rawURL, bytes.NewReader(encoded))
	return err
}

func (c *Client) do(ctx context.Context, method, rawURL string, body io.Reader) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidServerAddress, rawURL)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, rawURL, err)
	}
	defer resp.Body.Close()

	if err := statusError(resp.StatusCode); err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, rawURL, err)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response from %s: %w", rawURL, err)
	}
	return data, nil
}

// statusError maps HTTP status codes onto the domain error taxonomy.
func statusError(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return domain.ErrUnauthorized
	case code == http.StatusNotFound:
		return domain.ErrItemNotFound
	case code == http.StatusBadRequest || code == http.StatusUnprocessableEntity:
		return domain.ErrInvalidAnnotation
	case code == http.StatusConflict || code == http.StatusPreconditionFailed:
		return domain.ErrUploadIntegrity
	default:
		return fmt.Errorf("unexpected status %d", code)
	}
}
