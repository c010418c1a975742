// Package client is the typed HTTP client for the TalentFit UserAPI.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Client represents an HTTP client for the UserAPI
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client for baseURL (e.g. http://localhost:8000/api/v1).
// No timeout is set; callers bound requests through their context.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

type request struct {
	method      string
	path        string
	query       url.Values
	token       string
	body        io.Reader
	contentType string
}

func jsonRequest(method, path string, payload interface{}) (request, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return request{}, fmt.Errorf("failed to marshal request: %w", err)
	}
	return request{
		method:      method,
		path:        path,
		body:        bytes.NewReader(data),
		contentType: "application/json",
	}, nil
}

// do sends r and decodes a 2xx JSON body into out (if non-nil). A body that
// does not decode is reported as ErrDecode, after the status was accepted.
func (c *Client) do(ctx context.Context, r request, out interface{}) error {
	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, r.body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if r.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", r.token))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("request aborted: %w", ctxErr)
		}
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return parseAPIError(resp.StatusCode, body)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return nil
}

// Health checks that the API is reachable
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, request{method: http.MethodGet, path: "/health"}, nil)
}
