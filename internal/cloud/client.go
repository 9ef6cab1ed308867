// SPDX-License-Identifier: MPL-2.0

package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// maxResponseBytes is the upper bound on API response size (10 MB).
const maxResponseBytes = 10 << 20

type (
	// Client calls the Pixell Agent Cloud API for one environment.
	Client struct {
		httpClient *http.Client
		env        Environment
		apiKey     string
		userAgent  string
	}

	// ClientOption configures a Client during construction.
	ClientOption func(*Client)
)

// WithHTTPClient sets a custom HTTP client, useful for tests or proxy
// configurations.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithBaseURL overrides the environment's API endpoint, primarily for
// test servers.
func WithBaseURL(base string) ClientOption {
	return func(cl *Client) {
		cl.env.BaseURL = strings.TrimRight(base, "/")
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(cl *Client) {
		cl.userAgent = ua
	}
}

// NewClient creates a client for the given environment, authenticating
// every request with the API key.
func NewClient(env Environment, apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		env:        env,
		apiKey:     apiKey,
		userAgent:  "pixell-kit/dev",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Environment returns the deployment target this client is bound to.
func (c *Client) Environment() Environment {
	return c.env
}

// newRequest builds a request with the common API headers. Every
// request carries a fresh X-Request-ID so server-side traces can be
// correlated with a single client call.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	if body == nil {
		body = http.NoBody
	}
	req, err := http.NewRequestWithContext(ctx, method, c.env.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

// doJSON executes a request whose body, if any, is the JSON encoding
// of payload.
func (c *Client) doJSON(ctx context.Context, method, path string, payload any) (*http.Response, error) {
	var body io.Reader
	contentType := ""
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	req, err := c.newRequest(ctx, method, path, body, contentType)
	if err != nil {
		return nil, err
	}
	return c.httpClient.Do(req)
}

// readBody drains a response body up to the size cap.
func readBody(resp *http.Response) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return data, nil
}

// messageFromBody extracts the conventional {"error": "..."} message,
// falling back when the body has no such field.
func messageFromBody(body []byte, fallback string) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return fallback
}
