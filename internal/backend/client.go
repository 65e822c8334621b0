// Package backend is an HTTP client for the LexFlow REST API.
//
// Every request is JSON in, JSON out. Authenticated calls carry the
// attorney's bearer token, taken from the request context.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const APIPrefix = "/api/v1"

// Client talks to one backend base URL. Safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for baseURL (e.g. "http://localhost:8000").
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type tokenKey struct{}

// WithToken returns a context whose requests authenticate with token.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// Token returns the bearer token stored by WithToken.
func Token(ctx context.Context) string {
	tok, _ := ctx.Value(tokenKey{}).(string)
	return tok
}

// URL builds an absolute backend URL for an /api/v1 path and query.
func (c *Client) URL(path string, query url.Values) string {
	u := c.baseURL + APIPrefix + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// Do sends a request to path (relative to /api/v1). in, when non-nil, is
// encoded as the JSON body; out, when non-nil, receives the decoded
// response. Non-2xx responses come back as *Error.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("backend: marshal %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.URL(path, query), body)
	if err != nil {
		return fmt.Errorf("backend: build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := Token(ctx); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("backend: read %s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newError(resp.StatusCode, data)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("backend: decode %s %s: %w", method, path, err)
	}
	return nil
}

// Ping checks that the API root answers.
func (c *Client) Ping(ctx context.Context) error {
	var root struct {
		Message string `json:"message"`
	}
	return c.Do(ctx, http.MethodGet, "/", nil, nil, &root)
}

// CloseIdleConnections releases pooled keep-alive connections.
func (c *Client) CloseIdleConnections() {
	c.http.CloseIdleConnections()
}
