package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/qs-lzh/concert-storefront/internal/monitoring"
)

// TokenSource yields the bearer credential for the current browser session.
// It is consulted on every call so a logout takes effect immediately.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type TokenSourceFunc func(ctx context.Context) (string, error)

func (f TokenSourceFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}

// Client sends typed requests to the ticketing backend. Every call is issued
// exactly once: no retries, no queueing, transport default timeouts.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// WithTokenSource returns a copy of the client that authenticates with ts.
func (c *Client) WithTokenSource(ts TokenSource) *Client {
	cp := *c
	cp.tokens = ts
	return &cp
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.send(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	return c.send(ctx, http.MethodPost, path, nil, in, out)
}

func (c *Client) put(ctx context.Context, path string, in, out any) error {
	return c.send(ctx, http.MethodPut, path, nil, in, out)
}

func (c *Client) delete(ctx context.Context, path string, out any) error {
	return c.send(ctx, http.MethodDelete, path, nil, nil, out)
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	resp, err := c.do(ctx, method, path, query, body, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

// getBytes fetches a binary resource and returns it with its content type.
func (c *Client) getBytes(ctx context.Context, path string) ([]byte, string, error) {
	resp, err := c.do(ctx, http.MethodGet, path, nil, nil, "")
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, "", newAPIError(resp)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &TransportError{Method: http.MethodGet, Path: path, Err: err}
	}
	return data, resp.Header.Get("Content-Type"), nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) (*http.Response, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create API request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read session credential: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		monitoring.ObserveBackendCall(method, path, 0, time.Since(start))
		return nil, &TransportError{Method: method, Path: path, Err: err}
	}
	monitoring.ObserveBackendCall(method, path, resp.StatusCode, time.Since(start))
	return resp, nil
}

func decodeResponse(resp *http.Response, out any) error {
	if resp.StatusCode >= 300 {
		return newAPIError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("failed to decode %s response: %w", resp.Request.URL.Path, err)
	}
	return nil
}

func idPath(prefix string, id uint) string {
	return fmt.Sprintf("%s/%d", prefix, id)
}
