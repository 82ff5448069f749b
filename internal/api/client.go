// internal/api/client.go
//
// Typed HTTP client for the Catalyst backend. Every call is a single round
// trip: no retries, no caching, no deduplication. Callers own loading state
// and retry policy.

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
)

// CodeNetworkError is the fixed machine-readable code carried by errors
// raised when no response was received at all.
const CodeNetworkError = "NETWORK_ERROR"

// Envelope is the uniform wrapper every endpoint returns on success.
type Envelope[T any] struct {
	Data    T      `json:"data"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Page is the paginated list envelope.
type Page[T any] struct {
	Data    []T  `json:"data"`
	Total   int  `json:"total"`
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	HasNext bool `json:"hasNext"`
	HasPrev bool `json:"hasPrev"`
}

// NewPage slices items down to one page and fills the envelope so that
// HasNext holds iff page*limit < total and HasPrev holds iff page > 1.
func NewPage[T any](items []T, page, limit int) Page[T] {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	total := len(items)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	window := make([]T, end-start)
	copy(window, items[start:end])
	return Page[T]{
		Data:    window,
		Total:   total,
		Page:    page,
		Limit:   limit,
		HasNext: page*limit < total,
		HasPrev: page > 1,
	}
}

// Error is the one error type accessors raise. Status 0 means the transport
// failed before any response arrived; any other status came from the server.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("api: network error: %s", e.Message)
	}
	if e.Code != "" {
		return fmt.Sprintf("api: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api: %d: %s", e.Status, e.Message)
}

// IsNetwork reports whether the error represents a transport-level failure.
func (e *Error) IsNetwork() bool { return e.Status == 0 }

func networkError(err error) *Error {
	msg := "network error occurred"
	if err != nil {
		msg = err.Error()
	}
	return &Error{Status: 0, Code: CodeNetworkError, Message: msg}
}

// TokenStore supplies the current bearer token and clears the durable
// session record when the client drops its token.
type TokenStore interface {
	Token() string
	Clear() error
}

// Client wraps an HTTP transport with bearer-token injection and JSON
// (de)serialization.
type Client struct {
	baseURL string
	httpc   *http.Client
	token   string
	store   TokenStore
}

// NewClient builds a client for the given base URL. store may be nil; when
// set, its token seeds the client and ClearToken clears its durable entry.
func NewClient(baseURL string, timeout time.Duration, store TokenStore) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
		store:   store,
	}
	if store != nil {
		c.token = store.Token()
	}
	return c
}

// SetToken replaces the bearer token used by subsequent requests.
func (c *Client) SetToken(token string) { c.token = token }

// ClearToken drops the in-memory token and clears the session store's
// durable record. A storage failure is not fatal here; the token is gone
// either way.
func (c *Client) ClearToken() {
	c.token = ""
	if c.store != nil {
		_ = c.store.Clear()
	}
}

// apiFailure is the error body shape the backend sends on non-2xx.
type apiFailure struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Error   string `json:"error"`
}

// request performs one round trip and decodes the envelope. Generic helpers
// live at package level because Go methods cannot introduce type parameters.
func request[T any](c *Client, ctx context.Context, method, path string, query url.Values, body any) (Envelope[T], error) {
	var env Envelope[T]

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return env, networkError(fmt.Errorf("encode request body: %w", err))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return env, networkError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return env, networkError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return env, networkError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		fail := apiFailure{Message: "an error occurred"}
		if jerr := json.Unmarshal(raw, &fail); jerr != nil || strings.TrimSpace(fail.Message) == "" {
			fail.Message = "an error occurred"
		}
		return env, &Error{Status: resp.StatusCode, Code: fail.Code, Message: fail.Message}
	}

	if err := json.Unmarshal(raw, &env); err != nil {
		return env, networkError(fmt.Errorf("decode response: %w", err))
	}
	return env, nil
}
