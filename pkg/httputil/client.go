package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/matzehuels/magnetsheet/pkg/observability"
)

const defaultTimeout = 30 * time.Second

// maxErrorBody bounds how much of a failed response is kept in StatusError.
const maxErrorBody = 512

// ErrNotFound is returned for 404 responses.
var ErrNotFound = errors.New("resource not found")

// StatusError is returned for responses outside the 2xx range.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.Code)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// Request is one outgoing call. Body is sent again on every retry.
type Request struct {
	Method      string
	URL         string
	Body        []byte
	ContentType string
	Headers     map[string]string
}

// Client sends requests with default headers and retries transient failures.
type Client struct {
	http    *http.Client
	headers map[string]string
}

// NewClient creates a Client with the given default headers.
// Pass nil for headers if no default headers are needed.
func NewClient(headers map[string]string) *Client {
	return &Client{
		http:    &http.Client{Timeout: defaultTimeout},
		headers: headers,
	}
}

// WithHTTPClient returns a copy of c that sends through hc.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	cp := *c
	cp.http = hc
	return &cp
}

// Send performs req, retrying transient failures, and decodes a JSON
// response into v when v is non-nil.
func (c *Client) Send(ctx context.Context, req Request, v any) error {
	return RetryWithBackoff(ctx, func() error {
		body, err := c.do(ctx, req)
		if err != nil {
			return err
		}
		defer body.Close()
		if v == nil {
			_, _ = io.Copy(io.Discard, body)
			return nil
		}
		if err := json.NewDecoder(body).Decode(v); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	})
}

func (c *Client) do(ctx context.Context, r Request) (io.ReadCloser, error) {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}
	req, err := http.NewRequestWithContext(ctx, method, r.URL, bytes.NewReader(r.Body))
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}
	if r.ContentType != "" {
		req.Header.Set("Content-Type", r.ContentType)
	}

	host, path := hostPath(r.URL)
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, method, host, path, err)
		return nil, &RetryableError{Err: fmt.Errorf("%s %s: %w", method, host, err)}
	}
	hooks.OnResponse(ctx, method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	}

	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	err := &StatusError{Code: code, Body: string(bytes.TrimSpace(snippet))}
	if code == http.StatusTooManyRequests || code >= 500 {
		return &RetryableError{Err: err, After: parseRetryAfter(resp.Header.Get("Retry-After"), time.Now())}
	}
	return err
}

func hostPath(raw string) (string, string) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", raw
	}
	return u.Host, u.Path
}
