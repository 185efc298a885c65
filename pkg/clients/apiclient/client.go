package apiclient

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

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/jakechorley/shift-admin/pkg/utils/logging"
)

// maxErrorBody caps how much of an error response is kept on APIError
const maxErrorBody = 64 * 1024

// Identity supplies the scoping identifiers and bearer token for requests.
// *session.Resolver implements it.
type Identity interface {
	OrganizationID() (string, error)
	UserID() (string, error)
	DepartmentID() (string, error)
	EmployeeID() (string, error)
	AuthToken() (string, error)
	TokenSource() oauth2.TokenSource
}

// Client talks to the scheduling REST backend. Each call is one request: no retries,
// no caching, no timeout beyond the caller's context.
type Client struct {
	baseURL  string
	http     *http.Client
	identity Identity
	logger   *zap.Logger
}

// Option configures a Client
type Option func(*clientOptions)

type clientOptions struct {
	transport http.RoundTripper
}

// WithTransport sets the transport underneath the bearer-token transport
func WithTransport(rt http.RoundTripper) Option {
	return func(o *clientOptions) {
		o.transport = rt
	}
}

// New creates a client for the API rooted at baseURL (e.g. http://localhost:8080/api)
func New(baseURL string, identity Identity, logger *zap.Logger, opts ...Option) (*Client, error) {
	if identity == nil {
		return nil, fmt.Errorf("identity is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid API base URL %q", baseURL)
	}

	options := clientOptions{transport: http.DefaultTransport}
	for _, opt := range opts {
		opt(&options)
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Transport: &oauth2.Transport{
				Source: identity.TokenSource(),
				Base:   options.transport,
			},
		},
		identity: identity,
		logger:   logging.OrNop(logger),
	}, nil
}

// BaseURL returns the API root the client was created with
func (c *Client) BaseURL() string {
	return c.baseURL
}

// send performs one request and returns the status and body of a 2xx response.
// Non-2xx responses become *APIError. The auth token is checked before anything is sent.
func (c *Client) send(ctx context.Context, method, path string, payload any) (int, []byte, error) {
	if _, err := c.identity.AuthToken(); err != nil {
		return 0, nil, err
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("API request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return 0, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("API request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(started)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return resp.StatusCode, nil, &APIError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(text)),
		}
	}

	if resp.StatusCode == http.StatusNoContent {
		return resp.StatusCode, nil, nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return resp.StatusCode, data, nil
}

// decode unmarshals a success body. Unknown fields are ignored; anything else that doesn't fit fails.
func decode[T any](method, path string, status int, data []byte) (T, error) {
	var out T
	if len(bytes.TrimSpace(data)) == 0 {
		return out, &DecodeError{Method: method, Path: path, StatusCode: status, Err: fmt.Errorf("empty response body")}
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, &DecodeError{Method: method, Path: path, StatusCode: status, Err: err}
	}
	return out, nil
}

func getJSON[T any](ctx context.Context, c *Client, path string) (T, error) {
	status, data, err := c.send(ctx, http.MethodGet, path, nil)
	if err != nil {
		var zero T
		return zero, err
	}
	return decode[T](http.MethodGet, path, status, data)
}

func sendJSON[T any](ctx context.Context, c *Client, method, path string, payload any) (T, error) {
	status, data, err := c.send(ctx, method, path, payload)
	if err != nil {
		var zero T
		return zero, err
	}
	return decode[T](method, path, status, data)
}

// sendOptionalJSON is for endpoints that may or may not answer with a body.
// 204 means success with no payload and returns nil.
// Other 2xx responses carrying JSON are decoded; an empty 2xx body also returns nil.
func sendOptionalJSON[T any](ctx context.Context, c *Client, method, path string, payload any) (*T, error) {
	status, data, err := c.send(ctx, method, path, payload)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNoContent || len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	out, err := decode[T](method, path, status, data)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func deleteJSON[T any](ctx context.Context, c *Client, path string) (*T, error) {
	return sendOptionalJSON[T](ctx, c, http.MethodDelete, path, nil)
}

// pathf builds a path, escaping each argument as a single path segment
func pathf(format string, args ...string) string {
	escaped := make([]any, len(args))
	for i, a := range args {
		escaped[i] = url.PathEscape(a)
	}
	return fmt.Sprintf(format, escaped...)
}
