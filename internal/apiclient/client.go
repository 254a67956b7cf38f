// Package apiclient talks to the library backend REST API.
package apiclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	// DefaultBase is used when no base URL is configured.
	DefaultBase = "/api"
	// DefaultOrigin resolves a relative base URL.
	DefaultOrigin = "http://localhost:8000"
	// DefaultTimeout bounds a single backend request.
	DefaultTimeout = 10 * time.Second

	maxResponseBytes = 4 << 20
)

var (
	ErrInvalidOrigin = errors.New("api origin must be an absolute URL")
	ErrNoToken       = errors.New("login response carried no access token")
)

// Credentials supplies per-request auth values. Either may be empty.
type Credentials interface {
	Token() string
	Email() string
}

// Client calls the library REST API on behalf of one set of credentials.
type Client struct {
	base   string
	origin string
	http   *http.Client
	creds  Credentials
}

// Option configures a Client.
type Option func(*Client) error

// WithOrigin sets the origin a relative base URL is resolved against.
func WithOrigin(origin string) Option {
	return func(c *Client) error {
		c.origin = origin
		return nil
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return errors.New("http client must not be nil")
		}
		c.http = hc
		return nil
	}
}

// WithTimeout sets the per-request timeout. Zero disables it. The HTTP
// client is copied first, so a client passed to WithHTTPClient is never
// changed.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) error {
		hc := *c.http
		hc.Timeout = d
		c.http = &hc
		return nil
	}
}

// WithCredentials sets where the auth headers are read from.
func WithCredentials(creds Credentials) Option {
	return func(c *Client) error {
		c.creds = creds
		return nil
	}
}

// New creates a Client for the API at base, applying opts in order.
func New(base string, opts ...Option) (*Client, error) {
	c := &Client{
		origin: DefaultOrigin,
		http:   &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	resolved, err := ResolveBase(base, c.origin)
	if err != nil {
		return nil, err
	}
	c.base = resolved
	return c, nil
}

// ResolveBase trims one trailing slash from base and resolves it against
// origin when it is relative. An empty base means DefaultBase.
func ResolveBase(base, origin string) (string, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		base = DefaultBase
	}
	base = strings.TrimSuffix(base, "/")

	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse api base %q: %w", base, err)
	}
	if u.IsAbs() {
		return base, nil
	}

	o, err := url.Parse(origin)
	if err != nil || !o.IsAbs() {
		return "", fmt.Errorf("%w: %q", ErrInvalidOrigin, origin)
	}
	return strings.TrimSuffix(o.ResolveReference(u).String(), "/"), nil
}

// Base returns the resolved base URL without trailing slash.
func (c *Client) Base() string { return c.base }

// As returns a copy of the client that authenticates with creds.
func (c *Client) As(creds Credentials) *Client {
	cp := *c
	cp.creds = creds
	return &cp
}

// AuthHeaders returns the Authorization and X-User-Email headers for the
// current credentials. Each is attached only when its value is present.
func (c *Client) AuthHeaders() http.Header {
	h := http.Header{}
	if c.creds == nil {
		return h
	}
	if token := c.creds.Token(); token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	if email := c.creds.Email(); email != "" {
		h.Set("X-User-Email", email)
	}
	return h
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := c.base + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	for k, v := range c.AuthHeaders() {
		req.Header[k] = v
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, data)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func pathID(id string) string { return url.PathEscape(id) }
