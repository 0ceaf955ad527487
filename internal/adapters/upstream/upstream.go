// Package upstream is the shared JSON-over-HTTP plumbing for outbound calls:
// request pacing, timeouts, status handling and metrics.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/okian/herostats/pkg/metrics"
)

const (
	defaultTimeout   = 5 * time.Second
	maxErrorBodySize = 512
	userAgent        = "herostats/1.0"
)

// ErrUnavailable wraps transport failures and unexpected responses.
var ErrUnavailable = errors.New("upstream unavailable")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Service string
	URL     string
	Code    int
	Body    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: GET %s: status %d", e.Service, e.URL, e.Code)
}

// Unwrap lets callers match any StatusError against ErrUnavailable.
func (e *StatusError) Unwrap() error { return ErrUnavailable }

// IsNotFound reports whether err is a 404 or 204 StatusError.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && (se.Code == http.StatusNotFound || se.Code == http.StatusNoContent)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithRateLimit paces outbound requests. rps <= 0 disables pacing.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// Client performs GET requests that decode JSON bodies.
type Client struct {
	service string
	http    *http.Client
	limiter *rate.Limiter
}

// New returns a client whose metrics and errors are labelled with service.
func New(service string, opts ...Option) *Client {
	c := &Client{
		service: service,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Service returns the label this client reports under.
func (c *Client) Service() string { return c.service }

// GetJSON fetches url and decodes the JSON body into out.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	start := time.Now()
	outcome := "error"
	defer func() {
		metrics.RecordUpstreamRequest(c.service, outcome, float64(time.Since(start).Milliseconds()))
	}()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			outcome = "throttled"
			return fmt.Errorf("%s: wait for rate limiter: %w", c.service, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", c.service, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: GET %s: %w: %w", c.service, url, ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		if resp.StatusCode == http.StatusNotFound {
			outcome = "not_found"
		}
		return &StatusError{Service: c.service, URL: url, Code: resp.StatusCode, Body: string(body)}
	}
	// Some profile services answer 204 for unknown ids.
	if resp.StatusCode == http.StatusNoContent {
		outcome = "not_found"
		return &StatusError{Service: c.service, URL: url, Code: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		outcome = "malformed"
		return fmt.Errorf("%s: decode %s: %w: %w", c.service, url, ErrUnavailable, err)
	}
	outcome = "ok"
	return nil
}
