package hglabor

import (
	"strings"

	"github.com/okian/herostats/internal/adapters/upstream"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL sets the stats API root, e.g. https://api.hglabor.de.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base = strings.TrimRight(strings.TrimSpace(base), "/"); base != "" {
			c.baseURL = base
		}
	}
}

// WithUpstream replaces the HTTP plumbing.
func WithUpstream(u *upstream.Client) Option {
	return func(c *Client) {
		if u != nil {
			c.http = u
		}
	}
}
