package mojang

import (
	"strings"

	"github.com/okian/herostats/internal/adapters/upstream"
	"github.com/okian/herostats/pkg/logger"
)

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithSessionURL sets the base of the uuid to name service.
func WithSessionURL(base string) Option {
	return func(r *Resolver) { setBase(&r.sessionURL, base) }
}

// WithLookupURL sets the base of the name to uuid service.
func WithLookupURL(base string) Option {
	return func(r *Resolver) { setBase(&r.lookupURL, base) }
}

// WithFallbackURL sets the base of the service tried when the primary fails.
func WithFallbackURL(base string) Option {
	return func(r *Resolver) { setBase(&r.fallbackURL, base) }
}

// WithUpstreams replaces the HTTP plumbing for the primary and fallback services.
func WithUpstreams(primary, fallback *upstream.Client) Option {
	return func(r *Resolver) {
		if primary != nil {
			r.primary = primary
		}
		if fallback != nil {
			r.fallback = fallback
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

func setBase(dst *string, base string) {
	if base = strings.TrimRight(strings.TrimSpace(base), "/"); base != "" {
		*dst = base
	}
}
