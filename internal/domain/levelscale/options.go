package levelscale

import (
	"time"

	"github.com/okian/herostats/pkg/logger"
)

// Option applies a configuration option to the Registry.
type Option func(*Registry)

// WithScalesFromConfig sets per hero/ability scales and the fallback scale.
// Non-positive entries are dropped so they fall through to the fallback.
func WithScalesFromConfig(scales map[string]float64, defaultScale float64) Option {
	return func(r *Registry) {
		r.scales = make(map[string]float64, len(scales))
		for name, s := range scales {
			if valid(s) {
				r.scales[normalize(name)] = s
			}
		}
		if valid(defaultScale) {
			r.defaultScale = defaultScale
		}
	}
}

// WithSource consults src for names without a configured scale.
func WithSource(src Source) Option {
	return func(r *Registry) {
		r.source = src
	}
}

// WithLogger sets the logger used to report ignored metadata.
func WithLogger(l logger.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithFallbackTTL sets how long a default answered for unavailable or
// malformed metadata is reused. Non-positive values keep the default.
func WithFallbackTTL(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.fallbackTTL = d
		}
	}
}

// WithClock replaces time.Now for fallback expiry.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}
