// Package levelscale resolves the leveling curve divisor for heroes and abilities.
package levelscale

import (
	"context"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/okian/herostats/internal/domain/leveling"
	"github.com/okian/herostats/internal/domain/model"
	"github.com/okian/herostats/pkg/logger"
	"github.com/okian/herostats/pkg/metrics"
)

// Source fetches hero metadata from an external provider.
type Source interface {
	HeroMetadata(ctx context.Context, hero string) (model.HeroMetadata, error)
}

// defaultFallbackTTL bounds how long a failed or malformed metadata lookup
// is answered with the default before the source is asked again.
const defaultFallbackTTL = time.Minute

// Registry looks up level scales: configured overrides first, then the
// optional Source for hero names, then the default. Lookups never fail.
type Registry struct {
	mu           sync.RWMutex
	scales       map[string]float64
	defaultScale float64
	source       Source
	logger       logger.Logger

	// cache holds source answers; fallbacks expire after fallbackTTL.
	cache       map[string]cachedScale
	fallbackTTL time.Duration
	now         func() time.Time
}

type cachedScale struct {
	scale   float64
	expires time.Time // zero for source answers, which never expire
}

// NewRegistry creates a registry with configuration options.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		scales:       make(map[string]float64),
		defaultScale: leveling.DefaultLevelScale,
		cache:        make(map[string]cachedScale),
		fallbackTTL:  defaultFallbackTTL,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Scale returns the level scale for a hero. Source answers are cached; a
// fallback to the default is cached for the fallback TTL.
func (r *Registry) Scale(ctx context.Context, hero string) float64 {
	key := normalize(hero)

	r.mu.RLock()
	s, ok := r.scales[key]
	c, cached := r.cache[key]
	src := r.source
	r.mu.RUnlock()
	if ok {
		return s
	}
	if src == nil || key == "" {
		return r.defaultScale
	}
	if cached && (c.expires.IsZero() || r.now().Before(c.expires)) {
		return c.scale
	}

	meta, err := src.HeroMetadata(ctx, key)
	switch {
	case err != nil:
		metrics.RecordScaleFallback("unavailable")
		r.debug(ctx, "hero metadata unavailable; using default scale", logger.String("hero", key), logger.Error(err))
		r.remember(key, cachedScale{scale: r.defaultScale, expires: r.now().Add(r.fallbackTTL)})
		return r.defaultScale
	case !valid(meta.LevelScale):
		metrics.RecordScaleFallback("malformed")
		r.debug(ctx, "malformed hero metadata; using default scale", logger.String("hero", key), logger.Float64("levelScale", meta.LevelScale))
		r.remember(key, cachedScale{scale: r.defaultScale, expires: r.now().Add(r.fallbackTTL)})
		return r.defaultScale
	}
	r.remember(key, cachedScale{scale: meta.LevelScale})
	return meta.LevelScale
}

// AbilityScale returns the configured scale for an ability, or the default.
// Hero metadata carries no ability scales, so the source is not consulted.
func (r *Registry) AbilityScale(ability string) float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.scales[normalize(ability)]; ok {
		return s
	}
	return r.defaultScale
}

func (r *Registry) remember(key string, c cachedScale) {
	r.mu.Lock()
	r.cache[key] = c
	r.mu.Unlock()
}

// Default returns the fallback scale.
func (r *Registry) Default() float64 {
	return r.defaultScale
}

// SetScale overrides the scale for name. Invalid scales remove the override.
func (r *Registry) SetScale(name string, scale float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.cache, normalize(name))
	if !valid(scale) {
		delete(r.scales, normalize(name))
		return
	}
	r.scales[normalize(name)] = scale
}

func (r *Registry) debug(ctx context.Context, msg string, fields ...logger.Field) {
	if r.logger != nil {
		r.logger.Debug(ctx, msg, fields...)
	}
}

func valid(s float64) bool {
	return s > 0 && !math.IsInf(s, 0) && !math.IsNaN(s)
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
