// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults come from New; Load layers a YAML file and environment on top.
// - Validation uses struct tags checked by go-playground/validator.
// - Errors are wrapped with this package's sentinels.
package config

import (
	"runtime"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"omitempty,oneof=debug info warn warning error"`

	// LogFormat selects text or json log records.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr" validate:"required"`

	// APIBaseURL is the stats API root.
	APIBaseURL string `koanf:"api_base_url" validate:"required,url"`

	// ProfileBaseURL resolves UUIDs to names (primary service).
	ProfileBaseURL string `koanf:"profile_base_url" validate:"required,url"`

	// NameLookupBaseURL resolves names to UUIDs (primary service).
	NameLookupBaseURL string `koanf:"name_lookup_base_url" validate:"required,url"`

	// FallbackProfileBaseURL is tried when the primary profile services fail.
	FallbackProfileBaseURL string `koanf:"fallback_profile_base_url" validate:"required,url"`

	// AvatarBaseURL renders player heads.
	AvatarBaseURL string `koanf:"avatar_base_url" validate:"required,url"`

	// RequestTimeoutMS bounds each upstream request.
	RequestTimeoutMS int `koanf:"request_timeout_ms" validate:"gt=0"`

	// RequestsPerSecond and RequestBurst pace outbound upstream requests.
	RequestsPerSecond float64 `koanf:"requests_per_second" validate:"gt=0"`
	RequestBurst      int     `koanf:"request_burst" validate:"gt=0"`

	// WorkerCount sets the number of name resolution workers.
	WorkerCount int `koanf:"worker_count" validate:"gte=0"`

	// QueueSize bounds the name resolution queue.
	QueueSize int `koanf:"queue_size" validate:"gte=0"`

	// DedupeSize bounds the set of identifiers already queued for resolution.
	DedupeSize int `koanf:"dedupe_size"`

	// DefaultLevelScale applies to heroes and abilities without a configured scale.
	DefaultLevelScale float64 `koanf:"default_level_scale" validate:"gt=0"`

	// LevelScales maps hero or ability names to their level scale.
	LevelScales map[string]float64 `koanf:"level_scales"`

	// HeroMetadataRemote fetches missing level scales from the stats API.
	HeroMetadataRemote bool `koanf:"hero_metadata_remote"`

	// MaxPage caps the page query parameter.
	MaxPage int `koanf:"max_page" validate:"gt=0"`

	// PageSize is the number of rows the stats API returns per leaderboard page.
	PageSize int `koanf:"page_size" validate:"gt=0"`

	// PoolTTLSeconds is how long a rank comparison snapshot stays current.
	PoolTTLSeconds int `koanf:"pool_ttl_seconds" validate:"gte=0"`

	// CORSAllowedOrigins lists browser origins allowed to call the API.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		LogFormat:              "text",
		Addr:                   ":9080",
		APIBaseURL:             "https://api.hglabor.de",
		ProfileBaseURL:         "https://sessionserver.mojang.com",
		NameLookupBaseURL:      "https://api.mojang.com",
		FallbackProfileBaseURL: "https://playerdb.co",
		AvatarBaseURL:          "https://mc-heads.net",
		RequestTimeoutMS:       5000,
		RequestsPerSecond:      10,
		RequestBurst:           20,
		WorkerCount:            runtime.NumCPU() * 2,
		QueueSize:              10_000,
		DedupeSize:             50_000,
		DefaultLevelScale:      315,
		LevelScales:            map[string]float64{},
		MaxPage:                100,
		PageSize:               10,
		PoolTTLSeconds:         60,
		CORSAllowedOrigins:     []string{"*"},
	}
}

// RequestTimeout returns RequestTimeoutMS as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// PoolTTL returns PoolTTLSeconds as a duration.
func (c *Config) PoolTTL() time.Duration {
	return time.Duration(c.PoolTTLSeconds) * time.Second
}
