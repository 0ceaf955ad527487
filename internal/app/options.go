package service

import (
	"strings"
	"time"

	"github.com/okian/herostats/internal/domain/levelscale"
	"github.com/okian/herostats/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStatsProvider sets where player records and leaderboards come from.
func WithStatsProvider(p StatsProvider) Option {
	return func(s *Service) {
		s.stats = p
	}
}

// WithResolver sets the profile resolver used for display names and name lookups.
func WithResolver(r ProfileResolver) Option {
	return func(s *Service) {
		s.resolver = r
	}
}

// WithScales sets the level scale registry.
func WithScales(r *levelscale.Registry) Option {
	return func(s *Service) {
		if r != nil {
			s.scales = r
		}
	}
}

// WithWorkerCount sets the number of name resolution workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the name resolution queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize bounds how many queued ids are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithAvatarBaseURL sets the avatar renderer root.
func WithAvatarBaseURL(base string) Option {
	return func(s *Service) {
		if base = strings.TrimRight(strings.TrimSpace(base), "/"); base != "" {
			s.avatarBaseURL = base
		}
	}
}

// WithMaxPage caps the leaderboard page number.
func WithMaxPage(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxPage = n
		}
	}
}

// WithPageSize sets the number of rows per upstream leaderboard page.
func WithPageSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithPoolTTL sets how long a pooled leaderboard snapshot stays current.
// Zero refreshes on every read.
func WithPoolTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl >= 0 {
			s.poolTTL = ttl
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
