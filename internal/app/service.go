// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/herostats/internal/adapters/hglabor"
	"github.com/okian/herostats/internal/adapters/mojang"
	resolvequeue "github.com/okian/herostats/internal/adapters/mq/queue"
	workerpool "github.com/okian/herostats/internal/adapters/mq/worker"
	"github.com/okian/herostats/internal/adapters/repository"
	"github.com/okian/herostats/internal/domain/dedupe"
	"github.com/okian/herostats/internal/domain/leveling"
	"github.com/okian/herostats/internal/domain/levelscale"
	"github.com/okian/herostats/internal/domain/model"
	"github.com/okian/herostats/pkg/logger"
	"github.com/okian/herostats/pkg/metrics"
)

// StatsProvider supplies raw player records.
type StatsProvider interface {
	TopPlayers(ctx context.Context, stat model.Statistic, page int) ([]model.StatRecord, error)
	// Player returns hglabor.ErrPlayerNotFound for unknown players.
	Player(ctx context.Context, playerID string) (model.StatRecord, error)
}

// ProfileResolver maps between player UUIDs and display names.
type ProfileResolver interface {
	ProfileName(ctx context.Context, playerID string) (string, error)
	UUIDFor(ctx context.Context, name string) (string, error)
}

// Service serves player views, leaderboards and ranks.
type Service struct {
	mu sync.RWMutex

	stats    StatsProvider
	resolver ProfileResolver
	scales   *levelscale.Registry

	names   repository.NameStore
	pool    repository.PoolStore
	deduper dedupe.Deduper
	queue   resolvequeue.Queue
	workers *workerpool.Pool

	workerCount   int
	queueSize     int
	dedupeSize    int
	avatarBaseURL string
	maxPage       int
	pageSize      int
	poolTTL       time.Duration
	now           func() time.Time

	started bool
	logger  logger.Logger
}

// New constructs a Service. Stores are ready immediately; name resolution
// workers run between Start and Stop.
func New(opts ...Option) *Service {
	s := &Service{
		scales:        levelscale.NewRegistry(),
		workerCount:   runtime.NumCPU() * 2,
		queueSize:     10_000,
		dedupeSize:    50_000,
		avatarBaseURL: "https://mc-heads.net",
		maxPage:       100,
		pageSize:      10,
		poolTTL:       time.Minute,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.names = repository.NewMemoryNameStore()
	s.pool = repository.NewMemoryPool(repository.WithClock(s.now))
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	return s
}

// Start launches the name resolution workers. It is a no-op without a resolver.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.stats == nil {
		return fmt.Errorf("start service: %w: no stats provider", ErrBadRequest)
	}

	if s.resolver != nil {
		s.queue = resolvequeue.NewInMemoryQueue(resolvequeue.WithCapacity(s.queueSize))
		s.workers = workerpool.NewPool(s.workerCount, s.queue, s.resolver, s.names,
			workerpool.WithForgetter(s.deduper),
		)
		s.workers.Start(ctx)
	}

	s.started = true
	s.logger.Info(ctx, "herostats service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Bool("nameResolution", s.resolver != nil),
	)
	return nil
}

// Stop shuts down the workers. Queued resolutions are dropped.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if s.workers != nil {
		if err := s.workers.Shutdown(ctx); err != nil {
			s.logger.Warn(ctx, "worker pool shutdown", logger.Error(err))
		}
	}
	s.workers = nil
	s.queue = nil
	s.started = false
	s.logger.Info(ctx, "herostats service stopped")
}

// Level derives a level from raw experience. A zero scale selects the default.
func (s *Service) Level(xp int64, scale float64) (model.DerivedLevel, error) {
	if scale == 0 {
		scale = s.scales.Default()
	}
	d, err := leveling.Derive(xp, scale)
	if err != nil {
		return model.DerivedLevel{}, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	metrics.RecordLevelComputation()
	return d, nil
}

// resolveID turns a UUID or a player name into a canonical UUID.
// known is the display name when the caller supplied one.
func (s *Service) resolveID(ctx context.Context, identifier string) (id, known string, err error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return "", "", fmt.Errorf("%w: empty player identifier", ErrBadRequest)
	}
	if u, perr := uuid.Parse(identifier); perr == nil {
		return u.String(), "", nil
	}
	if s.resolver == nil {
		return "", "", fmt.Errorf("%w: %s", ErrPlayerNotFound, identifier)
	}

	id, err = s.resolver.UUIDFor(ctx, identifier)
	switch {
	case errors.Is(err, mojang.ErrProfileNotFound):
		return "", "", fmt.Errorf("%w: %s", ErrPlayerNotFound, identifier)
	case errors.Is(err, mojang.ErrInvalidName):
		return "", "", fmt.Errorf("%w: %w", ErrBadRequest, err)
	case err != nil:
		return "", "", fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	if perr := s.names.Put(ctx, id, identifier); perr != nil {
		s.logger.Debug(ctx, "name not stored", logger.String("player", id), logger.Error(perr))
	}
	return id, identifier, nil
}

// fetchPlayer loads and validates a record.
func (s *Service) fetchPlayer(ctx context.Context, id string) (model.StatRecord, error) {
	stats, err := s.provider()
	if err != nil {
		return model.StatRecord{}, err
	}
	rec, err := stats.Player(ctx, id)
	switch {
	case errors.Is(err, hglabor.ErrPlayerNotFound):
		return model.StatRecord{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
	case errors.Is(err, hglabor.ErrInvalidPlayerID):
		return model.StatRecord{}, fmt.Errorf("%w: %w", ErrBadRequest, err)
	case err != nil:
		return model.StatRecord{}, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	if err := leveling.ValidateTree(rec.Heroes); err != nil {
		return model.StatRecord{}, fmt.Errorf("%w %s: %w", ErrInvalidRecord, id, err)
	}
	return rec, nil
}

func (s *Service) provider() (StatsProvider, error) {
	if s.stats == nil {
		return nil, fmt.Errorf("%w: no stats provider", ErrBadRequest)
	}
	return s.stats, nil
}

// refreshPool re-fetches page 1 for every stale statistic. Failures leave the
// previous snapshot in place.
func (s *Service) refreshPool(ctx context.Context, stats ...model.Statistic) {
	for _, stat := range stats {
		if at := s.pool.UpdatedAt(stat); !at.IsZero() && s.now().Sub(at) < s.poolTTL {
			continue
		}
		records, err := s.stats.TopPlayers(ctx, stat, 1)
		if err != nil {
			metrics.RecordErrorByComponent("service", "pool_refresh")
			s.logger.Warn(ctx, "rank pool refresh failed",
				logger.String("statistic", string(stat)),
				logger.Error(err),
			)
			continue
		}
		s.pool.Merge(ctx, stat, records)
	}
}

// displayName returns the best known name for rec, scheduling resolution
// when none is known yet.
func (s *Service) displayName(ctx context.Context, rec *model.StatRecord) string {
	if name, err := s.names.Get(ctx, rec.PlayerID); err == nil {
		return name
	}
	if rec.Name != "" {
		_ = s.names.Put(ctx, rec.PlayerID, rec.Name)
		return rec.Name
	}
	s.scheduleResolve(ctx, rec.PlayerID)
	return rec.PlayerID
}

// resolveNow resolves a single name synchronously, falling back to the
// asynchronous path on failure.
func (s *Service) resolveNow(ctx context.Context, rec *model.StatRecord) string {
	if name, err := s.names.Get(ctx, rec.PlayerID); err == nil {
		return name
	}
	if rec.Name == "" && s.resolver != nil {
		name, err := s.resolver.ProfileName(ctx, rec.PlayerID)
		if err == nil {
			err = s.names.Put(ctx, rec.PlayerID, name)
		}
		if err == nil {
			return name
		}
		s.logger.Debug(ctx, "profile name lookup failed", logger.String("player", rec.PlayerID), logger.Error(err))
	}
	return s.displayName(ctx, rec)
}

func (s *Service) scheduleResolve(ctx context.Context, playerID string) {
	s.mu.RLock()
	q := s.queue
	s.mu.RUnlock()
	if q == nil {
		return
	}

	if s.deduper.SeenAndRecord(ctx, playerID) {
		metrics.RecordResolveDuplicate()
		return
	}
	if !q.Enqueue(ctx, model.ResolveJob{JobID: uuid.NewString(), PlayerID: playerID}) {
		s.deduper.Unrecord(ctx, playerID)
		s.logger.Debug(ctx, "resolution queue rejected job", logger.String("player", playerID))
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]any{
		"started":           s.started,
		"workerCount":       s.workerCount,
		"queueSize":         s.queueSize,
		"dedupeSize":        s.dedupeSize,
		"dedupeEntries":     s.deduper.Size(),
		"namesKnown":        s.names.Len(),
		"poolSize":          s.pool.Size(),
		"poolTTLSeconds":    s.poolTTL.Seconds(),
		"defaultLevelScale": s.scales.Default(),
	}
	if s.queue != nil {
		stats["queueLength"] = s.queue.Len(ctx)
	}
	metrics.UpdatePoolSize(s.pool.Size())
	metrics.UpdateNamesKnown(s.names.Len())
	return stats
}
