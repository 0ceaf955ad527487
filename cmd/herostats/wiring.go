package main

import (
	"context"
	"fmt"

	"github.com/okian/herostats/internal/adapters/hglabor"
	"github.com/okian/herostats/internal/adapters/mojang"
	"github.com/okian/herostats/internal/adapters/upstream"
	service "github.com/okian/herostats/internal/app"
	"github.com/okian/herostats/internal/config"
	"github.com/okian/herostats/internal/domain/levelscale"
	"github.com/okian/herostats/pkg/logger"
)

// runtimeDeps is everything a command needs after configuration is loaded.
type runtimeDeps struct {
	cfg *config.Config
	svc *service.Service
}

// setup loads configuration, initializes logging and builds the service.
func setup(ctx context.Context, configPath, logLevel string) (*runtimeDeps, error) {
	cfg, err := config.LoadFile(ctx, configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	return &runtimeDeps{cfg: cfg, svc: newService(cfg)}, nil
}

// newService wires upstream clients, the level scale registry and the service.
func newService(cfg *config.Config) *service.Service {
	limit := func(name string) *upstream.Client {
		return upstream.New(name,
			upstream.WithTimeout(cfg.RequestTimeout()),
			upstream.WithRateLimit(cfg.RequestsPerSecond, cfg.RequestBurst),
		)
	}

	stats := hglabor.New(
		hglabor.WithBaseURL(cfg.APIBaseURL),
		hglabor.WithUpstream(limit("hglabor")),
	)
	resolver := mojang.NewResolver(
		mojang.WithSessionURL(cfg.ProfileBaseURL),
		mojang.WithLookupURL(cfg.NameLookupBaseURL),
		mojang.WithFallbackURL(cfg.FallbackProfileBaseURL),
		mojang.WithUpstreams(limit("mojang"), limit("playerdb")),
	)

	scaleOpts := []levelscale.Option{
		levelscale.WithScalesFromConfig(cfg.LevelScales, cfg.DefaultLevelScale),
		levelscale.WithLogger(logger.Named("levelscale")),
	}
	if cfg.HeroMetadataRemote {
		scaleOpts = append(scaleOpts, levelscale.WithSource(stats))
	}

	return service.New(
		service.WithLogger(logger.Named("service")),
		service.WithStatsProvider(stats),
		service.WithResolver(resolver),
		service.WithScales(levelscale.NewRegistry(scaleOpts...)),
		service.WithWorkerCount(cfg.WorkerCount),
		service.WithQueueSize(cfg.QueueSize),
		service.WithDedupeSize(cfg.DedupeSize),
		service.WithAvatarBaseURL(cfg.AvatarBaseURL),
		service.WithMaxPage(cfg.MaxPage),
		service.WithPageSize(cfg.PageSize),
		service.WithPoolTTL(cfg.PoolTTL()),
	)
}
