package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/okian/herostats/internal/adapters/http/api"
	"github.com/okian/herostats/internal/domain/model"
	"github.com/okian/herostats/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "override the listen address"},
		},
		Action: func(c *cli.Context) error {
			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			rt, err := setup(ctx, c.String("config"), c.String("log-level"))
			if err != nil {
				return err
			}
			if addr := c.String("addr"); addr != "" {
				rt.cfg.Addr = addr
			}
			return serve(ctx, rt)
		},
	}
}

func serve(ctx context.Context, rt *runtimeDeps) error {
	log := logger.Get()
	if err := rt.svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		rt.svc.Stop(stopCtx)
	}()

	go startSystemMetricsUpdater(ctx)
	go startServiceMetricsUpdater(ctx, rt.svc)

	apiServer := api.NewServer(rt.svc, rt.svc, api.WithCORSOrigins(rt.cfg.CORSAllowedOrigins))
	srv := &http.Server{
		Addr:              rt.cfg.Addr,
		Handler:           apiServer.Handler(),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", rt.cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down server", logger.Duration("timeout", shutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
		return err
	}
	log.Info(ctx, "server stopped")
	return nil
}

func playerCommand() *cli.Command {
	return &cli.Command{
		Name:      "player",
		Usage:     "print one player's hero levels",
		ArgsUsage: "<name or uuid>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return errors.New("player takes exactly one name or uuid")
			}
			rt, err := setup(c.Context, c.String("config"), c.String("log-level"))
			if err != nil {
				return err
			}
			return withService(c.Context, rt, func(ctx context.Context) error {
				view, err := rt.svc.Player(ctx, c.Args().First())
				if err != nil {
					return err
				}
				return printJSON(c.App.Writer, view)
			})
		},
	}
}

func topCommand() *cli.Command {
	return &cli.Command{
		Name:  "top",
		Usage: "print one leaderboard page",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "sort", Value: string(model.StatKills), Usage: "statistic to rank by"},
			&cli.IntFlag{Name: "page", Value: 1, Usage: "1-based page number"},
		},
		Action: func(c *cli.Context) error {
			stat, err := model.ParseStatistic(c.String("sort"))
			if err != nil {
				return err
			}
			rt, err := setup(c.Context, c.String("config"), c.String("log-level"))
			if err != nil {
				return err
			}
			return withService(c.Context, rt, func(ctx context.Context) error {
				rows, err := rt.svc.Leaderboard(ctx, stat, c.Int("page"))
				if err != nil {
					return err
				}
				return printJSON(c.App.Writer, rows)
			})
		},
	}
}

func levelCommand() *cli.Command {
	return &cli.Command{
		Name:  "level",
		Usage: "derive a level from raw experience",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "xp", Required: true, Usage: "total experience"},
			&cli.Float64Flag{Name: "scale", Usage: "level scale, default when omitted"},
		},
		Action: func(c *cli.Context) error {
			if c.IsSet("scale") && c.Float64("scale") <= 0 {
				return errors.New("scale must be positive")
			}
			rt, err := setup(c.Context, c.String("config"), c.String("log-level"))
			if err != nil {
				return err
			}
			d, err := rt.svc.Level(c.Int64("xp"), c.Float64("scale"))
			if err != nil {
				return err
			}
			return printJSON(c.App.Writer, d)
		},
	}
}

// withService runs fn between Start and Stop so names can resolve in the
// background while fn works.
func withService(ctx context.Context, rt *runtimeDeps, fn func(ctx context.Context) error) error {
	if err := rt.svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer rt.svc.Stop(ctx)
	return fn(ctx)
}

func printJSON(w io.Writer, v any) error {
	if w == nil {
		w = os.Stdout
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
