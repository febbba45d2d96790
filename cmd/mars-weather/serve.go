package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	httpapi "github.com/i474232898/mars-weather/internal/api/http"
	"github.com/i474232898/mars-weather/internal/config"
	"github.com/i474232898/mars-weather/internal/logging"
	"github.com/i474232898/mars-weather/internal/scheduler"
	"github.com/i474232898/mars-weather/internal/store"
	"github.com/i474232898/mars-weather/internal/weather"
	"github.com/i474232898/mars-weather/internal/weather/providers"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Fetch the feed and serve weather by date over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	// Shared HTTP client for outbound feed calls.
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	cache := store.NewSolCache()
	feed := providers.NewMSLProvider(httpClient, cfg.FeedURL, log)
	service := weather.NewService(cache, feed, log)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Nothing is served until the cache holds one good snapshot.
	bootCtx, cancel := context.WithTimeout(ctx, cfg.BootstrapTimeout)
	err = service.Refresh(bootCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("initial fetch failed: %w", err)
	}

	refresher := scheduler.New(cfg.RefreshInterval, service, log)
	if err := refresher.Start(ctx); err != nil {
		return fmt.Errorf("failed to start refresher: %w", err)
	}
	defer refresher.Stop()

	app := httpapi.NewApp(service, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", cfg.Addr()), zap.Int("cached_sols", cache.Len()))
		return app.Listen(cfg.Addr())
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		refresher.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})

	return g.Wait()
}
