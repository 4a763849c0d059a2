package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/TinaKropaneva/restricted-domains/internal/blocklist"
	"github.com/TinaKropaneva/restricted-domains/internal/cache"
	"github.com/TinaKropaneva/restricted-domains/internal/checker"
	"github.com/TinaKropaneva/restricted-domains/internal/config"
	"github.com/TinaKropaneva/restricted-domains/internal/httpserver"
	"github.com/TinaKropaneva/restricted-domains/internal/ratelimit"
)

const shutdownTimeout = 10 * time.Second

// Run wires the blocklist reloader and the HTTP server and blocks until ctx
// is cancelled or one of them fails.
func Run(ctx context.Context, cfg config.Config, logger zerolog.Logger) error {
	src, err := blocklist.NewSource(cfg.BlocklistSource, cfg.FetchTimeout)
	if err != nil {
		return fmt.Errorf("blocklist source: %w", err)
	}

	c, closeCache, err := cache.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("cache init: %w", err)
	}
	defer closeCache()

	limiter := ratelimit.New(cfg.RatePerSec, cfg.RateBurst)
	defer limiter.Close()

	holder := blocklist.NewHolder()
	reloader := blocklist.NewReloader(blocklist.Config{
		Interval:       cfg.BlocklistReload,
		Timeout:        cfg.FetchTimeout,
		InitialBackoff: 30 * time.Second,
		MaxBackoff:     30 * time.Minute,
		Normalize:      cfg.NormalizeInput,
	}, src, holder, logger)

	svc := checker.NewService(holder, c, checker.Options{
		CacheTTL:     cfg.CacheTTL,
		Normalize:    cfg.NormalizeInput,
		BatchWorkers: cfg.BatchWorkers,
	})

	addr := ":" + cfg.Port
	srv := httpserver.New(addr, logger, limiter, httpserver.Deps{
		Holder:   holder,
		Checker:  svc,
		BatchMax: cfg.BatchMax,
	}, cfg.MetricsEnabled)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := reloader.Start(ctx); err != nil {
			return fmt.Errorf("blocklist: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		logger.Info().Str("addr", addr).Str("source", src.String()).Int("rate_per_sec", cfg.RatePerSec).Int("burst", cfg.RateBurst).Msg("listening")
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("graceful shutdown error")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("stopped with error")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
