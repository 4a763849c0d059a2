package blocklist

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/TinaKropaneva/restricted-domains/internal/domain"
	"github.com/TinaKropaneva/restricted-domains/internal/metrics"
	"github.com/TinaKropaneva/restricted-domains/internal/util"
)

type Config struct {
	Interval       time.Duration // 0 => load once
	Timeout        time.Duration // per load attempt
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Normalize      bool // run entries through util.NormalizeDomain
}

type Reloader struct {
	cfg    Config
	src    Source
	holder *Holder
	logger zerolog.Logger
}

func NewReloader(cfg Config, src Source, holder *Holder, logger zerolog.Logger) *Reloader {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 30 * time.Second
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 30 * time.Minute
	}
	return &Reloader{cfg: cfg, src: src, holder: holder, logger: logger.With().Str("component", "blocklist").Logger()}
}

// Start loads the blocklist immediately, then again every Interval until
// ctx is done. Without an Interval the single load's error is returned.
// Until the first load succeeds it is retried with exponential backoff;
// after that a failed reload keeps the previous snapshot and delays the
// next attempt the same way.
func (r *Reloader) Start(ctx context.Context) error {
	_, err := r.Reload(ctx)
	if r.cfg.Interval <= 0 {
		return err
	}

	var failures int
	for err != nil {
		failures++
		backoff := calcBackoff(r.cfg.InitialBackoff, r.cfg.MaxBackoff, failures)
		r.logger.Error().Err(err).Int("attempt", failures).Dur("backoff", backoff).Msg("initial load failed")
		if !sleepCtx(ctx, backoff) {
			r.logger.Info().Err(ctx.Err()).Msg("reloader stopped before first load")
			return nil
		}
		_, err = r.Reload(ctx)
	}
	if failures > 0 {
		r.logger.Info().Int("failures", failures).Msg("initial load recovered")
	}
	failures = 0

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Err(ctx.Err()).Msg("reloader stopped")
			return nil

		case <-ticker.C:
			if _, err := r.Reload(ctx); err != nil {
				failures++
				backoff := calcBackoff(r.cfg.InitialBackoff, r.cfg.MaxBackoff, failures)
				r.logger.Warn().Err(err).Int("attempt", failures).Dur("backoff", backoff).Msg("reload failed")
				if !sleepCtx(ctx, backoff) {
					r.logger.Info().Err(ctx.Err()).Msg("reloader stopped during backoff")
					return nil
				}
				continue
			}
			if failures > 0 {
				r.logger.Info().Int("failures", failures).Msg("reload recovered")
			}
			failures = 0
		}
	}
}

// sleepCtx waits for d and reports false if ctx ended first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// Reload performs one load, builds the forbidden set and installs it.
func (r *Reloader) Reload(ctx context.Context) (*Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	start := time.Now()
	raw, err := r.src.Load(ctx)
	if err != nil {
		metrics.ObserveBlocklistLoad(r.src.String(), start, 0, err)
		return nil, err
	}

	entries := raw
	if r.cfg.Normalize {
		entries = make([]string, 0, len(raw))
		skipped := 0
		for _, e := range raw {
			host, err := util.NormalizeDomain(e)
			if err != nil {
				skipped++
				continue
			}
			entries = append(entries, host)
		}
		if skipped > 0 {
			r.logger.Warn().Int("skipped", skipped).Msg("skipped invalid blocklist entries")
		}
	}

	set := domain.BuildFromText(entries)
	snap := r.holder.Install(set, len(entries), r.src.String())
	metrics.ObserveBlocklistLoad(r.src.String(), start, set.Len(), nil)

	r.logger.Info().
		Str("source", snap.Source).
		Uint64("generation", snap.Generation).
		Int("entries", snap.Entries).
		Int("roots", set.Len()).
		Dur("took", time.Since(start)).
		Msg("blocklist loaded")
	return snap, nil
}

func calcBackoff(initial, max time.Duration, failures int) time.Duration {
	pow := math.Pow(2, float64(failures-1))
	backoff := time.Duration(float64(initial) * pow)
	if backoff > max || backoff <= 0 {
		backoff = max
	}

	// ±20% jitter
	jitterFrac := 0.2
	jitter := time.Duration(rand.Float64()*2*jitterFrac*float64(backoff)) -
		time.Duration(jitterFrac*float64(backoff))

	return backoff + jitter
}
