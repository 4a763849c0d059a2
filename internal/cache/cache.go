package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/TinaKropaneva/restricted-domains/internal/config"
)

// Cache stores forbidden/allowed verdicts by key.
type Cache interface {
	// Lookup returns (hit=false, nil) if key is absent or expired.
	Lookup(ctx context.Context, key string) (forbidden, hit bool, err error)
	Store(ctx context.Context, key string, forbidden bool, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Nop never hits. Used when CACHE_BACKEND=none.
type Nop struct{}

func (Nop) Lookup(context.Context, string) (bool, bool, error) { return false, false, nil }
func (Nop) Store(context.Context, string, bool, time.Duration) error { return nil }
func (Nop) Delete(context.Context, string) error { return nil }

// NewFromConfig selects a backend based on cfg.CacheBackend.
func NewFromConfig(cfg config.Config) (Cache, func(), error) {
	switch cfg.CacheBackend {
	case "memory":
		mc := NewMemory(MemoryOptions{
			TTL:         cfg.CacheTTL,
			MaxItems:    cfg.CacheMaxItems,
			SweepMin:    cfg.CacheSweepMin,
			SweepMax:    cfg.CacheSweepMax,
			AutoJanitor: true,
		})
		return mc, func() { mc.Close() }, nil
	case "redis":
		rc := NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CacheTTL)
		return rc, func() { _ = rc.Close() }, nil
	case "none":
		return Nop{}, func() {}, nil
	default:
		return nil, func() {}, fmt.Errorf("unknown cache backend: %s", cfg.CacheBackend)
	}
}
