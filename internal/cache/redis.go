package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisForbidden = "1"
	redisAllowed   = "0"
)

type Redis struct {
	cli        *redis.Client
	defaultTTL time.Duration
}

func NewRedis(addr, password string, db int, defaultTTL time.Duration) *Redis {
	cli := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		MinIdleConns: 1,
		PoolSize:     10,
	})
	return &Redis{cli: cli, defaultTTL: defaultTTL}
}

func (r *Redis) Close() error {
	return r.cli.Close()
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.cli.Ping(ctx).Err()
}

func (r *Redis) Lookup(ctx context.Context, key string) (bool, bool, error) {
	v, err := r.cli.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return v == redisForbidden, true, nil
}

func (r *Redis) Store(ctx context.Context, key string, forbidden bool, ttl time.Duration) error {
	v := redisAllowed
	if forbidden {
		v = redisForbidden
	}
	exp := ttl
	if exp <= 0 {
		exp = r.defaultTTL
	}
	return r.cli.Set(ctx, key, v, exp).Err()
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.cli.Del(ctx, key).Err()
}
