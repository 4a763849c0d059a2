package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port string

	BlocklistSource string        // file path or http(s) URL
	BlocklistReload time.Duration // 0 => load once at startup
	FetchTimeout    time.Duration // remote blocklist fetch timeout
	NormalizeInput  bool          // lower-case and validate domains on the HTTP surface

	CacheBackend  string        // memory|redis|none
	CacheTTL      time.Duration // TTL for cached verdicts
	CacheMaxItems int           // memory backend only, 0 => unlimited
	CacheSweepMin time.Duration
	CacheSweepMax time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RatePerSec   int
	RateBurst    int
	BatchWorkers int // worker pool size for batch endpoint
	BatchMax     int // max domains per batch request

	LogLevel          string // info|debug|warn|error
	LogOutput         string // stdout|stderr|file|both
	LogFilePath       string // ./logs/restricted-domains.log
	LogFileMaxSize    int    // MB
	LogFileMaxBackups int    // files
	LogFileMaxAge     int    // days
	LogFileCompress   bool

	MetricsEnabled bool // expose /metrics and collect
}

// Load reads the configuration from the environment. Unparsable numbers and
// durations are reported together instead of falling back to defaults.
func Load() (Config, error) {
	var p envParser
	c := Config{
		Port: getenv("PORT", "8080"),

		BlocklistSource: getenv("BLOCKLIST_SOURCE", "./forbidden.txt"),
		BlocklistReload: p.duration("BLOCKLIST_RELOAD", "0"),
		FetchTimeout:    p.duration("FETCH_TIMEOUT", "10s"),
		NormalizeInput:  getBoolEnv("NORMALIZE_INPUT", true),

		CacheBackend:  strings.ToLower(getenv("CACHE_BACKEND", "memory")),
		CacheTTL:      p.duration("CACHE_TTL", "10m"),
		CacheMaxItems: p.integer("CACHE_MAX_ITEMS", 100000),
		CacheSweepMin: p.duration("CACHE_SWEEP_MIN", "1s"),
		CacheSweepMax: p.duration("CACHE_SWEEP_MAX", "5m"),
		RedisAddr:     getenv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       p.integer("REDIS_DB", 0),

		RatePerSec:   p.integer("RATE_PER_SEC", 50),
		RateBurst:    p.integer("RATE_BURST", 100),
		BatchWorkers: p.integer("BATCH_WORKERS", 8),
		BatchMax:     p.integer("BATCH_MAX", 1000),

		LogLevel:          strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogOutput:         strings.ToLower(getenv("LOG_OUTPUT", "stdout")),
		LogFilePath:       getenv("LOG_FILE_PATH", "./logs/restricted-domains.log"),
		LogFileMaxSize:    p.integer("LOG_FILE_MAX_SIZE", 50),
		LogFileMaxBackups: p.integer("LOG_FILE_MAX_BACKUPS", 5),
		LogFileMaxAge:     p.integer("LOG_FILE_MAX_AGE", 28),
		LogFileCompress:   getBoolEnv("LOG_FILE_COMPRESS", true),

		MetricsEnabled: getBoolEnv("METRICS_ENABLED", true),
	}

	if err := errors.Join(p.errs...); err != nil {
		return Config{}, err
	}

	// Basic sanity checks
	switch c.CacheBackend {
	case "memory", "redis", "none":
	default:
		return Config{}, fmt.Errorf("invalid CACHE_BACKEND: %s", c.CacheBackend)
	}
	switch c.LogOutput {
	case "stdout", "stderr", "file", "both":
	default:
		return Config{}, fmt.Errorf("invalid LOG_OUTPUT: %s", c.LogOutput)
	}
	if c.BlocklistReload < 0 {
		return Config{}, fmt.Errorf("BLOCKLIST_RELOAD must not be negative (%s)", c.BlocklistReload)
	}
	if c.BlocklistReload > 0 && c.BlocklistReload < time.Second {
		return Config{}, fmt.Errorf("BLOCKLIST_RELOAD too small (%s), must be >=1s", c.BlocklistReload)
	}
	if c.RatePerSec <= 0 {
		c.RatePerSec = 1
	}
	if c.RateBurst < c.RatePerSec {
		c.RateBurst = c.RatePerSec
	}
	if c.BatchWorkers <= 0 {
		c.BatchWorkers = 1
	}
	if c.BatchMax <= 0 {
		c.BatchMax = 1
	}
	return c, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

type envParser struct {
	errs []error
}

func (p *envParser) duration(env, def string) time.Duration {
	if v := os.Getenv(env); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
		p.errs = append(p.errs, fmt.Errorf("invalid %s: %q is not a duration", env, v))
	}
	d, _ := time.ParseDuration(def)
	return d
}

func getBoolEnv(env string, def bool) bool {
	if v := os.Getenv(env); v != "" {
		s := strings.ToLower(v)
		return s == "1" || s == "true" || s == "yes" || s == "y"
	}
	return def
}

func (p *envParser) integer(env string, def int) int {
	if v := os.Getenv(env); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
		p.errs = append(p.errs, fmt.Errorf("invalid %s: %q is not an integer", env, v))
	}
	return def
}
