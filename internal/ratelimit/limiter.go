package ratelimit

import (
	"sync"
	"time"
)

const anonKey = "_anon"

// Limiter is a token bucket per client key. Idle buckets are evicted by a
// background janitor until Close is called.
type Limiter struct {
	rate      float64 // tokens per second
	burst     float64 // max bucket size
	buckets   sync.Map
	now       func() time.Time
	bucketTTL time.Duration
	stopCh    chan struct{}
	stopOnce  sync.Once
}

type bucket struct {
	mu       sync.Mutex
	tokens   float64
	last     time.Time // last refill time
	lastSeen time.Time
}

// New creates a limiter with the given per-second rate and burst.
func New(ratePerSec, burst int) *Limiter {
	return NewWithClock(ratePerSec, burst, nil)
}

// NewWithClock is for tests to inject a fake clock.
func NewWithClock(ratePerSec, burst int, now func() time.Time) *Limiter {
	if ratePerSec <= 0 {
		ratePerSec = 1
	}
	if burst < ratePerSec {
		burst = ratePerSec
	}
	if now == nil {
		now = time.Now
	}
	l := &Limiter{
		rate:      float64(ratePerSec),
		burst:     float64(burst),
		now:       now,
		bucketTTL: 10 * time.Minute,
		stopCh:    make(chan struct{}),
	}
	go l.janitor()
	return l
}

func (l *Limiter) Close() {
	l.stopOnce.Do(func() { close(l.stopCh) })
}

// Allow reports whether a request identified by key is permitted now.
// If not allowed, it returns how long until the next token is available.
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	if key == "" {
		key = anonKey
	}
	now := l.now()
	v, _ := l.buckets.LoadOrStore(key, &bucket{tokens: l.burst, last: now, lastSeen: now})
	b := v.(*bucket)

	b.mu.Lock()
	defer b.mu.Unlock()

	now = l.now()
	b.refill(now, l.rate, l.burst)
	b.lastSeen = now
	if b.tokens >= 1 {
		b.tokens--
		return true, 0
	}
	wait := (1 - b.tokens) / l.rate
	return false, time.Duration(wait * float64(time.Second))
}

func (b *bucket) refill(now time.Time, rate, burst float64) {
	elapsed := now.Sub(b.last).Seconds()
	if elapsed <= 0 {
		return
	}
	b.tokens = min(burst, b.tokens+rate*elapsed)
	b.last = now
}

func (l *Limiter) evictIdle(now time.Time) {
	l.buckets.Range(func(k, v any) bool {
		b := v.(*bucket)
		b.mu.Lock()
		idle := now.Sub(b.lastSeen)
		b.mu.Unlock()
		if idle > l.bucketTTL {
			l.buckets.Delete(k)
		}
		return true
	})
}

func (l *Limiter) janitor() {
	t := time.NewTicker(l.bucketTTL / 2)
	defer t.Stop()
	for {
		select {
		case <-l.stopCh:
			return
		case <-t.C:
			l.evictIdle(l.now())
		}
	}
}
