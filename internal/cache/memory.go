package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

type MemoryOptions struct {
	TTL         time.Duration
	MaxItems    int           // 0 => unlimited
	SweepMin    time.Duration // clamp lower bound for janitor tick
	SweepMax    time.Duration // clamp upper bound for janitor tick
	AutoJanitor bool          // start the janitor goroutine
	Now         func() time.Time
}

// Memory is an in-process LRU of verdicts with optional TTL.
type Memory struct {
	mu       sync.Mutex
	m        map[string]*entry
	lru      *list.List // most-recent at Front(), least-recent at Back()
	maxItems int
	ttl      time.Duration
	sweepMin time.Duration
	sweepMax time.Duration
	now      func() time.Time
	stop     chan struct{}
	once     sync.Once
}

type entry struct {
	key       string
	forbidden bool
	exp       time.Time // zero => no expiry
	el        *list.Element
}

func NewMemory(opt MemoryOptions) *Memory {
	if opt.Now == nil {
		opt.Now = time.Now
	}
	if opt.SweepMin <= 0 {
		opt.SweepMin = time.Second
	}
	if opt.SweepMax < opt.SweepMin {
		opt.SweepMax = opt.SweepMin
	}
	mc := &Memory{
		m:        make(map[string]*entry),
		lru:      list.New(),
		maxItems: opt.MaxItems,
		ttl:      opt.TTL,
		sweepMin: opt.SweepMin,
		sweepMax: opt.SweepMax,
		now:      opt.Now,
		stop:     make(chan struct{}),
	}
	if opt.AutoJanitor {
		go mc.janitor()
	}
	return mc
}

// NewMemoryWithClock is for tests: no janitor, fixed TTL, injected clock.
func NewMemoryWithClock(ttl time.Duration, now func() time.Time) *Memory {
	return NewMemory(MemoryOptions{TTL: ttl, Now: now})
}

func (mc *Memory) Close() {
	mc.once.Do(func() { close(mc.stop) })
}

func (mc *Memory) Len() int {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return mc.lru.Len()
}

func (mc *Memory) Lookup(ctx context.Context, key string) (bool, bool, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	e, ok := mc.m[key]
	if !ok {
		return false, false, nil
	}
	if !e.exp.IsZero() && mc.now().After(e.exp) {
		mc.removeLocked(e)
		return false, false, nil
	}
	mc.lru.MoveToFront(e.el)
	return e.forbidden, true, nil
}

func (mc *Memory) Store(ctx context.Context, key string, forbidden bool, ttl time.Duration) error {
	t := mc.ttl
	if ttl > 0 {
		t = ttl
	}
	var exp time.Time
	if t > 0 {
		exp = mc.now().Add(t)
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()
	if e, ok := mc.m[key]; ok {
		e.forbidden = forbidden
		e.exp = exp
		mc.lru.MoveToFront(e.el)
		return nil
	}

	e := &entry{key: key, forbidden: forbidden, exp: exp}
	e.el = mc.lru.PushFront(e)
	mc.m[key] = e

	for mc.maxItems > 0 && mc.lru.Len() > mc.maxItems {
		mc.removeLocked(mc.lru.Back().Value.(*entry))
	}
	return nil
}

func (mc *Memory) Delete(ctx context.Context, key string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	if e, ok := mc.m[key]; ok {
		mc.removeLocked(e)
	}
	return nil
}

func (mc *Memory) removeLocked(e *entry) {
	mc.lru.Remove(e.el)
	delete(mc.m, e.key)
}

func (mc *Memory) sweepOnce() {
	now := mc.now()
	mc.mu.Lock()
	defer mc.mu.Unlock()
	for _, e := range mc.m {
		if !e.exp.IsZero() && now.After(e.exp) {
			mc.removeLocked(e)
		}
	}
}

// sweepInterval is TTL/2 clamped to [sweepMin, sweepMax]; without a TTL
// nothing expires, so the janitor ticks lazily at sweepMax.
func (mc *Memory) sweepInterval() time.Duration {
	if mc.ttl <= 0 {
		return mc.sweepMax
	}
	return min(max(mc.ttl/2, mc.sweepMin), mc.sweepMax)
}

func (mc *Memory) janitor() {
	t := time.NewTicker(mc.sweepInterval())
	defer t.Stop()

	for {
		select {
		case <-mc.stop:
			return
		case <-t.C:
			mc.sweepOnce()
		}
	}
}
