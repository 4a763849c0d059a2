package blocklist

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type fakeSource struct {
	mu      sync.Mutex
	entries []string
	err     error
	calls   int
}

func (f *fakeSource) Load(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.entries, nil
}

func (f *fakeSource) String() string { return "fake" }

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeSource) set(entries []string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries, f.err = entries, err
}

func TestReload_Success(t *testing.T) {
	holder := NewHolder()
	src := &fakeSource{entries: []string{"gdz.ru", "m.gdz.ru", "maps.me"}}
	r := NewReloader(Config{}, src, holder, zerolog.Nop())

	snap, err := r.Reload(context.Background())
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if snap.Entries != 3 || snap.Set.Len() != 2 || snap.Source != "fake" {
		t.Fatalf("snapshot = %+v roots=%v", snap, snap.Set.Roots())
	}
	if holder.Get() != snap {
		t.Fatalf("snapshot not installed")
	}
}

func TestReload_Normalize(t *testing.T) {
	holder := NewHolder()
	src := &fakeSource{entries: []string{"GDZ.ru", "https://Maps.Me/path", "bad..entry"}}
	r := NewReloader(Config{Normalize: true}, src, holder, zerolog.Nop())

	snap, err := r.Reload(context.Background())
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if got := snap.Set.Roots(); !slices.Equal(got, []string{"maps.me", "gdz.ru"}) {
		t.Fatalf("roots = %q", got)
	}
	if snap.Entries != 2 {
		t.Fatalf("entries = %d, want 2 (invalid entry skipped)", snap.Entries)
	}
}

func TestReload_FailureKeepsPrevious(t *testing.T) {
	holder := NewHolder()
	src := &fakeSource{entries: []string{"com"}}
	r := NewReloader(Config{}, src, holder, zerolog.Nop())

	first, err := r.Reload(context.Background())
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	src.set(nil, errors.New("upstream down"))
	if _, err := r.Reload(context.Background()); err == nil {
		t.Fatalf("want error")
	}
	if holder.Get() != first {
		t.Fatalf("failed reload replaced the snapshot")
	}
}

func TestStart_NoIntervalReturnsLoadError(t *testing.T) {
	src := &fakeSource{err: errors.New("missing file")}
	r := NewReloader(Config{}, src, NewHolder(), zerolog.Nop())
	if err := r.Start(context.Background()); err == nil {
		t.Fatalf("want initial load error")
	}
}

func TestStart_PeriodicReload(t *testing.T) {
	holder := NewHolder()
	src := &fakeSource{entries: []string{"com"}}
	r := NewReloader(Config{Interval: 10 * time.Millisecond}, src, holder, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Start(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for holder.Get().Generation < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("generation stuck at %d", holder.Get().Generation)
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Start returned %v after cancel", err)
	}
}

// TestStart_InitialFailureRetriesWithBackoff checks that a failed first load
// is retried on the backoff schedule rather than on the next reload tick.
// PASS: the source is retried within milliseconds and the holder becomes
// ready once it recovers, long before the hourly interval.
// FAIL: only one load attempt, or the holder stays unready.
func TestStart_InitialFailureRetriesWithBackoff(t *testing.T) {
	holder := NewHolder()
	src := &fakeSource{err: errors.New("upstream down")}
	r := NewReloader(Config{
		Interval:       time.Hour,
		InitialBackoff: 5 * time.Millisecond,
		MaxBackoff:     20 * time.Millisecond,
	}, src, holder, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Start(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for src.callCount() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("initial load retried %d times, want at least 3", src.callCount())
		}
		time.Sleep(2 * time.Millisecond)
	}
	if holder.Ready() {
		t.Fatalf("holder ready while source still failing")
	}

	src.set([]string{"com"}, nil)
	for !holder.Ready() {
		if time.Now().After(deadline) {
			t.Fatalf("holder not ready after source recovered")
		}
		time.Sleep(2 * time.Millisecond)
	}
	if !holder.Get().Set.IsForbiddenText("mail.com") {
		t.Fatalf("installed set does not cover mail.com")
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Start returned %v after cancel", err)
	}
}

// TestStart_CancelDuringInitialBackoff checks that a never-recovering source
// does not keep Start alive past cancellation.
func TestStart_CancelDuringInitialBackoff(t *testing.T) {
	src := &fakeSource{err: errors.New("upstream down")}
	r := NewReloader(Config{
		Interval:       time.Hour,
		InitialBackoff: time.Hour,
		MaxBackoff:     time.Hour,
	}, src, NewHolder(), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Start(ctx) }()

	for src.callCount() < 1 {
		time.Sleep(time.Millisecond)
	}
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Start returned %v after cancel", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Start did not return after cancel")
	}
}

func TestCalcBackoff(t *testing.T) {
	initial, maxB := time.Second, 10*time.Second
	for failures := 1; failures <= 10; failures++ {
		b := calcBackoff(initial, maxB, failures)
		base := min(maxB, initial*time.Duration(1<<(failures-1)))
		lo, hi := time.Duration(0.79*float64(base)), time.Duration(1.21*float64(base))
		if b < lo || b > hi {
			t.Fatalf("failures=%d backoff=%s not within [%s, %s]", failures, b, lo, hi)
		}
	}
}
