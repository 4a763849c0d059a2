package checker

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/TinaKropaneva/restricted-domains/internal/blocklist"
	"github.com/TinaKropaneva/restricted-domains/internal/cache"
	"github.com/TinaKropaneva/restricted-domains/internal/metrics"
	"github.com/TinaKropaneva/restricted-domains/internal/models"
	"github.com/TinaKropaneva/restricted-domains/internal/util"
)

var ErrNotReady = errors.New("blocklist not loaded")

type Options struct {
	CacheTTL     time.Duration
	Normalize    bool
	BatchWorkers int
}

type Service struct {
	holder  *blocklist.Holder
	cache   cache.Cache
	opts    Options
	nowFunc func() time.Time
}

func NewService(h *blocklist.Holder, c cache.Cache, opts Options) *Service {
	if c == nil {
		c = cache.Nop{}
	}
	if opts.BatchWorkers <= 0 {
		opts.BatchWorkers = 1
	}
	return &Service{holder: h, cache: c, opts: opts, nowFunc: time.Now}
}

// Check answers whether rawDomain is forbidden by the active blocklist.
// Verdicts are cached per blocklist generation, so a reload never serves
// answers computed against the previous list.
func (s *Service) Check(ctx context.Context, rawDomain string) (models.CheckResult, error) {
	snap := s.holder.Get()
	if snap.Generation == 0 {
		return models.CheckResult{}, ErrNotReady
	}

	d := rawDomain
	if s.opts.Normalize {
		var err error
		if d, err = util.NormalizeDomain(rawDomain); err != nil {
			return models.CheckResult{}, err
		}
	}

	res := models.CheckResult{
		Domain:     d,
		Generation: snap.Generation,
		Timestamp:  s.nowFunc().UTC(),
	}

	key := cacheKey(snap.Generation, d)
	forbidden, hit, _ := s.cache.Lookup(ctx, key)
	if hit {
		metrics.IncHit("verdict")
		res.Cached = true
	} else {
		metrics.IncMiss("verdict")
		forbidden = snap.Set.IsForbiddenText(d)
		_ = s.cache.Store(ctx, key, forbidden, s.opts.CacheTTL)
	}

	res.Forbidden = forbidden
	res.Verdict = models.VerdictOf(forbidden)
	metrics.IncVerdict(string(res.Verdict))
	return res, nil
}

// CheckBatch checks every domain using a bounded worker pool. Results keep
// input order; a failed item carries its error text instead of a verdict.
func (s *Service) CheckBatch(ctx context.Context, domains []string) []models.CheckResult {
	results := make([]models.CheckResult, len(domains))
	if len(domains) == 0 {
		return results
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	workers := min(s.opts.BatchWorkers, len(domains))
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for idx := range jobs {
				res, err := s.Check(ctx, domains[idx])
				if err != nil {
					res = models.CheckResult{Domain: domains[idx], Error: err.Error(), Timestamp: s.nowFunc().UTC()}
				}
				results[idx] = res
			}
		}()
	}

	for i := range domains {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}

func cacheKey(gen uint64, domain string) string {
	return "verdict:" + strconv.FormatUint(gen, 10) + ":" + domain
}
