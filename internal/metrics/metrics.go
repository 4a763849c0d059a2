package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	Registry        *prometheus.Registry
	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
	CacheHits       *prometheus.CounterVec
	CacheMisses     *prometheus.CounterVec
	Verdicts        *prometheus.CounterVec
	BlocklistRoots  prometheus.Gauge
	BlocklistLoads  *prometheus.CounterVec
	BlocklistLoad   *prometheus.HistogramVec
	RateLimitBlocks *prometheus.CounterVec
}

var M *Metrics

func Init(enabled bool) *Metrics {
	if !enabled {
		M = nil
		return nil
	}
	r := prometheus.NewRegistry()
	m := &Metrics{
		Registry:        r,
		HTTPRequests:    prometheus.NewCounterVec(prometheus.CounterOpts{Name: "http_requests_total", Help: "HTTP requests total"}, []string{"method", "path", "status"}),
		HTTPDuration:    prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration", Buckets: prometheus.DefBuckets}, []string{"method", "path", "status"}),
		CacheHits:       prometheus.NewCounterVec(prometheus.CounterOpts{Name: "cache_hits_total", Help: "Cache hits"}, []string{"op"}),
		CacheMisses:     prometheus.NewCounterVec(prometheus.CounterOpts{Name: "cache_misses_total", Help: "Cache misses"}, []string{"op"}),
		Verdicts:        prometheus.NewCounterVec(prometheus.CounterOpts{Name: "domain_verdicts_total", Help: "Domain checks by verdict"}, []string{"verdict"}),
		BlocklistRoots:  prometheus.NewGauge(prometheus.GaugeOpts{Name: "blocklist_roots", Help: "Forbidden roots in the active blocklist"}),
		BlocklistLoads:  prometheus.NewCounterVec(prometheus.CounterOpts{Name: "blocklist_loads_total", Help: "Blocklist load attempts"}, []string{"result"}),
		BlocklistLoad:   prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: "blocklist_load_duration_seconds", Help: "Blocklist fetch and build duration", Buckets: prometheus.DefBuckets}, []string{"source"}),
		RateLimitBlocks: prometheus.NewCounterVec(prometheus.CounterOpts{Name: "rate_limit_blocks_total", Help: "Requests blocked by rate limiter"}, []string{"path"}),
	}
	r.MustRegister(m.HTTPRequests, m.HTTPDuration, m.CacheHits, m.CacheMisses, m.Verdicts,
		m.BlocklistRoots, m.BlocklistLoads, m.BlocklistLoad, m.RateLimitBlocks)
	M = m
	return m
}

func Handler() http.Handler {
	return promhttp.HandlerFor(M.Registry, promhttp.HandlerOpts{})
}

// helpers (safe no-ops if M==nil)
func IncHit(op string) {
	if M != nil {
		M.CacheHits.WithLabelValues(op).Inc()
	}
}

func IncMiss(op string) {
	if M != nil {
		M.CacheMisses.WithLabelValues(op).Inc()
	}
}

func IncVerdict(verdict string) {
	if M != nil {
		M.Verdicts.WithLabelValues(verdict).Inc()
	}
}

func ObserveBlocklistLoad(source string, start time.Time, roots int, err error) {
	if M == nil {
		return
	}
	M.BlocklistLoad.WithLabelValues(source).Observe(time.Since(start).Seconds())
	if err != nil {
		M.BlocklistLoads.WithLabelValues("error").Inc()
		return
	}
	M.BlocklistLoads.WithLabelValues("ok").Inc()
	M.BlocklistRoots.Set(float64(roots))
}

func IncRateLimited(path string) {
	if M != nil {
		M.RateLimitBlocks.WithLabelValues(path).Inc()
	}
}
