package httpserver

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/TinaKropaneva/restricted-domains/internal/metrics"
	"github.com/TinaKropaneva/restricted-domains/internal/ratelimit"
)

type rlErr struct {
	Error        string `json:"error"`
	RetryAfterMs int64  `json:"retry_after_ms"`
}

func mwRateLimit(lim *ratelimit.Limiter) Middleware {
	return func(next http.Handler) http.Handler {
		if lim == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, retry := lim.Allow(clientKey(r))
			if allowed {
				next.ServeHTTP(w, r)
				return
			}
			metrics.IncRateLimited(r.URL.Path)
			if retry <= 0 {
				retry = time.Second
			}
			secs := int((retry + time.Second - 1) / time.Second)
			w.Header().Set("Retry-After", strconv.Itoa(secs))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(rlErr{Error: "rate limit exceeded", RetryAfterMs: retry.Milliseconds()})
		})
	}
}

func clientKey(r *http.Request) string {
	if k := strings.TrimSpace(r.Header.Get("X-API-Key")); k != "" {
		return "k:" + k
	}
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		first, _, _ := strings.Cut(xf, ",")
		return "ip:" + strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "ip:" + r.RemoteAddr
	}
	return "ip:" + host
}
