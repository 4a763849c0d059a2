package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/TinaKropaneva/restricted-domains/internal/logs"
	"github.com/TinaKropaneva/restricted-domains/internal/metrics"
)

// knownPaths bounds the path label; anything else is reported as "other".
var knownPaths = map[string]bool{
	"/api/check":       true,
	"/api/batch-check": true,
	"/health":          true,
	"/ready":           true,
	"/version":         true,
	"/metrics":         true,
}

func mwMetrics() Middleware {
	return func(next http.Handler) http.Handler {
		if metrics.M == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rl := logs.NewRespLogger(w)
			next.ServeHTTP(rl, r)

			path := r.URL.Path
			if !knownPaths[path] {
				path = "other"
			}
			labels := []string{r.Method, path, strconv.Itoa(rl.Status)}
			metrics.M.HTTPRequests.WithLabelValues(labels...).Inc()
			metrics.M.HTTPDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		})
	}
}
