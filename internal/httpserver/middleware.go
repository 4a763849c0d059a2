package httpserver

import (
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/TinaKropaneva/restricted-domains/internal/logs"
)

type Middleware func(http.Handler) http.Handler

// mwChain applies middleware in declaration order: the first one listed is
// the outermost wrapper.
func mwChain(mwFuncs ...Middleware) Middleware {
	return func(next http.Handler) http.Handler {
		for i := len(mwFuncs) - 1; i >= 0; i-- {
			next = mwFuncs[i](next)
		}
		return next
	}
}

// mwRequestID attaches a request identifier to the context and response
// headers. An incoming id is reused unless it is empty or oversized.
func mwRequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(requestIDHeader)
			if id == "" || len(id) > maxRequestIDLen {
				id = shortID()
			}
			r = r.WithContext(withReqInfo(r.Context(), &reqInfo{id: id}))
			w.Header().Set(requestIDHeader, id)
			next.ServeHTTP(w, r)
		})
	}
}

// mwAccessLog writes one line per request. Check endpoints add the domain
// and verdict they produced.
func mwAccessLog(logger zerolog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rl := logs.NewRespLogger(w)
			next.ServeHTTP(rl, r)

			clientIP, _, _ := net.SplitHostPort(r.RemoteAddr)
			if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
				clientIP = xf
			}

			ev := logger.Info().
				Str("id", reqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rl.Status).
				Int("bytes", rl.Bytes).
				Str("ip", clientIP).
				Dur("dur", time.Since(start))

			if info := infoFrom(r.Context()); info != nil {
				if info.verdict != "" {
					ev = ev.Str("domain", info.domain).Str("verdict", info.verdict).Bool("cached", info.cached)
				}
				if info.batch > 0 {
					ev = ev.Int("batch", info.batch).Int("forbidden", info.forbidden)
				}
			}
			ev.Msg("http")
		})
	}
}
