package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/TinaKropaneva/restricted-domains/internal/blocklist"
	"github.com/TinaKropaneva/restricted-domains/internal/metrics"
	"github.com/TinaKropaneva/restricted-domains/internal/ratelimit"
)

type Deps struct {
	Holder   *blocklist.Holder
	Checker  Checker
	BatchMax int
}

type Server struct {
	srv    *http.Server
	logger zerolog.Logger
}

func New(addr string, logger zerolog.Logger, limiter *ratelimit.Limiter, deps Deps, metricsEnabled bool) *Server {
	return &Server{
		srv: &http.Server{
			Addr:         addr,
			Handler:      NewMux(logger, limiter, deps, metricsEnabled),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// NewMux builds the routed, middleware-wrapped handler.
func NewMux(logger zerolog.Logger, limiter *ratelimit.Limiter, deps Deps, metricsEnabled bool) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", HandleHealth())
	mux.HandleFunc("/ready", HandleReady(deps.Holder))
	mux.HandleFunc("/version", HandleVersion())

	if metricsEnabled {
		metrics.Init(true)
		mux.Handle("/metrics", metrics.Handler())
	}

	if deps.Checker != nil {
		h := NewHandler(deps.Checker, deps.BatchMax)
		mux.HandleFunc("/api/check", h.handleCheck)
		mux.HandleFunc("/api/batch-check", h.handleBatch)
	}

	chain := mwChain(mwRequestID(), mwRateLimit(limiter), mwMetrics(), mwAccessLog(logger))
	return chain(mux)
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
