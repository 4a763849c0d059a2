package httpserver

import (
	"context"
	"crypto/rand"
	"encoding/hex"
)

const (
	requestIDHeader = "X-Request-ID"
	maxRequestIDLen = 64
)

// reqInfo rides in the request context. Handlers record what they decided
// so the access log can report it next to the status line.
type reqInfo struct {
	id string

	domain  string // single check
	verdict string
	cached  bool

	batch     int // batch check: domains answered
	forbidden int // batch check: Bad verdicts
}

type ctxKey struct{}

func withReqInfo(ctx context.Context, info *reqInfo) context.Context {
	return context.WithValue(ctx, ctxKey{}, info)
}

// infoFrom returns nil when the request did not pass through mwRequestID.
func infoFrom(ctx context.Context) *reqInfo {
	info, _ := ctx.Value(ctxKey{}).(*reqInfo)
	return info
}

func reqID(ctx context.Context) string {
	if info := infoFrom(ctx); info != nil {
		return info.id
	}
	return ""
}

func shortID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
