package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/TinaKropaneva/restricted-domains/internal/checker"
	"github.com/TinaKropaneva/restricted-domains/internal/models"
	"github.com/TinaKropaneva/restricted-domains/internal/util"
)

// Checker is the minimal interface our handlers need.
// checker.Service satisfies this automatically.
type Checker interface {
	Check(ctx context.Context, domain string) (models.CheckResult, error)
	CheckBatch(ctx context.Context, domains []string) []models.CheckResult
}

type Handler struct {
	checker  Checker
	batchMax int
}

func NewHandler(c Checker, batchMax int) *Handler {
	if batchMax <= 0 {
		batchMax = 1
	}
	return &Handler{checker: c, batchMax: batchMax}
}

// GET /api/check?domain=...
func (h *Handler) handleCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	q := r.URL.Query()
	if !q.Has("domain") {
		writeError(w, http.StatusBadRequest, "missing domain parameter")
		return
	}
	res, err := h.checker.Check(r.Context(), q.Get("domain"))
	if err != nil {
		writeCheckErr(w, err)
		return
	}
	if info := infoFrom(r.Context()); info != nil {
		info.domain, info.verdict, info.cached = res.Domain, string(res.Verdict), res.Cached
	}
	writeJSON(w, http.StatusOK, res)
}

// POST /api/batch-check
// {"domains":["mail.com","school.edu.ru"]}
func (h *Handler) handleBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req models.BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.Domains) == 0 {
		writeError(w, http.StatusBadRequest, "domains list is empty")
		return
	}
	if len(req.Domains) > h.batchMax {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("too many domains, max %d", h.batchMax))
		return
	}

	results := h.checker.CheckBatch(r.Context(), req.Domains)
	if info := infoFrom(r.Context()); info != nil {
		info.batch = len(results)
		for _, res := range results {
			if res.Forbidden {
				info.forbidden++
			}
		}
	}
	writeJSON(w, http.StatusOK, models.BatchResponse{Results: results})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func writeCheckErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, util.ErrBadDomain):
		writeError(w, http.StatusBadRequest, "invalid domain")
	case errors.Is(err, checker.ErrNotReady):
		writeError(w, http.StatusServiceUnavailable, "blocklist not loaded")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "request cancelled")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
