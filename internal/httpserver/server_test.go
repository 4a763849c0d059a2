package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/TinaKropaneva/restricted-domains/internal/blocklist"
	"github.com/TinaKropaneva/restricted-domains/internal/checker"
	"github.com/TinaKropaneva/restricted-domains/internal/domain"
	"github.com/TinaKropaneva/restricted-domains/internal/models"
)

func newTestMux(holder *blocklist.Holder, metricsEnabled bool) http.Handler {
	svc := checker.NewService(holder, nil, checker.Options{Normalize: true, BatchWorkers: 2})
	deps := Deps{Holder: holder, Checker: svc, BatchMax: 100}
	return NewMux(zerolog.Nop(), nil, deps, metricsEnabled)
}

// TestMux_CheckEndToEnd runs a request through routing, middleware and the
// real checker service.
// PASS: forbidden subdomain answers Bad, look-alike answers Good, request id set.
// FAIL: wrong verdicts or missing header.
func TestMux_CheckEndToEnd(t *testing.T) {
	holder := blocklist.NewHolder()
	holder.Install(domain.BuildFromText([]string{"gdz.ru", "m.gdz.ru", "maps.me"}), 3, "test")
	mux := newTestMux(holder, false)

	cases := map[string]models.Verdict{
		"math.gdz.ru": models.VerdictBad,
		"freegdz.ru":  models.VerdictGood,
		"MAPS.ME":     models.VerdictBad,
	}
	for d, want := range cases {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/check?domain="+d, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("%s: status=%d body=%s", d, w.Code, w.Body.String())
		}
		if w.Header().Get("X-Request-ID") == "" {
			t.Fatalf("missing X-Request-ID")
		}
		var res models.CheckResult
		if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
			t.Fatalf("json: %v", err)
		}
		if res.Verdict != want {
			t.Errorf("%s: verdict=%s want %s", d, res.Verdict, want)
		}
	}
}

func TestMux_ReadyBeforeAndAfterLoad(t *testing.T) {
	holder := blocklist.NewHolder()
	mux := newTestMux(holder, false)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("ready before load: status=%d", w.Code)
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/check?domain=com", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("check before load: status=%d", w.Code)
	}

	holder.Install(domain.BuildFromText([]string{"com", "mail.com"}), 2, "test")
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("ready after load: status=%d", w.Code)
	}
	var rd readiness
	if err := json.Unmarshal(w.Body.Bytes(), &rd); err != nil {
		t.Fatalf("json: %v", err)
	}
	if rd.Roots != 1 || rd.Entries != 2 || rd.Generation != 1 {
		t.Fatalf("readiness = %+v", rd)
	}
}

func TestMux_HealthVersionMetrics(t *testing.T) {
	mux := newTestMux(blocklist.NewHolder(), true)
	for _, path := range []string{"/health", "/version", "/metrics"} {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("%s: status=%d", path, w.Code)
		}
	}

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(w.Body.String(), "http_requests_total") {
		t.Fatalf("metrics output missing http_requests_total")
	}
}

func TestMwRequestID_ReusesIncoming(t *testing.T) {
	var seen string
	h := mwRequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = reqID(r.Context())
	}))
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Request-ID", "abc123")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if seen != "abc123" || w.Header().Get("X-Request-ID") != "abc123" {
		t.Fatalf("request id not propagated: ctx=%q header=%q", seen, w.Header().Get("X-Request-ID"))
	}
}

func TestMwRequestID_ReplacesOversized(t *testing.T) {
	h := mwRequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Request-ID", strings.Repeat("x", maxRequestIDLen+1))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if got := w.Header().Get("X-Request-ID"); len(got) != 16 {
		t.Fatalf("oversized id not replaced: %q", got)
	}
}

// TestMux_AccessLogCarriesVerdict checks that the access log line for a
// check request names the domain and its verdict.
// PASS: the logged line has domain, verdict, and the batch counters.
// FAIL: only generic request fields are logged.
func TestMux_AccessLogCarriesVerdict(t *testing.T) {
	holder := blocklist.NewHolder()
	holder.Install(domain.BuildFromText([]string{"com"}), 1, "test")
	svc := checker.NewService(holder, nil, checker.Options{Normalize: true, BatchWorkers: 2})

	var buf bytes.Buffer
	mux := NewMux(zerolog.New(&buf), nil, Deps{Holder: holder, Checker: svc, BatchMax: 10}, false)

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/check?domain=Mail.com", nil))
	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line: %v (%s)", err, buf.String())
	}
	if line["domain"] != "mail.com" || line["verdict"] != "Bad" || line["cached"] != false {
		t.Fatalf("check log line = %v", line)
	}

	buf.Reset()
	body := strings.NewReader(`{"domains":["a.com","example.org","com"]}`)
	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/batch-check", body))
	line = nil
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line: %v (%s)", err, buf.String())
	}
	if line["batch"] != float64(3) || line["forbidden"] != float64(2) {
		t.Fatalf("batch log line = %v", line)
	}
	if _, ok := line["verdict"]; ok {
		t.Fatalf("batch log line should not carry a single verdict: %v", line)
	}
}

func TestMux_ReadyListsRoots(t *testing.T) {
	holder := blocklist.NewHolder()
	holder.Install(domain.BuildFromText([]string{"com", "mail.com", "edu.ru"}), 3, "test")
	mux := newTestMux(holder, false)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready?roots=1", nil))
	var rd readiness
	if err := json.Unmarshal(w.Body.Bytes(), &rd); err != nil {
		t.Fatalf("json: %v", err)
	}
	if !slices.Equal(rd.RootList, []string{"com", "edu.ru"}) {
		t.Fatalf("root_list = %q", rd.RootList)
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if strings.Contains(w.Body.String(), "root_list") {
		t.Fatalf("root_list should be omitted without ?roots=1: %s", w.Body.String())
	}
}
