package httpserver

import (
	"net/http"
	"time"

	"github.com/TinaKropaneva/restricted-domains/internal/blocklist"
	"github.com/TinaKropaneva/restricted-domains/internal/buildinfo"
)

type health struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}

type readiness struct {
	Status     string    `json:"status"`
	Generation uint64    `json:"generation"`
	Roots      int       `json:"roots"`
	Entries    int       `json:"entries"`
	Source     string    `json:"source,omitempty"`
	LoadedAt   time.Time `json:"loaded_at"`
	RootList   []string  `json:"root_list,omitempty"`
}

// HandleHealth is a liveness probe; it does not look at the blocklist.
func HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, health{Status: "ok", Time: time.Now().UTC()})
	}
}

// HandleReady reports 503 until the first blocklist snapshot is installed.
// With ?roots=1 the deduplicated roots are listed as well.
func HandleReady(h *blocklist.Holder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h == nil || !h.Ready() {
			writeJSON(w, http.StatusServiceUnavailable, readiness{Status: "loading"})
			return
		}
		snap := h.Get()
		rd := readiness{
			Status:     "ready",
			Generation: snap.Generation,
			Roots:      snap.Set.Len(),
			Entries:    snap.Entries,
			Source:     snap.Source,
			LoadedAt:   snap.LoadedAt,
		}
		if r.URL.Query().Get("roots") == "1" {
			rd.RootList = snap.Set.Roots()
		}
		writeJSON(w, http.StatusOK, rd)
	}
}

func HandleVersion() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"version":    buildinfo.Version,
			"commit":     buildinfo.Commit,
			"build_time": buildinfo.BuildTime,
			"go":         buildinfo.Go,
		})
	}
}
