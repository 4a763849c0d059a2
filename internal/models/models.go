package models

import "time"

type Verdict string

const (
	VerdictBad  Verdict = "Bad"
	VerdictGood Verdict = "Good"
)

func VerdictOf(forbidden bool) Verdict {
	if forbidden {
		return VerdictBad
	}
	return VerdictGood
}

// CheckResult is the answer for one queried domain.
type CheckResult struct {
	Domain     string    `json:"domain"`
	Forbidden  bool      `json:"forbidden"`
	Verdict    Verdict   `json:"verdict"`
	Cached     bool      `json:"cached"`
	Generation uint64    `json:"generation"`
	Error      string    `json:"error,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

type BatchRequest struct {
	Domains []string `json:"domains"`
}

type BatchResponse struct {
	Results []CheckResult `json:"results"`
}
