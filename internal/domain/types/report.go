package types

import (
	"time"

	"github.com/nbd-wtf/go-nostr"
)

// RelayResult is one row of a PublishReport.
type RelayResult struct {
	Endpoint RelayEndpoint `json:"endpoint"`
	Outcome  RelayOutcome  `json:"outcome"`
	Attempts int           `json:"attempts"`
	Elapsed  time.Duration `json:"elapsed"`
}

// PublishReport is the result of one publish round. Results follow input order.
type PublishReport struct {
	RoundID string        `json:"round_id"`
	Event   SignedEvent   `json:"event"`
	Results []RelayResult `json:"results"`
	Elapsed time.Duration `json:"elapsed"`
}

// Verdict summarises a report for exit-status decisions.
type Verdict int

const (
	// VerdictPublished: at least one relay accepted the event.
	VerdictPublished Verdict = iota
	// VerdictNoRelays: the round had no endpoints.
	VerdictNoRelays
	// VerdictAllRejected: every relay answered, and every answer was a rejection.
	VerdictAllRejected
	// VerdictUnreachable: every relay timed out or failed to connect.
	VerdictUnreachable
	// VerdictFailed: no acceptances, with a mix of rejections and transport failures.
	VerdictFailed
)

func (v Verdict) String() string {
	switch v {
	case VerdictPublished:
		return "published"
	case VerdictNoRelays:
		return "no relays configured"
	case VerdictAllRejected:
		return "rejected by every relay"
	case VerdictUnreachable:
		return "no relay reachable"
	case VerdictFailed:
		return "not accepted by any relay"
	default:
		return "unknown"
	}
}

// Succeeded reports whether at least one relay accepted the event.
func (r PublishReport) Succeeded() bool {
	return r.Count(StatusAccepted) > 0
}

// Count returns the number of relays that ended in status s.
func (r PublishReport) Count(s OutcomeStatus) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome.Status == s {
			n++
		}
	}
	return n
}

// Outcome looks up the outcome recorded for a relay URL.
func (r PublishReport) Outcome(url string) (RelayOutcome, bool) {
	want := nostr.NormalizeURL(url)
	for _, res := range r.Results {
		if res.Endpoint.URL == url || nostr.NormalizeURL(res.Endpoint.URL) == want {
			return res.Outcome, true
		}
	}
	return RelayOutcome{}, false
}

// Verdict classifies the report. Rejections and unreachable relays are kept
// apart so callers can tell "refused" from "never heard back".
func (r PublishReport) Verdict() Verdict {
	n := len(r.Results)
	switch {
	case n == 0:
		return VerdictNoRelays
	case r.Succeeded():
		return VerdictPublished
	case r.Count(StatusRejected) == n:
		return VerdictAllRejected
	case r.Count(StatusTimedOut)+r.Count(StatusConnectionFailed) == n:
		return VerdictUnreachable
	default:
		return VerdictFailed
	}
}
