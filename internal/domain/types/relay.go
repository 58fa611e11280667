package types

import (
	"fmt"
	"time"
)

// RelayEndpoint is one relay address plus an optional per-relay timeout.
// A zero Timeout means "use the coordinator default".
type RelayEndpoint struct {
	URL     string        `json:"url" yaml:"url"`
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout"`
}

// OutcomeStatus is the terminal state of one relay session.
type OutcomeStatus int

const (
	StatusAccepted OutcomeStatus = iota + 1
	StatusRejected
	StatusTimedOut
	StatusConnectionFailed
)

// String returns a short, stable name for the status.
func (s OutcomeStatus) String() string {
	switch s {
	case StatusAccepted:
		return "accepted"
	case StatusRejected:
		return "rejected"
	case StatusTimedOut:
		return "timed-out"
	case StatusConnectionFailed:
		return "connection-failed"
	default:
		return "unknown"
	}
}

// MarshalText encodes the status by name, so JSON reports read "accepted"
// rather than 1.
func (s OutcomeStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText mirrors MarshalText.
func (s *OutcomeStatus) UnmarshalText(b []byte) error {
	for v := StatusAccepted; v <= StatusConnectionFailed; v++ {
		if v.String() == string(b) {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("unknown outcome status %q", b)
}

// RelayOutcome is the verdict of one relay for one publish attempt.
//
// Reason holds the relay's message for Accepted/Rejected and the transport
// error for ConnectionFailed.
type RelayOutcome struct {
	Status OutcomeStatus `json:"status"`
	Reason string        `json:"reason,omitempty"`
}

// Accepted is an explicit OK=true from the relay.
func Accepted(message string) RelayOutcome {
	return RelayOutcome{Status: StatusAccepted, Reason: message}
}

// Rejected is an explicit OK=false from the relay.
func Rejected(reason string) RelayOutcome {
	return RelayOutcome{Status: StatusRejected, Reason: reason}
}

// TimedOut means no acknowledgment arrived before the deadline.
func TimedOut() RelayOutcome {
	return RelayOutcome{Status: StatusTimedOut, Reason: "no acknowledgment before deadline"}
}

// ConnectionFailed means the connection could not be made or dropped before the acknowledgment.
func ConnectionFailed(reason string) RelayOutcome {
	return RelayOutcome{Status: StatusConnectionFailed, Reason: reason}
}

// Retryable reports whether the outcome is a transient transport fault.
// Rejections are protocol decisions and are never retried.
func (o RelayOutcome) Retryable() bool {
	return o.Status == StatusTimedOut || o.Status == StatusConnectionFailed
}

func (o RelayOutcome) String() string {
	if o.Reason == "" {
		return o.Status.String()
	}
	return o.Status.String() + ": " + o.Reason
}
