package commands

import (
	"errors"

	"nap/internal/domain"
)

// Exit statuses.
const (
	ExitPublished    = 0
	ExitNotAttempted = 1
	ExitNoRelays     = 2
	ExitAllRejected  = 3
	ExitUnreachable  = 4
	ExitFailed       = 5
)

// verdictError reports a publish round that did not succeed.
type verdictError struct {
	verdict domain.Verdict
}

func (e *verdictError) Error() string { return e.verdict.String() }

// roundError converts a round verdict into the command's error, nil on success.
func roundError(v domain.Verdict) error {
	if v == domain.VerdictPublished {
		return nil
	}
	return &verdictError{verdict: v}
}

// ExitCode maps an Execute error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitPublished
	}
	var ve *verdictError
	if !errors.As(err, &ve) {
		return ExitNotAttempted
	}
	switch ve.verdict {
	case domain.VerdictPublished:
		return ExitPublished
	case domain.VerdictNoRelays:
		return ExitNoRelays
	case domain.VerdictAllRejected:
		return ExitAllRejected
	case domain.VerdictUnreachable:
		return ExitUnreachable
	default:
		return ExitFailed
	}
}
