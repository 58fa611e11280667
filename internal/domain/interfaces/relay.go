package interfaces

import (
	"context"
	"time"

	domaintypes "nap/internal/domain/types"
)

// RelaySession delivers one event to one relay and reports exactly one outcome.
// It never retries and always releases its connection before returning.
type RelaySession interface {
	Publish(
		ctx context.Context,
		endpoint domaintypes.RelayEndpoint,
		event domaintypes.SignedEvent,
		timeout time.Duration,
	) domaintypes.RelayOutcome
}
