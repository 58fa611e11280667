package interfaces

import (
	"context"

	domaintypes "nap/internal/domain/types"
)

// IdentityService creates, imports and unlocks the local publishing key.
type IdentityService interface {
	GenerateIdentity(passphrase string) (domaintypes.Identity, domaintypes.Fingerprint, error)
	ImportIdentity(passphrase, secret string) (domaintypes.Identity, domaintypes.Fingerprint, error)
	LoadSigner(passphrase string) (SigningIdentity, error)
	PublicKey(passphrase string) (domaintypes.PublicKey, error)
}

// PublishService fans one signed event out to a set of relays.
type PublishService interface {
	PublishAll(
		ctx context.Context,
		event domaintypes.SignedEvent,
		endpoints []domaintypes.RelayEndpoint,
	) domaintypes.PublishReport
}
