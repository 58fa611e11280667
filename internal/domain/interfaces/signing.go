package interfaces

import (
	"context"

	domaintypes "nap/internal/domain/types"
)

// SigningIdentity is the publisher's key custody boundary. Implementations may
// hold the key in memory, in an OS keychain or on a hardware device; callers
// only ever see the public key and signatures.
type SigningIdentity interface {
	PublicKey() domaintypes.PublicKey
	Sign(ctx context.Context, id domaintypes.EventID) (domaintypes.Signature, error)
}
