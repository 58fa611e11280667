package interfaces

import domaintypes "nap/internal/domain/types"

// IdentityStore persists your long-term publishing key.
type IdentityStore interface {
	SaveIdentity(passphrase string, id domaintypes.Identity) error
	LoadIdentity(passphrase string) (domaintypes.Identity, error)
	HasIdentity() (bool, error)
}
