// Package identity manages creation, import and unlocking of the local
// publishing key.
//
// It enforces passphrase policy, generates secp256k1 key pairs, and
// persists them via the domain.IdentityStore. Callers get a
// domain.SigningIdentity; the secret key itself never leaves this package
// and the crypto signer.
package identity
