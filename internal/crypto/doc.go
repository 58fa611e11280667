// Package crypto exposes the minimal primitives used by nap.
//
// Contents
//
//   - secp256k1 key generation and validation (GenerateSecp256k1, PublicKeyFromSecret)
//   - BIP-340 Schnorr signing and verification over event identifiers
//     (SignSchnorr, VerifySchnorr)
//   - An in-memory SigningIdentity (KeySigner)
//   - Bech32 key encodings used by Nostr clients (NPub, NSec, ParseSecretKey)
//   - Short public-key fingerprints for display/logging (Fingerprint)
//
// # Notes
//
// All functions return fixed-size array types defined in internal/domain to
// avoid accidental reallocations. Callers should treat returned secrets as
// sensitive and wipe them when practical.
package crypto
