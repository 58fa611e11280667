package types

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// EventID is the sha256 of an event's canonical encoding.
type EventID [32]byte

// PublicKey is a BIP-340 x-only secp256k1 public key.
type PublicKey [32]byte

// SecretKey is a secp256k1 scalar. Only key custody code handles it.
type SecretKey [32]byte

// Signature is a 64-byte BIP-340 Schnorr signature.
type Signature [64]byte

// Fingerprint is a short identifier for public keys presented to users.
type Fingerprint string

// String returns the string form of the fingerprint.
func (f Fingerprint) String() string { return string(f) }

// Hex returns the lower-case hex form of the identifier.
func (id EventID) Hex() string { return hex.EncodeToString(id[:]) }

// String returns the lower-case hex form of the identifier.
func (id EventID) String() string { return id.Hex() }

// IsZero reports whether the identifier is unset.
func (id EventID) IsZero() bool { return id == EventID{} }

// Hex returns the lower-case hex form of the key.
func (k PublicKey) Hex() string { return hex.EncodeToString(k[:]) }

// String returns the lower-case hex form of the key.
func (k PublicKey) String() string { return k.Hex() }

// Slice returns the key as a []byte.
func (k PublicKey) Slice() []byte { return k[:] }

// Slice returns the key as a []byte.
func (k SecretKey) Slice() []byte { return k[:] }

// Hex returns the lower-case hex form of the signature.
func (s Signature) Hex() string { return hex.EncodeToString(s[:]) }

// ParseEventID decodes a 64-character hex event identifier.
func ParseEventID(s string) (EventID, error) {
	var id EventID
	return id, decodeHex(id[:], s, "event id")
}

// ParsePublicKey decodes a 64-character hex public key.
func ParsePublicKey(s string) (PublicKey, error) {
	var k PublicKey
	return k, decodeHex(k[:], s, "public key")
}

// ParseSignature decodes a 128-character hex signature.
func ParseSignature(s string) (Signature, error) {
	var sig Signature
	return sig, decodeHex(sig[:], s, "signature")
}

func decodeHex(dst []byte, s, what string) error {
	if len(s) != 2*len(dst) {
		return fmt.Errorf("%s: want %d hex chars, got %d", what, 2*len(dst), len(s))
	}
	if _, err := hex.Decode(dst, []byte(s)); err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	return nil
}

// MarshalJSON encodes fixed arrays as hex strings, the relay wire form.
func (id EventID) MarshalJSON() ([]byte, error) { return json.Marshal(id.Hex()) }

// UnmarshalJSON mirrors MarshalJSON.
func (id *EventID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseEventID(s)
	if err != nil {
		return err
	}
	*id = v
	return nil
}

// MarshalJSON encodes the key as a hex string.
func (k PublicKey) MarshalJSON() ([]byte, error) { return json.Marshal(k.Hex()) }

// UnmarshalJSON mirrors MarshalJSON.
func (k *PublicKey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParsePublicKey(s)
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// MarshalJSON encodes the signature as a hex string.
func (s Signature) MarshalJSON() ([]byte, error) { return json.Marshal(s.Hex()) }

// UnmarshalJSON mirrors MarshalJSON.
func (s *Signature) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	v, err := ParseSignature(str)
	if err != nil {
		return err
	}
	*s = v
	return nil
}
