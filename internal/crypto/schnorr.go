package crypto

import (
	"context"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"

	"nap/internal/domain"
	"nap/internal/util/memzero"
)

// ErrInvalidSecretKey is returned for zero or out-of-range secp256k1 scalars.
var ErrInvalidSecretKey = errors.New("invalid secp256k1 secret key")

// GenerateSecp256k1 returns a fresh signing key pair.
func GenerateSecp256k1() (sk domain.SecretKey, pk domain.PublicKey, err error) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		return sk, pk, err
	}
	b := priv.Serialize()
	copy(sk[:], b)
	memzero.Zero(b)
	priv.Zero()
	pk, err = PublicKeyFromSecret(sk)
	return sk, pk, err
}

// PublicKeyFromSecret derives the x-only public key for sk.
func PublicKeyFromSecret(sk domain.SecretKey) (domain.PublicKey, error) {
	var pk domain.PublicKey
	var scalar btcec.ModNScalar
	if overflow := scalar.SetByteSlice(sk[:]); overflow || scalar.IsZero() {
		return pk, ErrInvalidSecretKey
	}
	priv, pub := btcec.PrivKeyFromBytes(sk[:])
	defer priv.Zero()
	copy(pk[:], schnorr.SerializePubKey(pub))
	return pk, nil
}

// SignSchnorr signs id with sk. Nonces are derived deterministically, so
// the same key and id always give the same signature.
func SignSchnorr(sk domain.SecretKey, id domain.EventID) (domain.Signature, error) {
	var out domain.Signature
	var scalar btcec.ModNScalar
	if overflow := scalar.SetByteSlice(sk[:]); overflow || scalar.IsZero() {
		return out, ErrInvalidSecretKey
	}
	priv, _ := btcec.PrivKeyFromBytes(sk[:])
	defer priv.Zero()
	sig, err := schnorr.Sign(priv, id[:])
	if err != nil {
		return out, fmt.Errorf("schnorr sign: %w", err)
	}
	copy(out[:], sig.Serialize())
	return out, nil
}

// VerifySchnorr verifies sig over id with pk.
func VerifySchnorr(pk domain.PublicKey, id domain.EventID, sig domain.Signature) bool {
	pub, err := schnorr.ParsePubKey(pk[:])
	if err != nil {
		return false
	}
	s, err := schnorr.ParseSignature(sig[:])
	if err != nil {
		return false
	}
	return s.Verify(id[:], pub)
}

// KeySigner is a SigningIdentity backed by a key held in process memory.
type KeySigner struct {
	sk domain.SecretKey
	pk domain.PublicKey
}

// NewKeySigner validates sk and returns a signer for it.
func NewKeySigner(sk domain.SecretKey) (*KeySigner, error) {
	pk, err := PublicKeyFromSecret(sk)
	if err != nil {
		return nil, err
	}
	return &KeySigner{sk: sk, pk: pk}, nil
}

// PublicKey returns the signer's x-only public key.
func (s *KeySigner) PublicKey() domain.PublicKey { return s.pk }

// Sign produces a BIP-340 signature over id.
func (s *KeySigner) Sign(ctx context.Context, id domain.EventID) (domain.Signature, error) {
	if err := ctx.Err(); err != nil {
		return domain.Signature{}, err
	}
	return SignSchnorr(s.sk, id)
}

// Wipe zeroes the held secret. The signer is unusable afterwards.
func (s *KeySigner) Wipe() { memzero.Zero(s.sk[:]) }

var _ domain.SigningIdentity = (*KeySigner)(nil)
