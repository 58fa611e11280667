package crypto_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/nbd-wtf/go-nostr"
	"github.com/stretchr/testify/require"

	"nap/internal/crypto"
	"nap/internal/domain"
)

func fixedKey(b byte) domain.SecretKey {
	var sk domain.SecretKey
	for i := range sk {
		sk[i] = b
	}
	return sk
}

func TestSignVerify(t *testing.T) {
	sk := fixedKey(0x11)
	pk, err := crypto.PublicKeyFromSecret(sk)
	require.NoError(t, err)

	id := domain.EventID(sha256.Sum256([]byte("hello")))
	sig, err := crypto.SignSchnorr(sk, id)
	require.NoError(t, err)
	require.True(t, crypto.VerifySchnorr(pk, id, sig))

	tampered := id
	tampered[0] ^= 0x01
	require.False(t, crypto.VerifySchnorr(pk, tampered, sig))

	badSig := sig
	badSig[63] ^= 0x01
	require.False(t, crypto.VerifySchnorr(pk, id, badSig))
}

func TestSignIsDeterministic(t *testing.T) {
	sk := fixedKey(0x22)
	id := domain.EventID(sha256.Sum256([]byte("same")))

	a, err := crypto.SignSchnorr(sk, id)
	require.NoError(t, err)
	b, err := crypto.SignSchnorr(sk, id)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestPublicKeyMatchesNostr(t *testing.T) {
	sk := fixedKey(0x33)
	pk, err := crypto.PublicKeyFromSecret(sk)
	require.NoError(t, err)

	want, err := nostr.GetPublicKey(hex.EncodeToString(sk[:]))
	require.NoError(t, err)
	require.Equal(t, want, pk.Hex())
}

func TestInvalidSecretKey(t *testing.T) {
	_, err := crypto.PublicKeyFromSecret(domain.SecretKey{})
	require.ErrorIs(t, err, crypto.ErrInvalidSecretKey)

	// Larger than the curve order.
	_, err = crypto.NewKeySigner(fixedKey(0xff))
	require.ErrorIs(t, err, crypto.ErrInvalidSecretKey)
}

func TestGenerateSecp256k1(t *testing.T) {
	sk, pk, err := crypto.GenerateSecp256k1()
	require.NoError(t, err)

	derived, err := crypto.PublicKeyFromSecret(sk)
	require.NoError(t, err)
	require.Equal(t, pk, derived)
}

func TestKeySigner(t *testing.T) {
	signer, err := crypto.NewKeySigner(fixedKey(0x44))
	require.NoError(t, err)

	id := domain.EventID(sha256.Sum256([]byte("event")))
	sig, err := signer.Sign(context.Background(), id)
	require.NoError(t, err)
	require.True(t, crypto.VerifySchnorr(signer.PublicKey(), id, sig))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = signer.Sign(ctx, id)
	require.ErrorIs(t, err, context.Canceled)
}

func TestBech32RoundTrip(t *testing.T) {
	sk := fixedKey(0x55)
	nsec, err := crypto.NSec(sk)
	require.NoError(t, err)
	require.Contains(t, nsec, "nsec1")

	parsed, err := crypto.ParseSecretKey(nsec)
	require.NoError(t, err)
	require.Equal(t, sk, parsed)

	parsed, err = crypto.ParseSecretKey(hex.EncodeToString(sk[:]))
	require.NoError(t, err)
	require.Equal(t, sk, parsed)

	pk, err := crypto.PublicKeyFromSecret(sk)
	require.NoError(t, err)
	npub, err := crypto.NPub(pk)
	require.NoError(t, err)
	require.Contains(t, npub, "npub1")

	_, err = crypto.ParseSecretKey("not-a-key")
	require.Error(t, err)
}

func TestFingerprint(t *testing.T) {
	pk, err := crypto.PublicKeyFromSecret(fixedKey(0x66))
	require.NoError(t, err)
	fp := crypto.Fingerprint(pk)
	require.Len(t, fp.String(), 20)
	require.Equal(t, fp, crypto.Fingerprint(pk))
}
