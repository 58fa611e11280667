package identity_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"nap/internal/crypto"
	"nap/internal/domain"
	"nap/internal/services/identity"
)

const strongPass = "Correct-Horse-42"

// memStore keeps the identity in memory, keyed by passphrase.
type memStore struct {
	mu   sync.Mutex
	pass string
	id   *domain.Identity
}

func (m *memStore) SaveIdentity(pass string, id domain.Identity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pass, m.id = pass, &id
	return nil
}

func (m *memStore) LoadIdentity(pass string) (domain.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.id == nil {
		return domain.Identity{}, errors.New("no identity")
	}
	if pass != m.pass {
		return domain.Identity{}, errors.New("wrong passphrase")
	}
	return *m.id, nil
}

func (m *memStore) HasIdentity() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.id != nil, nil
}

func TestGenerateIdentity(t *testing.T) {
	svc := identity.New(&memStore{})

	id, fp, err := svc.GenerateIdentity(strongPass)
	require.NoError(t, err)
	require.Equal(t, crypto.Fingerprint(id.PublicKey), fp)
	require.NotZero(t, id.CreatedAt)

	pk, err := svc.PublicKey(strongPass)
	require.NoError(t, err)
	require.Equal(t, id.PublicKey, pk)

	_, _, err = svc.GenerateIdentity(strongPass)
	require.ErrorIs(t, err, identity.ErrIdentityExists)
}

func TestGenerateIdentity_WeakPassphrase(t *testing.T) {
	svc := identity.New(&memStore{})
	for _, pass := range []string{"", "short1!A", "alllowercase-123", "ALLUPPERCASE-123", "NoDigitsHere!!", "NoSymbols12345"} {
		_, _, err := svc.GenerateIdentity(pass)
		require.ErrorIs(t, err, identity.ErrWeakPassphrase, pass)
	}
}

func TestImportIdentity(t *testing.T) {
	var sk domain.SecretKey
	sk[31] = 3
	nsec, err := crypto.NSec(sk)
	require.NoError(t, err)
	want, err := crypto.PublicKeyFromSecret(sk)
	require.NoError(t, err)

	svc := identity.New(&memStore{})
	id, _, err := svc.ImportIdentity(strongPass, nsec)
	require.NoError(t, err)
	require.Equal(t, want, id.PublicKey)

	_, _, err = identity.New(&memStore{}).ImportIdentity(strongPass, "not-a-key")
	require.Error(t, err)
}

func TestLoadSigner(t *testing.T) {
	svc := identity.New(&memStore{})
	id, _, err := svc.GenerateIdentity(strongPass)
	require.NoError(t, err)

	signer, err := svc.LoadSigner(strongPass)
	require.NoError(t, err)
	require.Equal(t, id.PublicKey, signer.PublicKey())

	var msg domain.EventID
	msg[0] = 9
	sig, err := signer.Sign(context.Background(), msg)
	require.NoError(t, err)
	require.True(t, crypto.VerifySchnorr(id.PublicKey, msg, sig))

	_, err = svc.LoadSigner("Wrong-Passphrase-1")
	require.Error(t, err)
}

func TestLoadSigner_KeyMismatch(t *testing.T) {
	store := &memStore{}
	var sk domain.SecretKey
	sk[31] = 5
	require.NoError(t, store.SaveIdentity(strongPass, domain.Identity{SecretKey: sk, PublicKey: domain.PublicKey{1}}))

	_, err := identity.New(store).LoadSigner(strongPass)
	require.ErrorIs(t, err, identity.ErrKeyMismatch)
}
