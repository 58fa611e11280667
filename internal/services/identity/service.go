package identity

import (
	"errors"
	"fmt"
	"time"
	"unicode"

	"nap/internal/crypto"
	"nap/internal/domain"
)

const (
	// minPassphraseLength defines the minimum number of characters required for a passphrase.
	minPassphraseLength = 12
)

var (
	// ErrWeakPassphrase is returned when the passphrase fails the strength policy.
	ErrWeakPassphrase = fmt.Errorf(
		"passphrase is too weak (must be at least %d characters and include upper, lower, "+
			"number, and symbol)",
		minPassphraseLength,
	)
	// ErrIdentityExists is returned when creating a key would replace an existing one.
	ErrIdentityExists = errors.New("an identity already exists")
	// ErrKeyMismatch means the stored public key does not belong to the stored secret.
	ErrKeyMismatch = errors.New("stored public key does not match secret key")
)

// Service manages the publishing key using a backing store.
type Service struct {
	store domain.IdentityStore
	now   func() time.Time
}

// New returns an identity service backed by the given store.
func New(s domain.IdentityStore) *Service { return &Service{store: s, now: time.Now} }

// GenerateIdentity creates a new key pair, saves it encrypted with the passphrase,
// and returns the identity plus a short fingerprint of the public key.
func (s *Service) GenerateIdentity(
	passphrase string,
) (domain.Identity, domain.Fingerprint, error) {
	if err := s.checkCreate(passphrase); err != nil {
		return domain.Identity{}, "", err
	}
	sk, pk, err := crypto.GenerateSecp256k1()
	if err != nil {
		return domain.Identity{}, "", fmt.Errorf("generate key: %w", err)
	}
	return s.save(passphrase, sk, pk)
}

// ImportIdentity stores an existing secret key given as nsec or hex.
func (s *Service) ImportIdentity(
	passphrase string,
	secret string,
) (domain.Identity, domain.Fingerprint, error) {
	if err := s.checkCreate(passphrase); err != nil {
		return domain.Identity{}, "", err
	}
	sk, err := crypto.ParseSecretKey(secret)
	if err != nil {
		return domain.Identity{}, "", err
	}
	pk, err := crypto.PublicKeyFromSecret(sk)
	if err != nil {
		return domain.Identity{}, "", err
	}
	return s.save(passphrase, sk, pk)
}

// LoadSigner decrypts the stored key and returns a signer for it.
func (s *Service) LoadSigner(passphrase string) (domain.SigningIdentity, error) {
	id, err := s.store.LoadIdentity(passphrase)
	if err != nil {
		return nil, err
	}
	signer, err := crypto.NewKeySigner(id.SecretKey)
	if err != nil {
		return nil, err
	}
	if signer.PublicKey() != id.PublicKey {
		signer.Wipe()
		return nil, ErrKeyMismatch
	}
	return signer, nil
}

// PublicKey returns the stored public key.
func (s *Service) PublicKey(passphrase string) (domain.PublicKey, error) {
	id, err := s.store.LoadIdentity(passphrase)
	if err != nil {
		return domain.PublicKey{}, err
	}
	return id.PublicKey, nil
}

func (s *Service) checkCreate(passphrase string) error {
	if !isSecurePassphrase(passphrase) {
		return ErrWeakPassphrase
	}
	exists, err := s.store.HasIdentity()
	if err != nil {
		return err
	}
	if exists {
		return ErrIdentityExists
	}
	return nil
}

func (s *Service) save(
	passphrase string,
	sk domain.SecretKey,
	pk domain.PublicKey,
) (domain.Identity, domain.Fingerprint, error) {
	id := domain.Identity{SecretKey: sk, PublicKey: pk, CreatedAt: s.now().Unix()}
	if err := s.store.SaveIdentity(passphrase, id); err != nil {
		return domain.Identity{}, "", err
	}
	return id, crypto.Fingerprint(pk), nil
}

// isSecurePassphrase enforces a basic strength policy.
func isSecurePassphrase(passphrase string) bool {
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	if len(passphrase) < minPassphraseLength {
		return false
	}
	for _, r := range passphrase {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r), unicode.IsSymbol(r):
			hasSymbol = true
		}
	}
	return hasUpper && hasLower && hasDigit && hasSymbol
}

// Compile-time assertion that Service implements domain.IdentityService.
var _ domain.IdentityService = (*Service)(nil)
