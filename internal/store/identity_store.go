package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"nap/internal/domain"
	"nap/internal/util/memzero"
)

const idFilename = "identity.json.enc"

var (
	// ErrNoIdentity is returned by LoadIdentity when no key has been created yet.
	ErrNoIdentity = errors.New("no identity found; run `nap init` first")
)

// IdentityFileStore persists the local signing key to disk.
type IdentityFileStore struct {
	dir string
	mu  sync.Mutex

	kdf func() (N, r, p int)
}

// NewIdentityFileStore returns an IdentityFileStore rooted at dir.
func NewIdentityFileStore(dir string) *IdentityFileStore {
	return &IdentityFileStore{dir: dir, kdf: scryptParamsDefault}
}

func (s *IdentityFileStore) path() string { return filepath.Join(s.dir, idFilename) }

// SaveIdentity writes the encrypted identity to disk, replacing any previous one.
func (s *IdentityFileStore) SaveIdentity(passphrase string, id domain.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(id)
	if err != nil {
		return err
	}
	defer memzero.Zero(raw)

	N, r, p := s.kdf()
	ct, err := encrypt(passphrase, raw, N, r, p)
	if err != nil {
		return fmt.Errorf("seal identity: %w", err)
	}
	return writeFile(s.path(), ct, 0o600)
}

// LoadIdentity reads and decrypts the identity.
func (s *IdentityFileStore) LoadIdentity(passphrase string) (domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := readFile(s.path())
	if err != nil {
		return domain.Identity{}, err
	}
	if b == nil {
		return domain.Identity{}, ErrNoIdentity
	}
	pt, err := decrypt(passphrase, b)
	if err != nil {
		return domain.Identity{}, err
	}
	defer memzero.Zero(pt)

	var id domain.Identity
	if err := json.Unmarshal(pt, &id); err != nil {
		return domain.Identity{}, fmt.Errorf("decode identity: %w", err)
	}
	return id, nil
}

// HasIdentity reports whether an identity file exists.
func (s *IdentityFileStore) HasIdentity() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := os.Stat(s.path())
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

// Compile-time assertion that IdentityFileStore implements domain.IdentityStore.
var _ domain.IdentityStore = (*IdentityFileStore)(nil)
