package crypto

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/nbd-wtf/go-nostr/nip19"

	"nap/internal/domain"
)

// NPub returns the bech32 "npub1…" form of pk.
func NPub(pk domain.PublicKey) (string, error) {
	return nip19.EncodePublicKey(pk.Hex())
}

// NSec returns the bech32 "nsec1…" form of sk.
func NSec(sk domain.SecretKey) (string, error) {
	return nip19.EncodePrivateKey(hex.EncodeToString(sk[:]))
}

// ParseSecretKey accepts an "nsec1…" string or 64 hex characters.
func ParseSecretKey(s string) (domain.SecretKey, error) {
	var sk domain.SecretKey
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "nsec1") {
		prefix, value, err := nip19.Decode(s)
		if err != nil {
			return sk, fmt.Errorf("decode nsec: %w", err)
		}
		if prefix != "nsec" {
			return sk, fmt.Errorf("decode nsec: unexpected prefix %q", prefix)
		}
		hexKey, ok := value.(string)
		if !ok {
			return sk, fmt.Errorf("decode nsec: unexpected value %T", value)
		}
		s = hexKey
	}
	s = strings.TrimPrefix(s, "0x")
	if len(s) != 64 {
		return sk, fmt.Errorf("secret key: want 64 hex chars, got %d", len(s))
	}
	if _, err := hex.Decode(sk[:], []byte(s)); err != nil {
		return sk, fmt.Errorf("secret key: %w", err)
	}
	if _, err := PublicKeyFromSecret(sk); err != nil {
		return domain.SecretKey{}, err
	}
	return sk, nil
}
