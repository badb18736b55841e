package fieldcrypt

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
)

// Every stored value carries a version prefix, so user text that happens
// to look sealed is never mistaken for ciphertext.
const (
	prefix      = "v1:"
	plainPrefix = "v0:"
)

var (
	ErrInvalidKey        = errors.New("field encryption key must be 32 bytes")
	ErrMalformedSealed   = errors.New("malformed sealed value")
	ErrAuthenticationTag = errors.New("sealed value failed authentication")
)

// Sealer protects sensitive column values at rest.
type Sealer interface {
	Seal(plaintext string) (string, error)
	Open(stored string) (string, error)
	Enabled() bool
}

// New builds a Sealer from a base64 encoded 32-byte key. An empty key
// yields a pass-through sealer.
func New(encodedKey string) (Sealer, error) {
	if encodedKey == "" {
		return Plaintext{}, nil
	}
	key, err := base64.StdEncoding.DecodeString(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("decode key: %w", err)
	}
	return NewAEAD(key)
}

// AEAD seals with XChaCha20-Poly1305 and a random 24-byte nonce per value.
type AEAD struct {
	aead cipher.AEAD
}

func NewAEAD(key []byte) (*AEAD, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, ErrInvalidKey
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	return &AEAD{aead: aead}, nil
}

func (a *AEAD) Enabled() bool { return true }

func (a *AEAD) Seal(plaintext string) (string, error) {
	nonce := make([]byte, a.aead.NonceSize(), a.aead.NonceSize()+len(plaintext)+a.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("read nonce: %w", err)
	}
	sealed := a.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return prefix + base64.RawStdEncoding.EncodeToString(sealed), nil
}

// Open reverses Seal. Values written by Plaintext are unwrapped, and
// unprefixed legacy values are returned unchanged.
func (a *AEAD) Open(stored string) (string, error) {
	if plain, ok := openPlain(stored); ok {
		return plain, nil
	}
	raw, err := base64.RawStdEncoding.DecodeString(strings.TrimPrefix(stored, prefix))
	if err != nil || len(raw) < a.aead.NonceSize() {
		return "", ErrMalformedSealed
	}
	nonce, ciphertext := raw[:a.aead.NonceSize()], raw[a.aead.NonceSize():]
	plain, err := a.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrAuthenticationTag
	}
	return string(plain), nil
}

// openPlain unwraps anything that is not AEAD output.
func openPlain(stored string) (string, bool) {
	switch {
	case strings.HasPrefix(stored, plainPrefix):
		return strings.TrimPrefix(stored, plainPrefix), true
	case strings.HasPrefix(stored, prefix):
		return "", false
	}
	return stored, true
}

// Plaintext stores values unencrypted behind the v0 prefix.
type Plaintext struct{}

func (Plaintext) Enabled() bool { return false }

func (Plaintext) Seal(plaintext string) (string, error) {
	return plainPrefix + plaintext, nil
}

func (Plaintext) Open(stored string) (string, error) {
	if plain, ok := openPlain(stored); ok {
		return plain, nil
	}
	return "", fmt.Errorf("%w: value is sealed but no key is configured", ErrMalformedSealed)
}
