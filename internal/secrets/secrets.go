// Package secrets seals and opens small credentials (AI provider keys) with
// AES-256-GCM. The cipher key is derived from the configured secret via
// SHA-256. There is no plaintext fallback: a value that does not decrypt is
// an error.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrDecrypt is returned when a stored value cannot be authenticated and
// decrypted with the current secret.
var ErrDecrypt = errors.New("secrets: cannot decrypt value")

// Box seals and opens strings with a single symmetric key.
type Box struct {
	aead cipher.AEAD
}

// New derives an AES-256-GCM box from secret. The secret must be non-empty;
// its length is otherwise unconstrained because it is hashed into the key.
func New(secret string) (*Box, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("secrets: empty secret")
	}
	key := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("secrets: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("secrets: %w", err)
	}
	return &Box{aead: aead}, nil
}

// Seal encrypts plaintext and returns base64(nonce || ciphertext).
func (b *Box) Seal(plaintext string) (string, error) {
	nonce := make([]byte, b.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("secrets: nonce: %w", err)
	}
	out := b.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(out), nil
}

// Open decrypts a value produced by Seal. Any malformed or tampered input
// yields ErrDecrypt.
func (b *Box) Open(sealed string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", ErrDecrypt
	}
	ns := b.aead.NonceSize()
	if len(raw) < ns {
		return "", ErrDecrypt
	}
	plain, err := b.aead.Open(nil, raw[:ns], raw[ns:], nil)
	if err != nil {
		return "", ErrDecrypt
	}
	return string(plain), nil
}

// MaskKey renders a credential for listings: first four and last four
// characters with the middle elided. Short keys are fully masked.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return "********"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
