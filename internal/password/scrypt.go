// Package password hashes and verifies account passwords with scrypt.
//
// Stored form is "<saltHex>:<derivedKeyHex>".
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/scrypt"
)

const (
	saltLength = 16
	separator  = ":"
)

// ErrMalformedHash is returned when a stored hash cannot be parsed.
var ErrMalformedHash = errors.New("malformed password hash")

// Params are scrypt cost parameters.
type Params struct {
	N      int
	R      int
	P      int
	KeyLen int
}

// DefaultParams match the cost used for every hash stored so far. Changing
// them invalidates existing hashes.
var DefaultParams = Params{N: 16384, R: 8, P: 1, KeyLen: 64}

// Hasher derives and checks password hashes.
type Hasher struct {
	params Params
	rand   io.Reader
}

// NewHasher creates a Hasher with the given parameters. Zero fields fall back
// to DefaultParams.
func NewHasher(params Params) *Hasher {
	if params.N == 0 {
		params.N = DefaultParams.N
	}
	if params.R == 0 {
		params.R = DefaultParams.R
	}
	if params.P == 0 {
		params.P = DefaultParams.P
	}
	if params.KeyLen == 0 {
		params.KeyLen = DefaultParams.KeyLen
	}
	return &Hasher{params: params, rand: rand.Reader}
}

// Hash returns the stored form of plaintext under a fresh random salt.
func (h *Hasher) Hash(plaintext string) (string, error) {
	saltBytes := make([]byte, saltLength)
	if _, err := io.ReadFull(h.rand, saltBytes); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	salt := hex.EncodeToString(saltBytes)

	key, err := h.derive(plaintext, salt)
	if err != nil {
		return "", err
	}

	return salt + separator + hex.EncodeToString(key), nil
}

// Verify reports whether plaintext matches the stored form.
func (h *Hasher) Verify(plaintext, stored string) (bool, error) {
	salt, keyHex, ok := strings.Cut(stored, separator)
	if !ok || salt == "" || keyHex == "" {
		return false, ErrMalformedHash
	}

	expected, err := hex.DecodeString(keyHex)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}

	key, err := h.derive(plaintext, salt)
	if err != nil {
		return false, err
	}

	return subtle.ConstantTimeCompare(key, expected) == 1, nil
}

// derive uses the hex salt string itself as salt bytes.
func (h *Hasher) derive(plaintext, salt string) ([]byte, error) {
	key, err := scrypt.Key([]byte(plaintext), []byte(salt), h.params.N, h.params.R, h.params.P, h.params.KeyLen)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	return key, nil
}
