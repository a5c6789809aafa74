// Package hashing provides one-way password hashing and keyed digests for
// one-time codes.
package hashing

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the work factor used when none is configured.
const DefaultBcryptCost = 10

// ErrMalformedHash is returned when a stored hash cannot be parsed.
var ErrMalformedHash = errors.New("malformed password hash")

// Hasher hashes and verifies secrets. Hash must produce a different
// output for every call thanks to a fresh salt.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hashed string) (bool, error)
}

type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(b), nil
}

func (h *BcryptHasher) Verify(plaintext, hashed string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
}

// MultiHasher hashes new secrets with primary and verifies stored hashes with
// whichever algorithm produced them, so switching the configured algorithm
// does not lock out existing accounts.
type MultiHasher struct {
	primary Hasher
	bcrypt  *BcryptHasher
	argon   *Argon2Hasher
}

func NewMultiHasher(primary Hasher, bcryptCost int) *MultiHasher {
	return &MultiHasher{
		primary: primary,
		bcrypt:  NewBcryptHasher(bcryptCost),
		argon:   NewArgon2Hasher(),
	}
}

func (m *MultiHasher) Hash(plaintext string) (string, error) {
	return m.primary.Hash(plaintext)
}

func (m *MultiHasher) Verify(plaintext, hashed string) (bool, error) {
	switch {
	case strings.HasPrefix(hashed, argon2Prefix):
		return m.argon.Verify(plaintext, hashed)
	case strings.HasPrefix(hashed, "$2"):
		return m.bcrypt.Verify(plaintext, hashed)
	default:
		return false, ErrMalformedHash
	}
}
