package main

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/argon2"
)

var _ PasswordHasher = (*Argon2Hasher)(nil) // ensure Argon2Hasher implements PasswordHasher.

// PasswordHasher hashes and verifies user passwords. The legacy store
// compared plaintext passwords inside the database query. That check
// now happens in the service layer against a salted one-way hash.
type PasswordHasher interface {
	Hash(password string) (hash string, salt string, err error)
	Verify(password, salt, hash string) (bool, error)
}

// Argon2Hasher implements PasswordHasher with argon2id.
type Argon2Hasher struct{}

// NewArgon2Hasher returns a ready to use Argon2Hasher.
func NewArgon2Hasher() *Argon2Hasher {
	return &Argon2Hasher{}
}

// Hash generates a random salt and derives an argon2id hash of the
// password. Both values are returned base64 encoded.
func (h *Argon2Hasher) Hash(password string) (string, string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", "", err
	}

	hash := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)

	return base64.StdEncoding.EncodeToString(hash), base64.StdEncoding.EncodeToString(salt), nil
}

// Verify derives the hash of the candidate password with the stored
// salt and compares it in constant time with the stored hash.
func (h *Argon2Hasher) Verify(password, salt, hash string) (bool, error) {
	decodedSalt, err := base64.StdEncoding.DecodeString(salt)
	if err != nil {
		return false, fmt.Errorf("failed to decode salt: %w", err)
	}

	decodedHash, err := base64.StdEncoding.DecodeString(hash)
	if err != nil {
		return false, fmt.Errorf("failed to decode hash: %w", err)
	}

	candidate := argon2.IDKey([]byte(password), decodedSalt, 1, 64*1024, 4, 32)

	return subtle.ConstantTimeCompare(candidate, decodedHash) == 1, nil
}
