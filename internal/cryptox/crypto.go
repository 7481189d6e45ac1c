// Package cryptox implements the client-side password transform applied
// before credentials leave the device.
package cryptox

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/argon2"
)

const saltDomain = "yoursay/password/v1:"

// argon2id parameters; changing any of them invalidates every stored account.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

// UserSalt derives the per-user salt from the normalized email address.
// It is deterministic so that login reproduces the value produced at signup.
func UserSalt(email string) []byte {
	sum := sha256.Sum256([]byte(saltDomain + NormalizeEmail(email)))
	return sum[:]
}

// NormalizeEmail lower-cases and trims an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// DeriveKey stretches password with argon2id.
func DeriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// HashPassword returns the hex encoded argon2id digest sent to the server in
// place of the plaintext password. Two users with the same password get
// different digests because the salt is bound to the email. The server is
// still expected to salt and hash the received value before storing it.
func HashPassword(email string, password []byte) string {
	return hex.EncodeToString(DeriveKey(password, UserSalt(email)))
}
