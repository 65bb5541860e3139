// Package password hashes account passwords for storage.
//
// The stored format is frozen: a 32-char hex salt followed by the hex
// SHA-256 digest of salt+password, one pass, no stretching. Existing
// records were written in this format, so it must not be upgraded
// silently.
package password

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// saltLength is the hex-encoded salt length. The stored string splits
// unambiguously at this offset.
const saltLength = 32

const storedLength = saltLength + sha256.Size*2

// Hash salts and hashes a plaintext password into its storage form.
func Hash(password string) (string, error) {
	raw := make([]byte, saltLength/2)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}
	salt := hex.EncodeToString(raw)
	return salt + digest(salt, password), nil
}

// Verify reports whether password matches a stored hash. Malformed
// stored values never match.
func Verify(password, stored string) bool {
	if len(stored) != storedLength {
		return false
	}
	salt := stored[:saltLength]
	calc := salt + digest(salt, password)
	return subtle.ConstantTimeCompare([]byte(calc), []byte(stored)) == 1
}

// digest hashes the hex salt string concatenated with the password.
// The salt enters the hash in its hex form, matching how every
// existing record was produced.
func digest(salt, password string) string {
	sum := sha256.Sum256([]byte(salt + password))
	return hex.EncodeToString(sum[:])
}
