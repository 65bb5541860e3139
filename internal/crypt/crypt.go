// Package crypt seals opaque strings with a passphrase-derived key.
// It backs the encrypted session cookie, so the output format is part
// of the wire contract: hex(salt) + hex(iv) + hex(ciphertext), fixed
// width, no delimiters.
package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// KDF parameters are baked into every issued blob via the embedded
// salt. Encrypt and Decrypt must agree on them forever, or cookies
// issued by older deployments stop decrypting.
const (
	keySize    = 16
	saltSize   = 16
	ivSize     = 16
	iterations = 50
)

// minBlobLen is salt + iv in hex, plus at least one ciphertext char.
const minBlobLen = 2*saltSize + 2*ivSize + 1

// Encrypt derives an AES-128 key from the passphrase and a fresh
// random salt (PBKDF2-SHA256), then encrypts plaintext in CBC mode
// with PKCS#7 padding under a fresh random IV.
func Encrypt(plaintext, passphrase string) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}
	iv := make([]byte, ivSize)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("generating iv: %w", err)
	}

	key := pbkdf2.Key([]byte(passphrase), salt, iterations, keySize, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("creating cipher: %w", err)
	}

	padded := pad([]byte(plaintext))
	ct := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ct, padded)

	return hex.EncodeToString(salt) + hex.EncodeToString(iv) + hex.EncodeToString(ct), nil
}

// Decrypt reverses Encrypt. It fails soft: truncated, malformed or
// tampered blobs all yield the empty string, never an error, so every
// caller treats every failure mode as "no data".
func Decrypt(blob, passphrase string) string {
	if len(blob) < minBlobLen {
		return ""
	}
	salt, err := hex.DecodeString(blob[:2*saltSize])
	if err != nil {
		return ""
	}
	iv, err := hex.DecodeString(blob[2*saltSize : 2*saltSize+2*ivSize])
	if err != nil {
		return ""
	}
	ct, err := hex.DecodeString(blob[2*saltSize+2*ivSize:])
	if err != nil {
		return ""
	}
	if len(ct) == 0 || len(ct)%aes.BlockSize != 0 {
		return ""
	}

	key := pbkdf2.Key([]byte(passphrase), salt, iterations, keySize, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return ""
	}
	plain := make([]byte, len(ct))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, ct)

	plain, ok := unpad(plain)
	if !ok {
		return ""
	}
	return string(plain)
}

func pad(b []byte) []byte {
	n := aes.BlockSize - len(b)%aes.BlockSize
	out := make([]byte, len(b)+n)
	copy(out, b)
	for i := len(b); i < len(out); i++ {
		out[i] = byte(n)
	}
	return out
}

func unpad(b []byte) ([]byte, bool) {
	if len(b) == 0 || len(b)%aes.BlockSize != 0 {
		return nil, false
	}
	n := int(b[len(b)-1])
	if n == 0 || n > aes.BlockSize {
		return nil, false
	}
	for _, c := range b[len(b)-n:] {
		if int(c) != n {
			return nil, false
		}
	}
	return b[:len(b)-n], true
}
