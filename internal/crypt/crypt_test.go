package crypt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cases := []struct {
		name, plaintext, passphrase string
	}{
		{"simple", "hello world", "secret"},
		{"empty plaintext", "", "secret"},
		{"json payload", `{"user":{"username":"alice","admin":0}}`, "a-long-server-side-passphrase"},
		{"unicode", "pässwörd ☃", "ключ"},
		{"block aligned", strings.Repeat("x", 32), "secret"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			blob, err := Encrypt(tc.plaintext, tc.passphrase)
			require.NoError(t, err)
			require.Equal(t, tc.plaintext, Decrypt(blob, tc.passphrase))
		})
	}
}

func TestBlobIsHexWithFixedHeader(t *testing.T) {
	blob, err := Encrypt("payload", "k")
	require.NoError(t, err)
	// 32 hex chars of salt, 32 of IV, then at least one full block.
	require.GreaterOrEqual(t, len(blob), 64+32)
	require.Regexp(t, "^[0-9a-f]+$", blob)
}

func TestEncryptNeverRepeats(t *testing.T) {
	a, err := Encrypt("same message", "same key")
	require.NoError(t, err)
	b, err := Encrypt("same message", "same key")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestDecryptRejectsShortInput(t *testing.T) {
	require.Empty(t, Decrypt("", "k"))
	require.Empty(t, Decrypt("deadbeef", "k"))
	require.Empty(t, Decrypt(strings.Repeat("a", 64), "k"))
}

func TestDecryptRejectsMalformedBlob(t *testing.T) {
	blob, err := Encrypt("payload", "k")
	require.NoError(t, err)

	// Non-hex character anywhere in the blob.
	bad := "z" + blob[1:]
	require.Empty(t, Decrypt(bad, "k"))

	// Odd-length ciphertext segment cannot hex-decode.
	require.Empty(t, Decrypt(blob+"a", "k"))

	// Ciphertext not a whole number of blocks.
	require.Empty(t, Decrypt(blob+"ab", "k"))
}

func TestDecryptWithWrongPassphrase(t *testing.T) {
	const msg = "the quick brown fox jumps over the lazy dog"
	blob, err := Encrypt(msg, "right")
	require.NoError(t, err)
	// A wrong key can, rarely, produce padding that unpads cleanly, but
	// it can never reproduce the plaintext.
	require.NotEqual(t, msg, Decrypt(blob, "wrong"))
}
