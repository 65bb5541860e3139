// Package auth is the session authority and the account endpoints:
// it decrypts inbound session cookies, gates protected pages, and
// orchestrates registration, login and logout.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// userKeyPrefix namespaces user records in the shared KV store.
const userKeyPrefix = "user:"

var usernameRE = regexp.MustCompile(`^[a-zA-Z0-9-_]+$`)

// User is the stored account record. It is written once at
// registration and never mutated by this package; sessions carry a
// snapshot of it that can go stale until the user logs in again.
type User struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Admin    int    `json:"admin"`
	Created  string `json:"created"`
}

// UserKey is the store key for a username. Lookups are
// case-insensitive: the key is always the lower-cased name, while the
// record keeps the case the user registered with.
func UserKey(username string) string {
	return userKeyPrefix + strings.ToLower(username)
}

// decodeUser parses and validates a store blob at the boundary instead
// of trusting it.
func decodeUser(blob string) (*User, error) {
	var u User
	if err := json.Unmarshal([]byte(blob), &u); err != nil {
		return nil, fmt.Errorf("decoding user record: %w", err)
	}
	if u.Username == "" || u.Password == "" {
		return nil, errors.New("user record missing required fields")
	}
	return &u, nil
}
