// Package session issues and parses the encrypted session cookie plus
// its companion logged-in marker cookie. All session state lives in
// the cookie itself; the server keeps nothing between requests.
package session

import (
	"encoding/json"
	"net/http"

	"github.com/emberworks/emberweb/internal/crypt"
)

// MaxAge is the session cookie lifetime in seconds (60 days).
const MaxAge = 3600 * 24 * 60

// Identity is the reduced user view embedded in the cookie and, when a
// handler opts in, exposed to rendered pages.
type Identity struct {
	Username string `json:"username"`
	Admin    int    `json:"admin"`
}

// Payload is the session snapshot carried in the encrypted cookie. It
// is taken at issue time and can go stale relative to the stored user
// record until the user authenticates again.
type Payload struct {
	User Identity `json:"user"`
}

// Codec writes and reads session cookies for one site key and server
// secret.
type Codec struct {
	siteKey string
	secret  string
	dev     bool
}

func NewCodec(siteKey, secret string, dev bool) *Codec {
	return &Codec{siteKey: siteKey, secret: secret, dev: dev}
}

// CookieName is the environment-prefixed name of the encrypted
// http-only session cookie.
func (c *Codec) CookieName() string {
	return Prefix(c.siteKey+"_session", c.dev)
}

// MarkerName is the environment-prefixed name of the non-secret
// logged-in marker cookie. Client code reads it to decide what to
// render; it is never an authorization input.
func (c *Codec) MarkerName() string {
	return Prefix(c.siteKey+"_is_logged_in", c.dev)
}

// Issue builds the identity snapshot, encrypts it and writes both the
// session cookie and the marker cookie. The two are always set
// together so their presence tracks each other.
func (c *Codec) Issue(w http.ResponseWriter, username string, admin int) (*Payload, error) {
	p := &Payload{User: Identity{Username: username, Admin: admin}}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	blob, err := crypt.Encrypt(string(data), c.secret)
	if err != nil {
		return nil, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     c.CookieName(),
		Value:    blob,
		Path:     "/",
		MaxAge:   MaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   !c.dev,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     c.MarkerName(),
		Value:    "{}",
		Path:     "/",
		MaxAge:   MaxAge,
		SameSite: http.SameSiteStrictMode,
		Secure:   !c.dev,
	})
	return p, nil
}

// Parse turns a session cookie value into its payload. It fails soft:
// an absent value, the deleted sentinel, an undecryptable blob or
// malformed JSON all mean "no session" and return nil.
func (c *Codec) Parse(value string) *Payload {
	if value == "" || value == DeletedValue {
		return nil
	}
	plain := crypt.Decrypt(value, c.secret)
	if plain == "" {
		return nil
	}
	var p Payload
	if err := json.Unmarshal([]byte(plain), &p); err != nil {
		return nil
	}
	if p.User.Username == "" {
		return nil
	}
	return &p
}

// Read parses the session cookie off a request, nil when absent or
// invalid.
func (c *Codec) Read(r *http.Request) *Payload {
	ck, err := r.Cookie(c.CookieName())
	if err != nil {
		return nil
	}
	return c.Parse(ck.Value)
}

// Delete clears both the session cookie and the marker cookie.
func (c *Codec) Delete(w http.ResponseWriter) {
	Delete(w, c.CookieName(), c.dev)
	Delete(w, c.MarkerName(), c.dev)
}
