// Package csrf implements double-submit anti-forgery protection: a
// random per-browser token lives in a non-http-only cookie and must be
// echoed back as an explicit request parameter on every mutating call.
//
// Known weakness, inherited and documented rather than fixed: the
// token is minted on the first response a browser ever receives. If an
// attacker can trigger that first request and read the response (which
// requires a lenient CORS policy), the fresh token is theirs.
package csrf

import (
	"crypto/subtle"
	"net/http"

	"github.com/google/uuid"

	"github.com/emberworks/emberweb/internal/session"
	"github.com/emberworks/emberweb/internal/web"
)

// FailureMessage is the fixed body text of a CSRF rejection.
const FailureMessage = "The CSRF token was missing or invalid."

// Guard mints and checks CSRF tokens for one site key.
type Guard struct {
	siteKey string
	dev     bool
}

func NewGuard(siteKey string, dev bool) *Guard {
	return &Guard{siteKey: siteKey, dev: dev}
}

// CookieName is the environment-prefixed CSRF cookie name.
func (g *Guard) CookieName() string {
	return session.Prefix(g.siteKey+"_csrf", g.dev)
}

// Ensure returns the browser's CSRF token, minting one and attaching
// its Set-Cookie when the browser has none yet. Page handlers inject
// the returned token into the rendered output so client code can echo
// it back. The token is stable for the life of the browser session.
func (g *Guard) Ensure(w http.ResponseWriter, r *http.Request) string {
	if ck, err := r.Cookie(g.CookieName()); err == nil &&
		ck.Value != "" && ck.Value != session.DeletedValue {
		return ck.Value
	}

	token := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     g.CookieName(),
		Value:    token,
		Path:     "/",
		SameSite: http.SameSiteStrictMode,
		Secure:   !g.dev,
	})
	return token
}

// Check performs the double-submit comparison: the csrf query
// parameter must be present and byte-equal to the cookie. Only the
// query string is consulted so the request body stays untouched for
// the handler behind the guard.
func (g *Guard) Check(r *http.Request) bool {
	param := r.URL.Query().Get("csrf")
	if param == "" {
		return false
	}
	ck, err := r.Cookie(g.CookieName())
	if err != nil || ck.Value == "" || ck.Value == session.DeletedValue {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(param), []byte(ck.Value)) == 1
}

// Require wraps a mutating handler, rejecting the request with 403 and
// a machine-readable body before any side effect can happen.
func (g *Guard) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.Check(r) {
			web.FailStatus(w, http.StatusForbidden, FailureMessage)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Clear expires the CSRF cookie, forcing a fresh token on the next
// page view. Logout calls it alongside the session cookie cleanup.
func (g *Guard) Clear(w http.ResponseWriter) {
	session.Delete(w, g.CookieName(), g.dev)
}
