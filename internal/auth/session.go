package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/emberworks/emberweb/internal/csrf"
	"github.com/emberworks/emberweb/internal/session"
	"github.com/emberworks/emberweb/internal/store"
	"github.com/emberworks/emberweb/internal/web"
)

// LoginPath is where anonymous requests to protected pages are sent.
const LoginPath = "/account/login"

// Session is the per-request handle handed to handlers behind
// UserMustBeLoggedIn. It carries the decrypted cookie snapshot and
// request-scoped memoization; it must never outlive its request.
type Session struct {
	// User is the identity snapshot from the cookie, frozen at the
	// time the session was issued.
	User session.Identity

	st      store.Store
	fetched bool
	user    *User
	expose  bool
}

// GetUser fetches the full stored record behind the snapshot, keyed by
// the lower-cased username. The result, including a miss, is memoized
// for the rest of the request. A missing account returns (nil, nil).
func (s *Session) GetUser(ctx context.Context) (*User, error) {
	if s.fetched {
		return s.user, nil
	}
	blob, err := s.st.Get(ctx, UserKey(s.User.Username))
	if errors.Is(err, store.ErrNotFound) {
		s.fetched = true
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching user record: %w", err)
	}
	u, err := decodeUser(blob)
	if err != nil {
		return nil, err
	}
	s.fetched = true
	s.user = u
	return u, nil
}

// IsValid reports whether the account behind the snapshot still exists
// in the store. It confirms existence only; it does not notice
// field-level staleness and does not refresh the snapshot.
func (s *Session) IsValid(ctx context.Context) (bool, error) {
	return s.st.Exists(ctx, UserKey(s.User.Username))
}

// AddToPage opts in to exposing the reduced identity view (username
// and admin level) to the rendered page. Without this call no identity
// data reaches client-rendered output.
func (s *Session) AddToPage() {
	s.expose = true
}

// Authority wires the session codec, CSRF guard and user store into
// the request-wrapping contracts used by pages.
type Authority struct {
	Store store.Store
	Codec *session.Codec
	CSRF  *csrf.Guard
}

// LoggedInHandler is a page handler that runs with a live session.
type LoggedInHandler func(w http.ResponseWriter, r *http.Request, s *Session) (web.PageData, error)

// UserMustBeLoggedIn wraps a page handler with the login requirement:
// a CSRF token is ensured on every wrapped request regardless of login
// state, and requests without a decryptable session cookie are
// redirected to the login page without the handler ever running.
//
// Liveness is deliberately not checked here. A still-decryptable
// cookie for a since-deleted account reaches the handler; anything
// that cares must call IsValid itself. Checking on every request would
// turn each page view into a store round trip, which this design
// explicitly avoids.
func (a *Authority) UserMustBeLoggedIn(next LoggedInHandler) web.PageHandler {
	return func(w http.ResponseWriter, r *http.Request) (web.PageData, error) {
		token := a.CSRF.Ensure(w, r)

		payload := a.Codec.Read(r)
		if payload == nil {
			http.Redirect(w, r, LoginPath, http.StatusFound)
			return nil, nil
		}

		s := &Session{User: payload.User, st: a.Store}
		data, err := next(w, r, s)
		if err != nil || data == nil {
			return data, err
		}
		data["csrf"] = token
		if s.expose {
			data["session_user"] = s.User
		}
		return data, nil
	}
}

// WithCSRF wraps a public page handler, minting the per-browser token
// and injecting it into the page data for the double-submit echo.
func (a *Authority) WithCSRF(next web.PageHandler) web.PageHandler {
	return func(w http.ResponseWriter, r *http.Request) (web.PageData, error) {
		token := a.CSRF.Ensure(w, r)
		data, err := next(w, r)
		if err != nil || data == nil {
			return data, err
		}
		data["csrf"] = token
		return data, nil
	}
}
