package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/emberworks/emberweb/internal/csrf"
	"github.com/emberworks/emberweb/internal/password"
	"github.com/emberworks/emberweb/internal/session"
	"github.com/emberworks/emberweb/internal/store"
	"github.com/emberworks/emberweb/internal/web"
)

// employeeCode is the static registration gate. It is a shared invite
// constant, not an authorization system.
const employeeCode = "ember ember"

// Reply messages. Unknown-account and wrong-password deliberately
// share one string so login responses cannot be used to enumerate
// accounts.
const (
	msgInvalidCode    = "Invalid employee code."
	msgNameTaken      = "Account name is already in use."
	msgInvalidAccount = "Invalid or unknown account."
)

// Handler serves the account endpoints.
type Handler struct {
	Store store.Store
	Codec *session.Codec
	CSRF  *csrf.Guard
	Log   zerolog.Logger
}

type registerRequest struct {
	Account  string `json:"account"`
	Password string `json:"password"`
	Code     string `json:"code"`
}

type loginRequest struct {
	Account  string `json:"account"`
	Password string `json:"password"`
}

// Register creates an account and logs it in. The CSRF middleware has
// already passed by the time this runs.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body.", http.StatusBadRequest)
		return
	}
	if !usernameRE.MatchString(req.Account) {
		http.Error(w, "Invalid characters.", http.StatusBadRequest)
		return
	}
	if req.Password == "" {
		http.Error(w, "Password must not be empty.", http.StatusBadRequest)
		return
	}

	if req.Code != employeeCode {
		web.Fail(w, msgInvalidCode)
		return
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		h.internalError(w, err)
		return
	}
	user := User{
		Username: req.Account,
		Password: hashed,
		Admin:    0,
		Created:  time.Now().UTC().Format(time.RFC3339),
	}
	blob, err := json.Marshal(user)
	if err != nil {
		h.internalError(w, err)
		return
	}

	// Conditional create: two racing registrations of the same name
	// both reach this point, but only one write lands. The loser gets
	// the same reply as a plain duplicate.
	created, err := h.Store.SetIfAbsent(r.Context(), UserKey(req.Account), string(blob))
	if err != nil {
		h.internalError(w, err)
		return
	}
	if !created {
		web.Fail(w, msgNameTaken)
		return
	}

	if _, err := h.Codec.Issue(w, user.Username, user.Admin); err != nil {
		h.internalError(w, err)
		return
	}
	web.Succeed(w)
}

// Login verifies credentials and issues a session. Failures are
// indistinguishable between an unknown name and a wrong password.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body.", http.StatusBadRequest)
		return
	}

	blob, err := h.Store.Get(r.Context(), UserKey(req.Account))
	if errors.Is(err, store.ErrNotFound) {
		web.Fail(w, msgInvalidAccount)
		return
	}
	if err != nil {
		h.internalError(w, err)
		return
	}

	user, err := decodeUser(blob)
	if err != nil {
		h.internalError(w, err)
		return
	}
	if !password.Verify(req.Password, user.Password) {
		web.Fail(w, msgInvalidAccount)
		return
	}

	if _, err := h.Codec.Issue(w, user.Username, user.Admin); err != nil {
		h.internalError(w, err)
		return
	}
	web.Succeed(w)
}

// Logout clears the session, marker and CSRF cookies and sends the
// browser home. It needs no CSRF check: the only effect is destroying
// the caller's own session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Codec.Delete(w)
	h.CSRF.Clear(w)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *Handler) internalError(w http.ResponseWriter, err error) {
	h.Log.Error().Err(err).Msg("account endpoint failed")
	http.Error(w, web.InternalErrorText, http.StatusInternalServerError)
}
