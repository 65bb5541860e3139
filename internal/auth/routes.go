package auth

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts the account API. Both mutating endpoints sit behind
// the CSRF double-submit middleware; logout lives on a page route and
// is mounted by the pages package.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(h.CSRF.Require)
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	return r
}
