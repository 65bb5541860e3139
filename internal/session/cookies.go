package session

import "net/http"

// DeletedValue is the sentinel written when a cookie is cleared. The
// parse side treats it the same as an absent cookie.
const DeletedValue = "deleted"

// Prefix applies the __Host- cookie prefix outside local development.
// The prefix requires Secure and Path=/ with no Domain attribute,
// which is exactly how every cookie here is written in production.
func Prefix(name string, dev bool) string {
	if dev {
		return name
	}
	return "__Host-" + name
}

// Delete overwrites the named cookie with the deleted sentinel and a
// negative max-age so the browser drops it immediately.
func Delete(w http.ResponseWriter, name string, dev bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    DeletedValue,
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   !dev,
	})
}
