package csrf

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestEnsureMintsTokenOnce(t *testing.T) {
	g := NewGuard("ember", true)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	token := g.Ensure(rec, req)
	require.NotEmpty(t, token)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, g.CookieName(), cookies[0].Name)
	assert.Equal(t, token, cookies[0].Value)
	assert.Equal(t, "/", cookies[0].Path)
	assert.Equal(t, http.SameSiteStrictMode, cookies[0].SameSite)

	// A browser that already holds the token keeps it: no new cookie.
	rec2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.AddCookie(&http.Cookie{Name: g.CookieName(), Value: token})
	assert.Equal(t, token, g.Ensure(rec2, req2))
	assert.Empty(t, rec2.Result().Cookies())
}

func TestEnsureReplacesDeletedSentinel(t *testing.T) {
	g := NewGuard("ember", true)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: g.CookieName(), Value: "deleted"})

	token := g.Ensure(rec, req)
	assert.NotEqual(t, "deleted", token)
	require.Len(t, rec.Result().Cookies(), 1)
}

func TestRequireDoubleSubmit(t *testing.T) {
	g := NewGuard("ember", true)
	protected := g.Require(okHandler())

	// Cookie present but no echoed parameter: rejected.
	apitest.Handler(protected).
		Post("/api/thing").
		Cookies(apitest.NewCookie(g.CookieName()).Value("tok-1")).
		Expect(t).
		Status(http.StatusForbidden).
		Assert(jsonpath.Equal("$.msg", FailureMessage)).
		End()

	// Parameter present but no cookie: rejected.
	apitest.Handler(protected).
		Post("/api/thing").
		Query("csrf", "tok-1").
		Expect(t).
		Status(http.StatusForbidden).
		End()

	// Cookie and parameter mismatch: rejected.
	apitest.Handler(protected).
		Post("/api/thing").
		Cookies(apitest.NewCookie(g.CookieName()).Value("tok-1")).
		Query("csrf", "tok-2").
		Expect(t).
		Status(http.StatusForbidden).
		End()

	// Matching cookie and parameter: passes through.
	apitest.Handler(protected).
		Post("/api/thing").
		Cookies(apitest.NewCookie(g.CookieName()).Value("tok-1")).
		Query("csrf", "tok-1").
		Expect(t).
		Status(http.StatusOK).
		End()
}

func TestClearExpiresCookie(t *testing.T) {
	g := NewGuard("ember", true)
	rec := httptest.NewRecorder()
	g.Clear(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, g.CookieName(), cookies[0].Name)
	assert.Equal(t, "deleted", cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestCookieNamePrefix(t *testing.T) {
	assert.Equal(t, "ember_csrf", NewGuard("ember", true).CookieName())
	assert.Equal(t, "__Host-ember_csrf", NewGuard("ember", false).CookieName())
}
