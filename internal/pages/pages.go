// Package pages serves the small set of server-rendered pages. The
// pages themselves are deliberately thin; they exist to exercise the
// CSRF and login wrappers the way the real site does.
package pages

import (
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/emberworks/emberweb/internal/auth"
	"github.com/emberworks/emberweb/internal/web"
)

// Pages renders the public and protected pages of the site.
type Pages struct {
	authority *auth.Authority
	account   *auth.Handler
	log       zerolog.Logger
	tmpl      *template.Template
}

func New(authority *auth.Authority, account *auth.Handler, log zerolog.Logger) *Pages {
	return &Pages{
		authority: authority,
		account:   account,
		log:       log,
		tmpl:      template.Must(template.New("pages").Parse(templates)),
	}
}

// Routes mounts every page route, including logout, which is a page
// navigation rather than an API call.
func (p *Pages) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", p.render("home", p.home))
	r.Get("/account/login", p.render("login", p.authority.WithCSRF(p.form)))
	r.Get("/account/register", p.render("register", p.authority.WithCSRF(p.form)))
	r.HandleFunc("/account/logout", p.account.Logout)
	r.Get("/account/", p.render("dashboard", p.authority.UserMustBeLoggedIn(p.dashboard)))
	return r
}

// render executes the page pipeline and feeds the resulting data into
// the named template. A nil data map means the handler already replied
// (a redirect); a handler error becomes a logged generic 500.
func (p *Pages) render(name string, h web.PageHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := h(w, r)
		if err != nil {
			p.log.Error().Err(err).Str("page", name).Msg("page handler failed")
			http.Error(w, web.InternalErrorText, http.StatusInternalServerError)
			return
		}
		if data == nil {
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := p.tmpl.ExecuteTemplate(w, name, data); err != nil {
			p.log.Error().Err(err).Str("page", name).Msg("template execution failed")
		}
	}
}

func (p *Pages) home(w http.ResponseWriter, r *http.Request) (web.PageData, error) {
	return web.PageData{}, nil
}

func (p *Pages) form(w http.ResponseWriter, r *http.Request) (web.PageData, error) {
	return web.PageData{}, nil
}

func (p *Pages) dashboard(w http.ResponseWriter, r *http.Request, s *auth.Session) (web.PageData, error) {
	s.AddToPage()
	return web.PageData{}, nil
}

const templates = `
{{define "home"}}<!doctype html>
<html><head><title>ember</title></head>
<body>
<h1>ember</h1>
<p><a href="/account/login">Log in</a> or <a href="/account/register">register</a>.</p>
</body></html>{{end}}

{{define "login"}}<!doctype html>
<html><head><title>Log in</title></head>
<body>
<h1>Log in</h1>
<form id="f">
<input name="account" placeholder="Account">
<input name="password" type="password" placeholder="Password">
<button>Log in</button>
</form>
<p id="msg"></p>
<script>
const csrf = {{.csrf}};
document.getElementById("f").addEventListener("submit", async (e) => {
	e.preventDefault();
	const form = new FormData(e.target);
	const r = await fetch("/api/account/login?csrf=" + encodeURIComponent(csrf), {
		method: "POST",
		headers: {"Content-Type": "application/json"},
		body: JSON.stringify({account: form.get("account"), password: form.get("password")}),
	});
	const reply = await r.json();
	if (reply.success) { location.href = "/account/"; }
	else { document.getElementById("msg").textContent = reply.msg; }
});
</script>
</body></html>{{end}}

{{define "register"}}<!doctype html>
<html><head><title>Register</title></head>
<body>
<h1>Register</h1>
<form id="f">
<input name="account" placeholder="Account">
<input name="password" type="password" placeholder="Password">
<input name="code" placeholder="Employee code">
<button>Register</button>
</form>
<p id="msg"></p>
<script>
const csrf = {{.csrf}};
document.getElementById("f").addEventListener("submit", async (e) => {
	e.preventDefault();
	const form = new FormData(e.target);
	const r = await fetch("/api/account/register?csrf=" + encodeURIComponent(csrf), {
		method: "POST",
		headers: {"Content-Type": "application/json"},
		body: JSON.stringify({account: form.get("account"), password: form.get("password"), code: form.get("code")}),
	});
	const reply = await r.json();
	if (reply.success) { location.href = "/account/"; }
	else { document.getElementById("msg").textContent = reply.msg; }
});
</script>
</body></html>{{end}}

{{define "dashboard"}}<!doctype html>
<html><head><title>Account</title></head>
<body>
<h1>Hello, {{.session_user.Username}}</h1>
{{if gt .session_user.Admin 0}}<p>Admin level {{.session_user.Admin}}</p>{{end}}
<p><a href="/account/logout">Log out</a></p>
</body></html>{{end}}
`
