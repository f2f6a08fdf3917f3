package handler

import (
	"net/http"

	"github.com/msomdec/zedny-portal/internal/service"
)

// Deps are the services the routes are built from.
type Deps struct {
	Sessions     *service.SessionStore
	Tokens       *service.SessionTokens
	Login        *service.LoginController
	Limiter      *service.TokenBucket
	CookieSecure bool
}

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, d Deps) {
	withSession := func(h http.Handler) http.Handler {
		return WithSession(d.Tokens, d.CookieSecure, h)
	}

	pages := NewPageHandler(d.Sessions)
	login := NewLoginHandler(d.Login, pages)
	sessions := NewSessionHandler(d.Sessions)

	mux.HandleFunc("GET /healthz", HandleHealthz)

	for _, p := range Pages {
		mux.Handle(p.Pattern(), withSession(pages.Handle(p)))
	}

	submit := http.Handler(http.HandlerFunc(login.HandleSubmit))
	if d.Limiter != nil {
		submit = RateLimit(d.Limiter, submit)
	}
	mux.Handle("POST /login", withSession(submit))
	mux.Handle("POST /logout", withSession(http.HandlerFunc(sessions.HandleLogout)))
	mux.Handle("POST /theme", withSession(http.HandlerFunc(sessions.HandleToggleTheme)))
	mux.Handle("GET /events", withSession(http.HandlerFunc(sessions.HandleEvents)))

	// Lowest priority: everything the patterns above do not match.
	mux.Handle("/", withSession(http.HandlerFunc(pages.HandleNotFound)))
}
