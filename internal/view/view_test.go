package view_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msomdec/zedny-portal/internal/domain"
	"github.com/msomdec/zedny-portal/internal/view"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestLayout_WrapsPageInShell(t *testing.T) {
	out := render(t, view.Layout("Home", view.Shell{Theme: domain.ThemeLight}, view.HomePage()))

	for _, want := range []string{`id="navbar"`, `id="page"`, `id="home"`, `id="footer"`, `data-theme="light"`, `id="shell-events"`} {
		assert.Contains(t, out, want)
	}
	assert.Contains(t, out, "<title>Home | "+view.AppName+"</title>")
	assert.NotContains(t, out, "Logout", "signed-out navbar should not offer logout")
}

func TestLayout_EscapesTitle(t *testing.T) {
	out := render(t, view.Layout("<b>x</b>", view.Shell{}, view.NotFoundPage()))

	assert.NotContains(t, out, "<b>x</b>")
	assert.Contains(t, out, "&lt;b&gt;x&lt;/b&gt;")
}

func TestMain_IsPatchTarget(t *testing.T) {
	out := render(t, view.Main(view.WelcomePage("")))

	assert.Equal(t, `<main id="page">`, out[:len(`<main id="page">`)])
	assert.Contains(t, out, "Hello Admin,")
	assert.NotContains(t, out, `id="navbar"`)
}

func TestNavbar_SignedIn(t *testing.T) {
	out := render(t, view.Navbar(view.Shell{Email: "admin@admin.com", Authenticated: true, Theme: domain.ThemeDark}))

	assert.Contains(t, out, "Hi, admin@admin.com")
	assert.Contains(t, out, "Logout")
	assert.Contains(t, out, "Switch to light", "dark theme should offer switching to light")
}

func TestNavbar_EscapesEmail(t *testing.T) {
	out := render(t, view.Navbar(view.Shell{Email: "<script>@x.y", Authenticated: true}))

	assert.NotContains(t, out, "<script>@")
}

func TestWelcomePage_FallsBackToAdmin(t *testing.T) {
	assert.Contains(t, render(t, view.WelcomePage("")), "Hello Admin,")
	assert.Contains(t, render(t, view.WelcomePage("a@b.c")), "Hello a@b.c,")
}

func TestLoginPage(t *testing.T) {
	out := render(t, view.LoginPage(view.LoginView{Email: "x'y", Error: "Invalid credentials.", AlreadySignedIn: true}))

	for _, want := range []string{`id="login-form"`, `id="login-error"`, "Invalid credentials.", "You are already logged in."} {
		assert.Contains(t, out, want)
	}
	// Signals are JSON inside an escaped attribute.
	assert.Contains(t, out, `&#34;email&#34;:&#34;x&#39;y&#34;`)
	assert.Contains(t, out, `value="x&#39;y"`)
}

func TestLoginPage_SignedOutHasNoNotice(t *testing.T) {
	out := render(t, view.LoginPage(view.LoginView{}))

	assert.NotContains(t, out, "You are already logged in.")
	assert.Contains(t, out, `<p id="login-error" class="error" role="alert"></p>`)
}

func TestShellFrom(t *testing.T) {
	shell := view.ShellFrom(domain.Snapshot{Identity: &domain.Identity{Email: "a@b.c"}})

	assert.True(t, shell.Authenticated)
	assert.Equal(t, "a@b.c", shell.Email)
	assert.Equal(t, domain.ThemeLight, shell.Theme, "expected default light theme")
}
