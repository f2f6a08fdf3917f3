// Package view holds the HTML components of the portal. Components are
// templ templates so handlers can render them into a response or patch them
// into the page over Datastar SSE.
package view

import (
	"github.com/a-h/templ"

	"github.com/msomdec/zedny-portal/internal/domain"
)

// AppName is shown in the navbar and page titles.
const AppName = "Zedny 1st Task"

// Shell is what the layout needs to know about the client session.
type Shell struct {
	Email         string
	Authenticated bool
	Theme         domain.Theme
}

// ShellFrom builds a Shell from a session snapshot.
func ShellFrom(snap domain.Snapshot) Shell {
	theme := snap.Theme
	if theme == "" {
		theme = domain.ThemeLight
	}
	return Shell{
		Email:         snap.Email(),
		Authenticated: snap.IsAuthenticated(),
		Theme:         theme,
	}
}

// LoginView is the data behind the login page.
type LoginView struct {
	Email           string
	Error           string
	AlreadySignedIn bool
}

func themeSignals(theme domain.Theme) (string, error) {
	return templ.JSONString(map[string]any{"theme": theme})
}

func loginSignals(email string) (string, error) {
	return templ.JSONString(map[string]any{
		"email":    email,
		"password": "",
		"loading":  false,
	})
}

func greetingName(email string) string {
	if email == "" {
		return "Admin"
	}
	return email
}
