package domain

// Identity is the signed-in user's minimal profile.
type Identity struct {
	Email string
}

// Theme is the colour scheme preference of a client session.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Toggle returns the opposite theme. Anything that is not dark toggles to dark.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Snapshot is a point-in-time copy of one client session's state.
type Snapshot struct {
	Identity *Identity
	Theme    Theme
	Version  uint64 // Incremented on every mutation
}

// IsAuthenticated reports whether an identity is present.
func (s Snapshot) IsAuthenticated() bool {
	return s.Identity != nil
}

// Email returns the identity's email, or "" when signed out.
func (s Snapshot) Email() string {
	if s.Identity == nil {
		return ""
	}
	return s.Identity.Email
}
