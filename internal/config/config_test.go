package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msomdec/zedny-portal/internal/config"
)

const secret = "0123456789abcdef0123456789abcdef"

func env(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := config.LoadFrom(env(map[string]string{"JWT_SECRET": secret}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, config.SourceStatic, cfg.CredentialsSource)
	assert.Equal(t, 500*time.Millisecond, cfg.LoginDelay)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := config.LoadFrom(env(map[string]string{
		"JWT_SECRET":         secret,
		"PORT":               "9090",
		"COOKIE_SECURE":      "false",
		"BCRYPT_COST":        "4",
		"LOGIN_DELAY":        "0s",
		"SESSION_TTL":        "1h",
		"CREDENTIALS_SOURCE": "db",
		"DATABASE_PATH":      "/tmp/x.db",
		"LOG_LEVEL":          "DEBUG",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, 4, cfg.BcryptCost)
	assert.Equal(t, time.Duration(0), cfg.LoginDelay)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, config.SourceDB, cfg.CredentialsSource)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		vars    map[string]string
		wantMsg string
	}{
		{"missing secret", map[string]string{}, "JWT_SECRET"},
		{"short secret", map[string]string{"JWT_SECRET": "short"}, "JWT_SECRET"},
		{"bad port", map[string]string{"JWT_SECRET": secret, "PORT": "http"}, "PORT"},
		{"bcrypt too low", map[string]string{"JWT_SECRET": secret, "BCRYPT_COST": "2"}, "BCRYPT_COST"},
		{"bcrypt not a number", map[string]string{"JWT_SECRET": secret, "BCRYPT_COST": "x"}, "BCRYPT_COST"},
		{"bad delay", map[string]string{"JWT_SECRET": secret, "LOGIN_DELAY": "soon"}, "LOGIN_DELAY"},
		{"unknown source", map[string]string{"JWT_SECRET": secret, "CREDENTIALS_SOURCE": "ldap"}, "CREDENTIALS_SOURCE"},
		{"remote without url", map[string]string{"JWT_SECRET": secret, "CREDENTIALS_SOURCE": "remote"}, "AUTH_API_URL"},
		{"bad log level", map[string]string{"JWT_SECRET": secret, "LOG_LEVEL": "loud"}, "LOG_LEVEL"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := config.LoadFrom(env(tc.vars))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantMsg)
		})
	}
}
