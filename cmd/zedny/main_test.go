package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msomdec/zedny-portal/internal/config"
	"github.com/msomdec/zedny-portal/internal/domain"
	"github.com/msomdec/zedny-portal/internal/service"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestVersionCommandOutputsBuildInfo(t *testing.T) {
	originalVersion, originalCommit, originalDate := version, commit, date
	t.Cleanup(func() {
		version, commit, date = originalVersion, originalCommit, originalDate
	})
	version, commit, date = "1.2.3", "abcdef1", "2026-10-17"

	root := newRootCmd()
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), "1.2.3")
	assert.Contains(t, buf.String(), "abcdef1")
	assert.Contains(t, buf.String(), "2026-10-17")
}

func TestSeedAdminCommand(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("BCRYPT_COST", "4")
	dbPath := filepath.Join(t.TempDir(), "seed.db")

	run := func() string {
		root := newRootCmd()
		buf := &bytes.Buffer{}
		root.SetOut(buf)
		root.SetErr(buf)
		root.SetArgs([]string{"seed-admin", "--db", dbPath, "--log-level", "error"})
		require.NoError(t, root.Execute())
		return buf.String()
	}

	assert.Contains(t, run(), "created account admin@admin.com")
	assert.Contains(t, run(), "already exists")
}

func TestLoadConfig_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("PORT", "8081")

	cfg, err := loadConfig(&rootFlags{port: "9999", logLevel: "debug"})
	require.NoError(t, err)
	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_RejectsBadFlag(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	_, err := loadConfig(&rootFlags{logLevel: "chatty"})
	require.Error(t, err)
}

func TestBuildCredentials(t *testing.T) {
	ctx := context.Background()

	static, closeStatic, err := buildCredentials(ctx, &config.Config{CredentialsSource: config.SourceStatic})
	require.NoError(t, err)
	defer closeStatic()
	assert.IsType(t, service.StaticCredentials{}, static)

	remote, closeRemote, err := buildCredentials(ctx, &config.Config{CredentialsSource: config.SourceRemote, AuthAPIURL: "http://auth.invalid"})
	require.NoError(t, err)
	defer closeRemote()
	assert.IsType(t, &service.RemoteCredentials{}, remote)

	db, closeDB, err := buildCredentials(ctx, &config.Config{
		CredentialsSource: config.SourceDB,
		DatabasePath:      filepath.Join(t.TempDir(), "creds.db"),
		BcryptCost:        4,
	})
	require.NoError(t, err)
	defer closeDB()

	ok, err := db.Check(ctx, service.AdminEmail, service.AdminPassword)
	require.NoError(t, err)
	assert.True(t, ok, "db source should seed the admin account")
}

func TestOpenAccounts(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "accounts.db")

	accounts, err := openAccounts(ctx, path)
	require.NoError(t, err)
	defer accounts.Close()

	_, err = accounts.Users().GetByEmail(ctx, service.AdminEmail)
	assert.ErrorIs(t, err, domain.ErrNotFound, "users table should exist and be empty")

	_, err = openAccounts(ctx, filepath.Join(t.TempDir(), "missing", "accounts.db"))
	assert.Error(t, err)
}
