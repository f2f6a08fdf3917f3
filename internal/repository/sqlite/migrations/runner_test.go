package migrations_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/msomdec/zedny-portal/internal/repository/sqlite/migrations"
)

func openMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// :memory: databases are per connection.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRun_CreatesUsersTable(t *testing.T) {
	db := openMemoryDB(t)
	ctx := context.Background()

	require.NoError(t, migrations.Run(ctx, db))

	_, err := db.ExecContext(ctx,
		"INSERT INTO users (email, password_hash) VALUES (?, ?)",
		"test@example.com", "hash123",
	)
	assert.NoError(t, err)
}

func TestRun_Idempotent(t *testing.T) {
	db := openMemoryDB(t)
	ctx := context.Background()

	require.NoError(t, migrations.Run(ctx, db), "first run")
	require.NoError(t, migrations.Run(ctx, db), "second run")

	var count int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 1, count)
}
