package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/msomdec/zedny-portal/internal/domain"
	"github.com/msomdec/zedny-portal/internal/repository/sqlite"
)

// openAccounts opens the account database at path and migrates it. The
// caller owns the returned store and must Close it.
func openAccounts(ctx context.Context, path string) (domain.AccountStore, error) {
	db, err := sqlite.New(path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	slog.Debug("database migrations applied", "path", path)
	return db, nil
}
