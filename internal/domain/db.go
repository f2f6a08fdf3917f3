package domain

import "context"

// AccountStore is the lifecycle of the database behind the "db" credential
// source. Schema changes ship with the implementation.
type AccountStore interface {
	Migrate(ctx context.Context) error
	Users() UserRepository
	Close() error
}
