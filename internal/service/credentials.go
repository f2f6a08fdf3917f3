package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/msomdec/zedny-portal/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// Fixed placeholder account accepted by StaticCredentials.
const (
	AdminEmail    = "admin@admin.com"
	AdminPassword = "admin1234"
)

// emailPattern is "local@domain.tld" with non-empty segments; no further
// RFC compliance.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsEmailValid reports whether s looks like local@domain.tld.
func IsEmailValid(s string) bool {
	return emailPattern.MatchString(s)
}

// CredentialChecker decides whether an email/password pair is accepted.
// A false result with a nil error means "wrong credentials"; an error
// means the check itself could not be made.
type CredentialChecker interface {
	Check(ctx context.Context, email, password string) (bool, error)
}

// StaticCredentials accepts exactly one email/password pair.
type StaticCredentials struct {
	Email    string
	Password string
}

// DefaultCredentials returns the built-in admin pair.
func DefaultCredentials() StaticCredentials {
	return StaticCredentials{Email: AdminEmail, Password: AdminPassword}
}

func (c StaticCredentials) Check(_ context.Context, email, password string) (bool, error) {
	return email == c.Email && password == c.Password, nil
}

// UserCredentials checks passwords against bcrypt hashes stored in a
// UserRepository.
type UserCredentials struct {
	users      domain.UserRepository
	bcryptCost int
}

// NewUserCredentials creates a UserCredentials.
func NewUserCredentials(users domain.UserRepository, bcryptCost int) *UserCredentials {
	return &UserCredentials{users: users, bcryptCost: bcryptCost}
}

func (c *UserCredentials) Check(ctx context.Context, email, password string) (bool, error) {
	user, err := c.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return false, nil
	}
	return true, nil
}

// Seed stores an account for email unless one already exists. It returns
// true when a new account was created.
func (c *UserCredentials) Seed(ctx context.Context, email, password string) (bool, error) {
	if !IsEmailValid(email) {
		return false, fmt.Errorf("%w: malformed email %q", domain.ErrInvalidInput, email)
	}
	if len(password) < 8 {
		return false, fmt.Errorf("%w: password must be at least 8 characters", domain.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), c.bcryptCost)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	err = c.users.Create(ctx, &domain.User{Email: email, PasswordHash: string(hash)})
	if errors.Is(err, domain.ErrDuplicateEmail) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create user: %w", err)
	}
	return true, nil
}

// LoginRequester is the remote authentication seam.
type LoginRequester interface {
	LoginRequest(ctx context.Context, email, password string) ([]byte, error)
}

// RemoteCredentials delegates the decision to a remote auth API. A
// domain.ErrUnauthorized from the API is a rejection, anything else is a
// failed check.
type RemoteCredentials struct {
	api LoginRequester
}

// NewRemoteCredentials creates a RemoteCredentials.
func NewRemoteCredentials(api LoginRequester) *RemoteCredentials {
	return &RemoteCredentials{api: api}
}

func (c *RemoteCredentials) Check(ctx context.Context, email, password string) (bool, error) {
	if _, err := c.api.LoginRequest(ctx, email, password); err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return false, nil
		}
		return false, fmt.Errorf("remote login: %w", err)
	}
	return true, nil
}
