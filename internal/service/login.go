package service

import (
	"context"
	"fmt"

	"github.com/msomdec/zedny-portal/internal/domain"
)

// Messages shown on the login form.
const (
	MsgInvalidEmail       = "Please enter a valid email."
	MsgInvalidCredentials = "Invalid credentials."
	MsgLoginFailed        = "Login failed."
)

// WelcomePath is where a successful login navigates.
const WelcomePath = "/welcome"

// Authenticator signs a client session in.
type Authenticator interface {
	Login(ctx context.Context, sid, email, password string) error
}

// LoginEvents receives the observable side effects of a login attempt.
type LoginEvents interface {
	Loading(on bool)
	Navigate(path string)
}

// LoginForm is the state of one login form.
type LoginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Loading  bool   `json:"loading"`
	Error    string `json:"error"`
}

// LoginController runs the login form's submit sequence: validate the
// email, check credentials, then sign the session in and navigate.
type LoginController struct {
	creds    CredentialChecker
	sessions Authenticator
}

// NewLoginController creates a LoginController.
func NewLoginController(creds CredentialChecker, sessions Authenticator) *LoginController {
	return &LoginController{creds: creds, sessions: sessions}
}

// Submit processes form for client session sid. form.Error and form.Loading
// are updated in place. The returned error wraps domain.ErrInvalidInput or
// domain.ErrInvalidCredentials for rejected input; any other error means the
// attempt failed.
func (c *LoginController) Submit(ctx context.Context, sid string, form *LoginForm, events LoginEvents) error {
	if events == nil {
		events = noEvents{}
	}
	form.Error = ""

	if !IsEmailValid(form.Email) {
		form.Error = MsgInvalidEmail
		return fmt.Errorf("%w: malformed email", domain.ErrInvalidInput)
	}

	ok, err := c.creds.Check(ctx, form.Email, form.Password)
	if err != nil {
		form.Error = MsgLoginFailed
		return fmt.Errorf("check credentials: %w", err)
	}
	if !ok {
		form.Error = MsgInvalidCredentials
		return domain.ErrInvalidCredentials
	}

	c.setLoading(form, events, true)
	defer c.setLoading(form, events, false)

	if err := c.sessions.Login(ctx, sid, form.Email, form.Password); err != nil {
		form.Error = MsgLoginFailed
		return err
	}
	events.Navigate(WelcomePath)
	return nil
}

func (c *LoginController) setLoading(form *LoginForm, events LoginEvents, on bool) {
	form.Loading = on
	events.Loading(on)
}

type noEvents struct{}

func (noEvents) Loading(bool)    {}
func (noEvents) Navigate(string) {}
