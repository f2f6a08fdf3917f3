package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/msomdec/zedny-portal/internal/domain"
	"github.com/msomdec/zedny-portal/internal/service"
	"github.com/msomdec/zedny-portal/internal/view"
)

// LoginHandler handles submissions of the login form.
type LoginHandler struct {
	login *service.LoginController
	pages *PageHandler
}

// NewLoginHandler creates a new LoginHandler.
func NewLoginHandler(login *service.LoginController, pages *PageHandler) *LoginHandler {
	return &LoginHandler{login: login, pages: pages}
}

// HandleSubmit processes POST /login.
//
// Datastar requests carry the form as signals and get an SSE stream back:
// the error slot is cleared, the loading signal flips on and off around the
// simulated delay, and a successful login redirects to the welcome page.
// Plain form posts get a 303 on success or the re-rendered page with a 422.
func (h *LoginHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	sid := SessionIDFromContext(r.Context())

	var form service.LoginForm
	if err := readLoginForm(r, &form); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	form.Loading = false

	// A login that is underway completes even if the client goes away.
	ctx := context.WithoutCancel(r.Context())

	if isDatastar(r) {
		sse := datastar.NewSSE(w, r)
		sse.PatchElementTempl(view.LoginError(""))

		err := h.login.Submit(ctx, sid, &form, &sseLoginEvents{sse: sse})
		logSubmitError(err)
		if form.Error != "" {
			sse.PatchElementTempl(view.LoginError(form.Error))
		}
		return
	}

	events := &redirectEvents{}
	err := h.login.Submit(ctx, sid, &form, events)
	logSubmitError(err)
	if events.target != "" {
		http.Redirect(w, r, events.target, http.StatusSeeOther)
		return
	}

	snap := h.pages.sessions.State(sid)
	h.pages.render(w, r, http.StatusUnprocessableEntity, "Login", snap, view.LoginPage(view.LoginView{
		Email:           form.Email,
		Error:           form.Error,
		AlreadySignedIn: snap.IsAuthenticated(),
	}))
}

func readLoginForm(r *http.Request, form *service.LoginForm) error {
	if isDatastar(r) {
		return datastar.ReadSignals(r, form)
	}
	if err := r.ParseForm(); err != nil {
		return err
	}
	form.Email = r.PostFormValue("email")
	form.Password = r.PostFormValue("password")
	return nil
}

func logSubmitError(err error) {
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidCredentials):
		slog.Debug("login rejected", "error", err)
	default:
		slog.Error("login failed", "error", err)
	}
}

type sseLoginEvents struct {
	sse *datastar.ServerSentEventGenerator
}

func (e *sseLoginEvents) Loading(on bool) {
	if err := e.sse.MarshalAndPatchSignals(map[string]any{"loading": on}); err != nil {
		slog.Debug("patch loading signal", "error", err)
	}
}

func (e *sseLoginEvents) Navigate(path string) {
	if err := e.sse.Redirect(path); err != nil {
		slog.Debug("redirect", "path", path, "error", err)
	}
}

// redirectEvents records the navigation target for a plain form post.
type redirectEvents struct {
	target string
}

func (e *redirectEvents) Loading(bool) {}

func (e *redirectEvents) Navigate(path string) {
	e.target = path
}
