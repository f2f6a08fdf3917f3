package handler

import (
	"log/slog"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/msomdec/zedny-portal/internal/domain"
	"github.com/msomdec/zedny-portal/internal/service"
	"github.com/msomdec/zedny-portal/internal/view"
)

// SessionHandler serves the session mutators and the shell update stream.
type SessionHandler struct {
	sessions *service.SessionStore
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessions *service.SessionStore) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// HandleLogout signs the client session out.
// POST /logout
func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	sid := SessionIDFromContext(r.Context())
	h.sessions.Logout(sid)

	if isDatastar(r) {
		sse := datastar.NewSSE(w, r)
		snap := h.sessions.State(sid)
		patchShell(sse, snap)
		patchPage(sse, snap, backTo(r))
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleToggleTheme flips the client session's theme.
// POST /theme
func (h *SessionHandler) HandleToggleTheme(w http.ResponseWriter, r *http.Request) {
	sid := SessionIDFromContext(r.Context())
	h.sessions.ToggleTheme(sid)

	if isDatastar(r) {
		patchShell(datastar.NewSSE(w, r), h.sessions.State(sid))
		return
	}
	http.Redirect(w, r, backTo(r), http.StatusSeeOther)
}

// HandleEvents streams navbar and theme updates for the client session
// until the client disconnects. When the identity changes, the page the
// stream was opened from is re-rendered as well.
// GET /events
func (h *SessionHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	sid := SessionIDFromContext(r.Context())
	updates, cancel := h.sessions.Subscribe(sid)
	defer cancel()

	path := backTo(r)
	email := h.sessions.State(sid).Email()

	sse := datastar.NewSSE(w, r)
	for {
		select {
		case <-r.Context().Done():
			return
		case snap, ok := <-updates:
			if !ok {
				return
			}
			patchShell(sse, snap)
			if snap.Email() != email {
				email = snap.Email()
				patchPage(sse, snap, path)
			}
		}
	}
}

func patchShell(sse *datastar.ServerSentEventGenerator, snap domain.Snapshot) {
	shell := view.ShellFrom(snap)
	if err := sse.PatchElementTempl(view.Navbar(shell)); err != nil {
		slog.Debug("patch navbar", "error", err)
		return
	}
	if err := sse.MarshalAndPatchSignals(map[string]any{"theme": shell.Theme}); err != nil {
		slog.Debug("patch theme signal", "error", err)
	}
}

// patchPage re-renders the page slot for path, if path is in the route
// table.
func patchPage(sse *datastar.ServerSentEventGenerator, snap domain.Snapshot, path string) {
	p, ok := pageFor(path)
	if !ok {
		return
	}
	if err := sse.PatchElementTempl(view.Main(p.Content(snap))); err != nil {
		slog.Debug("patch page", "path", path, "error", err)
	}
}

// backTo returns the same-origin path the request came from, or "/".
func backTo(r *http.Request) string {
	ref := r.Referer()
	if ref == "" {
		return "/"
	}
	u, err := r.URL.Parse(ref)
	if err != nil || (u.Host != "" && u.Host != r.Host) || u.Path == "" {
		return "/"
	}
	return u.Path
}
