package handler

import (
	"net/http"

	"github.com/a-h/templ"

	"github.com/msomdec/zedny-portal/internal/domain"
	"github.com/msomdec/zedny-portal/internal/service"
	"github.com/msomdec/zedny-portal/internal/view"
)

// Page is one entry of the route table.
type Page struct {
	Path    string
	Title   string
	Content func(snap domain.Snapshot) templ.Component
}

// Pattern is the ServeMux pattern serving exactly p.Path.
func (p Page) Pattern() string {
	if p.Path == "/" {
		return "GET /{$}"
	}
	return "GET " + p.Path
}

// Pages is the route table in match order. Paths outside it render
// NotFound.
var Pages = []Page{
	{
		Path:    "/",
		Title:   "Home",
		Content: func(domain.Snapshot) templ.Component { return view.HomePage() },
	},
	{
		Path:  "/login",
		Title: "Login",
		Content: func(snap domain.Snapshot) templ.Component {
			return view.LoginPage(view.LoginView{AlreadySignedIn: snap.IsAuthenticated()})
		},
	},
	{
		// Reachable without signing in; the page falls back to "Admin".
		Path:    "/welcome",
		Title:   "Welcome",
		Content: func(snap domain.Snapshot) templ.Component { return view.WelcomePage(snap.Email()) },
	},
}

// pageFor returns the route table entry for path.
func pageFor(path string) (Page, bool) {
	for _, p := range Pages {
		if p.Path == path {
			return p, true
		}
	}
	return Page{}, false
}

// PageHandler renders route table pages inside the layout shell.
type PageHandler struct {
	sessions *service.SessionStore
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(sessions *service.SessionStore) *PageHandler {
	return &PageHandler{sessions: sessions}
}

// Handle returns the handler for p.
func (h *PageHandler) Handle(p Page) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := h.sessions.State(SessionIDFromContext(r.Context()))
		h.render(w, r, http.StatusOK, p.Title, snap, p.Content(snap))
	}
}

// HandleNotFound renders the NotFound page with a 404 status.
func (h *PageHandler) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	snap := h.sessions.State(SessionIDFromContext(r.Context()))
	h.render(w, r, http.StatusNotFound, "Not Found", snap, view.NotFoundPage())
}

func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, status int, title string, snap domain.Snapshot, content templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	view.Layout(title, view.ShellFrom(snap), content).Render(r.Context(), w)
}
