package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoutes_PagesRenderInsideShell(t *testing.T) {
	app := newTestApp(t, 0)

	tests := []struct {
		path   string
		status int
		marker string
	}{
		{"/", http.StatusOK, `id="home"`},
		{"/login", http.StatusOK, `id="login-form"`},
		{"/welcome", http.StatusOK, "Hello Admin,"},
		{"/xyz", http.StatusNotFound, "404 - Page Not Found"},
		{"/login/extra", http.StatusNotFound, "404 - Page Not Found"},
		{"/welcome/", http.StatusNotFound, "404 - Page Not Found"},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			w := httptest.NewRecorder()
			app.mux.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
			body := w.Body.String()
			assert.Contains(t, body, tc.marker)
			// The layout shell is present on every page, including NotFound.
			assert.Contains(t, body, `id="navbar"`)
			assert.Contains(t, body, `id="footer"`)
		})
	}
}

func TestRoutes_UnknownMethodOnPageFallsThroughToNotFound(t *testing.T) {
	app := newTestApp(t, 0)

	req := httptest.NewRequest(http.MethodPost, "/xyz", nil)
	w := httptest.NewRecorder()
	app.mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRoutes_WelcomeIsNotGuarded(t *testing.T) {
	app := newTestApp(t, 0)

	req := httptest.NewRequest(http.MethodGet, "/welcome", nil)
	w := httptest.NewRecorder()
	app.mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code, "anonymous /welcome should render")
}
