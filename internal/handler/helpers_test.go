package handler_test

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/msomdec/zedny-portal/internal/handler"
	"github.com/msomdec/zedny-portal/internal/service"
)

const testJWTSecret = "test-secret-for-handler-tests-0123456789"

type testApp struct {
	mux      *http.ServeMux
	sessions *service.SessionStore
	tokens   *service.SessionTokens
}

func newTestApp(t *testing.T, loginDelay time.Duration) *testApp {
	t.Helper()
	sessions := service.NewSessionStore(loginDelay, time.Hour)
	t.Cleanup(sessions.Close)
	limiter := service.NewTokenBucket(1, 100)
	t.Cleanup(limiter.Stop)

	tokens := service.NewSessionTokens(testJWTSecret, time.Hour)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handler.Deps{
		Sessions: sessions,
		Tokens:   tokens,
		Login:    service.NewLoginController(service.DefaultCredentials(), sessions),
		Limiter:  limiter,
	})
	return &testApp{mux: mux, sessions: sessions, tokens: tokens}
}

// server starts the app and returns a cookie-keeping client that does not
// follow redirects.
func (a *testApp) server(t *testing.T) (*httptest.Server, *http.Client) {
	t.Helper()
	srv := httptest.NewServer(a.mux)
	t.Cleanup(srv.Close)
	return srv, newClient(t)
}

// newClient returns a client with its own cookie jar, like a separate browser.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// sessionID returns the client session ID the jar holds for srv.
func (a *testApp) sessionID(t *testing.T, srv *httptest.Server, client *http.Client) string {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	for _, c := range client.Jar.Cookies(req.URL) {
		if c.Name == handler.SessionCookieName {
			sid, _, err := a.tokens.Validate(c.Value)
			require.NoError(t, err, "validate session cookie")
			return sid
		}
	}
	t.Fatal("no session cookie in jar")
	return ""
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

// postDatastar sends body as Datastar signals. A non-empty referer is the
// page the request is made from.
func postDatastar(t *testing.T, client *http.Client, target, referer, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, target, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Datastar-Request", "true")
	if referer != "" {
		req.Header.Set("Referer", referer)
	}
	resp, err := client.Do(req)
	require.NoError(t, err, "POST %s", target)
	return resp
}

func get(t *testing.T, client *http.Client, target string) *http.Response {
	t.Helper()
	resp, err := client.Get(target)
	require.NoError(t, err, "GET %s", target)
	return resp
}
