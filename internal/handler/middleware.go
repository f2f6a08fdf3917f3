package handler

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/msomdec/zedny-portal/internal/service"
)

type contextKey string

const sessionContextKey contextKey = "session"

// SessionCookieName carries the signed client session ID.
const SessionCookieName = "zedny_session"

// SessionIDFromContext returns the client session ID placed by WithSession,
// or "" outside of it.
func SessionIDFromContext(ctx context.Context) string {
	sid, _ := ctx.Value(sessionContextKey).(string)
	return sid
}

// WithSession resolves the client session from the session cookie. A
// missing, expired or tampered cookie starts a fresh session. A valid cookie
// past half its lifetime is reissued for the same session, so active
// clients stay signed in. It never blocks a request: no route is guarded.
func WithSession(tokens *service.SessionTokens, secure bool, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := ""
		refresh := true
		if cookie, err := r.Cookie(SessionCookieName); err == nil {
			if v, expiresAt, err := tokens.Validate(cookie.Value); err == nil {
				sid = v
				refresh = tokens.NeedsRefresh(expiresAt, time.Now())
			}
		}
		if sid == "" {
			sid = service.NewSessionID()
		}

		if refresh {
			token, err := tokens.Issue(sid)
			if err != nil {
				slog.Error("issue session token", "error", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookieName,
				Value:    token,
				Path:     "/",
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
				MaxAge:   int(tokens.TTL().Seconds()),
			})
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, sid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SecurityHeaders sets security-related headers on every response.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
		// Datastar evaluates expressions with Function(), hence unsafe-eval.
		h.Set("Content-Security-Policy",
			"default-src 'self'; script-src 'self' https://cdn.jsdelivr.net 'unsafe-eval'; "+
				"style-src 'self' 'unsafe-inline'; connect-src 'self'; frame-ancestors 'none'")
		next.ServeHTTP(w, r)
	})
}

// RequestLogger logs one line per request.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (s *statusRecorder) WriteHeader(code int) {
	if !s.wroteHeader {
		s.status = code
		s.wroteHeader = true
	}
	s.ResponseWriter.WriteHeader(code)
}

// Flush keeps SSE streaming working through the recorder.
func (s *statusRecorder) Flush() {
	if f, ok := s.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

// RateLimit rejects requests once the client IP's bucket is empty.
func RateLimit(limiter *service.TokenBucket, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow(clientIP(r)) {
			slog.Warn("rate limited", "path", r.URL.Path, "ip", clientIP(r))
			w.Header().Set("Retry-After", "5")
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func isDatastar(r *http.Request) bool {
	return r.Header.Get("Datastar-Request") == "true"
}
