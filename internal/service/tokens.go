package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/msomdec/zedny-portal/internal/domain"
)

const tokenIssuer = "zedny-portal"

// SessionTokens signs and verifies the cookie that carries a client
// session ID. The token identifies the browser, not the user; the identity
// lives in SessionStore.
type SessionTokens struct {
	secret []byte
	ttl    time.Duration
}

// NewSessionTokens creates a SessionTokens signing with HMAC-SHA256.
func NewSessionTokens(secret string, ttl time.Duration) *SessionTokens {
	return &SessionTokens{secret: []byte(secret), ttl: ttl}
}

// NewSessionID returns a fresh random client session ID.
func NewSessionID() string {
	return uuid.NewString()
}

// Issue returns a signed token for sid.
func (t *SessionTokens) Issue(sid string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   sid,
		Issuer:    tokenIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Validate parses tokenString and returns the session ID it carries and
// when the token expires.
func (t *SessionTokens) Validate(tokenString string) (string, time.Time, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return "", time.Time{}, domain.ErrUnauthorized
	}

	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", time.Time{}, domain.ErrUnauthorized
	}
	return claims.Subject, claims.ExpiresAt.Time, nil
}

// NeedsRefresh reports whether a token expiring at expiresAt has less than
// half of its lifetime left at now.
func (t *SessionTokens) NeedsRefresh(expiresAt, now time.Time) bool {
	return expiresAt.Sub(now) < t.ttl/2
}

// TTL is the lifetime of issued tokens.
func (t *SessionTokens) TTL() time.Duration {
	return t.ttl
}
