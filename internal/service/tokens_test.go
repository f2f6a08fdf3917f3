package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msomdec/zedny-portal/internal/domain"
	"github.com/msomdec/zedny-portal/internal/service"
)

const testJWTSecret = "test-secret-key-for-unit-tests-0123456789"

func TestSessionTokens_RoundTrip(t *testing.T) {
	tokens := service.NewSessionTokens(testJWTSecret, time.Hour)
	sid := service.NewSessionID()

	before := time.Now()
	token, err := tokens.Issue(sid)
	require.NoError(t, err)

	got, expiresAt, err := tokens.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, sid, got)
	assert.WithinDuration(t, before.Add(time.Hour), expiresAt, 2*time.Second)
}

func TestSessionTokens_RejectsTampered(t *testing.T) {
	tokens := service.NewSessionTokens(testJWTSecret, time.Hour)

	token, err := tokens.Issue(service.NewSessionID())
	require.NoError(t, err)

	i := len(token) - 5
	c := byte('A')
	if token[i] == 'A' {
		c = 'B'
	}
	tampered := token[:i] + string(c) + token[i+1:]
	_, _, err = tokens.Validate(tampered)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestSessionTokens_RejectsOtherSecret(t *testing.T) {
	issuer := service.NewSessionTokens(testJWTSecret, time.Hour)
	verifier := service.NewSessionTokens("another-secret-key-that-is-long-enough", time.Hour)

	token, err := issuer.Issue(service.NewSessionID())
	require.NoError(t, err)

	_, _, err = verifier.Validate(token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestSessionTokens_RejectsExpired(t *testing.T) {
	tokens := service.NewSessionTokens(testJWTSecret, -time.Minute)

	token, err := tokens.Issue(service.NewSessionID())
	require.NoError(t, err)

	_, _, err = tokens.Validate(token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestSessionTokens_RejectsGarbage(t *testing.T) {
	tokens := service.NewSessionTokens(testJWTSecret, time.Hour)

	for _, input := range []string{"", "invalid.jwt.token", "abc"} {
		_, _, err := tokens.Validate(input)
		assert.ErrorIs(t, err, domain.ErrUnauthorized, "input %q", input)
	}
}

func TestSessionTokens_RejectsNonUUIDSubject(t *testing.T) {
	tokens := service.NewSessionTokens(testJWTSecret, time.Hour)

	token, err := tokens.Issue("not-a-uuid")
	require.NoError(t, err)

	_, _, err = tokens.Validate(token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestSessionTokens_NeedsRefresh(t *testing.T) {
	tokens := service.NewSessionTokens(testJWTSecret, time.Hour)
	now := time.Now()

	assert.False(t, tokens.NeedsRefresh(now.Add(time.Hour), now), "fresh token")
	assert.False(t, tokens.NeedsRefresh(now.Add(31*time.Minute), now), "more than half left")
	assert.True(t, tokens.NeedsRefresh(now.Add(29*time.Minute), now), "less than half left")
}
