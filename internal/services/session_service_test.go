package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionService_CreateSession(t *testing.T) {
	env := newTestEnv(t)

	session, err := env.sessions.CreateSession(env.ctx, "admin@example.com")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(session.ID, sessionIDPrefix))
	assert.Equal(t, testStart.UnixMilli(), session.CreatedAt)
	assert.Equal(t, testStart.Add(24*time.Hour).UnixMilli(), session.ExpiresAt)
	assert.True(t, env.sessions.IsSessionValid(env.ctx))
}

func TestSessionService_NewSessionReplacesCurrent(t *testing.T) {
	env := newTestEnv(t)

	first, err := env.sessions.CreateSession(env.ctx, "admin@example.com")
	require.NoError(t, err)
	second, err := env.sessions.CreateSession(env.ctx, "manager@example.com")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	email, ok := env.sessions.SessionEmail(env.ctx)
	require.True(t, ok)
	assert.Equal(t, "manager@example.com", email)
}

func TestSessionService_Expiry(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.sessions.CreateSession(env.ctx, "admin@example.com")
	require.NoError(t, err)

	env.clock.Advance(24*time.Hour - time.Millisecond)
	assert.True(t, env.sessions.IsSessionValid(env.ctx))

	env.clock.Advance(time.Millisecond)
	assert.False(t, env.sessions.IsSessionValid(env.ctx))

	_, ok := env.sessions.SessionEmail(env.ctx)
	assert.False(t, ok)

	id, err := currentSessionID(env)
	require.NoError(t, err)
	assert.Empty(t, id, "expired session is cleared on read")
}

func TestSessionService_ClearSession(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.sessions.CreateSession(env.ctx, "admin@example.com")
	require.NoError(t, err)

	require.NoError(t, env.sessions.ClearSession(env.ctx))
	assert.False(t, env.sessions.IsSessionValid(env.ctx))

	// clearing twice is a no-op
	require.NoError(t, env.sessions.ClearSession(env.ctx))
}

func currentSessionID(env *testEnv) (string, error) {
	return env.sessions.repo.CurrentID(env.ctx)
}
