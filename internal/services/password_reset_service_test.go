package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BradenHooton/storefront/internal/repositories"
	pkglogger "github.com/BradenHooton/storefront/pkg/logger"
)

const testResetToken = "fixed-reset-token"

func newResetService(t *testing.T, env *testEnv, email *MockEmailService) *PasswordResetService {
	t.Helper()
	logger := discardLogger()
	svc := NewPasswordResetService(
		env.users,
		repositories.NewPasswordResetRepository(env.store),
		email,
		env.hasher,
		PasswordResetConfig{TokenTTL: 24 * time.Hour, ResetURLBase: "http://localhost:3000"},
		logger,
		pkglogger.NewAuditLogger(logger),
		WithClock(env.clock.Now),
	)
	svc.newToken = func() (string, error) { return testResetToken, nil }
	return svc
}

func TestPasswordResetService_RequestReset_KnownAccount(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.auth.SeedDefaultUsers(env.ctx))
	mailer := &MockEmailService{}
	svc := newResetService(t, env, mailer)

	result, err := svc.RequestReset(env.ctx, "admin@example.com")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, MsgResetRequested, result.Message)

	require.Len(t, mailer.Sent, 1)
	assert.Equal(t, "admin@example.com", mailer.Sent[0].To)
	assert.Equal(t, "http://localhost:3000/reset-password?token="+testResetToken, mailer.Sent[0].Link)
	assert.Equal(t, testStart.Add(24*time.Hour), mailer.Sent[0].ExpiresAt)
}

func TestPasswordResetService_RequestReset_UnknownAccountLooksTheSame(t *testing.T) {
	env := newTestEnv(t)
	mailer := &MockEmailService{}
	svc := newResetService(t, env, mailer)

	result, err := svc.RequestReset(env.ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, MsgResetRequested, result.Message)
	assert.Empty(t, mailer.Sent)
}

func TestPasswordResetService_RequestReset_InvalidEmail(t *testing.T) {
	env := newTestEnv(t)
	svc := newResetService(t, env, &MockEmailService{})

	result, err := svc.RequestReset(env.ctx, "nope")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, MsgInvalidEmail, result.Message)
}

func TestPasswordResetService_RequestReset_MailFailureIsHidden(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.auth.SeedDefaultUsers(env.ctx))
	mailer := &MockEmailService{
		SendPasswordResetEmailFunc: func(ctx context.Context, email, resetLink string, expiresAt time.Time) error {
			return errors.New("smtp down")
		},
	}
	svc := newResetService(t, env, mailer)

	result, err := svc.RequestReset(env.ctx, "admin@example.com")
	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestPasswordResetService_ResetPassword(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.auth.SeedDefaultUsers(env.ctx))
	svc := newResetService(t, env, &MockEmailService{})

	_, err := svc.RequestReset(env.ctx, "admin@example.com")
	require.NoError(t, err)

	result, err := svc.ResetPassword(env.ctx, testResetToken, "newpass1")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, MsgResetCompleted, result.Message)

	assert.True(t, env.auth.Authenticate(env.ctx, "admin@example.com", "newpass1"))
	assert.False(t, env.auth.Authenticate(env.ctx, "admin@example.com", "admin123"))

	// tokens are single use
	result, err = svc.ResetPassword(env.ctx, testResetToken, "another1")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, MsgResetInvalidToken, result.Message)
}

func TestPasswordResetService_ResetPassword_Expired(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.auth.SeedDefaultUsers(env.ctx))
	svc := newResetService(t, env, &MockEmailService{})

	_, err := svc.RequestReset(env.ctx, "admin@example.com")
	require.NoError(t, err)

	env.clock.Advance(24 * time.Hour)

	result, err := svc.ResetPassword(env.ctx, testResetToken, "newpass1")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, MsgResetInvalidToken, result.Message)
}

func TestPasswordResetService_ResetPassword_WeakPasswordKeepsToken(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.auth.SeedDefaultUsers(env.ctx))
	svc := newResetService(t, env, &MockEmailService{})

	_, err := svc.RequestReset(env.ctx, "admin@example.com")
	require.NoError(t, err)

	result, err := svc.ResetPassword(env.ctx, testResetToken, "123")
	require.NoError(t, err)
	assert.Equal(t, MsgPasswordTooShort, result.Message)

	result, err = svc.ResetPassword(env.ctx, testResetToken, "newpass1")
	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestPasswordResetService_ResetPassword_UnknownToken(t *testing.T) {
	env := newTestEnv(t)
	svc := newResetService(t, env, &MockEmailService{})

	result, err := svc.ResetPassword(env.ctx, "never-issued", "newpass1")
	require.NoError(t, err)
	assert.False(t, result.Success)
}
