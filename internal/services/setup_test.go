package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/BradenHooton/storefront/internal/auth"
	"github.com/BradenHooton/storefront/internal/kvstore"
	"github.com/BradenHooton/storefront/internal/repositories"
	pkgauth "github.com/BradenHooton/storefront/pkg/auth"
	pkglogger "github.com/BradenHooton/storefront/pkg/logger"
)

var testStart = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testEnv wires the account services over an in-memory store
type testEnv struct {
	ctx      context.Context
	store    *kvstore.MemoryStore
	clock    *TestClock
	hasher   *pkgauth.PasswordHasher
	users    *repositories.UserRepository
	attempts *repositories.LoginAttemptRepository
	guard    *AttemptGuard
	sessions *SessionService
	auth     *AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := discardLogger()
	store := kvstore.NewMemoryStore()
	clock := NewTestClock(testStart)
	hasher := pkgauth.NewPasswordHasher(0)

	users := repositories.NewUserRepository(store)
	attempts := repositories.NewLoginAttemptRepository(store)

	guard := NewAttemptGuard(attempts, AttemptGuardConfig{MaxAttempts: 5, Window: 15 * time.Minute}, logger, WithClock(clock.Now))
	sessions := NewSessionService(repositories.NewSessionRepository(store), SessionConfig{Lifetime: 24 * time.Hour}, logger, WithClock(clock.Now))
	authService := NewAuthService(users, guard, sessions, hasher, auth.NewTimingDelay(auth.TimingConfig{}), logger, pkglogger.NewAuditLogger(logger))

	return &testEnv{
		ctx:      kvstore.WithClient(context.Background(), "client-a"),
		store:    store,
		clock:    clock,
		hasher:   hasher,
		users:    users,
		attempts: attempts,
		guard:    guard,
		sessions: sessions,
		auth:     authService,
	}
}
