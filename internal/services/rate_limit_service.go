package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/BradenHooton/storefront/internal/models"
	pkglogger "github.com/BradenHooton/storefront/pkg/logger"
)

// LoginAttemptRepository stores one attempt window per account
type LoginAttemptRepository interface {
	Get(ctx context.Context, email string) (*models.LoginAttemptRecord, error)
	Save(ctx context.Context, email string, record models.LoginAttemptRecord) error
	Delete(ctx context.Context, email string) error
}

// AttemptGuardConfig holds the lockout policy
type AttemptGuardConfig struct {
	MaxAttempts int
	Window      time.Duration
}

// AttemptGuard counts failed logins per account inside a fixed window that
// starts at the first failure. Expired windows are discarded lazily on read.
type AttemptGuard struct {
	repo   LoginAttemptRepository
	config AttemptGuardConfig
	logger *slog.Logger
	now    func() time.Time
}

// NewAttemptGuard creates a new AttemptGuard
func NewAttemptGuard(repo LoginAttemptRepository, config AttemptGuardConfig, logger *slog.Logger, opts ...Option) *AttemptGuard {
	o := applyOptions(opts)
	return &AttemptGuard{
		repo:   repo,
		config: config,
		logger: logger,
		now:    o.now,
	}
}

// MaxAttempts returns the configured limit
func (g *AttemptGuard) MaxAttempts() int {
	return g.config.MaxAttempts
}

// IsRateLimited reports whether the account has used up its attempts in the
// current window. An expired window is deleted as a side effect.
func (g *AttemptGuard) IsRateLimited(ctx context.Context, email string) bool {
	email = normalizeEmail(email)
	record := g.load(ctx, email)
	if record == nil {
		return false
	}

	if g.expired(record) {
		if err := g.repo.Delete(ctx, email); err != nil {
			g.logger.Error("failed to purge expired attempt window",
				slog.String("email", pkglogger.SanitizedEmail(email)),
				slog.Any("error", err))
		}
		return false
	}

	return record.Count >= g.config.MaxAttempts
}

// RecordLoginAttempt clears the window on success. A failure extends the
// current window or starts a new one at count 1.
func (g *AttemptGuard) RecordLoginAttempt(ctx context.Context, email string, success bool) error {
	email = normalizeEmail(email)

	if success {
		return g.repo.Delete(ctx, email)
	}

	now := g.now().UnixMilli()
	next := models.LoginAttemptRecord{Timestamp: now, Count: 1}

	if record := g.load(ctx, email); record != nil && now-record.Timestamp < g.config.Window.Milliseconds() {
		next.Count = record.Count + 1
		next.Timestamp = record.Timestamp
	}

	return g.repo.Save(ctx, email, next)
}

// RemainingAttempts returns how many failures are left in the window,
// clamped to [0, MaxAttempts].
func (g *AttemptGuard) RemainingAttempts(ctx context.Context, email string) int {
	record := g.load(ctx, normalizeEmail(email))
	if record == nil || g.expired(record) {
		return g.config.MaxAttempts
	}
	return min(g.config.MaxAttempts, max(0, g.config.MaxAttempts-record.Count))
}

// State reports the account's position in the attempt state machine
func (g *AttemptGuard) State(ctx context.Context, email string) models.AttemptState {
	record := g.load(ctx, normalizeEmail(email))
	switch {
	case record == nil || g.expired(record):
		return models.AttemptStateClear
	case record.Count >= g.config.MaxAttempts:
		return models.AttemptStateLimited
	default:
		return models.AttemptStateCounting
	}
}

// RetryAfter returns how long until the current window ends, or zero
func (g *AttemptGuard) RetryAfter(ctx context.Context, email string) time.Duration {
	record := g.load(ctx, normalizeEmail(email))
	if record == nil {
		return 0
	}
	remaining := record.WindowStart().Add(g.config.Window).Sub(g.now())
	return max(0, remaining)
}

func (g *AttemptGuard) expired(record *models.LoginAttemptRecord) bool {
	return g.now().UnixMilli()-record.Timestamp > g.config.Window.Milliseconds()
}

// load degrades read failures to "no record"
func (g *AttemptGuard) load(ctx context.Context, email string) *models.LoginAttemptRecord {
	record, err := g.repo.Get(ctx, email)
	if err != nil {
		g.logger.Error("failed to read attempt window",
			slog.String("email", pkglogger.SanitizedEmail(email)),
			slog.Any("error", err))
		return nil
	}
	return record
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
