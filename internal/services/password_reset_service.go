package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/BradenHooton/storefront/internal/models"
	pkgauth "github.com/BradenHooton/storefront/pkg/auth"
	pkglogger "github.com/BradenHooton/storefront/pkg/logger"
)

const (
	MsgResetRequested    = "If an account with this email exists, a password reset link has been sent."
	MsgResetInvalidToken = "This reset link is invalid or has expired"
	MsgResetCompleted    = "Password has been reset successfully"
)

// PasswordResetRepository stores hashed reset tokens
type PasswordResetRepository interface {
	Save(ctx context.Context, token *models.PasswordResetToken) error
	FindByHash(ctx context.Context, tokenHash string) (*models.PasswordResetToken, error)
	Delete(ctx context.Context, tokenHash string) error
}

type PasswordResetConfig struct {
	TokenTTL     time.Duration
	ResetURLBase string
}

// PasswordResetService issues single-use reset links by email
type PasswordResetService struct {
	users       UserRepository
	tokens      PasswordResetRepository
	email       EmailService
	hasher      PasswordHasher
	config      PasswordResetConfig
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
	now         func() time.Time
	// newToken is swapped in tests
	newToken func() (string, error)
}

// NewPasswordResetService creates a new PasswordResetService
func NewPasswordResetService(
	users UserRepository,
	tokens PasswordResetRepository,
	email EmailService,
	hasher PasswordHasher,
	config PasswordResetConfig,
	logger *slog.Logger,
	auditLogger *pkglogger.AuditLogger,
	opts ...Option,
) *PasswordResetService {
	o := applyOptions(opts)
	return &PasswordResetService{
		users:       users,
		tokens:      tokens,
		email:       email,
		hasher:      hasher,
		config:      config,
		logger:      logger,
		auditLogger: auditLogger,
		now:         o.now,
		newToken:    pkgauth.GenerateToken,
	}
}

// RequestReset emails a reset link when the account exists. The returned
// Result is identical whether or not it does.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) (models.Result, error) {
	if !ValidEmail(email) {
		return models.Fail(MsgInvalidEmail), nil
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.auditLogger.LogPasswordChange(pkglogger.EventResetRequested, email, false)
			return models.OK(MsgResetRequested), nil
		}
		return models.Result{}, fmt.Errorf("failed to look up account: %w", err)
	}

	raw, err := s.newToken()
	if err != nil {
		return models.Result{}, err
	}

	now := s.now()
	token := &models.PasswordResetToken{
		Email:     user.Email,
		TokenHash: hashToken(raw),
		CreatedAt: now,
		ExpiresAt: now.Add(s.config.TokenTTL),
	}
	if err := s.tokens.Save(ctx, token); err != nil {
		return models.Result{}, fmt.Errorf("failed to store reset token: %w", err)
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", s.config.ResetURLBase, url.QueryEscape(raw))
	if err := s.email.SendPasswordResetEmail(ctx, user.Email, link, token.ExpiresAt); err != nil {
		// the account owner can request another link; do not reveal the failure
		s.logger.Error("failed to send reset email", slog.Any("error", err))
	}

	s.auditLogger.LogPasswordChange(pkglogger.EventResetRequested, user.Email, true)
	return models.OK(MsgResetRequested), nil
}

// ResetPassword consumes a reset token and stores the new password hash
func (s *PasswordResetService) ResetPassword(ctx context.Context, rawToken, newPassword string) (models.Result, error) {
	tokenHash := hashToken(rawToken)

	token, err := s.tokens.FindByHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.Fail(MsgResetInvalidToken), nil
		}
		return models.Result{}, fmt.Errorf("failed to load reset token: %w", err)
	}

	if token.IsExpired(s.now()) {
		if err := s.tokens.Delete(ctx, tokenHash); err != nil {
			s.logger.Error("failed to delete expired reset token", slog.Any("error", err))
		}
		return models.Fail(MsgResetInvalidToken), nil
	}

	switch err := pkgauth.ValidatePassword(newPassword); {
	case errors.Is(err, pkgauth.ErrPasswordTooShort):
		return models.Fail(MsgPasswordTooShort), nil
	case errors.Is(err, pkgauth.ErrPasswordTooLong):
		return models.Fail(MsgPasswordTooLong), nil
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return models.Result{}, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.UpdatePasswordHash(ctx, token.Email, hash); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.Fail(MsgResetInvalidToken), nil
		}
		return models.Result{}, fmt.Errorf("failed to update password: %w", err)
	}

	if err := s.tokens.Delete(ctx, tokenHash); err != nil {
		return models.Result{}, fmt.Errorf("failed to consume reset token: %w", err)
	}

	s.auditLogger.LogPasswordChange(pkglogger.EventResetCompleted, token.Email, true)
	return models.OK(MsgResetCompleted), nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
