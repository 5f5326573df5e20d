package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/BradenHooton/storefront/internal/auth"
	"github.com/BradenHooton/storefront/internal/models"
	pkgauth "github.com/BradenHooton/storefront/pkg/auth"
	pkglogger "github.com/BradenHooton/storefront/pkg/logger"
)

// Validation messages shown to the dashboard user
const (
	MsgInvalidEmail     = "Please enter a valid email address"
	MsgPasswordTooShort = "Password must be at least 6 characters"
	MsgPasswordTooLong  = "Password must be at most 72 characters"
	MsgAccountExists    = "An account with this email already exists"
	MsgAccountCreated   = "Account created successfully"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether email has the local@domain.tld shape
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// UserRepository defines the account storage used by AuthService
type UserRepository interface {
	List(ctx context.Context) ([]models.RegisteredUser, bool, error)
	FindByEmail(ctx context.Context, email string) (*models.RegisteredUser, error)
	Create(ctx context.Context, user models.RegisteredUser) error
	UpdatePasswordHash(ctx context.Context, email, passwordHash string) error
	SeedIfAbsent(ctx context.Context, users []models.RegisteredUser) (bool, error)
}

// PasswordHasher hashes and verifies passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Matches(hashedPassword, password string) bool
}

// DefaultAccount is a demo account installed on first start
type DefaultAccount struct {
	Email    string
	Password string
}

// DefaultAccounts are seeded when no account list exists
var DefaultAccounts = []DefaultAccount{
	{Email: "admin@example.com", Password: "admin123"},
	{Email: "manager@example.com", Password: "manager123"},
}

// LoginResponse is returned by a successful login
type LoginResponse struct {
	Email     string    `json:"email"`
	SessionID string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LoginError carries the attempt bookkeeping of a rejected login.
// It unwraps to models.ErrUnauthorized or models.ErrRateLimitExceeded.
type LoginError struct {
	Err               error
	RemainingAttempts int
	RetryAfter        time.Duration
}

func (e *LoginError) Error() string {
	return e.Err.Error()
}

func (e *LoginError) Unwrap() error {
	return e.Err
}

// AuthService handles registration and login
type AuthService struct {
	users       UserRepository
	guard       *AttemptGuard
	sessions    *SessionService
	hasher      PasswordHasher
	timing      *auth.TimingDelay
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	users UserRepository,
	guard *AttemptGuard,
	sessions *SessionService,
	hasher PasswordHasher,
	timing *auth.TimingDelay,
	logger *slog.Logger,
	auditLogger *pkglogger.AuditLogger,
) *AuthService {
	return &AuthService{
		users:       users,
		guard:       guard,
		sessions:    sessions,
		hasher:      hasher,
		timing:      timing,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

// Register validates and stores a new account. Validation failures are
// reported in the Result; err is only set when storage fails.
func (s *AuthService) Register(ctx context.Context, email, password string) (models.Result, error) {
	if !ValidEmail(email) {
		return models.Fail(MsgInvalidEmail), nil
	}

	switch err := pkgauth.ValidatePassword(password); {
	case errors.Is(err, pkgauth.ErrPasswordTooShort):
		return models.Fail(MsgPasswordTooShort), nil
	case errors.Is(err, pkgauth.ErrPasswordTooLong):
		return models.Fail(MsgPasswordTooLong), nil
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return models.Result{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.RegisteredUser{Email: normalizeEmail(email), PasswordHash: hash}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, models.ErrConflict) {
			return models.Fail(MsgAccountExists), nil
		}
		return models.Result{}, fmt.Errorf("failed to create account: %w", err)
	}

	s.logger.Info("account registered", slog.String("email", pkglogger.SanitizedEmail(user.Email)))
	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: pkglogger.EventRegister,
		Email:     user.Email,
		Success:   true,
	})

	return models.OK(MsgAccountCreated), nil
}

// Authenticate checks the credentials without touching the attempt window.
// Email matching is case-insensitive.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) bool {
	if !ValidEmail(email) {
		return false
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			s.logger.Error("failed to look up account", slog.Any("error", err))
		}
		return false
	}

	return s.hasher.Matches(user.PasswordHash, password)
}

// Login runs the guard, checks the credentials, records the attempt and
// opens a session for the current client.
func (s *AuthService) Login(ctx context.Context, email, password, ipAddress, userAgent string) (*LoginResponse, error) {
	start := time.Now()
	email = normalizeEmail(email)

	if s.guard.IsRateLimited(ctx, email) {
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     pkglogger.EventLoginRateLimited,
			Email:         email,
			IPAddress:     ipAddress,
			UserAgent:     userAgent,
			FailureReason: "too_many_attempts",
		})
		return nil, &LoginError{
			Err:        models.ErrRateLimitExceeded,
			RetryAfter: s.guard.RetryAfter(ctx, email),
		}
	}

	ok := s.Authenticate(ctx, email, password)
	if err := s.guard.RecordLoginAttempt(ctx, email, ok); err != nil {
		s.logger.Error("failed to record login attempt", slog.Any("error", err))
	}

	if !ok {
		remaining := s.guard.RemainingAttempts(ctx, email)
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     pkglogger.EventLoginFailed,
			Email:         email,
			IPAddress:     ipAddress,
			UserAgent:     userAgent,
			FailureReason: "invalid_credentials",
			Metadata:      map[string]string{"remaining_attempts": fmt.Sprint(remaining)},
		})
		s.timing.WaitFrom(start, false)
		return nil, &LoginError{Err: models.ErrUnauthorized, RemainingAttempts: remaining}
	}

	session, err := s.sessions.CreateSession(ctx, email)
	if err != nil {
		s.logger.Error("failed to create session", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: pkglogger.EventLoginSuccess,
		Email:     email,
		IPAddress: ipAddress,
		UserAgent: userAgent,
		Success:   true,
	})
	s.timing.WaitFrom(start, true)

	return &LoginResponse{
		Email:     email,
		SessionID: session.ID,
		ExpiresAt: session.ExpiresAtTime(),
	}, nil
}

// Logout clears the current client's session. Safe to call without one.
func (s *AuthService) Logout(ctx context.Context) error {
	email, hadSession := s.sessions.SessionEmail(ctx)
	if err := s.sessions.ClearSession(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	if hadSession {
		s.auditLogger.LogSessionEvent(pkglogger.EventLogout, email)
	}
	return nil
}

// SeedDefaultUsers installs DefaultAccounts when no account list exists.
// Passwords are stored hashed.
func (s *AuthService) SeedDefaultUsers(ctx context.Context) error {
	users := make([]models.RegisteredUser, 0, len(DefaultAccounts))
	for _, acct := range DefaultAccounts {
		hash, err := s.hasher.Hash(acct.Password)
		if err != nil {
			return fmt.Errorf("failed to hash default password: %w", err)
		}
		users = append(users, models.RegisteredUser{Email: acct.Email, PasswordHash: hash})
	}

	seeded, err := s.users.SeedIfAbsent(ctx, users)
	if err != nil {
		return fmt.Errorf("failed to seed default accounts: %w", err)
	}
	if seeded {
		s.logger.Info("seeded default accounts", slog.Int("count", len(users)))
	}
	return nil
}
