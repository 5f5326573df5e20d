package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/BradenHooton/storefront/internal/models"
)

const sessionIDPrefix = "session_"

// SessionRepository stores session records and the current-session pointer
type SessionRepository interface {
	CurrentID(ctx context.Context) (string, error)
	SetCurrentID(ctx context.Context, id string) error
	ClearCurrentID(ctx context.Context) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Save(ctx context.Context, session *models.Session) error
	Delete(ctx context.Context, id string) error
}

type SessionConfig struct {
	Lifetime time.Duration
}

// SessionService manages the single current session of a client
type SessionService struct {
	repo   SessionRepository
	config SessionConfig
	logger *slog.Logger
	now    func() time.Time
}

// NewSessionService creates a new SessionService
func NewSessionService(repo SessionRepository, config SessionConfig, logger *slog.Logger, opts ...Option) *SessionService {
	o := applyOptions(opts)
	return &SessionService{
		repo:   repo,
		config: config,
		logger: logger,
		now:    o.now,
	}
}

// CreateSession stores a new session for email and makes it current
func (s *SessionService) CreateSession(ctx context.Context, email string) (*models.Session, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}

	now := s.now()
	session := &models.Session{
		ID:        sessionIDPrefix + id.String(),
		Email:     email,
		CreatedAt: now.UnixMilli(),
		ExpiresAt: now.Add(s.config.Lifetime).UnixMilli(),
	}

	if err := s.repo.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	if err := s.repo.SetCurrentID(ctx, session.ID); err != nil {
		return nil, fmt.Errorf("failed to set current session: %w", err)
	}

	return session, nil
}

// IsSessionValid reports whether the current session exists and has not expired
func (s *SessionService) IsSessionValid(ctx context.Context) bool {
	session := s.current(ctx)
	return session != nil && session.ValidAt(s.now())
}

// Current returns the current valid session. An expired session is cleared.
func (s *SessionService) Current(ctx context.Context) (*models.Session, bool) {
	session := s.current(ctx)
	if session == nil {
		return nil, false
	}

	if !session.ValidAt(s.now()) {
		if err := s.ClearSession(ctx); err != nil {
			s.logger.Error("failed to clear expired session", slog.Any("error", err))
		}
		return nil, false
	}

	return session, true
}

// SessionEmail returns the account of the current valid session
func (s *SessionService) SessionEmail(ctx context.Context) (string, bool) {
	session, ok := s.Current(ctx)
	if !ok {
		return "", false
	}
	return session.Email, true
}

// ClearSession deletes the current session record and its pointer.
// Clearing an already cleared session is a no-op.
func (s *SessionService) ClearSession(ctx context.Context) error {
	id, err := s.repo.CurrentID(ctx)
	if err != nil {
		return err
	}

	if id != "" {
		if err := s.repo.Delete(ctx, id); err != nil {
			return err
		}
	}
	return s.repo.ClearCurrentID(ctx)
}

func (s *SessionService) current(ctx context.Context) *models.Session {
	id, err := s.repo.CurrentID(ctx)
	if err != nil {
		s.logger.Error("failed to read session pointer", slog.Any("error", err))
		return nil
	}
	if id == "" {
		return nil
	}

	session, err := s.repo.Get(ctx, id)
	if err != nil {
		s.logger.Error("failed to read session", slog.Any("error", err))
		return nil
	}
	return session
}
