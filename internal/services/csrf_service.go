package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"

	pkgauth "github.com/BradenHooton/storefront/pkg/auth"
)

// CSRFRepository stores the client's CSRF token
type CSRFRepository interface {
	CSRFToken(ctx context.Context) (string, bool, error)
	SetCSRFToken(ctx context.Context, token string) error
}

// CSRFService issues one token per client and checks submitted tokens against it
type CSRFService struct {
	repo   CSRFRepository
	logger *slog.Logger
}

func NewCSRFService(repo CSRFRepository, logger *slog.Logger) *CSRFService {
	return &CSRFService{repo: repo, logger: logger}
}

// Generate replaces the client's token with a fresh one
func (s *CSRFService) Generate(ctx context.Context) (string, error) {
	token, err := pkgauth.GenerateToken()
	if err != nil {
		return "", err
	}
	if err := s.repo.SetCSRFToken(ctx, token); err != nil {
		return "", fmt.Errorf("failed to store csrf token: %w", err)
	}
	return token, nil
}

// Verify reports whether token equals the stored token
func (s *CSRFService) Verify(ctx context.Context, token string) bool {
	if token == "" {
		return false
	}

	stored, found, err := s.repo.CSRFToken(ctx)
	if err != nil {
		s.logger.Error("failed to read csrf token", slog.Any("error", err))
		return false
	}
	if !found {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(stored), []byte(token)) == 1
}
