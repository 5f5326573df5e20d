package services

import (
	"context"
	"sync"
	"time"

	"github.com/BradenHooton/storefront/internal/models"
)

// MockLoginAttemptRepository implements LoginAttemptRepository for testing
type MockLoginAttemptRepository struct {
	GetFunc    func(ctx context.Context, email string) (*models.LoginAttemptRecord, error)
	SaveFunc   func(ctx context.Context, email string, record models.LoginAttemptRecord) error
	DeleteFunc func(ctx context.Context, email string) error
}

func (m *MockLoginAttemptRepository) Get(ctx context.Context, email string) (*models.LoginAttemptRecord, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, email)
	}
	return nil, nil
}

func (m *MockLoginAttemptRepository) Save(ctx context.Context, email string, record models.LoginAttemptRecord) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, email, record)
	}
	return nil
}

func (m *MockLoginAttemptRepository) Delete(ctx context.Context, email string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, email)
	}
	return nil
}

// SentEmail records one call to MockEmailService
type SentEmail struct {
	To        string
	Link      string
	ExpiresAt time.Time
}

// MockEmailService implements EmailService for testing
type MockEmailService struct {
	SendPasswordResetEmailFunc func(ctx context.Context, email, resetLink string, expiresAt time.Time) error

	mu   sync.Mutex
	Sent []SentEmail
}

func (m *MockEmailService) SendPasswordResetEmail(ctx context.Context, email, resetLink string, expiresAt time.Time) error {
	m.mu.Lock()
	m.Sent = append(m.Sent, SentEmail{To: email, Link: resetLink, ExpiresAt: expiresAt})
	m.mu.Unlock()

	if m.SendPasswordResetEmailFunc != nil {
		return m.SendPasswordResetEmailFunc(ctx, email, resetLink, expiresAt)
	}
	return nil
}

// MockDeliveryTokenSigner implements DeliveryTokenSigner for testing
type MockDeliveryTokenSigner struct {
	GenerateDeliveryTokenFunc func(userID string) (string, error)
}

func (m *MockDeliveryTokenSigner) GenerateDeliveryToken(userID string) (string, error) {
	if m.GenerateDeliveryTokenFunc != nil {
		return m.GenerateDeliveryTokenFunc(userID)
	}
	return "test-token", nil
}

// TestClock is a settable clock for WithClock
type TestClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewTestClock(start time.Time) *TestClock {
	return &TestClock{now: start}
}

func (c *TestClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *TestClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
