package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BradenHooton/storefront/internal/auth"
	"github.com/BradenHooton/storefront/internal/models"
	"github.com/BradenHooton/storefront/internal/services"
	pkghttp "github.com/BradenHooton/storefront/pkg/http"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithSessionContext attaches a session as RequireSession would
func WithSessionContext(req *http.Request, email string) *http.Request {
	session := &models.Session{ID: "session_test", Email: email}
	ctx := context.WithValue(req.Context(), auth.SessionContextKey, session)
	return req.WithContext(ctx)
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	contentType := w.Header().Get("Content-Type")
	assert.Equal(t, "application/json", contentType, "Content-Type should be application/json")

	if target != nil {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks that response is a valid error response
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedError string) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode error response")
	assert.Equal(t, expectedError, resp.Error, "Error code mismatch")
	assert.NotEmpty(t, resp.Message, "Error message should not be empty")
}

// MockAuthService implements AuthServiceInterface for testing
type MockAuthService struct {
	RegisterFunc func(ctx context.Context, email, password string) (models.Result, error)
	LoginFunc    func(ctx context.Context, email, password, ipAddress, userAgent string) (*services.LoginResponse, error)
	LogoutFunc   func(ctx context.Context) error
}

func (m *MockAuthService) Register(ctx context.Context, email, password string) (models.Result, error) {
	if m.RegisterFunc == nil {
		return models.OK(services.MsgAccountCreated), nil
	}
	return m.RegisterFunc(ctx, email, password)
}

func (m *MockAuthService) Login(ctx context.Context, email, password, ipAddress, userAgent string) (*services.LoginResponse, error) {
	if m.LoginFunc == nil {
		return nil, models.ErrUnauthorized
	}
	return m.LoginFunc(ctx, email, password, ipAddress, userAgent)
}

func (m *MockAuthService) Logout(ctx context.Context) error {
	if m.LogoutFunc == nil {
		return nil
	}
	return m.LogoutFunc(ctx)
}

// MockSessionService implements SessionServiceInterface for testing
type MockSessionService struct {
	CurrentFunc func(ctx context.Context) (*models.Session, bool)
}

func (m *MockSessionService) Current(ctx context.Context) (*models.Session, bool) {
	if m.CurrentFunc == nil {
		return nil, false
	}
	return m.CurrentFunc(ctx)
}

// MockAttemptGuard implements AttemptGuardInterface for testing
type MockAttemptGuard struct {
	Remaining int
	Limited   bool
	Current   models.AttemptState
}

func (m *MockAttemptGuard) RemainingAttempts(context.Context, string) int {
	return m.Remaining
}

func (m *MockAttemptGuard) IsRateLimited(context.Context, string) bool {
	return m.Limited
}

func (m *MockAttemptGuard) State(context.Context, string) models.AttemptState {
	return m.Current
}

// MockSecurityNotifier records raised alerts
type MockSecurityNotifier struct {
	Alerts []string
}

func (m *MockSecurityNotifier) NotifySecurityAlert(_ context.Context, _, alertType, _ string) (models.DeliveryResponse, error) {
	m.Alerts = append(m.Alerts, alertType)
	return models.DeliveryResponse{Success: true}, nil
}

// MockCSRFGenerator implements CSRFGenerator for testing
type MockCSRFGenerator struct {
	GenerateFunc func(ctx context.Context) (string, error)
}

func (m *MockCSRFGenerator) Generate(ctx context.Context) (string, error) {
	if m.GenerateFunc == nil {
		return "test-csrf-token", nil
	}
	return m.GenerateFunc(ctx)
}

// MockPasswordResetService implements PasswordResetServiceInterface for testing
type MockPasswordResetService struct {
	RequestResetFunc  func(ctx context.Context, email string) (models.Result, error)
	ResetPasswordFunc func(ctx context.Context, rawToken, newPassword string) (models.Result, error)
}

func (m *MockPasswordResetService) RequestReset(ctx context.Context, email string) (models.Result, error) {
	if m.RequestResetFunc == nil {
		return models.OK(services.MsgResetRequested), nil
	}
	return m.RequestResetFunc(ctx, email)
}

func (m *MockPasswordResetService) ResetPassword(ctx context.Context, rawToken, newPassword string) (models.Result, error) {
	if m.ResetPasswordFunc == nil {
		return models.Fail(services.MsgResetInvalidToken), nil
	}
	return m.ResetPasswordFunc(ctx, rawToken, newPassword)
}

// MockSearchService implements SearchServiceInterface for testing
type MockSearchService struct {
	SuggestionsFunc func(ctx context.Context, query string) ([]models.TermScore, error)
	ProductsFunc    func(ctx context.Context, query string) ([]models.ItemScore, error)
	CatalogFunc     func(ctx context.Context) ([]models.CatalogItem, error)
}

func (m *MockSearchService) Suggestions(ctx context.Context, query string) ([]models.TermScore, error) {
	if m.SuggestionsFunc == nil {
		return nil, nil
	}
	return m.SuggestionsFunc(ctx, query)
}

func (m *MockSearchService) Products(ctx context.Context, query string) ([]models.ItemScore, error) {
	if m.ProductsFunc == nil {
		return nil, nil
	}
	return m.ProductsFunc(ctx, query)
}

func (m *MockSearchService) Catalog(ctx context.Context) ([]models.CatalogItem, error) {
	if m.CatalogFunc == nil {
		return []models.CatalogItem{}, nil
	}
	return m.CatalogFunc(ctx)
}

// MockProfileService implements ProfileServiceInterface for testing
type MockProfileService struct {
	PictureFunc       func(ctx context.Context) (string, bool)
	SetPictureFunc    func(ctx context.Context, dataURL string) (models.Result, error)
	RemovePictureFunc func(ctx context.Context) (models.Result, error)
}

func (m *MockProfileService) Picture(ctx context.Context) (string, bool) {
	if m.PictureFunc == nil {
		return "", false
	}
	return m.PictureFunc(ctx)
}

func (m *MockProfileService) SetPicture(ctx context.Context, dataURL string) (models.Result, error) {
	if m.SetPictureFunc == nil {
		return models.OK(services.MsgPictureUpdated), nil
	}
	return m.SetPictureFunc(ctx, dataURL)
}

func (m *MockProfileService) RemovePicture(ctx context.Context) (models.Result, error) {
	if m.RemovePictureFunc == nil {
		return models.OK(services.MsgPictureRemoved), nil
	}
	return m.RemovePictureFunc(ctx)
}

// MockPinger implements Pinger for testing
type MockPinger struct {
	Err error
}

func (m *MockPinger) Ping(context.Context) error {
	return m.Err
}
