package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/BradenHooton/storefront/internal/auth"
	"github.com/BradenHooton/storefront/internal/models"
	"github.com/BradenHooton/storefront/internal/services"
	pkghttp "github.com/BradenHooton/storefront/pkg/http"
	pkglogger "github.com/BradenHooton/storefront/pkg/logger"
	"github.com/BradenHooton/storefront/pkg/metrics"
)

// AuthServiceInterface defines the interface for auth business logic
type AuthServiceInterface interface {
	Register(ctx context.Context, email, password string) (models.Result, error)
	Login(ctx context.Context, email, password, ipAddress, userAgent string) (*services.LoginResponse, error)
	Logout(ctx context.Context) error
}

// SessionServiceInterface reads the current client's session
type SessionServiceInterface interface {
	Current(ctx context.Context) (*models.Session, bool)
}

// AttemptGuardInterface exposes the attempt bookkeeping for an account
type AttemptGuardInterface interface {
	RemainingAttempts(ctx context.Context, email string) int
	IsRateLimited(ctx context.Context, email string) bool
	State(ctx context.Context, email string) models.AttemptState
}

// SecurityNotifier raises security alerts in the notification center
type SecurityNotifier interface {
	NotifySecurityAlert(ctx context.Context, userID, alertType, details string) (models.DeliveryResponse, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	service  AuthServiceInterface
	sessions SessionServiceInterface
	guard    AttemptGuardInterface
	notifier SecurityNotifier
	metrics  *metrics.Manager
	ipConfig *pkghttp.IPConfig
	cookies  *auth.CookieConfig
	logger   *slog.Logger
}

// NewAuthHandler creates a new AuthHandler. notifier and m may be nil.
func NewAuthHandler(
	service AuthServiceInterface,
	sessions SessionServiceInterface,
	guard AttemptGuardInterface,
	notifier SecurityNotifier,
	m *metrics.Manager,
	ipConfig *pkghttp.IPConfig,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		service:  service,
		sessions: sessions,
		guard:    guard,
		notifier: notifier,
		metrics:  m,
		ipConfig: ipConfig,
		logger:   logger,
	}
}

// WithCookies makes Logout also expire the CSRF cookie
func (h *AuthHandler) WithCookies(config auth.CookieConfig) *AuthHandler {
	h.cookies = &config
	return h
}

// Request DTOs

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest represents the request body for registration.
// Format rules are enforced by the service so failures come back as a Result.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginFailedResponse tells the client how many attempts remain
type LoginFailedResponse struct {
	pkghttp.ErrorResponse
	RemainingAttempts int `json:"remaining_attempts"`
}

// SessionResponse reports the current client's session
type SessionResponse struct {
	Valid     bool   `json:"valid"`
	Email     string `json:"email,omitempty"`
	ExpiresAt int64  `json:"expires_at,omitempty"`
}

// AttemptsResponse reports the guard state for an account
type AttemptsResponse struct {
	Email             string              `json:"email"`
	RemainingAttempts int                 `json:"remaining_attempts"`
	RateLimited       bool                `json:"rate_limited"`
	State             models.AttemptState `json:"state"`
}

// Register handles account creation
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := pkghttp.DecodeJSON(w, r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	result, err := h.service.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Error("registration failed", slog.Any("error", err))
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	switch {
	case result.Success:
		pkghttp.WriteJSON(w, http.StatusCreated, result)
	case result.Message == services.MsgAccountExists:
		pkghttp.WriteJSON(w, http.StatusConflict, result)
	default:
		pkghttp.WriteJSON(w, http.StatusBadRequest, result)
	}
}

// Login handles user login
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := pkghttp.DecodeJSON(w, r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	ipAddress := pkghttp.ExtractClientIP(r, h.ipConfig)
	userAgent := r.Header.Get("User-Agent")

	resp, err := h.service.Login(r.Context(), req.Email, req.Password, ipAddress, userAgent)
	if err != nil {
		var loginErr *services.LoginError
		counted := errors.As(err, &loginErr)
		if !counted {
			loginErr = &services.LoginError{Err: err}
		}

		switch {
		case errors.Is(err, models.ErrRateLimitExceeded):
			h.metrics.IncLoginAttempt(metrics.LoginRateLimited)
			pkghttp.WriteRateLimited(w, "Too many failed login attempts. Please try again later.", loginErr.RetryAfter)
		case errors.Is(err, models.ErrUnauthorized):
			h.metrics.IncLoginAttempt(metrics.LoginFailed)
			// only the failure that used up the last attempt starts a lockout
			if counted && loginErr.RemainingAttempts == 0 {
				h.raiseAlert(r.Context(), req.Email, ipAddress)
			}
			pkghttp.WriteJSON(w, http.StatusUnauthorized, LoginFailedResponse{
				ErrorResponse: pkghttp.ErrorResponse{
					Error:   "unauthorized",
					Message: fmt.Sprintf("Invalid email or password. %d attempts remaining.", loginErr.RemainingAttempts),
				},
				RemainingAttempts: loginErr.RemainingAttempts,
			})
		default:
			h.logger.Error("login failed", slog.Any("error", err))
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	h.metrics.IncLoginAttempt(metrics.LoginSuccess)
	pkghttp.WriteJSON(w, http.StatusOK, resp)
}

// raiseAlert records a new lockout in the notification center
func (h *AuthHandler) raiseAlert(ctx context.Context, email, ipAddress string) {
	if h.notifier == nil {
		return
	}
	details := fmt.Sprintf("Account %s locked after repeated failed logins", pkglogger.SanitizedEmail(email))
	if _, err := h.notifier.NotifySecurityAlert(ctx, "", services.AlertLoginAttempt, details); err != nil {
		h.logger.Warn("failed to raise security alert",
			slog.String("ip_address", ipAddress),
			slog.Any("error", err))
	}
}

// Logout clears the client's session. Always succeeds for a client without one.
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context()); err != nil {
		h.logger.Error("logout failed", slog.Any("error", err))
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}
	if h.cookies != nil {
		auth.ClearCSRFTokenCookie(w, *h.cookies)
	}
	w.WriteHeader(http.StatusNoContent)
}

// Session reports whether the client holds a valid session
// @Router /auth/session [get]
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	session, ok := h.sessions.Current(r.Context())
	if !ok {
		pkghttp.WriteJSON(w, http.StatusOK, SessionResponse{Valid: false})
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, SessionResponse{
		Valid:     true,
		Email:     session.Email,
		ExpiresAt: session.ExpiresAt,
	})
}

// Attempts reports the guard state for the email query parameter
// @Router /auth/attempts [get]
func (h *AuthHandler) Attempts(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		pkghttp.WriteBadRequest(w, "email query parameter is required")
		return
	}

	ctx := r.Context()
	pkghttp.WriteJSON(w, http.StatusOK, AttemptsResponse{
		Email:             email,
		RemainingAttempts: h.guard.RemainingAttempts(ctx, email),
		RateLimited:       h.guard.IsRateLimited(ctx, email),
		State:             h.guard.State(ctx, email),
	})
}

// CSRFGenerator issues per-client CSRF tokens
type CSRFGenerator interface {
	Generate(ctx context.Context) (string, error)
}

// CSRFHandler hands out CSRF tokens as JSON and as a readable cookie
type CSRFHandler struct {
	csrf   CSRFGenerator
	cookie auth.CookieConfig
	maxAge int
	logger *slog.Logger
}

func NewCSRFHandler(csrf CSRFGenerator, cookie auth.CookieConfig, maxAge int, logger *slog.Logger) *CSRFHandler {
	return &CSRFHandler{csrf: csrf, cookie: cookie, maxAge: maxAge, logger: logger}
}

// CSRFTokenResponse carries a freshly generated token
type CSRFTokenResponse struct {
	CSRFToken string `json:"csrf_token"`
}

// Token generates a new token for the client, replacing the previous one
// @Router /auth/csrf [get]
func (h *CSRFHandler) Token(w http.ResponseWriter, r *http.Request) {
	token, err := h.csrf.Generate(r.Context())
	if err != nil {
		h.logger.Error("failed to generate CSRF token", slog.Any("error", err))
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	auth.SetCSRFTokenCookie(w, token, h.maxAge, h.cookie)
	pkghttp.WriteJSON(w, http.StatusOK, CSRFTokenResponse{CSRFToken: token})
}
