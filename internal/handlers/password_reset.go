package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/BradenHooton/storefront/internal/models"
	pkghttp "github.com/BradenHooton/storefront/pkg/http"
)

// PasswordResetServiceInterface defines the password reset flow
type PasswordResetServiceInterface interface {
	RequestReset(ctx context.Context, email string) (models.Result, error)
	ResetPassword(ctx context.Context, rawToken, newPassword string) (models.Result, error)
}

// PasswordResetHandler handles forgot and reset password requests
type PasswordResetHandler struct {
	service PasswordResetServiceInterface
	logger  *slog.Logger
}

func NewPasswordResetHandler(service PasswordResetServiceInterface, logger *slog.Logger) *PasswordResetHandler {
	return &PasswordResetHandler{service: service, logger: logger}
}

// ForgotPasswordRequest represents the request body for requesting a reset link
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required"`
}

// ResetPasswordRequest represents the request body for setting a new password
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

// ForgotPassword sends a reset link. The reply never reveals whether the
// account exists.
// @Router /auth/forgot-password [post]
func (h *PasswordResetHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := pkghttp.DecodeJSON(w, r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	result, err := h.service.RequestReset(r.Context(), req.Email)
	if err != nil {
		h.logger.Error("password reset request failed", slog.Any("error", err))
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	writeResult(w, result)
}

// ResetPassword consumes a reset token
// @Router /auth/reset-password [post]
func (h *PasswordResetHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := pkghttp.DecodeJSON(w, r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	result, err := h.service.ResetPassword(r.Context(), req.Token, req.NewPassword)
	if err != nil {
		h.logger.Error("password reset failed", slog.Any("error", err))
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	writeResult(w, result)
}

// writeResult replies 200 for a successful Result and 400 otherwise
func writeResult(w http.ResponseWriter, result models.Result) {
	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadRequest
	}
	pkghttp.WriteJSON(w, status, result)
}
