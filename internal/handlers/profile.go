package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/BradenHooton/storefront/internal/models"
	pkghttp "github.com/BradenHooton/storefront/pkg/http"
)

// ProfileServiceInterface manages the profile picture
type ProfileServiceInterface interface {
	Picture(ctx context.Context) (string, bool)
	SetPicture(ctx context.Context, dataURL string) (models.Result, error)
	RemovePicture(ctx context.Context) (models.Result, error)
}

type ProfileHandler struct {
	service ProfileServiceInterface
	logger  *slog.Logger
}

func NewProfileHandler(service ProfileServiceInterface, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{service: service, logger: logger}
}

// ProfilePictureRequest carries an image data URL
type ProfilePictureRequest struct {
	ImageData string `json:"image_data" validate:"required"`
}

// ProfilePictureResponse returns the stored data URL, if any
type ProfilePictureResponse struct {
	ImageData *string `json:"image_data"`
}

// @Router /profile/picture [get]
func (h *ProfileHandler) GetPicture(w http.ResponseWriter, r *http.Request) {
	picture, ok := h.service.Picture(r.Context())
	if !ok {
		pkghttp.WriteJSON(w, http.StatusOK, ProfilePictureResponse{})
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, ProfilePictureResponse{ImageData: &picture})
}

// @Router /profile/picture [put]
func (h *ProfileHandler) SetPicture(w http.ResponseWriter, r *http.Request) {
	var req ProfilePictureRequest
	if err := pkghttp.DecodeJSON(w, r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	result, err := h.service.SetPicture(r.Context(), req.ImageData)
	if err != nil {
		h.logger.Error("failed to store profile picture", slog.Any("error", err))
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	writeResult(w, result)
}

// @Router /profile/picture [delete]
func (h *ProfileHandler) DeletePicture(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.RemovePicture(r.Context())
	if err != nil {
		h.logger.Error("failed to remove profile picture", slog.Any("error", err))
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	writeResult(w, result)
}
