package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"github.com/BradenHooton/storefront/internal/events"
	"github.com/BradenHooton/storefront/internal/kvstore"
	"github.com/BradenHooton/storefront/internal/models"
)

const (
	MaxProfilePictureBytes = 5 * 1024 * 1024

	MsgPictureNotImage = "Please select an image file"
	MsgPictureTooLarge = "Image must be smaller than 5MB"
	MsgPictureUpdated  = "Profile picture updated"
	MsgPictureRemoved  = "Profile picture removed"
)

// ProfileRepository stores the client's profile picture
type ProfileRepository interface {
	ProfilePicture(ctx context.Context) (string, bool, error)
	SetProfilePicture(ctx context.Context, dataURL string) error
	DeleteProfilePicture(ctx context.Context) error
}

// ProfileService manages the admin profile picture and announces changes
type ProfileService struct {
	repo   ProfileRepository
	hub    *events.Hub[events.ProfileUpdated]
	logger *slog.Logger
}

func NewProfileService(repo ProfileRepository, hub *events.Hub[events.ProfileUpdated], logger *slog.Logger) *ProfileService {
	return &ProfileService{repo: repo, hub: hub, logger: logger}
}

// Picture returns the stored data URL
func (s *ProfileService) Picture(ctx context.Context) (string, bool) {
	picture, found, err := s.repo.ProfilePicture(ctx)
	if err != nil {
		s.logger.Error("failed to read profile picture", slog.Any("error", err))
		return "", false
	}
	return picture, found
}

// SetPicture stores an image data URL of at most MaxProfilePictureBytes
func (s *ProfileService) SetPicture(ctx context.Context, dataURL string) (models.Result, error) {
	size, ok := imageDataSize(dataURL)
	if !ok {
		return models.Fail(MsgPictureNotImage), nil
	}
	if size > MaxProfilePictureBytes {
		return models.Fail(MsgPictureTooLarge), nil
	}

	if err := s.repo.SetProfilePicture(ctx, dataURL); err != nil {
		return models.Result{}, fmt.Errorf("failed to store profile picture: %w", err)
	}

	s.publish(ctx, &dataURL)
	return models.OK(MsgPictureUpdated), nil
}

// RemovePicture deletes the stored picture
func (s *ProfileService) RemovePicture(ctx context.Context) (models.Result, error) {
	if err := s.repo.DeleteProfilePicture(ctx); err != nil {
		return models.Result{}, fmt.Errorf("failed to remove profile picture: %w", err)
	}

	s.publish(ctx, nil)
	return models.OK(MsgPictureRemoved), nil
}

func (s *ProfileService) publish(ctx context.Context, imageData *string) {
	clientID, _ := kvstore.ClientFromContext(ctx)
	s.hub.Publish(events.ProfileUpdated{ClientID: clientID, ImageData: imageData})
}

// imageDataSize returns the decoded size of a data:image/...;base64 URL
func imageDataSize(dataURL string) (int, bool) {
	if !strings.HasPrefix(dataURL, "data:image/") {
		return 0, false
	}

	header, payload, found := strings.Cut(dataURL, ",")
	if !found {
		return 0, false
	}

	if !strings.HasSuffix(header, ";base64") {
		return len(payload), true
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return 0, false
	}
	return len(decoded), true
}
