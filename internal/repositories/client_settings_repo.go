package repositories

import (
	"context"

	"github.com/BradenHooton/storefront/internal/kvstore"
)

const (
	csrfTokenKey      = "csrf_token"
	profilePictureKey = "adminProfilePicture"
)

// ClientSettingsRepository holds small per-client string values
type ClientSettingsRepository struct {
	store kvstore.Store
}

func NewClientSettingsRepository(store kvstore.Store) *ClientSettingsRepository {
	return &ClientSettingsRepository{store: store}
}

func (r *ClientSettingsRepository) CSRFToken(ctx context.Context) (string, bool, error) {
	return getString(ctx, kvstore.Scoped(ctx, r.store), csrfTokenKey)
}

func (r *ClientSettingsRepository) SetCSRFToken(ctx context.Context, token string) error {
	return kvstore.Scoped(ctx, r.store).Set(ctx, csrfTokenKey, token)
}

func (r *ClientSettingsRepository) ProfilePicture(ctx context.Context) (string, bool, error) {
	return getString(ctx, kvstore.Scoped(ctx, r.store), profilePictureKey)
}

func (r *ClientSettingsRepository) SetProfilePicture(ctx context.Context, dataURL string) error {
	return kvstore.Scoped(ctx, r.store).Set(ctx, profilePictureKey, dataURL)
}

func (r *ClientSettingsRepository) DeleteProfilePicture(ctx context.Context) error {
	return kvstore.Scoped(ctx, r.store).Delete(ctx, profilePictureKey)
}
