package repositories

import (
	"context"

	"github.com/BradenHooton/storefront/internal/kvstore"
	"github.com/BradenHooton/storefront/internal/models"
)

const passwordResetPrefix = "password_reset_"

// PasswordResetRepository keys reset tokens by the sha256 of the raw token
type PasswordResetRepository struct {
	store kvstore.Store
}

func NewPasswordResetRepository(store kvstore.Store) *PasswordResetRepository {
	return &PasswordResetRepository{store: store}
}

func (r *PasswordResetRepository) Save(ctx context.Context, token *models.PasswordResetToken) error {
	return putJSON(ctx, r.store, passwordResetPrefix+token.TokenHash, token)
}

// FindByHash returns models.ErrNotFound for unknown or unreadable tokens
func (r *PasswordResetRepository) FindByHash(ctx context.Context, tokenHash string) (*models.PasswordResetToken, error) {
	var token models.PasswordResetToken
	found, err := getJSON(ctx, r.store, passwordResetPrefix+tokenHash, &token)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, models.ErrNotFound
	}
	token.TokenHash = tokenHash
	return &token, nil
}

func (r *PasswordResetRepository) Delete(ctx context.Context, tokenHash string) error {
	return r.store.Delete(ctx, passwordResetPrefix+tokenHash)
}
