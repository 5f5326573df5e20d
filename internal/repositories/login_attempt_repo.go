package repositories

import (
	"context"

	"github.com/BradenHooton/storefront/internal/kvstore"
	"github.com/BradenHooton/storefront/internal/models"
)

const loginAttemptsPrefix = "login_attempts_"

// LoginAttemptRepository keeps one attempt window per account
type LoginAttemptRepository struct {
	store kvstore.Store
}

func NewLoginAttemptRepository(store kvstore.Store) *LoginAttemptRepository {
	return &LoginAttemptRepository{store: store}
}

// Get returns the stored window, or nil when absent or malformed
func (r *LoginAttemptRepository) Get(ctx context.Context, email string) (*models.LoginAttemptRecord, error) {
	var record models.LoginAttemptRecord
	found, err := getJSON(ctx, r.store, loginAttemptsPrefix+email, &record)
	if err != nil || !found {
		return nil, err
	}
	return &record, nil
}

func (r *LoginAttemptRepository) Save(ctx context.Context, email string, record models.LoginAttemptRecord) error {
	return putJSON(ctx, r.store, loginAttemptsPrefix+email, record)
}

func (r *LoginAttemptRepository) Delete(ctx context.Context, email string) error {
	return r.store.Delete(ctx, loginAttemptsPrefix+email)
}
