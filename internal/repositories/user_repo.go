package repositories

import (
	"context"
	"strings"
	"sync"

	"github.com/BradenHooton/storefront/internal/kvstore"
	"github.com/BradenHooton/storefront/internal/models"
)

const registeredUsersKey = "registered_users"

// UserRepository stores every account as one JSON array under registered_users
type UserRepository struct {
	store kvstore.Store
	// serialises read-modify-write cycles within this process
	mu sync.Mutex
}

func NewUserRepository(store kvstore.Store) *UserRepository {
	return &UserRepository{store: store}
}

// List returns all accounts. found is false when the list has never been
// written or is unreadable.
func (r *UserRepository) List(ctx context.Context) (users []models.RegisteredUser, found bool, err error) {
	found, err = getJSON(ctx, r.store, registeredUsersKey, &users)
	if !found {
		users = nil
	}
	return users, found, err
}

// FindByEmail looks an account up case-insensitively
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.RegisteredUser, error) {
	users, _, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, models.ErrNotFound
}

// Create appends user, rejecting a case-insensitive duplicate with ErrConflict.
// An unreadable list is left untouched and reported as ErrCorruptRecord.
func (r *UserRepository) Create(ctx context.Context, user models.RegisteredUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var users []models.RegisteredUser
	if _, err := getJSONForUpdate(ctx, r.store, registeredUsersKey, &users); err != nil {
		return err
	}

	for _, u := range users {
		if strings.EqualFold(u.Email, user.Email) {
			return models.ErrConflict
		}
	}

	return putJSON(ctx, r.store, registeredUsersKey, append(users, user))
}

// UpdatePasswordHash replaces the hash of an existing account
func (r *UserRepository) UpdatePasswordHash(ctx context.Context, email, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var users []models.RegisteredUser
	if _, err := getJSONForUpdate(ctx, r.store, registeredUsersKey, &users); err != nil {
		return err
	}

	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			users[i].PasswordHash = passwordHash
			return putJSON(ctx, r.store, registeredUsersKey, users)
		}
	}
	return models.ErrNotFound
}

// SeedIfAbsent writes users only when no readable list exists yet, which
// also restores the defaults over an unreadable list. Reports whether the
// seed was written.
func (r *UserRepository) SeedIfAbsent(ctx context.Context, users []models.RegisteredUser) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, found, err := r.List(ctx)
	if err != nil || found {
		return false, err
	}

	if err := putJSON(ctx, r.store, registeredUsersKey, users); err != nil {
		return false, err
	}
	return true, nil
}
