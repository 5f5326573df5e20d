package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BradenHooton/storefront/internal/kvstore"
	"github.com/BradenHooton/storefront/internal/models"
)

func TestUserRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(kvstore.NewMemoryStore())

	require.NoError(t, repo.Create(ctx, models.RegisteredUser{Email: "user@test.com", PasswordHash: "h"}))

	u, err := repo.FindByEmail(ctx, "USER@test.com")
	require.NoError(t, err)
	assert.Equal(t, "user@test.com", u.Email)

	err = repo.Create(ctx, models.RegisteredUser{Email: "User@Test.com", PasswordHash: "h2"})
	assert.ErrorIs(t, err, models.ErrConflict)

	_, err = repo.FindByEmail(ctx, "nobody@test.com")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUserRepository_MalformedListIsAbsent(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	require.NoError(t, store.Set(ctx, registeredUsersKey, "{not json"))
	repo := NewUserRepository(store)

	users, found, err := repo.List(ctx)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, users)

	seeded, err := repo.SeedIfAbsent(ctx, []models.RegisteredUser{{Email: "admin@example.com", PasswordHash: "h"}})
	require.NoError(t, err)
	assert.True(t, seeded)

	seeded, err = repo.SeedIfAbsent(ctx, []models.RegisteredUser{{Email: "other@example.com", PasswordHash: "h"}})
	require.NoError(t, err)
	assert.False(t, seeded)
}

func TestUserRepository_WritesKeepUnreadableList(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	require.NoError(t, store.Set(ctx, registeredUsersKey, "{garbage"))
	repo := NewUserRepository(store)

	err := repo.Create(ctx, models.RegisteredUser{Email: "new@test.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, models.ErrCorruptRecord)

	err = repo.UpdatePasswordHash(ctx, "admin@example.com", "h2")
	assert.ErrorIs(t, err, models.ErrCorruptRecord)

	raw, err := store.Get(ctx, registeredUsersKey)
	require.NoError(t, err)
	assert.Equal(t, "{garbage", raw)
}

func TestUserRepository_UpdatePasswordHash(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(kvstore.NewMemoryStore())
	require.NoError(t, repo.Create(ctx, models.RegisteredUser{Email: "a@b.com", PasswordHash: "old"}))

	require.NoError(t, repo.UpdatePasswordHash(ctx, "A@B.com", "new"))
	u, err := repo.FindByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "new", u.PasswordHash)

	assert.ErrorIs(t, repo.UpdatePasswordHash(ctx, "x@y.com", "new"), models.ErrNotFound)
}

func TestLoginAttemptRepository(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	repo := NewLoginAttemptRepository(store)

	rec, err := repo.Get(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Nil(t, rec)

	require.NoError(t, repo.Save(ctx, "a@b.com", models.LoginAttemptRecord{Timestamp: 1000, Count: 2}))
	raw, err := store.Get(ctx, "login_attempts_a@b.com")
	require.NoError(t, err)
	assert.JSONEq(t, `{"timestamp":1000,"count":2}`, raw)

	rec, err = repo.Get(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, &models.LoginAttemptRecord{Timestamp: 1000, Count: 2}, rec)

	require.NoError(t, store.Set(ctx, "login_attempts_a@b.com", "garbage"))
	rec, err = repo.Get(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Nil(t, rec)

	require.NoError(t, repo.Delete(ctx, "a@b.com"))
	require.NoError(t, repo.Delete(ctx, "a@b.com"))
}

func TestSessionRepository_ClientScoped(t *testing.T) {
	store := kvstore.NewMemoryStore()
	repo := NewSessionRepository(store)
	ctxA := kvstore.WithClient(context.Background(), "a")
	ctxB := kvstore.WithClient(context.Background(), "b")

	session := &models.Session{ID: "session_1", Email: "a@b.com", CreatedAt: 1, ExpiresAt: 2}
	require.NoError(t, repo.Save(ctxA, session))
	require.NoError(t, repo.SetCurrentID(ctxA, session.ID))

	id, err := repo.CurrentID(ctxA)
	require.NoError(t, err)
	assert.Equal(t, "session_1", id)

	got, err := repo.Get(ctxA, id)
	require.NoError(t, err)
	assert.Equal(t, session, got)

	raw, err := store.Get(context.Background(), "client:a:session_1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"a@b.com","createdAt":1,"expiresAt":2}`, raw)

	id, err = repo.CurrentID(ctxB)
	require.NoError(t, err)
	assert.Empty(t, id)

	require.NoError(t, repo.ClearCurrentID(ctxA))
	require.NoError(t, repo.Delete(ctxA, "session_1"))
	got, err = repo.Get(ctxA, "session_1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestClientSettingsRepository(t *testing.T) {
	ctx := kvstore.WithClient(context.Background(), "c")
	repo := NewClientSettingsRepository(kvstore.NewMemoryStore())

	_, found, err := repo.CSRFToken(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, repo.SetCSRFToken(ctx, "tok"))
	token, found, err := repo.CSRFToken(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "tok", token)

	require.NoError(t, repo.SetProfilePicture(ctx, "data:image/png;base64,AA"))
	pic, found, err := repo.ProfilePicture(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "data:image/png;base64,AA", pic)

	require.NoError(t, repo.DeleteProfilePicture(ctx))
	_, found, err = repo.ProfilePicture(ctx)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPasswordResetRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewPasswordResetRepository(kvstore.NewMemoryStore())
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	token := &models.PasswordResetToken{Email: "a@b.com", TokenHash: "abc", CreatedAt: now, ExpiresAt: now.Add(24 * time.Hour)}
	require.NoError(t, repo.Save(ctx, token))

	got, err := repo.FindByHash(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", got.Email)
	assert.Equal(t, "abc", got.TokenHash)
	assert.True(t, got.ExpiresAt.Equal(token.ExpiresAt))

	require.NoError(t, repo.Delete(ctx, "abc"))
	_, err = repo.FindByHash(ctx, "abc")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCatalogRepository(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	repo := NewCatalogRepository(store)

	items, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultCatalog(), items)

	custom := []models.CatalogItem{{ID: "x", Name: "Only", Status: models.StatusActive}}
	require.NoError(t, repo.Replace(ctx, custom))
	items, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, custom, items)

	require.NoError(t, store.Set(ctx, productsKey, "[broken"))
	items, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, len(defaultCatalog))

	require.NoError(t, repo.Reset(ctx))
	items, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultCatalog(), items)
}
