package repositories

import (
	"context"

	"github.com/BradenHooton/storefront/internal/kvstore"
	"github.com/BradenHooton/storefront/internal/models"
)

const currentSessionKey = "currentSession"

// SessionRepository stores session records under their own id plus a
// per-client pointer to the current one. All keys are client scoped.
type SessionRepository struct {
	store kvstore.Store
}

func NewSessionRepository(store kvstore.Store) *SessionRepository {
	return &SessionRepository{store: store}
}

// CurrentID returns the current-session pointer, or "" when unset
func (r *SessionRepository) CurrentID(ctx context.Context) (string, error) {
	id, _, err := getString(ctx, kvstore.Scoped(ctx, r.store), currentSessionKey)
	return id, err
}

func (r *SessionRepository) SetCurrentID(ctx context.Context, id string) error {
	return kvstore.Scoped(ctx, r.store).Set(ctx, currentSessionKey, id)
}

func (r *SessionRepository) ClearCurrentID(ctx context.Context) error {
	return kvstore.Scoped(ctx, r.store).Delete(ctx, currentSessionKey)
}

// Get loads a session by id, or nil when absent or malformed
func (r *SessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	var session models.Session
	found, err := getJSON(ctx, kvstore.Scoped(ctx, r.store), id, &session)
	if err != nil || !found {
		return nil, err
	}
	session.ID = id
	return &session, nil
}

func (r *SessionRepository) Save(ctx context.Context, session *models.Session) error {
	return putJSON(ctx, kvstore.Scoped(ctx, r.store), session.ID, session)
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	return kvstore.Scoped(ctx, r.store).Delete(ctx, id)
}
