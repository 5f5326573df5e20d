package auth

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/BradenHooton/storefront/internal/kvstore"
	"github.com/BradenHooton/storefront/internal/models"
	pkghttp "github.com/BradenHooton/storefront/pkg/http"
)

type contextKey string

// SessionContextKey is the key for storing the current session in context
const SessionContextKey contextKey = "session"

// SessionReader returns the current client's valid session
type SessionReader interface {
	Current(ctx context.Context) (*models.Session, bool)
}

// ClientScope identifies the browser by its client_id cookie, issuing a new
// id when the cookie is missing or malformed, and scopes the request context
// to that client's keys.
func ClientScope(config CookieConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientID, ok := ClientIDFromRequest(r)
			if !ok {
				clientID = uuid.NewString()
				SetClientIDCookie(w, clientID, config)
			}

			ctx := kvstore.WithClient(r.Context(), clientID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSession rejects requests without a valid session. Must run after ClientScope.
func RequireSession(sessions SessionReader) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := sessions.Current(r.Context())
			if !ok {
				pkghttp.WriteUnauthorized(w, "session expired or missing")
				return
			}

			ctx := context.WithValue(r.Context(), SessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the session stored by RequireSession
func SessionFromContext(ctx context.Context) *models.Session {
	session, ok := ctx.Value(SessionContextKey).(*models.Session)
	if !ok {
		return nil
	}
	return session
}
