package middleware

import (
	"context"
	"log/slog"
	"net/http"

	pkghttp "github.com/BradenHooton/storefront/pkg/http"
)

// CSRFHeader carries the token issued by GET /csrf
const CSRFHeader = "X-CSRF-Token"

// CSRFVerifier checks a submitted token against the client's stored token
type CSRFVerifier interface {
	Verify(ctx context.Context, token string) bool
}

// RequireCSRF rejects state-changing requests whose X-CSRF-Token header does
// not match the client's token. Must run after auth.ClientScope.
func RequireCSRF(verifier CSRFVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isStateChangingMethod(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			token := r.Header.Get(CSRFHeader)
			if token == "" {
				logger.Warn("CSRF token missing in request",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path))
				pkghttp.WriteForbidden(w, "CSRF token missing")
				return
			}

			if !verifier.Verify(r.Context(), token) {
				logger.Warn("CSRF token validation failed",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path))
				pkghttp.WriteForbidden(w, "CSRF token invalid")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isStateChangingMethod(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch:
		return true
	default:
		return false
	}
}
