package routes

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/BradenHooton/storefront/internal/auth"
	"github.com/BradenHooton/storefront/internal/handlers"
	"github.com/BradenHooton/storefront/internal/middleware"
	pkghttp "github.com/BradenHooton/storefront/pkg/http"
	"github.com/BradenHooton/storefront/pkg/metrics"
)

// Handlers groups the HTTP handlers mounted by RegisterRoutes
type Handlers struct {
	Auth          *handlers.AuthHandler
	CSRF          *handlers.CSRFHandler
	PasswordReset *handlers.PasswordResetHandler
	Search        *handlers.SearchHandler
	Profile       *handlers.ProfileHandler
	Notifications *handlers.NotificationHandler
	Stream        *handlers.StreamHandler
}

// Dependencies are the collaborators the route middleware needs
type Dependencies struct {
	Store    handlers.Pinger
	Sessions auth.SessionReader
	CSRF     middleware.CSRFVerifier
	Cookies  auth.CookieConfig
	IPConfig *pkghttp.IPConfig
	Metrics  *metrics.Manager
	Logger   *slog.Logger
}

// RegisterRoutes registers all application routes
func RegisterRoutes(router chi.Router, h Handlers, deps Dependencies) {
	rateLimitConfig := middleware.DefaultAuthRateLimit()
	limited := middleware.RateLimitByIP(rateLimitConfig, deps.IPConfig)

	router.Get("/health", handlers.Health(deps.Store))
	if deps.Metrics != nil {
		router.Method("GET", "/metrics", deps.Metrics.Handler())
	}

	// Everything below is scoped to the browser's client id
	router.Group(func(r chi.Router) {
		r.Use(auth.ClientScope(deps.Cookies))

		r.With(limited).Post("/auth/register", h.Auth.Register)
		r.With(limited).Post("/auth/login", h.Auth.Login)
		r.With(limited).Post("/auth/forgot-password", h.PasswordReset.ForgotPassword)
		r.Post("/auth/reset-password", h.PasswordReset.ResetPassword)
		r.Post("/auth/logout", h.Auth.Logout)
		r.Get("/auth/session", h.Auth.Session)
		r.Get("/auth/attempts", h.Auth.Attempts)
		r.Get("/auth/csrf", h.CSRF.Token)

		r.Get("/search/suggestions", h.Search.Suggestions)
		r.Get("/search/products", h.Search.Products)

		// Dashboard routes need a session; mutations also need the CSRF header
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireSession(deps.Sessions))
			r.Use(middleware.RequireCSRF(deps.CSRF, deps.Logger))

			r.Get("/products", h.Search.Catalog)

			r.Get("/profile/picture", h.Profile.GetPicture)
			r.Put("/profile/picture", h.Profile.SetPicture)
			r.Delete("/profile/picture", h.Profile.DeletePicture)

			r.Get("/notifications", h.Notifications.List)
			r.Get("/notifications/stream", h.Stream.Stream)
			r.Post("/notifications", h.Notifications.Send)
			r.Delete("/notifications", h.Notifications.ClearAll)
			r.Post("/notifications/{id}/read", h.Notifications.MarkAsRead)
			r.Delete("/notifications/{id}", h.Notifications.Remove)
		})
	})
}
