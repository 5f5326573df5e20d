package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BradenHooton/storefront/internal/auth"
	"github.com/BradenHooton/storefront/internal/events"
	"github.com/BradenHooton/storefront/internal/handlers"
	"github.com/BradenHooton/storefront/internal/kvstore"
	"github.com/BradenHooton/storefront/internal/middleware"
	"github.com/BradenHooton/storefront/internal/repositories"
	"github.com/BradenHooton/storefront/internal/search"
	"github.com/BradenHooton/storefront/internal/services"
	pkgauth "github.com/BradenHooton/storefront/pkg/auth"
	pkglogger "github.com/BradenHooton/storefront/pkg/logger"
	"github.com/BradenHooton/storefront/pkg/metrics"
)

// newTestServer wires the full API over an in-memory store
func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	audit := pkglogger.NewAuditLogger(logger)
	bus := events.NewBus()
	t.Cleanup(bus.Close)

	store := kvstore.Observe(kvstore.NewMemoryStore(), bus.Storage)
	m := metrics.NewManager(metrics.WithRegistry(prometheus.NewRegistry()))
	hasher := pkgauth.NewPasswordHasher(0)

	users := repositories.NewUserRepository(store)
	settings := repositories.NewClientSettingsRepository(store)

	guard := services.NewAttemptGuard(repositories.NewLoginAttemptRepository(store),
		services.AttemptGuardConfig{MaxAttempts: 5, Window: 15 * time.Minute}, logger)
	sessions := services.NewSessionService(repositories.NewSessionRepository(store),
		services.SessionConfig{Lifetime: 24 * time.Hour}, logger)
	authService := services.NewAuthService(users, guard, sessions, hasher,
		auth.NewTimingDelay(auth.TimingConfig{}), logger, audit)
	csrf := services.NewCSRFService(settings, logger)
	reset := services.NewPasswordResetService(users, repositories.NewPasswordResetRepository(store),
		services.NewLogEmailService(logger), hasher,
		services.PasswordResetConfig{TokenTTL: time.Hour, ResetURLBase: "http://localhost:3000"}, logger, audit)
	notifications := services.NewNotificationService(services.NotificationConfig{}, nil, nil,
		bus.Notifications, logger, services.WithMetrics(m))
	cookies := auth.CookieConfig{SameSite: "lax"}

	router := chi.NewRouter()
	router.Use(middleware.SecureLogger(logger, m))
	RegisterRoutes(router, Handlers{
		Auth:          handlers.NewAuthHandler(authService, sessions, guard, notifications, m, nil, logger).WithCookies(cookies),
		CSRF:          handlers.NewCSRFHandler(csrf, cookies, 3600, logger),
		PasswordReset: handlers.NewPasswordResetHandler(reset, logger),
		Search:        handlers.NewSearchHandler(services.NewSearchService(repositories.NewCatalogRepository(store), search.NewRanker()), m, logger),
		Profile:       handlers.NewProfileHandler(services.NewProfileService(settings, bus.Profile, logger), logger),
		Notifications: handlers.NewNotificationHandler(notifications, logger),
		Stream:        handlers.NewStreamHandler(notifications, bus.Notifications, bus.Storage, logger),
	}, Dependencies{
		Store:    store,
		Sessions: sessions,
		CSRF:     csrf,
		Cookies:  cookies,
		Metrics:  m,
		Logger:   logger,
	})
	return router
}

// browser keeps cookies between requests like a dashboard tab would
type browser struct {
	t       *testing.T
	handler http.Handler
	cookies map[string]*http.Cookie
}

func newBrowser(t *testing.T, handler http.Handler) *browser {
	return &browser{t: t, handler: handler, cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	b.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(b.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	for _, c := range b.cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	b.handler.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}
	return w
}

func TestDashboardFlow(t *testing.T) {
	server := newTestServer(t)
	b := newBrowser(t, server)

	w := b.do("GET", "/auth/csrf", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var csrf handlers.CSRFTokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &csrf))
	require.Contains(t, b.cookies, auth.ClientIDCookieName)

	w = b.do("POST", "/auth/register", map[string]string{"email": "owner@example.com", "password": "secret1"}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = b.do("GET", "/products", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = b.do("GET", "/notifications/stream", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = b.do("POST", "/auth/login", map[string]string{"email": "owner@example.com", "password": "secret1"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = b.do("GET", "/products", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var catalog []json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &catalog))
	assert.NotEmpty(t, catalog)

	picture := map[string]string{"image_data": "data:image/png;base64,iVBORw0KGgo="}
	w = b.do("PUT", "/profile/picture", picture, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = b.do("PUT", "/profile/picture", picture, map[string]string{middleware.CSRFHeader: csrf.CSRFToken})
	assert.Equal(t, http.StatusOK, w.Code)

	w = b.do("GET", "/profile/picture", nil, nil)
	assert.Contains(t, w.Body.String(), "iVBORw0KGgo=")

	w = b.do("GET", "/auth/session", nil, nil)
	assert.Contains(t, w.Body.String(), `"valid":true`)

	// a second browser has its own client scope
	other := newBrowser(t, server)
	w = other.do("GET", "/auth/session", nil, nil)
	assert.Contains(t, w.Body.String(), `"valid":false`)

	w = b.do("POST", "/auth/logout", nil, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NotContains(t, b.cookies, auth.CSRFCookieName)

	w = b.do("GET", "/products", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLockoutRaisesSecurityNotification(t *testing.T) {
	server := newTestServer(t)
	b := newBrowser(t, server)

	w := b.do("POST", "/auth/register", map[string]string{"email": "admin@example.com", "password": "admin123"}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	w = b.do("POST", "/auth/register", map[string]string{"email": "viewer@example.com", "password": "viewer123"}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	creds := map[string]string{"email": "admin@example.com", "password": "wrong-password"}
	for i := 0; i < 5; i++ {
		w = b.do("POST", "/auth/login", creds, nil)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	}

	// further attempts while locked do not add alerts
	for i := 0; i < 2; i++ {
		w = b.do("POST", "/auth/login", map[string]string{"email": "admin@example.com", "password": "admin123"}, nil)
		require.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.NotEmpty(t, w.Header().Get("Retry-After"))
	}

	w = b.do("GET", "/auth/attempts?email=admin@example.com", nil, nil)
	assert.Contains(t, w.Body.String(), `"rate_limited":true`)

	w = b.do("POST", "/auth/login", map[string]string{"email": "viewer@example.com", "password": "viewer123"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = b.do("GET", "/notifications", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, strings.Count(w.Body.String(), `"type":"security"`))
}

func TestHealthAndMetrics(t *testing.T) {
	server := newTestServer(t)
	b := newBrowser(t, server)

	w := b.do("GET", "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	b.do("GET", "/search/suggestions?q=mouse", nil, nil)

	w = b.do("GET", "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, "storefront_search_queries_total"))
	assert.True(t, strings.Contains(body, `route="/search/suggestions"`))
}
