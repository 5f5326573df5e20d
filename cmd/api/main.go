package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/BradenHooton/storefront/internal/auth"
	"github.com/BradenHooton/storefront/internal/background"
	"github.com/BradenHooton/storefront/internal/config"
	"github.com/BradenHooton/storefront/internal/events"
	"github.com/BradenHooton/storefront/internal/handlers"
	"github.com/BradenHooton/storefront/internal/kvstore"
	middlewareCustom "github.com/BradenHooton/storefront/internal/middleware"
	"github.com/BradenHooton/storefront/internal/repositories"
	"github.com/BradenHooton/storefront/internal/routes"
	"github.com/BradenHooton/storefront/internal/search"
	"github.com/BradenHooton/storefront/internal/services"
	pkgauth "github.com/BradenHooton/storefront/pkg/auth"
	pkghttp "github.com/BradenHooton/storefront/pkg/http"
	pkglogger "github.com/BradenHooton/storefront/pkg/logger"
	"github.com/BradenHooton/storefront/pkg/metrics"
)

const csrfCookieMaxAge = 12 * 60 * 60

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.Server.LogLevel)}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded",
		slog.String("env", cfg.Server.Env),
		slog.String("store", cfg.Store.Backend))

	startCtx, startCancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer startCancel()

	bus := events.NewBus()
	defer bus.Close()

	// Initialize store
	backend, closeStore, err := kvstore.Open(startCtx, cfg, logger)
	if err != nil {
		logger.Error("failed to open store", slog.Any("error", err))
		os.Exit(1)
	}
	defer closeStore()
	store := kvstore.Observe(backend, bus.Storage)

	var metricsManager *metrics.Manager
	if cfg.Server.MetricsEnabled {
		metricsManager = metrics.NewManager()
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(store)
	attemptRepo := repositories.NewLoginAttemptRepository(store)
	sessionRepo := repositories.NewSessionRepository(store)
	settingsRepo := repositories.NewClientSettingsRepository(store)
	resetRepo := repositories.NewPasswordResetRepository(store)
	catalogRepo := repositories.NewCatalogRepository(store)

	// Initialize security services
	auditLogger := pkglogger.NewAuditLogger(logger)
	hasher := pkgauth.NewPasswordHasher(cfg.Auth.BcryptCost)
	timingDelay := auth.NewTimingDelay(auth.TimingConfig{
		BaseDelay:      cfg.Auth.TimingDelayBase,
		RandomDelay:    cfg.Auth.TimingDelayRandom,
		DelayOnSuccess: true,
	})

	guard := services.NewAttemptGuard(attemptRepo, services.AttemptGuardConfig{
		MaxAttempts: cfg.Auth.MaxAttempts,
		Window:      cfg.Auth.AttemptWindow,
	}, logger)
	sessionService := services.NewSessionService(sessionRepo, services.SessionConfig{
		Lifetime: cfg.Auth.SessionLifetime,
	}, logger)
	authService := services.NewAuthService(userRepo, guard, sessionService, hasher, timingDelay, logger, auditLogger)
	csrfService := services.NewCSRFService(settingsRepo, logger)

	emailService, err := newEmailService(startCtx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize email service", slog.Any("error", err))
		os.Exit(1)
	}
	resetService := services.NewPasswordResetService(userRepo, resetRepo, emailService, hasher, services.PasswordResetConfig{
		TokenTTL:     cfg.Email.ResetTokenTTL,
		ResetURLBase: cfg.Email.ResetURLBase,
	}, logger, auditLogger)

	profileService := services.NewProfileService(settingsRepo, bus.Profile, logger)
	searchService := services.NewSearchService(catalogRepo, search.NewRanker(search.WithWeights(cfg.Search.Weights)))

	var signer services.DeliveryTokenSigner
	if cfg.Notification.APIURL != "" {
		signer = auth.NewTokenManager(cfg.Notification.TokenSecret, 5*time.Minute)
	}
	notificationService := services.NewNotificationService(
		services.NotificationConfig{APIURL: cfg.Notification.APIURL, TTL: cfg.Notification.TTL},
		&http.Client{Timeout: cfg.Notification.DeliveryTimeout},
		signer,
		bus.Notifications,
		logger,
		services.WithMetrics(metricsManager),
	)

	if cfg.Auth.SeedDefaultUsers {
		if err := authService.SeedDefaultUsers(startCtx); err != nil {
			logger.Error("failed to seed default accounts", slog.Any("error", err))
		}
	}

	// Initialize handlers
	cookies := auth.CookieConfig{
		Domain:   cfg.Server.CookieDomain,
		Secure:   cfg.Server.CookieSecure,
		SameSite: cfg.Server.CookieSameSite,
	}
	ipConfig := pkghttp.NewIPConfig(cfg.Server.TrustedProxies)

	h := routes.Handlers{
		Auth:          handlers.NewAuthHandler(authService, sessionService, guard, notificationService, metricsManager, ipConfig, logger).WithCookies(cookies),
		CSRF:          handlers.NewCSRFHandler(csrfService, cookies, csrfCookieMaxAge, logger),
		PasswordReset: handlers.NewPasswordResetHandler(resetService, logger),
		Search:        handlers.NewSearchHandler(searchService, metricsManager, logger),
		Profile:       handlers.NewProfileHandler(profileService, logger),
		Notifications: handlers.NewNotificationHandler(notificationService, logger),
		Stream:        handlers.NewStreamHandler(notificationService, bus.Notifications, bus.Storage, logger),
	}

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(middlewareCustom.DefaultCORSConfig(cfg.Server.AllowedOrigins)))
	router.Use(middlewareCustom.SecureLogger(logger, metricsManager))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	routes.RegisterRoutes(router, h, routes.Dependencies{
		Store:    store,
		Sessions: sessionService,
		CSRF:     csrfService,
		Cookies:  cookies,
		IPConfig: ipConfig,
		Metrics:  metricsManager,
		Logger:   logger,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start background work
	bgCtx, bgCancel := context.WithCancel(context.Background())
	defer bgCancel()

	cleanupManager := background.NewCleanupManager(logger, cfg.Notification.SweepInterval)
	cleanupManager.Register("notifications", notificationService)
	go cleanupManager.Start(bgCtx)
	go logProfileUpdates(bgCtx, bus.Profile, logger)

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	bgCancel()
	cleanupManager.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}

// newEmailService picks SES or the development log sender
func newEmailService(ctx context.Context, cfg *config.Config, logger *slog.Logger) (services.EmailService, error) {
	if cfg.Email.Provider == config.EmailProviderSES {
		return services.NewAWSSESEmailService(ctx, cfg.Email.AWSRegion, cfg.Email.From, logger)
	}
	logger.Warn("reset emails are written to the log; set EMAIL_PROVIDER=ses to send them")
	return services.NewLogEmailService(logger), nil
}

// logProfileUpdates records profile picture changes until ctx is cancelled
func logProfileUpdates(ctx context.Context, hub *events.Hub[events.ProfileUpdated], logger *slog.Logger) {
	sub := hub.Subscribe(ctx)
	for update := range sub.C() {
		logger.Info("profile picture changed",
			slog.String("client_id", update.ClientID),
			slog.Bool("removed", update.ImageData == nil))
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
