package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/BradenHooton/storefront/internal/search"
)

// Store backends
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Email providers
const (
	EmailProviderLog = "log"
	EmailProviderSES = "ses"
)

type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Store        StoreConfig
	Auth         AuthConfig
	Notification NotificationConfig
	Email        EmailConfig
	Search       SearchConfig
}

type DatabaseConfig struct {
	Host              string
	Port              int
	User              string
	Password          string
	Name              string
	SSLMode           string
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
}

type ServerConfig struct {
	Port           string
	Env            string
	LogLevel       string
	AllowedOrigins []string
	TrustedProxies []string
	CookieDomain   string
	CookieSecure   bool
	CookieSameSite string
	MetricsEnabled bool
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
}

type StoreConfig struct {
	Backend             string
	RedisURL            string
	RedisRetryAttempts  int
	RedisRetryInterval  time.Duration
	RedisConnectTimeout time.Duration
}

type AuthConfig struct {
	MaxAttempts       int
	AttemptWindow     time.Duration
	SessionLifetime   time.Duration
	BcryptCost        int
	TimingDelayBase   time.Duration
	TimingDelayRandom time.Duration
	SeedDefaultUsers  bool
}

type NotificationConfig struct {
	APIURL          string
	TokenSecret     string
	SweepInterval   time.Duration
	TTL             time.Duration
	DeliveryTimeout time.Duration
}

type EmailConfig struct {
	Provider      string
	AWSRegion     string
	From          string
	ResetURLBase  string
	ResetTokenTTL time.Duration
}

type SearchConfig struct {
	WeightsFile string
	Weights     search.Weights
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	env := getEnv("ENV", "development")

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			Env:            env,
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			AllowedOrigins: parseAllowedOrigins(env),
			TrustedProxies: splitList(getEnv("TRUSTED_PROXIES", "")),
			CookieDomain:   getEnv("COOKIE_DOMAIN", ""),
			CookieSecure:   getEnvAsBool("COOKIE_SECURE", env == "production"),
			CookieSameSite: getEnv("COOKIE_SAMESITE", "Lax"),
			MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
			ReadTimeout:    getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:   getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:    getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Database: DatabaseConfig{
			Host:              getEnv("DB_HOST", "localhost"),
			Port:              getEnvAsInt("DB_PORT", 5432),
			User:              getEnv("DB_USER", "postgres"),
			Password:          getEnv("DB_PASSWORD", ""),
			Name:              getEnv("DB_NAME", "storefront"),
			SSLMode:           getEnv("DB_SSLMODE", "disable"),
			MaxConns:          int32(getEnvAsInt("DB_MAX_CONNS", 25)),
			MinConns:          int32(getEnvAsInt("DB_MIN_CONNS", 5)),
			MaxConnLifetime:   getEnvAsDuration("DB_MAX_CONN_LIFETIME", 5*time.Minute),
			MaxConnIdleTime:   getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 1*time.Minute),
			HealthCheckPeriod: getEnvAsDuration("DB_HEALTH_CHECK_PERIOD", 1*time.Minute),
		},
		Store: StoreConfig{
			Backend:             strings.ToLower(getEnv("STORE_BACKEND", StoreMemory)),
			RedisURL:            getEnv("REDIS_URL", "redis://localhost:6379/0"),
			RedisRetryAttempts:  getEnvAsInt("REDIS_RETRY_ATTEMPTS", 3),
			RedisRetryInterval:  getEnvAsDuration("REDIS_RETRY_INTERVAL", 5*time.Second),
			RedisConnectTimeout: getEnvAsDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		},
		Auth: AuthConfig{
			MaxAttempts:       getEnvAsInt("AUTH_MAX_ATTEMPTS", 5),
			AttemptWindow:     getEnvAsDuration("AUTH_ATTEMPT_WINDOW", 15*time.Minute),
			SessionLifetime:   getEnvAsDuration("SESSION_LIFETIME", 24*time.Hour),
			BcryptCost:        getEnvAsInt("BCRYPT_COST", 12),
			TimingDelayBase:   time.Duration(getEnvAsInt("TIMING_DELAY_BASE_MS", 100)) * time.Millisecond,
			TimingDelayRandom: time.Duration(getEnvAsInt("TIMING_DELAY_RANDOM_MS", 50)) * time.Millisecond,
			SeedDefaultUsers:  getEnvAsBool("SEED_DEFAULT_USERS", env != "production"),
		},
		Notification: NotificationConfig{
			APIURL:          strings.TrimRight(getEnv("NOTIFICATION_API_URL", ""), "/"),
			TokenSecret:     getEnv("NOTIFICATION_TOKEN_SECRET", ""),
			SweepInterval:   getEnvAsDuration("NOTIFICATION_SWEEP_INTERVAL", 5*time.Minute),
			TTL:             getEnvAsDuration("NOTIFICATION_TTL", 24*time.Hour),
			DeliveryTimeout: getEnvAsDuration("NOTIFICATION_DELIVERY_TIMEOUT", 5*time.Second),
		},
		Email: EmailConfig{
			Provider:      strings.ToLower(getEnv("EMAIL_PROVIDER", EmailProviderLog)),
			AWSRegion:     getEnv("AWS_REGION", "us-east-1"),
			From:          getEnv("EMAIL_FROM", ""),
			ResetURLBase:  strings.TrimRight(getEnv("RESET_URL_BASE", "http://localhost:3000"), "/"),
			ResetTokenTTL: getEnvAsDuration("RESET_TOKEN_TTL", 24*time.Hour),
		},
		Search: SearchConfig{
			WeightsFile: getEnv("RANKER_WEIGHTS_FILE", ""),
		},
	}

	weights, err := LoadRankerWeights(cfg.Search.WeightsFile)
	if err != nil {
		return nil, err
	}
	cfg.Search.Weights = weights

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case StoreMemory, StoreRedis:
	case StorePostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required when STORE_BACKEND=postgres")
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be one of memory, redis, postgres (got %q)", c.Store.Backend)
	}

	if c.Auth.MaxAttempts < 1 {
		return fmt.Errorf("AUTH_MAX_ATTEMPTS must be positive")
	}

	if c.Notification.APIURL != "" {
		if err := validateTokenSecret(c.Notification.TokenSecret, c.Server.Env); err != nil {
			return err
		}
	}

	switch c.Email.Provider {
	case EmailProviderLog:
	case EmailProviderSES:
		if c.Email.From == "" {
			return fmt.Errorf("EMAIL_FROM is required when EMAIL_PROVIDER=ses")
		}
	default:
		return fmt.Errorf("EMAIL_PROVIDER must be one of log, ses (got %q)", c.Email.Provider)
	}

	return nil
}

// validateTokenSecret enforces minimum strength for the notification signing secret
func validateTokenSecret(secret, env string) error {
	minLength := 16
	if env == "production" {
		minLength = 32
	}

	if len(secret) < minLength {
		return fmt.Errorf("NOTIFICATION_TOKEN_SECRET must be at least %d characters in %s environment (got %d)",
			minLength, env, len(secret))
	}

	weakSecrets := []string{
		"secret", "test", "password", "12345", "changeme",
		"admin", "root", "default", "example",
	}

	secretLower := strings.ToLower(secret)
	for _, weak := range weakSecrets {
		if secretLower == weak {
			return fmt.Errorf("NOTIFICATION_TOKEN_SECRET cannot be a common weak value")
		}
	}

	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
}

// splitList parses a comma separated list, dropping blanks
func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func parseAllowedOrigins(env string) []string {
	if env == "production" {
		return splitList(getEnv("ALLOWED_ORIGINS", ""))
	}

	// Development: the admin dashboard dev servers
	return []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
	}
}
