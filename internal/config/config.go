package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Database
	DatabaseURL    string
	DBMaxOpenConns int
	DBMaxIdleConns int
	DBConnLifetime time.Duration
	DBConnIdleTime time.Duration

	// Application
	Environment string
	LogLevel    string

	// Server
	Port        string
	CORSOrigins string
	StaticDir   string

	// Rate limiting
	RateLimitEnabled   bool
	RateLimitPerMinute int

	// AI classifier (keyword heuristic when AIServiceURL is empty)
	AIServiceURL    string
	AIServiceAPIKey string
	AITimeout       time.Duration

	// Monitoring
	SentryDSN         string
	PrometheusEnabled bool

	// Authentication
	ClerkEnabled        bool
	ClerkPublishableKey string
	JWKSURL             string
	JWTSecret           string
	DevOwnerID          string

	// System log retention
	LogRetentionDays int
	LogRetentionCron string
}

func Load() *Config {
	return &Config{
		DatabaseURL:    getEnv("DATABASE_URL", "sqlite:///./moderation.db"),
		DBMaxOpenConns: parseInt(getEnv("DB_MAX_OPEN_CONNS", "10"), 10),
		DBMaxIdleConns: parseInt(getEnv("DB_MAX_IDLE_CONNS", "5"), 5),
		DBConnLifetime: parseDuration(getEnv("DB_CONN_MAX_LIFETIME", "30m"), 30*time.Minute),
		DBConnIdleTime: parseDuration(getEnv("DB_CONN_MAX_IDLE_TIME", "5m"), 5*time.Minute),

		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "INFO"),

		Port:        getEnv("PORT", "8000"),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:8000,http://127.0.0.1:8000"),
		StaticDir:   getEnv("STATIC_DIR", "frontend"),

		RateLimitEnabled:   parseBool(getEnv("RATE_LIMIT_ENABLED", "false")),
		RateLimitPerMinute: parseInt(getEnv("RATE_LIMIT_PER_MINUTE", "60"), 60),

		AIServiceURL:    getEnv("AI_SERVICE_URL", ""),
		AIServiceAPIKey: getEnv("AI_SERVICE_API_KEY", getEnv("OPENAI_API_KEY", "")),
		AITimeout:       parseDuration(getEnv("AI_TIMEOUT", "10s"), 10*time.Second),

		SentryDSN:         getEnv("SENTRY_DSN", ""),
		PrometheusEnabled: parseBool(getEnv("PROMETHEUS_ENABLED", "true")),

		ClerkEnabled:        parseBool(getEnv("CLERK_ENABLED", "false")),
		ClerkPublishableKey: getEnv("CLERK_PUBLISHABLE_KEY", ""),
		JWKSURL:             getEnv("JWKS_URL", ""),
		JWTSecret:           getEnv("JWT_SECRET", ""),
		DevOwnerID:          getEnv("DEV_OWNER_ID", "dev_user_123"),

		LogRetentionDays: parseInt(getEnv("LOG_RETENTION_DAYS", "30"), 30),
		LogRetentionCron: getEnv("LOG_RETENTION_CRON", "0 3 * * *"),
	}
}

// Validate reports configuration that would make the server unsafe or unable
// to start.
func (c *Config) Validate() error {
	var errs []error
	if c.IsProduction() && !c.AuthEnabled() {
		errs = append(errs, errors.New("authentication must be enabled in production (set CLERK_ENABLED or JWT_SECRET)"))
	}
	if c.ClerkEnabled && c.ResolveJWKSURL() == "" {
		errs = append(errs, errors.New("CLERK_ENABLED requires JWKS_URL or a valid CLERK_PUBLISHABLE_KEY"))
	}
	if c.DBMaxOpenConns < 1 {
		errs = append(errs, fmt.Errorf("DB_MAX_OPEN_CONNS must be positive, got %d", c.DBMaxOpenConns))
	}
	if c.RateLimitEnabled && c.RateLimitPerMinute < 1 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive, got %d", c.RateLimitPerMinute))
	}
	return errors.Join(errs...)
}

func (c *Config) AuthEnabled() bool {
	return c.ClerkEnabled || c.JWTSecret != ""
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, "development")
}

// ResolveJWKSURL returns JWKS_URL when set, otherwise the Clerk instance JWKS
// endpoint derived from a publishable key of the form pk_<env>_<instance>.
func (c *Config) ResolveJWKSURL() string {
	if c.JWKSURL != "" {
		return c.JWKSURL
	}
	parts := strings.Split(c.ClerkPublishableKey, "_")
	if len(parts) < 3 || parts[2] == "" {
		return ""
	}
	return "https://" + parts[2] + ".clerk.accounts.dev/.well-known/jwks.json"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return n
}

func parseBool(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "true")
}
