package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gst-billing-backend/logger"
)

// Config is the process-wide configuration. Every field has a default applied in Load,
// except JWTSecret which must be provided.
type Config struct {
	// HTTP
	Port            string
	AllowedOrigins  string
	BodyLimitBytes  int
	RateLimitMax    int
	RateLimitWindow time.Duration

	// Database
	DatabaseDSN     string
	DBMaxOpenConns  int
	DBMaxIdleConns  int
	DBConnMaxLife   time.Duration
	DBSlowThreshold time.Duration

	// Auth
	JWTSecret []byte
	TokenTTL  time.Duration

	// Optional infrastructure; empty disables the integration.
	RedisAddress          string
	PubSubProjectID       string
	PubSubTopic           string
	PubSubCredentialsJSON string

	// Reminders
	ReminderInterval   time.Duration // 0 disables the background dispatcher
	ReminderWindowDays int

	// PhoneRegion is the default region used to parse customer mobile numbers.
	PhoneRegion string

	// Logging
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	bodyLimit := getEnvInt("BODY_LIMIT_BYTES", 0)
	if bodyLimit <= 0 {
		bodyLimit = getEnvInt("BODY_LIMIT_MB", 4) * 1024 * 1024
	}

	// Prefer JWT_SECRET_KEY, fallback to JWT_SECRET
	secret := strings.TrimSpace(os.Getenv("JWT_SECRET_KEY"))
	if secret == "" {
		secret = strings.TrimSpace(os.Getenv("JWT_SECRET"))
	}

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		AllowedOrigins:  getEnv("ALLOWED_ORIGINS", "*"),
		BodyLimitBytes:  bodyLimit,
		RateLimitMax:    getEnvInt("RATE_LIMIT_MAX", 60),
		RateLimitWindow: time.Duration(getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second,

		DatabaseDSN:     getEnv("DATABASE_DSN", buildDSN()),
		DBMaxOpenConns:  getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:  getEnvInt("DB_MAX_IDLE_CONNS", 10),
		DBConnMaxLife:   time.Duration(getEnvInt("DB_CONN_MAX_LIFETIME_SECONDS", 300)) * time.Second,
		DBSlowThreshold: time.Duration(getEnvInt("DB_SLOW_THRESHOLD_MS", 1000)) * time.Millisecond,

		JWTSecret: []byte(secret),
		TokenTTL:  time.Duration(getEnvInt("TOKEN_TTL_HOURS", 24)) * time.Hour,

		RedisAddress:          getEnv("REDIS_ADDRESS", ""),
		PubSubProjectID:       getEnv("PUBSUB_PROJECT_ID", getEnv("GOOGLE_CLOUD_PROJECT", "")),
		PubSubTopic:           getEnv("PUBSUB_TOPIC", ""),
		PubSubCredentialsJSON: getEnv("PUBSUB_CREDENTIALS_JSON", ""),

		ReminderInterval:   time.Duration(getEnvInt("REMINDER_INTERVAL_MINUTES", 60)) * time.Minute,
		ReminderWindowDays: getEnvInt("REMINDER_WINDOW_DAYS", 2),

		PhoneRegion: strings.ToUpper(getEnv("PHONE_REGION", "IN")),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "console"),
		LogTimeFormat: getEnv("LOG_TIME_FORMAT", time.RFC3339),
		LogOutput:     getEnv("LOG_OUTPUT", "stdout"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.JWTSecret) == 0 {
		return errors.New("JWT secret not configured (set JWT_SECRET_KEY or JWT_SECRET)")
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT must be numeric, got %q", c.Port)
	}
	if c.RateLimitMax <= 0 {
		return errors.New("RATE_LIMIT_MAX must be positive")
	}
	if c.ReminderWindowDays < 0 {
		return errors.New("REMINDER_WINDOW_DAYS must not be negative")
	}
	if c.PubSubTopic != "" && c.PubSubProjectID == "" {
		return errors.New("PUBSUB_TOPIC is set but PUBSUB_PROJECT_ID/GOOGLE_CLOUD_PROJECT is not")
	}
	return nil
}

// LoggerConfig returns the logger configuration from the main config
func (c *Config) LoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func buildDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		getEnv("DB_HOST", "db"),
		getEnv("DB_USER", "postgres"),
		os.Getenv("DB_PASSWORD"),
		getEnv("DB_NAME", "billing"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_SSLMODE", "disable"),
		getEnv("DB_TIMEZONE", "Asia/Kolkata"),
	)
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an int env var with a default fallback.
func getEnvInt(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
