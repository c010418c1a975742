package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Database Configuration
	Database DatabaseConfig

	// Redis Configuration
	Redis RedisConfig

	// Logging Configuration
	Logging LoggingConfig

	// HTTP Configuration
	HTTP HTTPConfig

	// Authentication Configuration
	Auth AuthConfig

	// Uploads Configuration
	Uploads UploadsConfig

	// Mail Configuration
	Mail MailConfig

	// Worker Configuration
	Worker WorkerConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Address string // Redis address (host:port)
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // json, console
}

// HTTPConfig holds the API listener configuration
type HTTPConfig struct {
	Address     string
	CORSOrigins []string
}

// AuthConfig holds token and account policy settings
type AuthConfig struct {
	JWTSecret                string
	TokenTTL                 time.Duration
	InternalAPIKey           string
	RequireEmailVerification bool
	VerificationCodeTTL      time.Duration
	ResendLimit              int
	ResendWindow             time.Duration
	AdminEmail               string
	AdminPassword            string
}

// UploadsConfig holds the directories for uploaded files
type UploadsConfig struct {
	ProfilePicturesDir string
	CVDir              string
}

// MailConfig holds SMTP settings. An empty Address disables delivery.
type MailConfig struct {
	Address  string
	User     string
	Password string
	From     string
}

// WorkerConfig holds background job settings
type WorkerConfig struct {
	CleanupSchedule string // Cron expression
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	tokenTTL, err := envMinutes("ACCESS_TOKEN_EXPIRE_MINUTES", 30)
	if err != nil {
		return nil, err
	}

	codeTTL, err := envMinutes("VERIFICATION_CODE_EXPIRE_MINUTES", 15)
	if err != nil {
		return nil, err
	}

	resendWindow, err := envMinutes("RESEND_VERIFICATION_WINDOW_MINUTES", 15)
	if err != nil {
		return nil, err
	}

	resendLimit, err := envInt("RESEND_VERIFICATION_LIMIT", 3)
	if err != nil {
		return nil, err
	}

	requireVerification, err := envBool("REQUIRE_EMAIL_VERIFICATION", false)
	if err != nil {
		return nil, err
	}

	jwtSecret := os.Getenv("SECRET_KEY")
	if jwtSecret == "" {
		return nil, fmt.Errorf("SECRET_KEY is required")
	}

	return &Config{
		Database: DatabaseConfig{
			URL: envOr("DATABASE_URL", "talentfit.sqlite"),
		},
		Redis: RedisConfig{
			Address: envOr("REDIS_ADDRESS", "localhost:6379"),
		},
		Logging: LoggingConfig{
			Level:  envOr("LOG_LEVEL", "info"),
			Format: envOr("LOG_FORMAT", "json"),
		},
		HTTP: HTTPConfig{
			Address:     envOr("HTTP_ADDRESS", ":8000"),
			CORSOrigins: splitList(envOr("CORS_ORIGINS", "http://localhost:4200")),
		},
		Auth: AuthConfig{
			JWTSecret:                jwtSecret,
			TokenTTL:                 tokenTTL,
			InternalAPIKey:           os.Getenv("INTERNAL_SERVICE_API_KEY"),
			RequireEmailVerification: requireVerification,
			VerificationCodeTTL:      codeTTL,
			ResendLimit:              resendLimit,
			ResendWindow:             resendWindow,
			AdminEmail:               os.Getenv("ADMIN_EMAIL"),
			AdminPassword:            os.Getenv("ADMIN_PASSWORD"),
		},
		Uploads: UploadsConfig{
			ProfilePicturesDir: envOr("PROFILE_PICTURES_DIR", "profile_pictures"),
			CVDir:              envOr("UPLOADED_CVS_DIR", "uploaded_cvs"),
		},
		Mail: MailConfig{
			Address:  os.Getenv("SMTP_ADDR"),
			User:     os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     envOr("SMTP_FROM", os.Getenv("SMTP_USER")),
		},
		Worker: WorkerConfig{
			CleanupSchedule: envOr("CLEANUP_SCHEDULE", "*/10 * * * *"),
		},
	}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func envMinutes(key string, fallback int) (time.Duration, error) {
	n, err := envInt(key, fallback)
	if err != nil {
		return 0, err
	}
	return time.Duration(n) * time.Minute, nil
}

func envBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
