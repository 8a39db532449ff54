package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	DatabaseDSN string

	JWTSecret        string
	JWTExpiryMinutes int

	VerificationTTLHours int

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPFromName string
	SMTPUsername string
	SMTPPassword string

	// FrontendURL is the base for links embedded in outgoing emails.
	FrontendURL string

	R2AccountID   string
	R2AccessKeyID string
	R2SecretKey   string
	R2BucketName  string
	R2PublicURL   string

	AllowedOrigins []string // CORS allowed origins
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		DatabaseDSN: getEnv("DATABASE_DSN", "file:shop.db?cache=shared&_pragma=foreign_keys(1)"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTExpiryMinutes: getEnvInt("JWT_EXPIRY_MINUTES", 30),

		VerificationTTLHours: getEnvInt("VERIFICATION_TTL_HOURS", 24),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@example.com"),
		SMTPFromName: getEnv("SMTP_FROM_NAME", "Shop"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3001"),

		R2AccountID:   getEnv("R2_ACCOUNT_ID", ""),
		R2AccessKeyID: getEnv("R2_ACCESS_KEY_ID", ""),
		R2SecretKey:   getEnv("R2_SECRET_ACCESS_KEY", ""),
		R2BucketName:  getEnv("R2_BUCKET_NAME", ""),
		R2PublicURL:   getEnv("R2_PUBLIC_URL", ""),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

// EmailEnabled reports whether an SMTP host is configured. When it is not,
// new accounts are verified immediately instead of by email.
func (c *Config) EmailEnabled() bool {
	return c.SMTPHost != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
