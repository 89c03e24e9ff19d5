package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort     string
	DatabaseType   string
	DatabasePath   string
	DatabaseURL    string
	MigrationsPath string

	SessionDuration time.Duration
	SessionSecret   string

	AWSRegion    string
	SESFromEmail string
	SESFromName  string
	AppBaseURL   string
	EmailDebug   bool

	GoogleClientID       string
	GoogleClientSecret   string
	OAuthRedirectBaseURL string
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is loaded first when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env file: %v", err)
	}

	return &Config{
		ServerPort:     getEnv("PORT", "8080"),
		DatabaseType:   getEnv("DATABASE_TYPE", "sqlite"),
		DatabasePath:   getEnv("DB_PATH", "./eduaccess.db"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),

		SessionDuration: 24 * time.Hour,
		SessionSecret:   getEnv("SESSION_SECRET", "dev-only-secret"),

		AWSRegion:    getEnv("AWS_REGION", "eu-west-1"),
		SESFromEmail: getEnv("SES_FROM_EMAIL", ""),
		SESFromName:  getEnv("SES_FROM_NAME", "School Scheduling"),
		AppBaseURL:   getEnv("APP_BASE_URL", "http://localhost:8080"),
		EmailDebug:   getEnv("EMAIL_DEBUG", "") == "true",

		GoogleClientID:       getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:   getEnv("GOOGLE_CLIENT_SECRET", ""),
		OAuthRedirectBaseURL: getEnv("OAUTH_REDIRECT_BASE_URL", ""),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
