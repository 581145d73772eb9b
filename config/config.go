package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port   string
	AppEnv string

	DBDriver   string // postgres or sqlite
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string
	SQLitePath string

	JWTKey    string
	JWTTTL    time.Duration
	SaltRound int

	FrontendURL       string
	CertificatePrefix string

	EmailSender     string
	EmailSenderName string
	SendGridAPIKey  string

	NotifyWebhookURL   string
	RedisURL           string
	NotifyWorkers      int
	NotifyQueueSize    int
	NotifyMaxRetries   int
	NotifyRetryBackoff time.Duration

	ReconcileSchedule     string
	ReconcileLookbackDays int

	LogMode string
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:   getEnv("PORT", "5000"),
		AppEnv: getEnv("APP_ENV", "development"),

		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "career_reach_hub"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "career_reach_hub.db"),

		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		JWTTTL:    getEnvDuration("JWT_TTL", 24*time.Hour),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		FrontendURL:       getEnv("FRONTEND_URL", "http://localhost:3000"),
		CertificatePrefix: getEnv("CERTIFICATE_PREFIX", "CRH"),

		EmailSender:     getEnv("EMAIL_SENDER", "no-reply@careerreachhub.com"),
		EmailSenderName: getEnv("EMAIL_SENDER_NAME", "Career Reach Hub"),
		SendGridAPIKey:  getEnv("SENDGRID_API_KEY", ""),

		NotifyWebhookURL:   getEnv("NOTIFY_WEBHOOK_URL", ""),
		RedisURL:           getEnv("REDIS_URL", ""),
		NotifyWorkers:      getEnvInt("NOTIFY_WORKERS", 4),
		NotifyQueueSize:    getEnvInt("NOTIFY_QUEUE_SIZE", 256),
		NotifyMaxRetries:   getEnvInt("NOTIFY_MAX_RETRIES", 3),
		NotifyRetryBackoff: getEnvDuration("NOTIFY_RETRY_BACKOFF", 2*time.Second),

		ReconcileSchedule:     getEnv("RECONCILE_SCHEDULE", "*/15 * * * *"),
		ReconcileLookbackDays: getEnvInt("RECONCILE_LOOKBACK_DAYS", 7),

		LogMode: getEnv("LOG_MODE", "development"),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.DBDriver != "postgres" && AppConfig.DBDriver != "sqlite" {
		log.Printf("Warning: unknown DB_DRIVER %q, falling back to postgres.", AppConfig.DBDriver)
		AppConfig.DBDriver = "postgres"
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

// getEnvDuration parses values such as "30s" or "24h"
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to duration: %v", key, err)
		return defaultValue
	}
	return d
}
