package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Placeholder mail credentials used when EMAIL_USER / EMAIL_PASS are unset.
// They let the server boot locally; nothing can actually be delivered with them.
const (
	PlaceholderEmailUser = "your-app@gmail.com"
	PlaceholderEmailPass = "your-app-password"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	StoreBackend  string // "dynamo" | "redis" | "memory"
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MailProvider  string // "smtp" | "resend" | "log"
	SMTPHost      string
	SMTPPort      string
	EmailUser     string // sender address, doubles as SMTP username
	EmailPass     string
	EmailFromName string
	ResendAPIKey  string

	CodeTTL         time.Duration
	CleanupInterval time.Duration
	CleanupEnabled  bool

	AllowedOrigins []string // CORS allowed origins
	RateLimitRPS   float64
	RateLimitBurst int
	TrustProxy     bool // key the rate limiter on X-Forwarded-For / X-Real-Ip
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users             string
	VerificationCodes string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users:             getEnv("DYNAMO_TABLE_USERS", "users"),
			VerificationCodes: getEnv("DYNAMO_TABLE_VERIFICATION_CODES", "verificationCodes"),
		},

		StoreBackend:  strings.ToLower(getEnv("STORE_BACKEND", "dynamo")),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASS", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		MailProvider:  strings.ToLower(getEnv("MAIL_PROVIDER", "smtp")),
		SMTPHost:      getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		EmailUser:     getEnv("EMAIL_USER", PlaceholderEmailUser),
		EmailPass:     getEnv("EMAIL_PASS", PlaceholderEmailPass),
		EmailFromName: getEnv("EMAIL_FROM_NAME", "Your App"),
		ResendAPIKey:  getEnv("RESEND_API_KEY", ""),

		CodeTTL:         getEnvDuration("CODE_TTL", 10*time.Minute),
		CleanupInterval: getEnvDuration("CLEANUP_INTERVAL", 24*time.Hour),
		CleanupEnabled:  getEnvBool("CLEANUP_ENABLED", true),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 10),
		TrustProxy:     getEnvBool("TRUST_PROXY", false),
	}
}

// UsesPlaceholderMailCredentials reports whether the mail credentials fell back to placeholders.
func (c *Config) UsesPlaceholderMailCredentials() bool {
	return c.EmailUser == PlaceholderEmailUser || c.EmailPass == PlaceholderEmailPass
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

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
