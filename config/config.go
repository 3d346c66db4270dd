package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ithomeportal/unilink-energy/internal/logging"
)

type Config struct {
	Port        string
	Env         string
	LogLevel    string
	FrontendURL string
	LoginPath   string

	JWTSecret        string
	SessionDuration  time.Duration
	SitePassword     string
	SitePasswordHash string
	CodeTTL          time.Duration
	MaxCodeAttempts  int
	SweepInterval    time.Duration
	SweepGrace       time.Duration

	CacheTTL        time.Duration
	PolicyStartDate time.Time

	StoreDriver     string
	DatabaseURL     string
	QueryTimeout    time.Duration
	MongoDBURI      string
	MongoDBDatabase string

	MailProvider       string
	MailFrom           string
	NotificationEmail  string
	MailTimeout        time.Duration
	ResendAPIKey       string
	GoogleClientID     string
	GoogleClientSecret string
	GmailRefreshToken  string
}

func Load() *Config {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log := logging.L()
		log.Debug().Msg("no .env file found, using environment variables")
	}

	policyStart, err := time.Parse("2006-01-02", getEnv("POLICY_START_DATE", "2025-03-01"))
	if err != nil {
		policyStart = time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		LoginPath:   getEnv("LOGIN_PATH", "/login"),

		JWTSecret:        getEnv("JWT_SECRET", "default-secret-change-in-production"),
		SessionDuration:  getDuration("SESSION_DURATION", 8*time.Hour),
		SitePassword:     getEnv("SITE_PASSWORD", ""),
		SitePasswordHash: getEnv("SITE_PASSWORD_HASH", ""),
		CodeTTL:          getDuration("CODE_TTL", 10*time.Minute),
		MaxCodeAttempts:  getInt("MAX_CODE_ATTEMPTS", 3),
		SweepInterval:    getDuration("ATTEMPT_SWEEP_INTERVAL", 5*time.Minute),
		SweepGrace:       getDuration("ATTEMPT_SWEEP_GRACE", 24*time.Hour),

		CacheTTL:        getDuration("CACHE_TTL", time.Hour),
		PolicyStartDate: policyStart,

		StoreDriver:     strings.ToLower(getEnv("STORE_DRIVER", "postgres")),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		QueryTimeout:    getDuration("DATABASE_QUERY_TIMEOUT", 15*time.Second),
		MongoDBURI:      getEnv("MONGODB_URI", ""),
		MongoDBDatabase: getEnv("MONGODB_DATABASE", "carbonportal"),

		MailProvider:       strings.ToLower(getEnv("MAIL_PROVIDER", "resend")),
		MailFrom:           getEnv("MAIL_FROM", "noreply@unilinkportal.com"),
		NotificationEmail:  getEnv("NOTIFICATION_EMAIL", "ithome@unilinkportal.com"),
		MailTimeout:        getDuration("MAIL_TIMEOUT", 10*time.Second),
		ResendAPIKey:       getEnv("RESEND_API_KEY", ""),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GmailRefreshToken:  getEnv("GMAIL_REFRESH_TOKEN", ""),
	}
}

// IsProduction controls the Secure cookie flag and gin's release mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration falls back to defaultValue for unparsable and non-positive
// values; every duration setting is a timeout, TTL or interval.
func getDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

func getInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return n
}
