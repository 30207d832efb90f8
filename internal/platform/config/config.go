package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers selectable with STORE_DRIVER.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverBolt     = "bolt"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	StoreDriver    string
	BoltPath       string
	MigrationsPath string

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string
	AuthCookieName    string

	// Approval links
	BaseURL          string
	ApprovalTokenTTL time.Duration

	// Outbound mail
	SendGridAPIKey string
	MailFrom       string
	MailFromName   string

	// External OAuth Providers
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	FrontendBaseURL    string

	PosthogAPIKey string

	// Rate limits in ulule/limiter formatted notation, e.g. "30-M".
	ReviewRateLimit string
	LoginRateLimit  string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("STORE_DRIVER", StoreDriverPostgres)
	v.SetDefault("BOLT_PATH", "expenses.db")
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_EXPIRY_DURATION", "8h")
	v.SetDefault("JWT_ISSUER", "expense-approval-app")
	v.SetDefault("AUTH_COOKIE_NAME", "access_token")
	v.SetDefault("BASE_URL", "http://localhost:8080")
	v.SetDefault("APPROVAL_TOKEN_TTL", "24h")
	v.SetDefault("SENDGRID_API_KEY", "")
	v.SetDefault("MAIL_FROM", "")
	v.SetDefault("MAIL_FROM_NAME", "Expense Approvals")
	v.SetDefault("GOOGLE_CLIENT_ID", "")
	v.SetDefault("GOOGLE_CLIENT_SECRET", "")
	v.SetDefault("GOOGLE_REDIRECT_URL", "")
	v.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")
	v.SetDefault("POSTHOG_API_KEY", "")
	v.SetDefault("REVIEW_RATE_LIMIT", "30-M")
	v.SetDefault("LOGIN_RATE_LIMIT", "5-M")
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{
		DatabaseURL:        v.GetString("PGSQL_URL"),
		Port:               v.GetString("PORT"),
		IsProduction:       v.GetBool("IS_PRODUCTION"),
		StoreDriver:        strings.ToLower(v.GetString("STORE_DRIVER")),
		BoltPath:           v.GetString("BOLT_PATH"),
		MigrationsPath:     v.GetString("MIGRATIONS_PATH"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		JWTIssuer:          v.GetString("JWT_ISSUER"),
		AuthCookieName:     v.GetString("AUTH_COOKIE_NAME"),
		BaseURL:            strings.TrimRight(v.GetString("BASE_URL"), "/"),
		SendGridAPIKey:     v.GetString("SENDGRID_API_KEY"),
		MailFrom:           v.GetString("MAIL_FROM"),
		MailFromName:       v.GetString("MAIL_FROM_NAME"),
		GoogleClientID:     v.GetString("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  v.GetString("GOOGLE_REDIRECT_URL"),
		FrontendBaseURL:    v.GetString("FRONTEND_BASE_URL"),
		PosthogAPIKey:      v.GetString("POSTHOG_API_KEY"),
		ReviewRateLimit:    v.GetString("REVIEW_RATE_LIMIT"),
		LoginRateLimit:     v.GetString("LOGIN_RATE_LIMIT"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	switch cfg.StoreDriver {
	case StoreDriverPostgres:
		if cfg.DatabaseURL == "" {
			log.Println("Warning: PGSQL_URL environment variable not set.")
		}
	case StoreDriverBolt:
	default:
		log.Printf("Warning: Unknown STORE_DRIVER ('%s'). Defaulting to %s.\n", cfg.StoreDriver, StoreDriverPostgres)
		cfg.StoreDriver = StoreDriverPostgres
	}

	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		cfg.JWTSecret = defaultJWTSecret // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.JWTExpiryDuration = parseDuration(v, "JWT_EXPIRY_DURATION", 8*time.Hour)
	cfg.ApprovalTokenTTL = parseDuration(v, "APPROVAL_TOKEN_TTL", 24*time.Hour)

	if cfg.SendGridAPIKey == "" {
		log.Println("Warning: SENDGRID_API_KEY not set. Approval emails will not be delivered.")
	}
	if cfg.GoogleClientID == "" {
		log.Println("Warning: GOOGLE_CLIENT_ID not set. Google sign-in will not function.")
	}

	return cfg
}

// parseDuration reads a Go duration string, falling back to def when it is missing, invalid or not positive.
func parseDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def.String())
		}
		return def
	}
	return d
}
