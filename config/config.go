package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	OAuth      OAuthConfig
	Cloudinary CloudinaryConfig
	Firebase   FirebaseConfig
	PayChangu  PayChanguConfig
	Jobs       JobsConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

type OAuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

type FirebaseConfig struct {
	ServiceAccountPath string
}

// PayChanguConfig for mobile money collections (TNM Mpamba / Airtel Money STK)
// and disbursements via the PayChangu aggregator API.
type PayChanguConfig struct {
	BaseURL        string
	SecretKey      string
	WebhookSecret  string // HMAC-SHA256 key for callback signatures
	WebhookBaseURL string // e.g. https://api.payfesa.com - callback will be WebhookBaseURL + /api/v1/webhooks/payment
}

type JobsConfig struct {
	// ContributionDeadline is how long a PENDING contribution may stay unpaid
	// before the missed-contribution job marks it MISSED.
	ContributionDeadline time.Duration
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getenv("PORT", "8088"),
			Env:          getenv("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             getenv("DATABASE_DSN", "payfesa:payfesa@tcp(localhost:3306)/payfesa?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret:  getenv("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: getenv("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "payfesa",
		},
		OAuth: OAuthConfig{
			GoogleClientID:     getenv("GOOGLE_CLIENT_ID", ""),
			GoogleClientSecret: getenv("GOOGLE_CLIENT_SECRET", ""),
			GoogleRedirectURL:  getenv("GOOGLE_REDIRECT_URL", "https://app.payfesa.com/api/v1/auth/google/callback"),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: getenv("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:    getenv("CLOUDINARY_API_KEY", ""),
			APISecret: getenv("CLOUDINARY_API_SECRET", ""),
		},
		Firebase: FirebaseConfig{
			ServiceAccountPath: getenv("FIREBASE_SERVICE_ACCOUNT_PATH", ""),
		},
		PayChangu: PayChanguConfig{
			BaseURL:        getenv("PAYCHANGU_BASE_URL", "https://api.paychangu.com"),
			SecretKey:      getenv("PAYCHANGU_SECRET_KEY", ""),
			WebhookSecret:  getenv("PAYCHANGU_WEBHOOK_SECRET", ""),
			WebhookBaseURL: getenv("PAYMENT_WEBHOOK_BASE_URL", "https://api.payfesa.com"),
		},
		Jobs: JobsConfig{
			ContributionDeadline: time.Duration(getenvInt("CONTRIBUTION_DEADLINE_HOURS", 72)) * time.Hour,
		},
	}
}
