package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
	_ "time/tzdata" // APP_TIMEZONE must resolve in minimal images

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName      string
	AppEnv       string
	AppURL       string
	Port         string
	AppTagline   string
	ContentPath  string
	ContentWatch bool // Reload help content on change
	Timezone     string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Goals
	ReviewDelay         time.Duration // Simulated proof review duration
	DeadlineWarningDays int           // Deadlines this close trigger the "are you sure" warning
	ResultPageTTL       time.Duration // Result pages without a live stream are closed after this
	UploadRateLimit     int           // Proof uploads per minute per IP

	// Observability (optional)
	SentryDSN string

	// Storage (S3-compatible, optional: proofs are only logged without it)
	S3Region               string
	S3Bucket               string
	S3AccessKey            string
	S3SecretKey            string
	S3Endpoint             string        // Optional: for S3-compatible services (MinIO, DO Spaces, R2, etc.)
	S3PresignExpiryPrivate time.Duration // Expiry for archived proofs - default: 1 hour
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName:      envString("APP_NAME", "モチトモ"),
		AppEnv:       envRequired("APP_ENV"), // Required: 'development' or 'production'
		AppURL:       envString("APP_URL", "http://localhost:8090"),
		Port:         envString("PORT", "8090"),
		AppTagline:   envString("APP_TAGLINE", "ふたりで決めた目標を、ふたりで達成する"),
		ContentPath:  envString("CONTENT_PATH", "content"),
		ContentWatch: envBool("CONTENT_WATCH", envString("APP_ENV", "development") == "development"),
		Timezone:     envString("APP_TIMEZONE", "Asia/Tokyo"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/mochitomo.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		// Goals
		ReviewDelay:         envDuration("REVIEW_DELAY", 3*time.Second),
		DeadlineWarningDays: envInt("DEADLINE_WARNING_DAYS", 7),
		ResultPageTTL:       envDuration("RESULT_PAGE_TTL", 10*time.Minute),
		UploadRateLimit:     envInt("UPLOAD_RATE_LIMIT", 20),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Storage
		S3Region:               envString("S3_REGION", ""),
		S3Bucket:               envString("S3_BUCKET", ""),
		S3AccessKey:            envString("S3_ACCESS_KEY", ""),
		S3SecretKey:            envString("S3_SECRET_KEY", ""),
		S3Endpoint:             envString("S3_ENDPOINT", ""),
		S3PresignExpiryPrivate: envDuration("S3_PRESIGN_EXPIRY_PRIVATE", 1*time.Hour),
	}

	return cfg
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// HasStorage reports whether S3 proof archival is configured.
func (c *Config) HasStorage() bool {
	return c.S3Bucket != "" && c.S3Region != ""
}

// Location resolves the configured timezone, falling back to the local zone.
// Deadlines are calendar dates and are compared at midnight in this zone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		slog.Warn("config invalid timezone, using local", "timezone", c.Timezone, "error", err)
		return time.Local
	}
	return loc
}

// Sanitized returns a copy of the config with only public/safe fields.
// Safe to expose in ctx, templates and client-facing contexts.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName:    c.AppName,
		AppEnv:     c.AppEnv,
		AppURL:     c.AppURL,
		Port:       c.Port,
		AppTagline: c.AppTagline,
		Timezone:   c.Timezone,

		DeadlineWarningDays: c.DeadlineWarningDays,

		S3Endpoint: c.S3Endpoint, // Needed for CSP policies
	}
}
