package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	for _, key := range []string{"REVIEW_DELAY", "DEADLINE_WARNING_DAYS", "RESULT_PAGE_TTL", "APP_TIMEZONE", "CONTENT_WATCH", "S3_BUCKET", "S3_REGION"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.ReviewDelay != 3*time.Second {
		t.Errorf("ReviewDelay = %v, want 3s", cfg.ReviewDelay)
	}
	if cfg.DeadlineWarningDays != 7 {
		t.Errorf("DeadlineWarningDays = %d, want 7", cfg.DeadlineWarningDays)
	}
	if cfg.Timezone != "Asia/Tokyo" {
		t.Errorf("Timezone = %q", cfg.Timezone)
	}
	if !cfg.ContentWatch {
		t.Error("ContentWatch = false, want true in development")
	}
	if cfg.HasStorage() {
		t.Error("HasStorage() = true without a bucket")
	}
	if !cfg.IsDevelopment() || cfg.IsProduction() {
		t.Errorf("env helpers disagree for %q", cfg.AppEnv)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("REVIEW_DELAY", "250ms")
	t.Setenv("DEADLINE_WARNING_DAYS", "3")
	t.Setenv("UPLOAD_RATE_LIMIT", "not-a-number")
	t.Setenv("CONTENT_WATCH", "")
	t.Setenv("S3_BUCKET", "proofs")
	t.Setenv("S3_REGION", "ap-northeast-1")

	cfg := Load()

	if cfg.ReviewDelay != 250*time.Millisecond {
		t.Errorf("ReviewDelay = %v", cfg.ReviewDelay)
	}
	if cfg.DeadlineWarningDays != 3 {
		t.Errorf("DeadlineWarningDays = %d", cfg.DeadlineWarningDays)
	}
	if cfg.UploadRateLimit != 20 {
		t.Errorf("UploadRateLimit = %d, want the default for an invalid value", cfg.UploadRateLimit)
	}
	if cfg.ContentWatch {
		t.Error("ContentWatch = true, want false in production")
	}
	if !cfg.HasStorage() {
		t.Error("HasStorage() = false with bucket and region set")
	}
}

func TestLocation(t *testing.T) {
	cfg := &Config{Timezone: "Asia/Tokyo"}
	loc := cfg.Location()
	if _, offset := time.Date(2026, 1, 1, 0, 0, 0, 0, loc).Zone(); offset != 9*60*60 {
		t.Errorf("offset = %d, want +9h", offset)
	}

	cfg.Timezone = "Nowhere/Invalid"
	if cfg.Location() != time.Local {
		t.Error("invalid timezone should fall back to time.Local")
	}
}

func TestSanitized(t *testing.T) {
	cfg := &Config{AppName: "モチトモ", S3SecretKey: "secret", S3AccessKey: "key", SentryDSN: "dsn", DBConnection: "db"}
	safe := cfg.Sanitized()

	if safe.AppName != "モチトモ" {
		t.Errorf("AppName = %q", safe.AppName)
	}
	if safe.S3SecretKey != "" || safe.S3AccessKey != "" || safe.SentryDSN != "" || safe.DBConnection != "" {
		t.Errorf("sanitized config leaks secrets: %+v", safe)
	}
}
