package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("DOCTOR_NAME", "")
	t.Setenv("WORKER_COUNT", "")
	t.Setenv("DEDUP_TTL", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.DoctorName != "" {
		t.Fatalf("expected default doctor empty, got %s", cfg.DoctorName)
	}
	if cfg.ClinicTimezone != "America/New_York" {
		t.Fatalf("expected default timezone, got %s", cfg.ClinicTimezone)
	}
	if cfg.WorkerCount != 1 {
		t.Fatalf("expected single worker by default, got %d", cfg.WorkerCount)
	}
	if cfg.DedupTTL != 72*time.Hour {
		t.Fatalf("expected default dedup ttl, got %s", cfg.DedupTTL)
	}
	if cfg.GeminiModel != "gemini-2.5-flash" {
		t.Fatalf("expected default gemini model, got %s", cfg.GeminiModel)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DOCTOR_NAME", "Dr. Amanda Reyes")
	t.Setenv("DATABASE_URL", "postgres://user@host/db")
	t.Setenv("AVAILABILITY_PROVIDER", "CSV")
	t.Setenv("AVAILABILITY_CSV_PATH", "/var/clinic/availability.csv")
	t.Setenv("USE_MEMORY_QUEUE", "true")
	t.Setenv("WORKER_COUNT", "3")
	t.Setenv("DEDUP_TTL", "48h")
	t.Setenv("MAIL_PROVIDER", "SendGrid")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.Env != "production" {
		t.Fatalf("expected env override, got %s", cfg.Env)
	}
	if cfg.DoctorName != "Dr. Amanda Reyes" {
		t.Fatalf("expected doctor override, got %s", cfg.DoctorName)
	}
	if cfg.DatabaseURL != "postgres://user@host/db" {
		t.Fatalf("expected db override, got %s", cfg.DatabaseURL)
	}
	if cfg.AvailabilityProvider != "csv" {
		t.Fatalf("expected provider lowered, got %s", cfg.AvailabilityProvider)
	}
	if cfg.AvailabilityCSVPath != "/var/clinic/availability.csv" {
		t.Fatalf("expected csv path override, got %s", cfg.AvailabilityCSVPath)
	}
	if !cfg.UseMemoryQueue {
		t.Fatalf("expected memory queue enabled")
	}
	if cfg.WorkerCount != 3 {
		t.Fatalf("expected worker count override, got %d", cfg.WorkerCount)
	}
	if cfg.DedupTTL != 48*time.Hour {
		t.Fatalf("expected dedup ttl override, got %s", cfg.DedupTTL)
	}
	if cfg.MailProvider != "sendgrid" {
		t.Fatalf("expected mail provider lowered, got %s", cfg.MailProvider)
	}
}
