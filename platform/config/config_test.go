package config

import (
	"testing"
	"time"
)

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is empty")
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/kam")
	t.Setenv("CALL_PLANNING_TIMEZONE", "Asia/Kolkata")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected config to load, got %v", err)
	}

	if cfg.GetAsynqQueueName() != "default" {
		t.Fatalf("expected default queue, got %q", cfg.GetAsynqQueueName())
	}
	if cfg.GetLeadLockTTL() != 10*time.Second {
		t.Fatalf("expected 10s lock ttl, got %s", cfg.GetLeadLockTTL())
	}
	if cfg.GetCallPlanningLocation().String() != "Asia/Kolkata" {
		t.Fatalf("expected Asia/Kolkata planning zone, got %s", cfg.GetCallPlanningLocation())
	}
	if cfg.GetDefaultPhoneRegion() != "IN" {
		t.Fatalf("expected IN phone region, got %q", cfg.GetDefaultPhoneRegion())
	}
}

func TestLoadRejectsUnknownPlanningZone(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/kam")
	t.Setenv("CALL_PLANNING_TIMEZONE", "Mars/Olympus")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown planning timezone")
	}
}

func TestLoadRejectsWildcardCORSWithCredentials(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/kam")
	t.Setenv("CALL_PLANNING_TIMEZONE", "UTC")
	t.Setenv("CORS_ORIGINS", "*")
	t.Setenv("CORS_ALLOW_CREDENTIALS", "true")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for wildcard CORS with credentials")
	}
}
