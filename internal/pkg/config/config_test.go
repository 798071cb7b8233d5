package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Fatalf("expected port 8080, got %q", cfg.Port)
	}
	if cfg.Session.Lifetime != 5*time.Minute {
		t.Fatalf("expected 5m session lifetime, got %v", cfg.Session.Lifetime)
	}
	if len(cfg.HTTP.CORSOrigins) != 1 || cfg.HTTP.CORSOrigins[0] != "*" {
		t.Fatalf("expected CORS for all origins, got %v", cfg.HTTP.CORSOrigins)
	}
	if cfg.Mongo.Database != "secureapp" || cfg.Mongo.Transactions {
		t.Fatalf("unexpected mongo defaults: %+v", cfg.Mongo)
	}
	if cfg.Audit.Workers != 4 {
		t.Fatalf("expected 4 audit workers, got %d", cfg.Audit.Workers)
	}
	if cfg.SecretKey != devSecret {
		t.Fatalf("expected development secret, got %q", cfg.SecretKey)
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"SECRET_KEY":         "s3cret",
		"SESSION_LIFETIME":   "90s",
		"CORS_ORIGINS":       "https://a.example,https://b.example",
		"MONGO_TRANSACTIONS": "true",
		"REDIS_DB":           "2",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.SecretKey != "s3cret" {
		t.Fatalf("expected secret override, got %q", cfg.SecretKey)
	}
	if cfg.Session.Lifetime != 90*time.Second {
		t.Fatalf("expected 90s, got %v", cfg.Session.Lifetime)
	}
	if len(cfg.HTTP.CORSOrigins) != 2 {
		t.Fatalf("expected 2 origins, got %v", cfg.HTTP.CORSOrigins)
	}
	if !cfg.Mongo.Transactions || cfg.Redis.DB != 2 {
		t.Fatalf("unexpected overrides: %+v %+v", cfg.Mongo, cfg.Redis)
	}
}

func TestLoadFrom_ProductionRequiresSecret(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{"ENV": "production"}))
	if err == nil {
		t.Fatal("expected an error without SECRET_KEY in production")
	}
}

func TestLoadFrom_RejectsNonPositiveLifetime(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{"SESSION_LIFETIME": "0s"}))
	if err == nil {
		t.Fatal("expected an error for a zero session lifetime")
	}
}
