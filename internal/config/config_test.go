package config

import (
	"testing"
	"time"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"HTTP_ADDR", "DB_MAX_CONNS", "LIST_MAX_LIMIT", "CORS_ORIGINS", "REDIS_ADDR", "CACHE_TTL_SECONDS", "AWS_REGION"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("expected default addr, got %q", cfg.HTTPAddr)
	}
	if cfg.ListMaxLimit != 100 || cfg.DBMaxConns != 10 {
		t.Fatalf("unexpected numeric defaults %+v", cfg)
	}
	if cfg.CORSOrigins != nil || cfg.Redis.Addr != "" {
		t.Fatalf("expected optional features disabled, got %+v", cfg)
	}
	if cfg.Redis.TTL != 5*time.Minute {
		t.Fatalf("expected 5m cache ttl, got %s", cfg.Redis.TTL)
	}
	if cfg.Storage.Region != "us-east-1" {
		t.Fatalf("expected default region, got %q", cfg.Storage.Region)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("LIST_MAX_LIMIT", "50")
	t.Setenv("DB_MAX_CONNS", "not-a-number")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "3")
	t.Setenv("AWS_BUCKET_NAME", "catalog-images")

	cfg := FromEnv()
	if cfg.ListMaxLimit != 50 {
		t.Fatalf("expected limit override, got %d", cfg.ListMaxLimit)
	}
	if cfg.DBMaxConns != 10 {
		t.Fatalf("expected invalid int to fall back, got %d", cfg.DBMaxConns)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins %v", cfg.CORSOrigins)
	}
	if cfg.RequestTimeout != 3*time.Second {
		t.Fatalf("expected 3s timeout, got %s", cfg.RequestTimeout)
	}
	if cfg.Storage.Bucket != "catalog-images" {
		t.Fatalf("unexpected bucket %q", cfg.Storage.Bucket)
	}
}
