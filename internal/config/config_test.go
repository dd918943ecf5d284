package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv()

	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("expected default addr, got %q", cfg.HTTPAddr)
	}
	if cfg.TrustedManifestHost != "raw.githubusercontent.com" {
		t.Fatalf("unexpected trusted host %q", cfg.TrustedManifestHost)
	}
	if cfg.ManifestFetchTimeout() != 10*time.Second {
		t.Fatalf("expected 10s fetch timeout, got %v", cfg.ManifestFetchTimeout())
	}
	if cfg.ManifestCacheTTL() != 24*time.Hour {
		t.Fatalf("expected 24h cache ttl, got %v", cfg.ManifestCacheTTL())
	}
	if cfg.RateLimitRequests != 0 {
		t.Fatal("rate limiting must default to disabled")
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("MANIFEST_FETCH_TIMEOUT_SECONDS", "5")
	t.Setenv("MANIFEST_CACHE_TTL_HOURS", "1")
	t.Setenv("MANIFEST_TRUSTED_HOST", "manifests.internal")
	t.Setenv("RATE_LIMIT_REQUESTS", "30")

	cfg := FromEnv()
	if cfg.HTTPAddr != ":9090" {
		t.Fatalf("unexpected addr %q", cfg.HTTPAddr)
	}
	if cfg.ManifestFetchTimeout() != 5*time.Second {
		t.Fatalf("unexpected fetch timeout %v", cfg.ManifestFetchTimeout())
	}
	if cfg.ManifestCacheTTL() != time.Hour {
		t.Fatalf("unexpected cache ttl %v", cfg.ManifestCacheTTL())
	}
	if cfg.TrustedManifestHost != "manifests.internal" {
		t.Fatalf("unexpected trusted host %q", cfg.TrustedManifestHost)
	}
	if cfg.RateLimitRequests != 30 {
		t.Fatalf("unexpected rate limit %d", cfg.RateLimitRequests)
	}
}

func TestEnvIntDefaultRejectsGarbage(t *testing.T) {
	t.Setenv("MANIFEST_FETCH_TIMEOUT_SECONDS", "not-a-number")
	t.Setenv("MANIFEST_CACHE_TTL_HOURS", "-3")

	cfg := FromEnv()
	if cfg.ManifestFetchTimeout() != 10*time.Second {
		t.Fatalf("garbage timeout must fall back to default, got %v", cfg.ManifestFetchTimeout())
	}
	if cfg.ManifestCacheTTL() != 24*time.Hour {
		t.Fatalf("negative ttl must fall back to default, got %v", cfg.ManifestCacheTTL())
	}
}
