package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr    string
	PostgresDSN string
	LogLevel    string

	TrustedManifestHost      string
	ManifestFetchTimeoutSecs int
	ManifestCacheTTLHours    int
	ManifestUserAgent        string

	SyncPolicyBundlePath string

	RateLimitRequests      int
	RateLimitWindowSeconds int
	RateLimitMaxKeys       int

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

func FromEnv() Config {
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return Config{
		HTTPAddr:                 addr,
		PostgresDSN:              os.Getenv("POSTGRES_DSN"),
		LogLevel:                 envDefault("LOG_LEVEL", "info"),
		TrustedManifestHost:      envDefault("MANIFEST_TRUSTED_HOST", "raw.githubusercontent.com"),
		ManifestFetchTimeoutSecs: envIntDefault("MANIFEST_FETCH_TIMEOUT_SECONDS", 10),
		ManifestCacheTTLHours:    envIntDefault("MANIFEST_CACHE_TTL_HOURS", 24),
		ManifestUserAgent:        envDefault("MANIFEST_USER_AGENT", "autoserve-hub/1.0"),
		SyncPolicyBundlePath:     os.Getenv("SYNC_POLICY_BUNDLE_PATH"),
		RateLimitRequests:        envIntDefault("RATE_LIMIT_REQUESTS", 0),
		RateLimitWindowSeconds:   envIntDefault("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitMaxKeys:         envIntDefault("RATE_LIMIT_MAX_KEYS", 10000),
		RedisAddr:                os.Getenv("REDIS_ADDR"),
		RedisPassword:            os.Getenv("REDIS_PASSWORD"),
		RedisDB:                  envIntDefault("REDIS_DB", 0),
	}
}

func envDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func envIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.Atoi(v)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func (c Config) ManifestFetchTimeout() time.Duration {
	if c.ManifestFetchTimeoutSecs <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.ManifestFetchTimeoutSecs) * time.Second
}

func (c Config) ManifestCacheTTL() time.Duration {
	if c.ManifestCacheTTLHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.ManifestCacheTTLHours) * time.Hour
}

func (c Config) RateLimitWindow() time.Duration {
	if c.RateLimitWindowSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(c.RateLimitWindowSeconds) * time.Second
}
