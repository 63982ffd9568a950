package server

import (
	"os"
	"strconv"
)

// Config holds the HTTP service settings.
type Config struct {
	Addr          string
	MaxBodyBytes  int64
	StrictAtRules bool
}

// Load reads configuration from FLATCSS_* environment variables.
func Load() Config {
	return Config{
		Addr:          envOr("FLATCSS_ADDR", ":8080"),
		MaxBodyBytes:  envInt64("FLATCSS_MAX_BODY_BYTES", 1<<20),
		StrictAtRules: envBool("FLATCSS_STRICT_AT_RULES", false),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
