package utils

import (
	"os"
	"strings"
)

// EnvOrDefault returns the env value or the fallback default.
func EnvOrDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// IsProduction reports whether the app runs in production mode; error
// payloads only include internal detail outside production.
func IsProduction() bool {
	env := strings.ToLower(EnvOrDefault("APP_ENV", ""))
	return env == "production" || os.Getenv("GIN_MODE") == "release"
}
