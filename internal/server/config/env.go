package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// loadEnvFile loads KEY=VALUE pairs from path into the process environment.
// Variables that are already set win; a missing file is not an error.
func loadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// parseEnv overlays values from environment variables. Unset or empty
// variables leave the current value alone.
func parseEnv(c *Config, lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		return v, ok && v != ""
	}

	strs := []struct {
		key string
		dst *string
	}{
		{"HTTP_ADDR", &c.HTTPAddr},
		{"GRPC_ADDR", &c.GRPCAddr},
		{"CORS_ALLOWED_ORIGINS", &c.CORSAllowedOrigins},
		{"CLERK_JWT_PUBLIC_KEY", &c.ClerkJWTPublicKey},
		{"CLERK_JWT_PUBLIC_KEY_FILE", &c.ClerkJWTPublicKeyFile},
		{"DATABASE_DRIVER", &c.DatabaseDriver},
		{"DATABASE_HOST", &c.DatabaseHost},
		{"DATABASE_USERNAME", &c.DatabaseUsername},
		{"DATABASE_PASSWORD", &c.DatabasePassword},
		{"DATABASE_NAME", &c.DatabaseName},
		{"LOG_LEVEL", &c.LogLevel},
	}
	for _, s := range strs {
		if v, ok := get(s.key); ok {
			*s.dst = v
		}
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{"DATABASE_TLS", &c.DatabaseTLS},
		{"RUN_MIGRATIONS", &c.RunMigrations},
	}
	for _, b := range bools {
		if v, ok := get(b.key); ok {
			parsed, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s: %w", b.key, err)
			}
			*b.dst = parsed
		}
	}

	if v, ok := get("SESSION_LEEWAY"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SESSION_LEEWAY: %w", err)
		}
		c.SessionLeeway = d
	}

	return nil
}
