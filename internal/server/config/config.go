// Package config handles configuration for the server, layering defaults,
// an optional JSON file, environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/saolsen/gameplay-computer/internal/flagx"
)

// Config holds runtime settings for the server.
//
// Fields:
//   - HTTPAddr / GRPCAddr: bind addresses for the public endpoints.
//   - CORSAllowedOrigins: comma-separated list of browser origins.
//   - ClerkJWTPublicKey: PEM-encoded RS256 public key that verifies session tokens.
//   - SessionLeeway: clock skew tolerated when checking exp/nbf/iat.
//   - Database*: connection settings for the hosted database.
//   - RunMigrations: apply embedded schema migrations on startup.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	HTTPAddr              string
	GRPCAddr              string
	CORSAllowedOrigins    string
	ClerkJWTPublicKey     string
	// ClerkJWTPublicKeyFile is read into ClerkJWTPublicKey when set.
	ClerkJWTPublicKeyFile string
	SessionLeeway         time.Duration
	DatabaseDriver        string
	DatabaseHost          string
	DatabaseUsername      string
	DatabasePassword      string
	DatabaseName          string
	DatabaseTLS           bool
	RunMigrations         bool
	LogLevel              string
}

// LoadDefaults populates Config with development defaults.
// The public key has no default and must always be supplied.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":8080"
	c.GRPCAddr = ":50051"
	c.CORSAllowedOrigins = "http://localhost:4321"
	c.SessionLeeway = 0
	c.DatabaseDriver = "postgres"
	c.DatabaseHost = "localhost:5432"
	c.DatabaseUsername = "postgres"
	c.DatabasePassword = "postgres"
	c.DatabaseName = "gameplay"
	c.DatabaseTLS = false
	c.RunMigrations = false
	c.LogLevel = "info"
}

// LoadConfig builds a Config from defaults, then the JSON file named by -c,
// then the environment (including a .env file, if present), then flags.
// args are the command-line arguments without the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJSON(cfg, flagx.ConfigFileFlag(args)); err != nil {
		return nil, fmt.Errorf("json config: %w", err)
	}

	if err := loadEnvFile(".env"); err != nil {
		return nil, fmt.Errorf("env file: %w", err)
	}
	if err := parseEnv(cfg, os.LookupEnv); err != nil {
		return nil, fmt.Errorf("env config: %w", err)
	}

	if err := parseFlags(cfg, args); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}

	if cfg.ClerkJWTPublicKeyFile != "" {
		pem, err := os.ReadFile(cfg.ClerkJWTPublicKeyFile)
		if err != nil {
			return nil, fmt.Errorf("public key file: %w", err)
		}
		cfg.ClerkJWTPublicKey = string(pem)
	}
	cfg.ClerkJWTPublicKey = normalizePEM(cfg.ClerkJWTPublicKey)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the settings the process cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.ClerkJWTPublicKey == "" {
		errs = append(errs, errors.New("CLERK_JWT_PUBLIC_KEY is required"))
	}
	if c.DatabaseHost == "" {
		errs = append(errs, errors.New("DATABASE_HOST is required"))
	}
	if c.DatabaseUsername == "" {
		errs = append(errs, errors.New("DATABASE_USERNAME is required"))
	}
	if c.DatabasePassword == "" {
		errs = append(errs, errors.New("DATABASE_PASSWORD is required"))
	}
	return errors.Join(errs...)
}

// AllowedOrigins splits CORSAllowedOrigins, dropping blanks.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// normalizePEM expands literal "\n" sequences, the usual way multi-line keys
// end up in single-line environment variables.
func normalizePEM(key string) string {
	key = strings.TrimSpace(key)
	if strings.Contains(key, "\n") {
		return key
	}
	return strings.ReplaceAll(key, `\n`, "\n")
}
