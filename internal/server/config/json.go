package config

import (
	"encoding/json"
	"os"

	"github.com/saolsen/gameplay-computer/internal/timex"
)

// JsonConfig is the on-disk shape of the optional JSON config file.
// Pointer fields distinguish "absent" from a zero value so the file only
// overrides what it mentions.
type JsonConfig struct {
	HTTPAddr              *string         `json:"http_addr"`
	GRPCAddr              *string         `json:"grpc_addr"`
	CORSAllowedOrigins    *string         `json:"cors_allowed_origins"`
	ClerkJWTPublicKey     *string         `json:"clerk_jwt_public_key"`
	ClerkJWTPublicKeyFile *string         `json:"clerk_jwt_public_key_file"`
	SessionLeeway         *timex.Duration `json:"session_leeway"`
	DatabaseDriver        *string         `json:"database_driver"`
	DatabaseHost          *string         `json:"database_host"`
	DatabaseUsername      *string         `json:"database_username"`
	DatabasePassword      *string         `json:"database_password"`
	DatabaseName          *string         `json:"database_name"`
	DatabaseTLS           *bool           `json:"database_tls"`
	RunMigrations         *bool           `json:"run_migrations"`
	LogLevel              *string         `json:"log_level"`
}

// parseJSON overlays values from the JSON file at path. An empty path
// means no file was requested.
func parseJSON(config *Config, path string) error {
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return err
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.GRPCAddr, c.GRPCAddr)
	setString(&config.CORSAllowedOrigins, c.CORSAllowedOrigins)
	setString(&config.ClerkJWTPublicKey, c.ClerkJWTPublicKey)
	setString(&config.ClerkJWTPublicKeyFile, c.ClerkJWTPublicKeyFile)
	setString(&config.DatabaseDriver, c.DatabaseDriver)
	setString(&config.DatabaseHost, c.DatabaseHost)
	setString(&config.DatabaseUsername, c.DatabaseUsername)
	setString(&config.DatabasePassword, c.DatabasePassword)
	setString(&config.DatabaseName, c.DatabaseName)
	setString(&config.LogLevel, c.LogLevel)

	if c.SessionLeeway != nil {
		config.SessionLeeway = c.SessionLeeway.Duration
	}
	if c.DatabaseTLS != nil {
		config.DatabaseTLS = *c.DatabaseTLS
	}
	if c.RunMigrations != nil {
		config.RunMigrations = *c.RunMigrations
	}

	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
