package config

import (
	"flag"
	"io"
	"time"

	"github.com/saolsen/gameplay-computer/internal/flagx"
)

var ownFlags = []string{"-a", "-g", "-o", "-k", "-w", "-D", "-H", "-U", "-P", "-N", "-T", "-m", "-l"}

// parseFlags overlays values from command-line flags.
//
// Supported flags:
//
//	-a string   HTTP bind address (e.g. ":8080")
//	-g string   gRPC bind address (e.g. ":50051")
//	-o string   comma-separated CORS origins
//	-k string   path to the PEM public key for session tokens
//	-w int      session clock leeway, seconds
//	-D string   database driver ("postgres" or "mysql")
//	-H string   database host[:port]
//	-U string   database username
//	-P string   database password
//	-N string   database name
//	-T bool     use TLS for the database connection
//	-m bool     run migrations on startup
//	-l string   log level
//
// Boolean flags must use the -T=false form to switch off.
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "HTTP address and port")
	fs.StringVar(&config.GRPCAddr, "g", config.GRPCAddr, "gRPC address and port")
	fs.StringVar(&config.CORSAllowedOrigins, "o", config.CORSAllowedOrigins, "CORS allowed origins")
	fs.StringVar(&config.ClerkJWTPublicKeyFile, "k", config.ClerkJWTPublicKeyFile, "session token public key file (PEM)")
	leeway := fs.Int("w", int(config.SessionLeeway.Seconds()), "session clock leeway (in seconds)")
	fs.StringVar(&config.DatabaseDriver, "D", config.DatabaseDriver, "database driver")
	fs.StringVar(&config.DatabaseHost, "H", config.DatabaseHost, "database host")
	fs.StringVar(&config.DatabaseUsername, "U", config.DatabaseUsername, "database username")
	fs.StringVar(&config.DatabasePassword, "P", config.DatabasePassword, "database password")
	fs.StringVar(&config.DatabaseName, "N", config.DatabaseName, "database name")
	fs.BoolVar(&config.DatabaseTLS, "T", config.DatabaseTLS, "database TLS")
	fs.BoolVar(&config.RunMigrations, "m", config.RunMigrations, "run migrations")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(flagx.FilterArgs(args, ownFlags)); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "w" {
			config.SessionLeeway = time.Duration(*leeway) * time.Second
		}
	})
	return nil
}
