// Package server initializes and runs the main application server.
// It builds the session verifier and the shared database handle, applies
// migrations when asked to, and runs the HTTP and gRPC endpoints until the
// process is signalled.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/saolsen/gameplay-computer/internal/logging"
	"github.com/saolsen/gameplay-computer/internal/server/auth"
	"github.com/saolsen/gameplay-computer/internal/server/config"
	"github.com/saolsen/gameplay-computer/internal/server/db"
	"github.com/saolsen/gameplay-computer/internal/server/httpapi"
	"github.com/saolsen/gameplay-computer/internal/server/users"
	"github.com/uptrace/bun"

	gs "github.com/saolsen/gameplay-computer/internal/server/grpc"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *bun.DB
	verifier   *auth.Verifier
	httpServer *httpapi.Server
	grpcServer *gs.GRPCServer
}

func NewApp(c *config.Config) (*App, error) {
	logger, err := logging.New(os.Stdout, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	verifier, err := auth.NewVerifier(c.ClerkJWTPublicKey, logger, auth.WithLeeway(c.SessionLeeway))
	if err != nil {
		return nil, fmt.Errorf("verifier init error: %w", err)
	}

	if err := db.SetDriverLogger(logger); err != nil {
		return nil, fmt.Errorf("db logger init error: %w", err)
	}

	handle, err := db.Open(db.Options{
		Driver:   c.DatabaseDriver,
		Host:     c.DatabaseHost,
		Username: c.DatabaseUsername,
		Password: c.DatabasePassword,
		Name:     c.DatabaseName,
		TLS:      c.DatabaseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	us := users.NewService(users.NewBunRepository(handle), logger)

	return &App{
		config:     c,
		logger:     logger,
		db:         handle,
		verifier:   verifier,
		httpServer: httpapi.NewServer(c.HTTPAddr, logger, verifier, us, handle, c.AllowedOrigins()),
		grpcServer: gs.NewGRPCServer(c.GRPCAddr, logger, verifier, us),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// runServer runs one endpoint and cancels the whole app if it fails.
func (app *App) runServer(ctx context.Context, cancelFunc context.CancelFunc, name string, run func(context.Context) error) {
	if err := run(ctx); err != nil {
		app.logger.Error(ctx, "server failed", "server", name, "error", err)
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	defer func() {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "closing database handle", "error", err)
		}
	}()

	if app.config.RunMigrations {
		if err := db.RunMigrations(ctx, app.db, app.config.DatabaseDriver); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		app.logger.Info(ctx, "Migrations applied")
	}

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.runServer(ctx, cancelFunc, "http", app.httpServer.Run)
	}()
	go func() {
		defer wg.Done()
		app.runServer(ctx, cancelFunc, "grpc", app.grpcServer.Run)
	}()

	wg.Wait()

	app.logger.Info(context.Background(), "App stopped")
	return nil
}
