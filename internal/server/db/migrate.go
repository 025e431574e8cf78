package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/saolsen/gameplay-computer/internal/server/migrations"
	"github.com/uptrace/bun"
)

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations for driver to handle.
func RunMigrations(ctx context.Context, handle *bun.DB, driver string) error {
	if driver == "" {
		driver = DriverPostgres
	}
	if driver != DriverPostgres && driver != DriverMySQL {
		return fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(driver); err != nil {
		return err
	}

	if err := gooseUpContext(ctx, handle.DB, driver); err != nil {
		return fmt.Errorf("migrate %s: %w", driver, err)
	}
	return nil
}
