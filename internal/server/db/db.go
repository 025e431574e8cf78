// Package db builds the process-wide database handle: a bun ORM handle over
// database/sql, using pgx for PostgreSQL and go-sql-driver for MySQL hosts
// such as PlanetScale.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/saolsen/gameplay-computer/internal/logging"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/feature"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// ErrUnsupportedDriver is returned for drivers other than DriverPostgres and
// DriverMySQL.
var ErrUnsupportedDriver = errors.New("unsupported database driver")

// Options describes the connection. Credentials are not checked here; bad
// ones surface from the first query.
type Options struct {
	Driver   string
	Host     string
	Username string
	Password string
	Name     string
	TLS      bool
}

// DSN returns the database/sql driver name and data source name for o.
// An empty Driver means DriverPostgres.
func DSN(o Options) (string, string, error) {
	switch o.Driver {
	case "", DriverPostgres:
		sslmode := "disable"
		if o.TLS {
			sslmode = "require"
		}
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(o.Username, o.Password),
			Host:     o.Host,
			Path:     "/" + o.Name,
			RawQuery: url.Values{"sslmode": []string{sslmode}}.Encode(),
		}
		return "pgx", u.String(), nil

	case DriverMySQL:
		c := mysql.NewConfig()
		c.User = o.Username
		c.Passwd = o.Password
		c.Net = "tcp"
		c.Addr = o.Host
		c.DBName = o.Name
		c.ParseTime = true
		if o.TLS {
			c.TLSConfig = "true"
		}
		return "mysql", c.FormatDSN(), nil

	default:
		return "", "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, o.Driver)
	}
}

// mysqlDialect is mysqldialect without the server version probe that
// mysqldialect.Dialect.Init runs from bun.NewDB. Features are fixed to what
// MySQL 8 (and PlanetScale) support.
type mysqlDialect struct {
	*mysqldialect.Dialect
}

func newMySQLDialect() mysqlDialect {
	return mysqlDialect{Dialect: mysqldialect.New()}
}

func (mysqlDialect) Init(*sql.DB) {}

func (d mysqlDialect) Features() feature.Feature {
	return d.Dialect.Features() | feature.CTE | feature.WithValues | feature.DeleteTableAlias
}

// driverLogger sends go-sql-driver/mysql diagnostics to a logging.Logger.
type driverLogger struct {
	logger logging.Logger
}

func (d driverLogger) Print(v ...any) {
	d.logger.Warn(context.Background(), "mysql driver", "message", fmt.Sprint(v...))
}

// SetDriverLogger routes MySQL driver logs through l instead of the
// standard log package.
func SetDriverLogger(l logging.Logger) error {
	return mysql.SetLogger(driverLogger{logger: l.With("module", "db")})
}

// Open returns a handle for o. The handle is meant to be created once and
// shared; it is safe for concurrent use and pools connections internally.
// No connection is made until the first query, for either driver.
func Open(o Options) (*bun.DB, error) {
	driverName, dsn, err := DSN(o)
	if err != nil {
		return nil, err
	}

	sqldb, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if o.Driver == DriverMySQL {
		return bun.NewDB(sqldb, newMySQLDialect()), nil
	}
	return bun.NewDB(sqldb, pgdialect.New()), nil
}
