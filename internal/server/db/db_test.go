package db

import (
	"context"
	"net"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/saolsen/gameplay-computer/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/dialect/feature"
)

func TestDSN_Postgres(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		sslmode string
	}{
		{"default driver", Options{Host: "db.example:5432", Username: "app", Password: "p@ss/word", Name: "gameplay"}, "disable"},
		{"tls", Options{Driver: DriverPostgres, Host: "db.example:5432", Username: "app", Password: "p@ss/word", Name: "gameplay", TLS: true}, "require"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			driver, dsn, err := DSN(tt.opts)
			require.NoError(t, err)
			assert.Equal(t, "pgx", driver)

			u, err := url.Parse(dsn)
			require.NoError(t, err)
			assert.Equal(t, "postgres", u.Scheme)
			assert.Equal(t, "db.example:5432", u.Host)
			assert.Equal(t, "/gameplay", u.Path)
			assert.Equal(t, "app", u.User.Username())
			pw, _ := u.User.Password()
			assert.Equal(t, "p@ss/word", pw)
			assert.Equal(t, tt.sslmode, u.Query().Get("sslmode"))
		})
	}
}

func TestDSN_MySQL(t *testing.T) {
	driver, dsn, err := DSN(Options{
		Driver:   DriverMySQL,
		Host:     "aws.connect.psdb.cloud",
		Username: "user",
		Password: "pscale_pw_secret",
		Name:     "gameplay",
		TLS:      true,
	})
	require.NoError(t, err)
	assert.Equal(t, "mysql", driver)

	c, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "user", c.User)
	assert.Equal(t, "pscale_pw_secret", c.Passwd)
	assert.Equal(t, "tcp", c.Net)
	assert.Equal(t, "aws.connect.psdb.cloud:3306", c.Addr)
	assert.Equal(t, "gameplay", c.DBName)
	assert.True(t, c.ParseTime)
	assert.Equal(t, "true", c.TLSConfig)
}

func TestDSN_UnsupportedDriver(t *testing.T) {
	_, _, err := DSN(Options{Driver: "sqlite"})
	require.ErrorIs(t, err, ErrUnsupportedDriver)

	_, err = Open(Options{Driver: "sqlite"})
	require.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestOpen_PostgresIsLazy(t *testing.T) {
	handle, err := Open(Options{
		Host:     "127.0.0.1:1",
		Username: "nobody",
		Password: "wrong",
		Name:     "gameplay",
	})
	require.NoError(t, err)
	require.NotNil(t, handle)
	t.Cleanup(func() { _ = handle.Close() })

	assert.Equal(t, dialect.PG, handle.Dialect().Name())
	assert.Equal(t, 0, handle.Stats().OpenConnections, "no connection before the first query")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.Error(t, handle.PingContext(ctx), "connection errors surface at the first query")
}

// countingListener accepts and immediately drops connections, counting them.
func countingListener(t *testing.T) (string, *atomic.Int32) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	var accepted atomic.Int32
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			accepted.Add(1)
			_ = c.Close()
		}
	}()
	return ln.Addr().String(), &accepted
}

func TestOpen_MySQLIsLazy(t *testing.T) {
	addr, accepted := countingListener(t)

	handle, err := Open(Options{
		Driver:   DriverMySQL,
		Host:     addr,
		Username: "nobody",
		Password: "wrong",
		Name:     "gameplay",
	})
	require.NoError(t, err)
	require.NotNil(t, handle)
	t.Cleanup(func() { _ = handle.Close() })

	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, dialect.MySQL, handle.Dialect().Name())
	assert.Zero(t, accepted.Load(), "no connection before the first query")
	assert.Equal(t, 0, handle.Stats().OpenConnections)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.Error(t, handle.PingContext(ctx), "connection errors surface at the first query")
	assert.NotZero(t, accepted.Load())
}

func TestMySQLDialect_Features(t *testing.T) {
	d := newMySQLDialect()

	for _, f := range []feature.Feature{
		feature.InsertOnDuplicateKey,
		feature.AutoIncrement,
		feature.CTE,
		feature.WithValues,
		feature.DeleteTableAlias,
	} {
		assert.True(t, d.Features().Has(f), "feature %v", f)
	}
	assert.False(t, d.Features().Has(feature.InsertReturning))
}

type logEntry struct {
	level string
	msg   string
	args  []any
}

type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (r *recordingLogger) record(level, msg string, args []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, logEntry{level: level, msg: msg, args: args})
}

func (r *recordingLogger) Debug(_ context.Context, msg string, args ...any) {
	r.record("debug", msg, args)
}
func (r *recordingLogger) Info(_ context.Context, msg string, args ...any) {
	r.record("info", msg, args)
}
func (r *recordingLogger) Warn(_ context.Context, msg string, args ...any) {
	r.record("warn", msg, args)
}
func (r *recordingLogger) Error(_ context.Context, msg string, args ...any) {
	r.record("error", msg, args)
}
func (r *recordingLogger) With(...any) logging.Logger { return r }

func TestDriverLogger_WritesStructuredWarning(t *testing.T) {
	rec := &recordingLogger{}
	driverLogger{logger: rec}.Print("packets.go:37: ", "unexpected EOF")

	require.Len(t, rec.entries, 1)
	assert.Equal(t, "warn", rec.entries[0].level)
	assert.Equal(t, "mysql driver", rec.entries[0].msg)
	assert.Equal(t, []any{"message", "packets.go:37: unexpected EOF"}, rec.entries[0].args)
}

func TestSetDriverLogger(t *testing.T) {
	require.NoError(t, SetDriverLogger(logging.Nop{}))
}
