package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestParseEnv(t *testing.T) {
	c := &Config{}
	c.LoadDefaults()

	err := parseEnv(c, lookupFrom(map[string]string{
		"DATABASE_DRIVER":   "mysql",
		"DATABASE_HOST":     "aws.connect.psdb.cloud",
		"DATABASE_USERNAME": "user",
		"DATABASE_PASSWORD": "pscale_pw",
		"DATABASE_NAME":     "",
		"DATABASE_TLS":      "true",
		"RUN_MIGRATIONS":    "1",
		"SESSION_LEEWAY":    "5s",
		"LOG_LEVEL":         "debug",
	}))
	require.NoError(t, err)

	assert.Equal(t, "mysql", c.DatabaseDriver)
	assert.Equal(t, "aws.connect.psdb.cloud", c.DatabaseHost)
	assert.Equal(t, "user", c.DatabaseUsername)
	assert.Equal(t, "pscale_pw", c.DatabasePassword)
	assert.Equal(t, "gameplay", c.DatabaseName, "empty variable keeps the default")
	assert.True(t, c.DatabaseTLS)
	assert.True(t, c.RunMigrations)
	assert.Equal(t, 5*time.Second, c.SessionLeeway)
	assert.Equal(t, "debug", c.LogLevel)
}

func TestParseEnv_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad bool", map[string]string{"DATABASE_TLS": "maybe"}},
		{"bad duration", map[string]string{"SESSION_LEEWAY": "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{}
			assert.Error(t, parseEnv(c, lookupFrom(tt.env)))
		})
	}
}

func TestLoadEnvFile_DoesNotOverrideProcessEnv(t *testing.T) {
	t.Setenv("GAMEPLAY_TEST_SET", "process")
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("GAMEPLAY_TEST_SET=file\nGAMEPLAY_TEST_NEW=file\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("GAMEPLAY_TEST_NEW") })

	require.NoError(t, loadEnvFile(path))

	assert.Equal(t, "process", os.Getenv("GAMEPLAY_TEST_SET"))
	assert.Equal(t, "file", os.Getenv("GAMEPLAY_TEST_NEW"))
}

func TestLoadEnvFile_MissingFileIsIgnored(t *testing.T) {
	assert.NoError(t, loadEnvFile(filepath.Join(t.TempDir(), "absent.env")))
}

func TestLoadEnvFile_MalformedFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("GOOD=1\nBAD-KEY=2\n"), 0o600))

	err := loadEnvFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}
