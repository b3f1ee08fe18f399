package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverMongoDB, cfg.DBDriver)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "threads:revalidate", cfg.RevalidateChannel)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/threads-test.db")
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "/tmp/threads-test.db", cfg.SQLitePath)
	assert.Equal(t, "9090", cfg.Port)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "cassandra")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported DB_DRIVER")
}

func TestValidate_ProductionRequiresSecret(t *testing.T) {
	cfg := &Config{
		AppEnv:    "production",
		Port:      "8080",
		DBDriver:  DriverPostgres,
		JWTSecret: defaultJWTSecret,
	}
	assert.Error(t, cfg.Validate())

	cfg.JWTSecret = "a-long-and-unguessable-production-secret"
	assert.NoError(t, cfg.Validate())
}

func TestOrigins(t *testing.T) {
	cfg := &Config{AllowedOrigins: "http://a.test, http://b.test,,"}
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Origins())
}
