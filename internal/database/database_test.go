package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/threads-api/internal/config"
	apierrors "github.com/yukikurage/threads-api/internal/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm/logger"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		DBDriver:   config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "threads.db"),
		GinMode:    "release",
	}
}

func TestManager_ConnectIsIdempotent(t *testing.T) {
	m := NewManager(sqliteConfig(t))
	ctx := context.Background()

	require.NoError(t, m.Connect(ctx))
	first := m.Gorm()
	require.NotNil(t, first)

	require.NoError(t, m.Connect(ctx))
	assert.Same(t, first, m.Gorm())
	assert.Nil(t, m.Mongo())

	require.NoError(t, m.Ping(ctx))
	require.NoError(t, m.Migrate())
	assert.True(t, first.Migrator().HasTable("threads"))

	require.NoError(t, m.Close(ctx))
	assert.Nil(t, m.Gorm())
	require.NoError(t, m.Close(ctx))
}

func TestManager_MissingConnectionString(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.Config
	}{
		{"mongodb without uri", &config.Config{DBDriver: config.DriverMongoDB}},
		{"sqlite without path", &config.Config{DBDriver: config.DriverSQLite}},
		{"postgres without host", &config.Config{DBDriver: config.DriverPostgres}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewManager(tt.cfg).Connect(context.Background())
			require.Error(t, err)
			assert.True(t, errors.Is(err, apierrors.ErrConnection))
		})
	}
}

func TestManager_PingWithoutConnection(t *testing.T) {
	err := NewManager(sqliteConfig(t)).Ping(context.Background())
	assert.True(t, errors.Is(err, apierrors.ErrConnection))
}

func TestOpenGorm_ClosesPoolWhenPingFails(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	pingErr := errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")
	mock.ExpectPing().WillReturnError(pingErr)
	mock.ExpectClose()

	db, err := openGorm(context.Background(), postgres.New(postgres.Config{Conn: sqlDB}), logger.Silent)
	assert.Nil(t, db)
	assert.ErrorIs(t, err, pingErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpenGorm_KeepsPoolWhenPingSucceeds(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	mock.ExpectPing()

	db, err := openGorm(context.Background(), postgres.New(postgres.Config{Conn: sqlDB}), logger.Silent)
	require.NoError(t, err)
	assert.NotNil(t, db)
	assert.NoError(t, mock.ExpectationsWereMet())
}
