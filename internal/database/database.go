package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/yukikurage/threads-api/internal/config"
	apierrors "github.com/yukikurage/threads-api/internal/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const connectTimeout = 10 * time.Second

// Manager owns the single store connection of the process.
// Connect is idempotent; Close releases whatever Connect opened.
type Manager struct {
	cfg *config.Config

	mu    sync.Mutex
	gorm  *gorm.DB
	mongo *Mongo
}

// NewManager creates a Manager for the configured driver. It does not connect.
func NewManager(cfg *config.Config) *Manager {
	return &Manager{cfg: cfg}
}

// NewManagerWithGorm wraps an already opened GORM handle (used by tests and tools).
func NewManagerWithGorm(db *gorm.DB) *Manager {
	return &Manager{cfg: &config.Config{DBDriver: config.DriverSQLite}, gorm: db}
}

// NewManagerWithMongo wraps an already opened MongoDB handle.
func NewManagerWithMongo(m *Mongo) *Manager {
	return &Manager{cfg: &config.Config{DBDriver: config.DriverMongoDB}, mongo: m}
}

// Driver returns the configured driver name.
func (m *Manager) Driver() string {
	return m.cfg.DBDriver
}

// Connect opens the connection if none is active. Failures carry apierrors.ErrConnection.
func (m *Manager) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.gorm != nil || m.mongo != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if m.cfg.DBDriver == config.DriverMongoDB {
		if m.cfg.MongoURI == "" {
			return apierrors.Newf(apierrors.ErrConnection, "connect to database", "MONGODB_URI is not set")
		}
		mongoDB, err := NewMongo(ctx, m.cfg.MongoURI, m.cfg.MongoDatabase)
		if err != nil {
			return apierrors.Wrap(apierrors.ErrConnection, "connect to database", err)
		}
		m.mongo = mongoDB
		return nil
	}

	dialector, err := dialectorFor(m.cfg)
	if err != nil {
		return apierrors.Wrap(apierrors.ErrConnection, "connect to database", err)
	}

	db, err := openGorm(ctx, dialector, gormLogLevel(m.cfg.GinMode))
	if err != nil {
		return apierrors.Wrap(apierrors.ErrConnection, "connect to database", err)
	}

	m.gorm = db
	log.WithField("driver", m.cfg.DBDriver).Info("Database connection established")
	return nil
}

// openGorm opens the pool and pings it. A pool that does not answer is closed again.
func openGorm(ctx context.Context, dialector gorm.Dialector, level logger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:               logger.Default.LogMode(level),
		TranslateError:       true,
		DisableAutomaticPing: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		if closeErr := sqlDB.Close(); closeErr != nil {
			log.WithError(closeErr).Warn("Failed to close unreachable database pool")
		}
		return nil, err
	}
	return db, nil
}

// Gorm returns the SQL handle, or nil when the driver is mongodb or not connected.
func (m *Manager) Gorm() *gorm.DB {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gorm
}

// Mongo returns the document store handle, or nil for SQL drivers.
func (m *Manager) Mongo() *Mongo {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mongo
}

// Ping checks the active connection.
func (m *Manager) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case m.mongo != nil:
		return m.mongo.Ping(ctx)
	case m.gorm != nil:
		sqlDB, err := m.gorm.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	default:
		return apierrors.Newf(apierrors.ErrConnection, "ping database", "not connected")
	}
}

// Close tears the connection down. Safe to call when not connected.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.mongo != nil {
		err := m.mongo.Disconnect(ctx)
		m.mongo = nil
		return err
	}
	if m.gorm != nil {
		sqlDB, err := m.gorm.DB()
		m.gorm = nil
		if err != nil {
			return err
		}
		if err := sqlDB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
		log.Info("Database connection closed")
	}
	return nil
}

func dialectorFor(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		if cfg.DBHost == "" {
			return nil, fmt.Errorf("DB_HOST is not set")
		}
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBName,
			cfg.DBSSLMode,
		)
		return postgres.Open(dsn), nil
	case config.DriverMySQL:
		if cfg.DBHost == "" {
			return nil, fmt.Errorf("DB_HOST is not set")
		}
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBName,
		)
		return mysql.Open(dsn), nil
	case config.DriverSQLite:
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("SQLITE_PATH is not set")
		}
		return sqlite.Open(cfg.SQLitePath), nil
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.DBDriver)
	}
}

func gormLogLevel(ginMode string) logger.LogLevel {
	if ginMode == "release" {
		return logger.Warn
	}
	return logger.Info
}
