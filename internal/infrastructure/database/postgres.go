package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/bravo68web/odinpkg/internal/config"
	"github.com/bravo68web/odinpkg/pkg/logger"
)

// Connection pool settings
const (
	connMaxLifetime = time.Hour
	connMaxIdleTime = 10 * time.Minute
)

// Database wraps the GORM database connection
type Database struct {
	db     *gorm.DB
	sqlx   *sqlx.DB
	config *config.DatabaseConfig
	log    *logger.Logger
}

// NewDatabase creates a new database connection
func NewDatabase(cfg *config.DatabaseConfig) (*Database, error) {
	log := logger.Get().WithFields(logger.Component("database"))

	log.Info("Initializing database connection...",
		logger.String("host", cfg.Host),
		logger.Int("port", cfg.Port),
		logger.String("database", cfg.DBName),
		logger.String("user", cfg.User),
		logger.String("sslmode", cfg.SSLMode),
	)

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		PrepareStmt:    true,
		TranslateError: true,
	})
	if err != nil {
		log.Error("Failed to connect to database",
			logger.Error(err),
			logger.String("host", cfg.Host),
			logger.Int("port", cfg.Port),
		)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying SQL DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	log.Debug("Connection pool configured",
		logger.Int("max_idle_conns", cfg.MaxIdleConns),
		logger.Int("max_open_conns", cfg.MaxOpenConns),
	)

	database := &Database{
		db:     db,
		sqlx:   sqlx.NewDb(sqlDB, "postgres"),
		config: cfg,
		log:    log,
	}

	if err := database.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("Database connection established successfully")
	return database, nil
}

// DB returns the underlying GORM database instance
func (d *Database) DB() *gorm.DB {
	return d.db
}

// SQLX returns a sqlx handle sharing the GORM connection pool
func (d *Database) SQLX() *sqlx.DB {
	return d.sqlx
}

// Ping checks the database connection
func (d *Database) Ping(ctx context.Context) error {
	if err := d.sqlx.PingContext(ctx); err != nil {
		d.log.Error("Database ping failed", logger.Error(err))
		return err
	}
	return nil
}

// Close closes the database connection
func (d *Database) Close() error {
	d.log.Info("Closing database connection...")
	if err := d.sqlx.Close(); err != nil {
		d.log.Error("Failed to close database connection", logger.Error(err))
		return err
	}
	return nil
}

// Stats returns database connection pool statistics
func (d *Database) Stats() map[string]any {
	stats := d.sqlx.Stats()
	return map[string]any{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
		"wait_duration":        stats.WaitDuration.String(),
	}
}
