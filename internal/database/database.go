package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"shortlink/internal/config"
	migration "shortlink/migrations"
	"shortlink/pkg/logger"
)

const retryDelay = 5 * time.Second

// gormWriter bridges gorm's logger.Writer onto our structured logger
type gormWriter struct {
	log *logger.Logger
}

// Printf implements the gormlogger.Writer interface
func (w *gormWriter) Printf(format string, args ...interface{}) {
	w.log.Warnf(format, args...)
}

// Open connects to PostgreSQL with retries, configures the pool and applies
// migrations. The caller owns the returned handle and must Close it.
func Open(cfg *config.Config, log *logger.Logger) (*gorm.DB, error) {
	gormLog := gormlogger.New(
		&gormWriter{log: log.With("component", "gorm")},
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	var (
		db  *gorm.DB
		err error
	)
	for attempt := 1; attempt <= cfg.DBConnectRetries; attempt++ {
		db, err = connect(cfg.DSN(), gormLog)
		if err == nil {
			break
		}

		log.Warnw("Failed to connect to database", "attempt", attempt, "max_attempts", cfg.DBConnectRetries, "error", err)
		if attempt < cfg.DBConnectRetries {
			time.Sleep(retryDelay)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", cfg.DBConnectRetries, err)
	}

	if err := Migrate(cfg.DSN()); err != nil {
		Close(db)
		return nil, err
	}

	log.Infow("Database connection established")
	return db, nil
}

// Migrate applies the schema migrations over a short-lived connection
func Migrate(dsn string) error {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	return migration.MigrateUp(sqlDB)
}

// Close releases the pool behind db
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func connect(dsn string, gormLog gormlogger.Interface) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                 gormLog,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
