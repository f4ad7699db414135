package migration

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed *.sql
var migrationsFS embed.FS

// MigrateUp applies every pending migration. The migrate driver takes
// ownership of db and closes it on return, so pass a dedicated handle.
func MigrateUp(db *sql.DB) error {
	return run(db, func(m *migrate.Migrate) error { return m.Up() })
}

// MigrateDown reverts every applied migration. db is closed on return.
func MigrateDown(db *sql.DB) error {
	return run(db, func(m *migrate.Migrate) error { return m.Down() })
}

func run(db *sql.DB, step func(*migrate.Migrate) error) error {
	sourceDriver, err := iofs.New(migrationsFS, ".")
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to create source driver: %w", err)
	}

	databaseDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to create database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", databaseDriver)
	if err != nil {
		databaseDriver.Close()
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	if err := step(m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
