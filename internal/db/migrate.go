package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MigrationStatus describes where a database stands relative to the embedded migrations.
type MigrationStatus struct {
	CurrentVersion uint
	LatestVersion  uint
	Dirty          bool
	Pending        bool
}

// Migrate applies every pending migration. It is safe to call repeatedly.
func Migrate(db *sql.DB) error {
	m, err := newMigrator(db)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}

// Status reports the applied and latest available migration versions.
func Status(db *sql.DB) (*MigrationStatus, error) {
	m, err := newMigrator(db)
	if err != nil {
		return nil, err
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return nil, fmt.Errorf("reading migration version: %w", err)
	}

	latest, err := latestVersion()
	if err != nil {
		return nil, err
	}

	return &MigrationStatus{
		CurrentVersion: version,
		LatestVersion:  latest,
		Dirty:          dirty,
		Pending:        version < latest,
	}, nil
}

// newMigrator wraps db without taking ownership: the migrator is never
// closed because closing it would close db.
func newMigrator(db *sql.DB) (*migrate.Migrate, error) {
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("creating migration driver: %w", err)
	}
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("loading embedded migrations: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return nil, fmt.Errorf("creating migrator: %w", err)
	}
	return m, nil
}

func latestVersion() (uint, error) {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return 0, fmt.Errorf("loading embedded migrations: %w", err)
	}
	defer source.Close()

	latest, err := source.First()
	if err != nil {
		return 0, nil
	}
	for {
		next, err := source.Next(latest)
		if err != nil {
			return latest, nil
		}
		latest = next
	}
}
