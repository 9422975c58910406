package postgres

import (
	"embed"
	"errors"
	"fmt"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/jhoicas/kirana-admin-api/pkg/config"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// NewMigrator crea un migrador sobre las migraciones embebidas. Cerrar con Close.
func NewMigrator(cfg config.DBConfig) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("create iofs source: %w", err)
	}
	dbURL, err := migrateURL(cfg.ConnectionString())
	if err != nil {
		return nil, err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dbURL)
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}
	return m, nil
}

// MigrateUp aplica todas las migraciones pendientes.
func MigrateUp(cfg config.DBConfig) error {
	m, err := NewMigrator(cfg)
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// migrateURL el driver pgx/v5 de migrate se registra con el esquema pgx5.
func migrateURL(dsn string) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("parse DSN: %w", err)
	}
	switch u.Scheme {
	case "postgres", "postgresql", "pgx5":
		u.Scheme = "pgx5"
	default:
		return "", fmt.Errorf("esquema de DSN no soportado: %q", u.Scheme)
	}
	return u.String(), nil
}
