package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"
)

//go:embed migrations
var migrationsFS embed.FS

// Migrations returns the migration files for a dialect
func Migrations(d Dialect) (fs.FS, error) {
	return fs.Sub(migrationsFS, "migrations/"+d.MigrationsSubdir())
}

// RunMigrations applies every pending migration for the connection's dialect
func (db *DB) RunMigrations(ctx context.Context) error {
	fsys, err := Migrations(db.Dialect)
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}

	provider, err := goose.NewProvider(db.Dialect.GooseDialect(), db.DB, fsys)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	for _, r := range results {
		slog.InfoContext(ctx, "migration applied",
			"dialect", db.Dialect.Name(), "version", r.Source.Version, "duration", r.Duration)
	}
	return nil
}
