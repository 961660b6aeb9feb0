package database

import (
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

// PostgresDialect implements Dialect for PostgreSQL
type PostgresDialect struct{}

// NewPostgresDialect creates a new PostgreSQL dialect
func NewPostgresDialect() *PostgresDialect {
	return &PostgresDialect{}
}

func (d *PostgresDialect) Name() string {
	return "postgres"
}

func (d *PostgresDialect) DriverName() string {
	return "postgres"
}

func (d *PostgresDialect) DSN(config DialectConfig) string {
	return config.URL
}

func (d *PostgresDialect) PlaceholderFormat() sq.PlaceholderFormat {
	// PostgreSQL uses $1, $2, etc. instead of ?
	return sq.Dollar
}

func (d *PostgresDialect) ConfigureConnection(db *sql.DB) error {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	// PostgreSQL has foreign keys enabled by default, no pragma needed
	return nil
}

func (d *PostgresDialect) MigrationsSubdir() string {
	return "postgres"
}

func (d *PostgresDialect) GooseDialect() goose.Dialect {
	return goose.DialectPostgres
}
