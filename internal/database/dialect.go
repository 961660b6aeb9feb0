package database

import (
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/pressly/goose/v3"
)

// Dialect defines the interface for database-specific operations
type Dialect interface {
	// Name identifies the dialect in logs and errors
	Name() string

	// DriverName returns the driver name for sql.Open
	DriverName() string

	// DSN returns the data source name for the connection
	DSN(config DialectConfig) string

	// PlaceholderFormat is the bind variable style squirrel renders
	PlaceholderFormat() sq.PlaceholderFormat

	// ConfigureConnection applies any database-specific connection settings
	ConfigureConnection(db *sql.DB) error

	// MigrationsSubdir returns the subdirectory holding this dialect's migrations
	MigrationsSubdir() string

	// GooseDialect returns the dialect goose uses for its version table
	GooseDialect() goose.Dialect
}

// DialectConfig holds configuration for database connection
type DialectConfig struct {
	// For SQLite
	Path string

	// For PostgreSQL/MySQL
	URL string
}
