package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"spellquiz/internal/config"
)

// ErrNotFound is returned by store lookups that must find a row
var ErrNotFound = errors.New("not found")

// DB wraps the database connection with dialect support
type DB struct {
	*sql.DB
	Dialect Dialect
}

// DialectFor returns the dialect for a configured database type
func DialectFor(dbType string) (Dialect, error) {
	switch strings.ToLower(dbType) {
	case "postgres", "postgresql":
		return NewPostgresDialect(), nil
	case "mysql":
		return NewMySQLDialect(), nil
	case "sqlite", "sqlite3", "":
		return NewSQLiteDialect(), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", dbType)
	}
}

// OpenSQLite opens a SQLite database file
func OpenSQLite(path string) (*DB, error) {
	return open(NewSQLiteDialect(), DialectConfig{Path: path})
}

// Open creates and configures the database connection based on config
func Open(cfg config.DatabaseConfig) (*DB, error) {
	dialect, err := DialectFor(cfg.Type)
	if err != nil {
		return nil, err
	}
	return open(dialect, DialectConfig{Path: cfg.Path, URL: cfg.URL})
}

func open(dialect Dialect, dialectConfig DialectConfig) (*DB, error) {
	db, err := sql.Open(dialect.DriverName(), dialect.DSN(dialectConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Apply dialect-specific configuration
	if err := dialect.ConfigureConnection(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure connection: %w", err)
	}

	return &DB{DB: db, Dialect: dialect}, nil
}

// Builder returns a squirrel statement builder using the dialect's placeholders
func (db *DB) Builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(db.Dialect.PlaceholderFormat())
}
