package database

import (
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

// SQLiteDialect implements Dialect for SQLite
type SQLiteDialect struct{}

// NewSQLiteDialect creates a new SQLite dialect
func NewSQLiteDialect() *SQLiteDialect {
	return &SQLiteDialect{}
}

func (d *SQLiteDialect) Name() string {
	return "sqlite"
}

func (d *SQLiteDialect) DriverName() string {
	return "sqlite3"
}

func (d *SQLiteDialect) DSN(config DialectConfig) string {
	// Foreign keys and busy timeout apply to every pooled connection
	return config.Path + "?_foreign_keys=on&_busy_timeout=5000"
}

func (d *SQLiteDialect) PlaceholderFormat() sq.PlaceholderFormat {
	return sq.Question
}

func (d *SQLiteDialect) ConfigureConnection(db *sql.DB) error {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return err
	}

	return nil
}

func (d *SQLiteDialect) MigrationsSubdir() string {
	return "sqlite"
}

func (d *SQLiteDialect) GooseDialect() goose.Dialect {
	return goose.DialectSQLite3
}
