package database

import (
	"database/sql"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/go-sql-driver/mysql"
	"github.com/pressly/goose/v3"
)

// MySQLDialect implements Dialect for MySQL
type MySQLDialect struct{}

// NewMySQLDialect creates a new MySQL dialect
func NewMySQLDialect() *MySQLDialect {
	return &MySQLDialect{}
}

func (d *MySQLDialect) Name() string {
	return "mysql"
}

func (d *MySQLDialect) DriverName() string {
	return "mysql"
}

// DSN enables parseTime so DATETIME columns scan into time.Time
func (d *MySQLDialect) DSN(config DialectConfig) string {
	dsn := config.URL
	if strings.Contains(dsn, "parseTime=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&parseTime=true"
	}
	return dsn + "?parseTime=true"
}

func (d *MySQLDialect) PlaceholderFormat() sq.PlaceholderFormat {
	return sq.Question
}

func (d *MySQLDialect) ConfigureConnection(db *sql.DB) error {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	// Ensure foreign key checks are enabled
	if _, err := db.Exec("SET FOREIGN_KEY_CHECKS = 1;"); err != nil {
		return err
	}

	return nil
}

func (d *MySQLDialect) MigrationsSubdir() string {
	return "mysql"
}

func (d *MySQLDialect) GooseDialect() goose.Dialect {
	return goose.DialectMySQL
}
