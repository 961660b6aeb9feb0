package database

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// DBTX defines the database operations needed by repositories.
// It is satisfied by both *DB and *Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	Builder() sq.StatementBuilderType
}

// Tx wraps sql.Tx with dialect-aware methods
type Tx struct {
	*sql.Tx
	dialect Dialect
}

// Builder returns a squirrel statement builder using the dialect's placeholders
func (tx *Tx) Builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(tx.dialect.PlaceholderFormat())
}

// WithTx runs fn in a transaction, committing when fn returns nil
func (db *DB) WithTx(ctx context.Context, fn func(tx *Tx) error) error {
	sqlTx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	tx := &Tx{Tx: sqlTx, dialect: db.Dialect}

	if err := fn(tx); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Exec renders a squirrel builder and executes it
func Exec(ctx context.Context, q DBTX, b sq.Sqlizer) (sql.Result, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	return q.ExecContext(ctx, query, args...)
}

// Query renders a squirrel builder and runs it
func Query(ctx context.Context, q DBTX, b sq.Sqlizer) (*sql.Rows, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	return q.QueryContext(ctx, query, args...)
}

// QueryRow renders a squirrel builder and runs it for a single row.
// Build errors surface from Scan.
func QueryRow(ctx context.Context, q DBTX, b sq.Sqlizer) RowScanner {
	query, args, err := b.ToSql()
	if err != nil {
		return errRow{err: fmt.Errorf("failed to build query: %w", err)}
	}
	return q.QueryRowContext(ctx, query, args...)
}

// RowScanner is the Scan side of *sql.Row and *sql.Rows
type RowScanner interface {
	Scan(dest ...any) error
}

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }
