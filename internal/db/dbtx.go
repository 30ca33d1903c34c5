package db

import (
	"context"
	"database/sql"
)

// DBTX is what the SQLite repositories need from a connection. Both *sql.DB
// and *sql.Tx satisfy it, so the same repository code runs inside or
// outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)
