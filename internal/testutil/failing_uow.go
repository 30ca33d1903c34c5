package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/alexanderramin/shiftbook/internal/db"
)

// FailingUoW runs the callback in a real transaction but makes the first
// ExecContext whose SQL contains Match return Err. Reads pass through.
// It lets tests break a multi-write operation half way and check rollback.
type FailingUoW struct {
	DB    *sql.DB
	Match string
	Err   error

	// Calls counts WithinTx invocations.
	Calls int
}

func (u *FailingUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	u.Calls++
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	if err := fn(ctx, &failingExec{DBTX: tx, match: u.Match, err: u.Err}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type failingExec struct {
	db.DBTX
	match string
	err   error
	fired bool
}

func (f *failingExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if !f.fired && strings.Contains(query, f.match) {
		f.fired = true
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
