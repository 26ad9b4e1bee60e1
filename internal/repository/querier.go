package repository

import (
	"context"
	"database/sql"
)

// Querier is the subset of *sql.DB and *sql.Tx the repositories need,
// so the same repository works inside or outside a transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)
)

// LockMode selects the row lock taken by a read
type LockMode int

const (
	LockNone LockMode = iota
	// LockShare blocks concurrent updates and deletes of the row until commit
	LockShare
	// LockUpdate takes the row exclusively until commit
	LockUpdate
)

// clause renders the locking clause for the given table alias
func (m LockMode) clause(alias string) string {
	switch m {
	case LockShare:
		return " FOR SHARE OF " + alias
	case LockUpdate:
		return " FOR UPDATE OF " + alias
	default:
		return ""
	}
}
