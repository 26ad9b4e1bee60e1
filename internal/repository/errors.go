package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound            = errors.New("record not found")
	ErrUniqueViolation     = errors.New("unique constraint violation")
	ErrForeignKeyViolation = errors.New("foreign key violation")
	ErrCheckViolation      = errors.New("check constraint violation")
)

// Postgres SQLSTATE codes the repositories classify
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgNumericOutOfRange   = "22003"
)

// Constraint names from the migrations that callers tell apart
const (
	ConstraintProductCategory    = "fk_products_category"
	ConstraintProductSubcategory = "fk_products_subcategory"
)

// ConstraintError reports a violated database constraint. It matches its Kind
// sentinel with errors.Is and exposes the driver error to errors.As.
type ConstraintError struct {
	Action     string
	Kind       error
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("failed to %s: %v (%s)", e.Action, e.Kind, e.Constraint)
}

func (e *ConstraintError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// ConstraintName returns the violated constraint, or "" if err is not a ConstraintError
func ConstraintName(err error) string {
	var cerr *ConstraintError
	if errors.As(err, &cerr) {
		return cerr.Constraint
	}
	return ""
}

// classify wraps a driver error, attaching the matching repository sentinel
// when the failure is one callers are expected to handle.
func classify(action string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		var kind error
		switch pgErr.Code {
		case pgUniqueViolation:
			kind = ErrUniqueViolation
		case pgForeignKeyViolation:
			kind = ErrForeignKeyViolation
		case pgCheckViolation, pgNumericOutOfRange:
			kind = ErrCheckViolation
		}
		if kind != nil {
			constraint := pgErr.ConstraintName
			if constraint == "" {
				constraint = pgErr.Message
			}
			return &ConstraintError{Action: action, Kind: kind, Constraint: constraint, Err: err}
		}
	}

	return fmt.Errorf("failed to %s: %w", action, err)
}

// expectOneRow turns an UPDATE or DELETE that matched nothing into ErrNotFound
func expectOneRow(action string, result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for %s: %w", action, err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
