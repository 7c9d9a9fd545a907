package repository

import (
	"context"
	"database/sql"
	"fmt"

	"eduassist/internal/domain"
)

// DBTX is an interface abstracting *sqlx.DB and *sqlx.Tx for repository use.
type DBTX interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
}

// storeError wraps a backend failure as STORE_UNAVAILABLE.
func storeError(op string, err error) error {
	return domain.NewStoreUnavailableError(fmt.Errorf("%s: %w", op, err))
}

// affectedOrNotFound turns a zero-row DML result into notFound.
func affectedOrNotFound(res sql.Result, op string, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return storeError(op, err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
