package postgresql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/Eugen9719/test-pay-service/internal/port"
)

type ctxtype string

const trKey ctxtype = "tx"

var uniqueConstraint pq.ErrorCode = "23505"

// querier is satisfied by both *sql.DB and *sql.Tx so repositories can run
// standalone or join an ambient transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func q(ctx context.Context, db *sql.DB) querier {
	if tr, ok := ctx.Value(trKey).(*sql.Tx); ok {
		return tr
	}
	return db
}

func isUniqueViolation(err error, constraint string) bool {
	pqErr, ok := err.(*pq.Error)
	return ok && pqErr.Code == uniqueConstraint && pqErr.Constraint == constraint
}

type txManager struct {
	db *sql.DB
}

func NewTxManager(db *sql.DB) port.TxManager {
	return &txManager{db: db}
}

func (m *txManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tr, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(context.WithValue(ctx, trKey, tr)); err != nil {
		_ = tr.Rollback()
		return err
	}

	if err := tr.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
