package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type contextKey string

// DBTxKey carries the active unit-of-work transaction through a context.
const DBTxKey contextKey = "db_tx"

// TxFromContext retrieves the transaction opened by Begin, or nil when the
// caller is not inside a unit of work.
func TxFromContext(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(DBTxKey).(pgx.Tx)
	return tx
}

// Begin opens a transaction on the pool and returns a derived context that
// repositories resolve it from. The caller owns the commit/rollback decision.
func Begin(ctx context.Context, pool *pgxpool.Pool) (context.Context, pgx.Tx, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return ctx, nil, fmt.Errorf("begin transaction: %w", err)
	}
	return context.WithValue(ctx, DBTxKey, tx), tx, nil
}

// RunInTx executes fn as a single unit of work. fn receives a context
// carrying the transaction; every repository call made with that context
// joins it. A nil return commits; any error rolls back every write made in
// the call before the error is returned.
func RunInTx(ctx context.Context, pool *pgxpool.Pool, fn func(ctx context.Context) error) error {
	txCtx, tx, err := Begin(ctx, pool)
	if err != nil {
		return err
	}
	if err := fn(txCtx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// PoolRunner adapts a pgx pool to the unit-of-work interfaces declared by the
// domain services.
type PoolRunner struct {
	Pool *pgxpool.Pool
}

func (r PoolRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return RunInTx(ctx, r.Pool, fn)
}
