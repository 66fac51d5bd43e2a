package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	ierr "github.com/rentshop/billing/internal/errors"
	"github.com/rentshop/billing/internal/types"
)

// Tx is a transaction stored in the context. Nested WithTx calls reuse it
// through savepoints, so depth is the number of open savepoints.
type Tx struct {
	*sqlx.Tx
	ID    string
	depth int
}

// GetTx returns the transaction carried by ctx
func GetTx(ctx context.Context) (*Tx, bool) {
	tx, ok := ctx.Value(types.CtxDBTransaction).(*Tx)
	return tx, ok
}

func (tx *Tx) savepoint() string {
	return fmt.Sprintf("sp_%d", tx.depth)
}

// WithTx runs fn inside a transaction. A subscription update reads and writes the
// row in one transaction, and the version check in the update makes a lost race
// fail with a version conflict rather than block.
func (db *DB) WithTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	ctx, tx, err := db.begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			db.logger.Errorw("panic in transaction", "tx_id", tx.ID, "panic", r)
			_ = db.rollback(ctx, tx)
			panic(r)
		}
	}()

	if err := fn(ctx); err != nil {
		db.logger.Debugw("rolling back transaction", "tx_id", tx.ID, "depth", tx.depth, "error", err)
		if rbErr := db.rollback(ctx, tx); rbErr != nil {
			return ierr.WithError(rbErr).
				WithMessagef("rollback after: %v", err).
				WithHint("Failed to roll back the database transaction").
				Mark(ierr.ErrDatabase)
		}
		return err
	}

	return db.commit(ctx, tx)
}

func (db *DB) begin(ctx context.Context) (context.Context, *Tx, error) {
	if tx, ok := GetTx(ctx); ok {
		tx.depth++
		if err := db.exec(ctx, tx, "SAVEPOINT "+tx.savepoint()); err != nil {
			tx.depth--
			return ctx, nil, err
		}
		return ctx, tx, nil
	}

	sqlxTx, err := db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return ctx, nil, ierr.WithError(err).
			WithHint("Failed to start a database transaction").
			Mark(ierr.ErrDatabase)
	}

	tx := &Tx{Tx: sqlxTx, ID: types.GenerateUUID()}
	db.logger.Debugw("started transaction", "tx_id", tx.ID)
	return context.WithValue(ctx, types.CtxDBTransaction, tx), tx, nil
}

func (db *DB) commit(ctx context.Context, tx *Tx) error {
	if tx.depth > 0 {
		defer func() { tx.depth-- }()
		return db.exec(ctx, tx, "RELEASE SAVEPOINT "+tx.savepoint())
	}

	if err := tx.Commit(); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to commit the database transaction").
			Mark(ierr.ErrDatabase)
	}
	db.logger.Debugw("committed transaction", "tx_id", tx.ID)
	return nil
}

func (db *DB) rollback(ctx context.Context, tx *Tx) error {
	if tx.depth > 0 {
		defer func() { tx.depth-- }()
		return db.exec(ctx, tx, "ROLLBACK TO SAVEPOINT "+tx.savepoint())
	}
	return tx.Rollback()
}

func (db *DB) exec(ctx context.Context, tx *Tx, stmt string) error {
	db.logger.Debugw("transaction statement", "tx_id", tx.ID, "statement", stmt)
	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		return ierr.WithError(err).
			WithHintf("Failed to run %s", stmt).
			Mark(ierr.ErrDatabase)
	}
	return nil
}
