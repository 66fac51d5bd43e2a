package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rentshop/billing/internal/logger"
)

// slowQuery is the duration above which a successful query is logged at warn level
const slowQuery = 250 * time.Millisecond

// TracedQuerier logs every statement run against the wrapped Querier together
// with its duration and the id of the enclosing transaction.
type TracedQuerier struct {
	Querier
	logger *logger.Logger
	txID   string
}

func NewTracedQuerier(q Querier, logger *logger.Logger, txID string) *TracedQuerier {
	return &TracedQuerier{
		Querier: q,
		logger:  logger,
		txID:    txID,
	}
}

func (tq *TracedQuerier) trace(query string, args any, run func() error) error {
	start := time.Now()
	err := run()
	elapsed := time.Since(start)

	fields := []interface{}{
		"query", query,
		"args", args,
		"duration_ms", elapsed.Milliseconds(),
	}
	if tq.txID != "" {
		fields = append(fields, "tx_id", tq.txID)
	}

	switch {
	// a missing row is reported by the repository as not found
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		tq.logger.Errorw("query failed", append(fields, "error", err)...)
	case elapsed > slowQuery:
		tq.logger.Warnw("slow query", fields...)
	default:
		tq.logger.Debugw("query", fields...)
	}
	return err
}

func (tq *TracedQuerier) ExecContext(ctx context.Context, query string, args ...interface{}) (res sql.Result, err error) {
	err = tq.trace(query, args, func() error {
		res, err = tq.Querier.ExecContext(ctx, query, args...)
		return err
	})
	return res, err
}

func (tq *TracedQuerier) NamedExecContext(ctx context.Context, query string, arg interface{}) (res sql.Result, err error) {
	err = tq.trace(query, arg, func() error {
		res, err = tq.Querier.NamedExecContext(ctx, query, arg)
		return err
	})
	return res, err
}

func (tq *TracedQuerier) QueryContext(ctx context.Context, query string, args ...interface{}) (rows *sql.Rows, err error) {
	err = tq.trace(query, args, func() error {
		rows, err = tq.Querier.QueryContext(ctx, query, args...)
		return err
	})
	return rows, err
}

func (tq *TracedQuerier) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return tq.trace(query, args, func() error {
		return tq.Querier.GetContext(ctx, dest, query, args...)
	})
}

func (tq *TracedQuerier) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return tq.trace(query, args, func() error {
		return tq.Querier.SelectContext(ctx, dest, query, args...)
	})
}
