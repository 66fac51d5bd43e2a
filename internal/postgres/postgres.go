package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rentshop/billing/internal/config"
	ierr "github.com/rentshop/billing/internal/errors"
	"github.com/rentshop/billing/internal/logger"
	"go.uber.org/fx"
)

// IClient is what repositories and services need from the database
type IClient interface {
	// WithTx runs fn in a transaction, nesting through savepoints when ctx already carries one
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error

	// GetQuerier returns the transaction carried by ctx, or the pool
	GetQuerier(ctx context.Context) Querier
}

// Querier is the part of sqlx shared by *sqlx.DB and *sqlx.Tx
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
}

// DB is the connection pool of the billing database
type DB struct {
	*sqlx.DB
	logger *logger.Logger
}

// Module provides the database client to the fx graph
func Module() fx.Option {
	return fx.Options(
		fx.Provide(
			NewDB,
			NewClient,
		),
		fx.Invoke(registerHooks),
	)
}

func NewDB(cfg *config.Configuration, logger *logger.Logger) (*DB, error) {
	pg := cfg.Postgres
	db, err := sqlx.Connect("postgres", pg.GetDSN())
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Failed to connect to postgres at %s:%d", pg.Host, pg.Port).
			Mark(ierr.ErrDatabase)
	}

	db.SetMaxOpenConns(pg.MaxOpenConns)
	db.SetMaxIdleConns(pg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(pg.ConnMaxLifetimeMinutes) * time.Minute)

	logger.Infow("connected to postgres",
		"host", pg.Host,
		"dbname", pg.DBName,
		"max_open_conns", pg.MaxOpenConns)

	return &DB{DB: db, logger: logger}, nil
}

func registerHooks(lc fx.Lifecycle, db *DB) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if err := db.Close(); err != nil {
				db.logger.Errorw("error closing database", "error", err)
			}
			return nil
		},
	})
}

func (db *DB) GetQuerier(ctx context.Context) Querier {
	if tx, ok := GetTx(ctx); ok {
		return NewTracedQuerier(tx.Tx, db.logger, tx.ID)
	}
	return NewTracedQuerier(db.DB, db.logger, "")
}
