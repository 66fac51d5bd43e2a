package postgres

import (
	"context"

	"github.com/rentshop/billing/internal/logger"
	sentryService "github.com/rentshop/billing/internal/sentry"
)

// SentryClient wraps the database client with Sentry span tracking
type SentryClient struct {
	db     *DB
	sentry *sentryService.Service
	logger *logger.Logger
}

// NewClient creates the Sentry-instrumented Postgres client
func NewClient(db *DB, sentry *sentryService.Service, logger *logger.Logger) IClient {
	return &SentryClient{
		db:     db,
		sentry: sentry,
		logger: logger,
	}
}

// WithTx wraps the given function in a transaction with Sentry span tracking
func (c *SentryClient) WithTx(ctx context.Context, fn func(context.Context) error) error {
	span, spanCtx := c.sentry.StartDBSpan(ctx, "postgres.transaction", map[string]interface{}{
		"operation": "transaction",
	})
	if span != nil {
		defer span.Finish()
	}

	return c.db.WithTx(spanCtx, fn)
}

// GetQuerier is not traced here; repositories open their own spans per query
func (c *SentryClient) GetQuerier(ctx context.Context) Querier {
	return c.db.GetQuerier(ctx)
}
