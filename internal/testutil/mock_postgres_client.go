package testutil

import (
	"context"

	"github.com/rentshop/billing/internal/logger"
	"github.com/rentshop/billing/internal/postgres"
	"github.com/rentshop/billing/internal/types"
)

var _ postgres.IClient = (*MockPostgresClient)(nil) // Ensure MockPostgresClient implements IClient

// MockPostgresClient runs transactions inline for services backed by in-memory stores
type MockPostgresClient struct {
	logger *logger.Logger
	// Commits counts transactions that finished without error
	Commits int
	// Rollbacks counts transactions whose function returned an error
	Rollbacks int
}

// NewMockPostgresClient creates a new mock postgres client
func NewMockPostgresClient(logger *logger.Logger) *MockPostgresClient {
	return &MockPostgresClient{
		logger: logger,
	}
}

// WithTx executes the given function within a transaction
func (c *MockPostgresClient) WithTx(ctx context.Context, fn func(context.Context) error) error {
	// If we're already in a transaction, reuse it
	if ctx.Value(types.CtxDBTransaction) != nil {
		return fn(ctx)
	}

	txCtx := context.WithValue(ctx, types.CtxDBTransaction, true)
	if err := fn(txCtx); err != nil {
		c.Rollbacks++
		return err
	}
	c.Commits++
	return nil
}

// GetQuerier has no backing database in tests
func (c *MockPostgresClient) GetQuerier(ctx context.Context) postgres.Querier {
	return nil
}
