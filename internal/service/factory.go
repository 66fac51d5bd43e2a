package service

import (
	"github.com/rentshop/billing/internal/cache"
	"github.com/rentshop/billing/internal/config"
	"github.com/rentshop/billing/internal/domain/billing"
	"github.com/rentshop/billing/internal/domain/plan"
	"github.com/rentshop/billing/internal/domain/proration"
	"github.com/rentshop/billing/internal/domain/subscription"
	"github.com/rentshop/billing/internal/logger"
	"github.com/rentshop/billing/internal/metrics"
	"github.com/rentshop/billing/internal/postgres"
	"github.com/rentshop/billing/internal/sentry"
	"github.com/rentshop/billing/internal/types"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger  *logger.Logger
	Config  *config.Configuration
	DB      postgres.IClient
	Cache   cache.Cache
	Sentry  *sentry.Service
	Metrics metrics.BillingMetrics
	Clock   types.Clock

	// Pricing
	DiscountTable billing.DiscountTable
	Calculator    proration.Calculator

	// Repositories
	PlanRepo plan.Repository
	SubRepo  subscription.Repository
}

// Common service params
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db postgres.IClient,
	cache cache.Cache,
	sentry *sentry.Service,
	metrics metrics.BillingMetrics,
	clock types.Clock,
	discountTable billing.DiscountTable,
	calculator proration.Calculator,
	planRepo plan.Repository,
	subRepo subscription.Repository,
) ServiceParams {
	return ServiceParams{
		Logger:        logger,
		Config:        config,
		DB:            db,
		Cache:         cache,
		Sentry:        sentry,
		Metrics:       metrics,
		Clock:         clock,
		DiscountTable: discountTable,
		Calculator:    calculator,
		PlanRepo:      planRepo,
		SubRepo:       subRepo,
	}
}

// NewDiscountTable builds the discount table from configuration,
// falling back to the reference table when none is configured.
func NewDiscountTable(cfg *config.Configuration, logger *logger.Logger) (billing.DiscountTable, error) {
	if len(cfg.Billing.CycleDiscounts) == 0 {
		return billing.DefaultDiscountTable(), nil
	}

	table, err := billing.NewDiscountTable(cfg.Billing.CycleDiscounts)
	if err != nil {
		return nil, err
	}

	logger.Infow("loaded billing cycle discounts", "discounts", table.String())
	return table, nil
}
