package repository

import (
	"github.com/rentshop/billing/internal/domain/plan"
	"github.com/rentshop/billing/internal/domain/subscription"
	"github.com/rentshop/billing/internal/logger"
	"github.com/rentshop/billing/internal/postgres"
	postgresRepo "github.com/rentshop/billing/internal/repository/postgres"
)

type RepositoryType string

const (
	PostgresRepo RepositoryType = "postgres"
)

func NewPlanRepository(db postgres.IClient, logger *logger.Logger) plan.Repository {
	return postgresRepo.NewPlanRepository(db, logger)
}

func NewSubscriptionRepository(db postgres.IClient, logger *logger.Logger) subscription.Repository {
	return postgresRepo.NewSubscriptionRepository(db, logger)
}
