package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rentshop/billing/internal/domain/billing"
	"github.com/rentshop/billing/internal/domain/plan"
	"github.com/rentshop/billing/internal/domain/proration"
	"github.com/rentshop/billing/internal/domain/subscription"
	"github.com/rentshop/billing/internal/testutil"
	"github.com/rentshop/billing/internal/types"
	"github.com/shopspring/decimal"
)

func newTestServiceParams(s *testutil.BaseServiceTestSuite) ServiceParams {
	return NewServiceParams(
		s.GetLogger(),
		s.GetConfig(),
		s.GetDB(),
		s.GetCache(),
		s.GetSentry(),
		s.GetMetrics(),
		s.GetClock(),
		billing.DefaultDiscountTable(),
		proration.NewCalculator(),
		s.GetStores().PlanRepo,
		s.GetStores().SubscriptionRepo,
	)
}

func createTestPlan(s *testutil.BaseServiceTestSuite, id string, price int64, active bool) *plan.Plan {
	p := &plan.Plan{
		ID:        id,
		Name:      id,
		Price:     decimal.NewFromInt(price),
		Currency:  "usd",
		Active:    active,
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().PlanRepo.Create(s.GetContext(), p))
	return p
}

// createTestSubscription stores a monthly subscription on p for September 2025
func createTestSubscription(s *testutil.BaseServiceTestSuite, id string, p *plan.Plan, status types.SubscriptionStatus) *subscription.Subscription {
	sub := &subscription.Subscription{
		ID:                 id,
		MerchantID:         "merch_1",
		PlanID:             p.ID,
		SubscriptionStatus: status,
		CurrentPeriodStart: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		CurrentPeriodEnd:   time.Date(2025, 9, 30, 23, 59, 59, int(999*time.Millisecond), time.UTC),
		Amount:             p.Price,
		Currency:           p.Currency,
		Cadence:            types.BillingCadenceMonth,
		CadenceMultiplier:  1,
		Version:            1,
		BaseModel:          types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().SubscriptionRepo.Create(s.GetContext(), sub))
	return sub
}

// operationCount reads billing_operations_total for one operation and outcome
func operationCount(registry *prometheus.Registry, operation, outcome string) float64 {
	families, err := registry.Gather()
	if err != nil {
		return 0
	}
	for _, family := range families {
		if family.GetName() != "billing_operations_total" {
			continue
		}
		for _, m := range family.GetMetric() {
			labels := map[string]string{}
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			if labels["operation"] == operation && labels["outcome"] == outcome {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
