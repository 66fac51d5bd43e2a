package service

import (
	"github.com/rentshop/billing/internal/domain/billing"
	"github.com/rentshop/billing/internal/domain/plan"
	ierr "github.com/rentshop/billing/internal/errors"
	"github.com/rentshop/billing/internal/types"
	"github.com/shopspring/decimal"
)

// subscriptionAmount is what one billing period of multiplier cadence units costs on p
func subscriptionAmount(table billing.DiscountTable, p *plan.Plan, cadence types.BillingCadence, multiplier int) (decimal.Decimal, error) {
	unit, err := table.CadencePrice(p.Price, cadence)
	if err != nil {
		return decimal.Zero, err
	}
	return types.RoundAmount(unit.Mul(decimal.NewFromInt(int64(multiplier)))), nil
}

// unitPrice is the price of a single cadence unit of a subscription amount
func unitPrice(amount decimal.Decimal, multiplier int) decimal.Decimal {
	if multiplier <= 1 {
		return amount
	}
	return amount.Div(decimal.NewFromInt(int64(multiplier)))
}

func requireActivePlan(p *plan.Plan) error {
	if p.Active {
		return nil
	}
	return ierr.NewErrorf("plan %s is inactive", p.ID).
		WithHint("The selected plan is no longer available").
		WithReportableDetails(map[string]any{
			"plan_id": p.ID,
		}).
		Mark(ierr.ErrInactivePlan)
}

func requireID(id, entity string) error {
	if id != "" {
		return nil
	}
	return ierr.NewErrorf("%s ID is required", entity).
		WithHintf("Please provide a valid %s ID", entity).
		Mark(ierr.ErrValidation)
}
