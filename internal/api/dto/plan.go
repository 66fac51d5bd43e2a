package dto

import (
	"context"

	"github.com/rentshop/billing/internal/domain/billing"
	"github.com/rentshop/billing/internal/domain/plan"
	ierr "github.com/rentshop/billing/internal/errors"
	"github.com/rentshop/billing/internal/types"
	"github.com/rentshop/billing/internal/validator"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type CreatePlanRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	LookupKey   string `json:"lookup_key" validate:"omitempty,max=255"`
	Description string `json:"description" validate:"omitempty,max=1000"`
	// Price is the monthly base price as a decimal string ex "49.99"
	Price    string `json:"price" validate:"required,decimal"`
	Currency string `json:"currency" validate:"omitempty,len=3"`
	Active   *bool  `json:"active,omitempty"`
}

func (r *CreatePlanRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	price, err := decimal.NewFromString(r.Price)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Price must be a valid decimal number").
			Mark(ierr.ErrValidation)
	}

	return billing.ValidatePrice(price)
}

// ToPlan builds the plan owned by the tenant in ctx. Currency falls back to defaultCurrency.
func (r *CreatePlanRequest) ToPlan(ctx context.Context, defaultCurrency string) *plan.Plan {
	currency := r.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	return &plan.Plan{
		ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PLAN),
		Name:        r.Name,
		LookupKey:   r.LookupKey,
		Description: r.Description,
		Price:       decimal.RequireFromString(r.Price),
		Currency:    types.NormalizeCurrency(currency),
		Active:      lo.FromPtrOr(r.Active, true),
		BaseModel:   types.GetDefaultBaseModel(ctx),
	}
}

type PlanResponse struct {
	*plan.Plan

	// CadencePrices is the discounted price of one unit of every cadence
	CadencePrices map[types.BillingCadence]decimal.Decimal `json:"cadence_prices,omitempty"`
}

// NewPlanResponse prices the plan for every cadence using the discount table
func NewPlanResponse(p *plan.Plan, table billing.DiscountTable) *PlanResponse {
	prices := make(map[types.BillingCadence]decimal.Decimal, len(types.BillingCadenceValues))
	for _, cadence := range types.BillingCadenceValues {
		price, err := table.CadencePrice(p.Price, cadence)
		if err != nil {
			continue
		}
		prices[cadence] = price
	}
	return &PlanResponse{Plan: p, CadencePrices: prices}
}

// ListPlansResponse represents the response for listing plans
type ListPlansResponse = types.ListResponse[*PlanResponse]
