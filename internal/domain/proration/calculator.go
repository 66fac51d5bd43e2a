package proration

import (
	"github.com/rentshop/billing/internal/domain/billing"
	ierr "github.com/rentshop/billing/internal/errors"
	"github.com/rentshop/billing/internal/types"
	"github.com/shopspring/decimal"
)

// Calculator computes mid-period plan change settlements
type Calculator interface {
	Calculate(params ProrationParams) (*ProrationResult, error)
}

// NewCalculator creates the proration calculator
func NewCalculator() Calculator {
	return &ratioCalculator{}
}

// ratioCalculator prorates on the share of the period left after the change,
// measured in milliseconds and rounded to two places before it is applied.
type ratioCalculator struct{}

func (c *ratioCalculator) Calculate(params ProrationParams) (*ProrationResult, error) {
	return Prorate(params)
}

// Prorate returns the credit for the unused part of the current plan and the charge for
// the new plan over the same remainder. A change outside the period is clamped to ratio
// 1 (at or before the start) or 0 (at or after the end). Credit, charge and net are
// each rounded to cents on their own.
func Prorate(params ProrationParams) (*ProrationResult, error) {
	if err := validateParams(params); err != nil {
		return nil, err
	}

	currentRate, err := billing.DailyRate(params.CurrentPlan.Price, params.Cadence)
	if err != nil {
		return nil, err
	}

	newRate, err := billing.DailyRate(params.NewPlan.Price, params.Cadence)
	if err != nil {
		return nil, err
	}

	total := params.PeriodEnd.Sub(params.PeriodStart)
	remaining := params.PeriodEnd.Sub(params.ChangeInstant)

	ratio := decimal.NewFromInt(remaining.Milliseconds()).
		Div(decimal.NewFromInt(total.Milliseconds()))
	ratio = clamp(ratio).Round(types.DEFAULT_FLOATING_PRECISION)

	credit := types.RoundAmount(params.CurrentPlan.Price.Mul(ratio))
	charge := types.RoundAmount(params.NewPlan.Price.Mul(ratio))
	net := types.RoundAmount(charge.Sub(credit))

	result := &ProrationResult{
		ProrationRatio:    ratio,
		RemainingDays:     types.CeilDays(remaining),
		CurrentPlanCredit: credit,
		NewPlanCharge:     charge,
		NetProration:      net,
		IsUpgrade:         params.NewPlan.Price.GreaterThan(params.CurrentPlan.Price),
		IsDowngrade:       params.NewPlan.Price.LessThan(params.CurrentPlan.Price),
		Action:            types.ProrationActionLateral,
		CurrentDailyRate:  currentRate,
		NewDailyRate:      newRate,
		Currency:          params.NewPlan.Currency,
		ChangeInstant:     params.ChangeInstant.UTC(),
	}

	switch {
	case result.IsUpgrade:
		result.Action = types.ProrationActionUpgrade
	case result.IsDowngrade:
		result.Action = types.ProrationActionDowngrade
	}

	return result, nil
}

func clamp(ratio decimal.Decimal) decimal.Decimal {
	one := decimal.NewFromInt(1)
	if ratio.IsNegative() {
		return decimal.Zero
	}
	if ratio.GreaterThan(one) {
		return one
	}
	return ratio
}

func validateParams(params ProrationParams) error {
	if err := params.Cadence.Validate(); err != nil {
		return err
	}

	if !params.NewPlan.Active {
		return ierr.NewError("target plan is not active").
			WithHintf("Plan %s is not active and cannot be switched to", params.NewPlan.ID).
			WithReportableDetails(map[string]any{
				"plan_id": params.NewPlan.ID,
			}).
			Mark(ierr.ErrInactivePlan)
	}

	if err := billing.ValidatePrice(params.CurrentPlan.Price); err != nil {
		return err
	}
	if err := billing.ValidatePrice(params.NewPlan.Price); err != nil {
		return err
	}

	if params.CurrentPlan.Currency != "" && params.NewPlan.Currency != "" &&
		types.NormalizeCurrency(params.CurrentPlan.Currency) != types.NormalizeCurrency(params.NewPlan.Currency) {
		return ierr.NewError("plan currencies differ").
			WithHint("Plans with different currencies cannot be prorated against each other").
			WithReportableDetails(map[string]any{
				"current_currency": params.CurrentPlan.Currency,
				"new_currency":     params.NewPlan.Currency,
			}).
			Mark(ierr.ErrValidation)
	}

	if err := types.ValidateInstant("period start", params.PeriodStart); err != nil {
		return err
	}
	if err := types.ValidateInstant("period end", params.PeriodEnd); err != nil {
		return err
	}
	if err := types.ValidateInstant("change instant", params.ChangeInstant); err != nil {
		return err
	}

	if !params.PeriodEnd.After(params.PeriodStart) {
		return ierr.NewError("billing period end must be after its start").
			WithHint("The billing period end must be after the period start").
			WithReportableDetails(map[string]any{
				"period_start": params.PeriodStart,
				"period_end":   params.PeriodEnd,
			}).
			Mark(ierr.ErrOutOfRangeInstant)
	}

	return nil
}
