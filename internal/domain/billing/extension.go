package billing

import (
	ierr "github.com/rentshop/billing/internal/errors"
	"github.com/rentshop/billing/internal/types"
	"github.com/shopspring/decimal"
)

// Extend prices lengthening a subscription by whole cadence units without a plan change.
// A start after the current period end is reported as gap days and never charged.
func Extend(params ExtensionParams) (*ExtensionResult, error) {
	if params.Periods < 1 {
		return nil, ierr.NewError("extension periods must be positive").
			WithHintf("Extension periods must be at least 1, got %d", params.Periods).
			WithReportableDetails(map[string]any{
				"periods": params.Periods,
			}).
			Mark(ierr.ErrValidation)
	}

	if err := types.ValidateInstant("current period end", params.CurrentPeriodEnd); err != nil {
		return nil, err
	}
	if err := types.ValidateInstant("extension start", params.ExtensionStart); err != nil {
		return nil, err
	}

	daysInCycle, err := params.Cadence.DaysInCycle()
	if err != nil {
		return nil, err
	}

	rate, err := DailyRate(params.Plan.Price, params.Cadence)
	if err != nil {
		return nil, err
	}

	days := params.Periods * daysInCycle
	cost := types.RoundAmount(rate.Mul(decimal.NewFromInt(int64(days))))

	gap := types.RoundDays(params.ExtensionStart.Sub(params.CurrentPeriodEnd))
	if gap < 0 {
		gap = 0
	}

	start := params.ExtensionStart.UTC()
	return &ExtensionResult{
		ExtensionDays:  days,
		DailyRate:      rate,
		ExtensionCost:  cost,
		GapDays:        gap,
		ExtensionStart: start,
		ExtensionEnd:   types.AddCalendarDays(start, days),
		TotalCost:      cost,
		Currency:       params.Plan.Currency,
	}, nil
}
