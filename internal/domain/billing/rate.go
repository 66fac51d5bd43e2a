package billing

import (
	ierr "github.com/rentshop/billing/internal/errors"
	"github.com/rentshop/billing/internal/types"
	"github.com/shopspring/decimal"
)

// DailyRate converts a periodic price into a per-day rate using the fixed
// days-per-cycle convention of the cadence. The rate is not rounded.
func DailyRate(price decimal.Decimal, cadence types.BillingCadence) (decimal.Decimal, error) {
	days, err := cadence.DaysInCycle()
	if err != nil {
		return decimal.Zero, err
	}

	if err := ValidatePrice(price); err != nil {
		return decimal.Zero, err
	}

	return price.Div(decimal.NewFromInt(int64(days))), nil
}

// ValidatePrice rejects negative prices
func ValidatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return ierr.NewError("price must not be negative").
			WithHintf("Price %s is negative", price.String()).
			WithReportableDetails(map[string]any{
				"price": price.String(),
			}).
			Mark(ierr.ErrNegativePrice)
	}
	return nil
}
