package billing

import (
	"fmt"
	"strings"

	ierr "github.com/rentshop/billing/internal/errors"
	"github.com/rentshop/billing/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// DiscountTable maps every billing cycle to a discount percentage in [0, 100]
type DiscountTable map[types.BillingCycle]decimal.Decimal

// DefaultDiscountTable returns a copy of the reference discount table
func DefaultDiscountTable() DiscountTable {
	table := make(DiscountTable, len(types.DefaultCycleDiscounts))
	for cycle, pct := range types.DefaultCycleDiscounts {
		table[cycle] = pct
	}
	return table
}

// NewDiscountTable builds a table from percentages keyed by cycle name and validates it.
// Keys match case-insensitively since configuration loaders lowercase them.
func NewDiscountTable(percentages map[string]float64) (DiscountTable, error) {
	table := make(DiscountTable, len(percentages))
	for key, pct := range percentages {
		cycle, ok := lo.Find(types.BillingCycleValues, func(c types.BillingCycle) bool {
			return strings.EqualFold(string(c), key)
		})
		if !ok {
			return nil, types.BillingCycle(key).Validate()
		}
		table[cycle] = decimal.NewFromFloat(pct)
	}

	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// Validate checks the table covers every cycle, stays within 0 to 100 percent and
// never gives a longer commitment a smaller discount than a shorter one.
func (t DiscountTable) Validate() error {
	var prev types.BillingCycle
	for i, cycle := range types.BillingCycleValues {
		pct, ok := t[cycle]
		if !ok {
			return ierr.NewErrorf("discount table is missing cycle %s", cycle).
				WithHintf("A discount must be configured for the %s billing cycle", cycle).
				Mark(ierr.ErrValidation)
		}

		if pct.IsNegative() || pct.GreaterThan(hundred) {
			return ierr.NewErrorf("discount for cycle %s out of range", cycle).
				WithHint("Discount percentage must be between 0 and 100").
				WithReportableDetails(map[string]any{
					"billing_cycle": cycle,
					"discount":      pct.String(),
				}).
				Mark(ierr.ErrValidation)
		}

		if i > 0 && pct.LessThan(t[prev]) {
			return ierr.NewErrorf("discount for cycle %s is lower than for %s", cycle, prev).
				WithHint("Longer billing cycles must not have a smaller discount than shorter ones").
				WithReportableDetails(map[string]any{
					"billing_cycle":          cycle,
					"discount":               pct.String(),
					"previous_billing_cycle": prev,
					"previous_discount":      t[prev].String(),
				}).
				Mark(ierr.ErrValidation)
		}
		prev = cycle
	}
	return nil
}

// Discount returns the discount percentage for the cycle
func (t DiscountTable) Discount(cycle types.BillingCycle) (decimal.Decimal, error) {
	if err := cycle.Validate(); err != nil {
		return decimal.Zero, err
	}

	pct, ok := t[cycle]
	if !ok {
		return decimal.Zero, ierr.NewErrorf("no discount configured for cycle %s", cycle).
			WithHintf("No discount is configured for the %s billing cycle", cycle).
			Mark(ierr.ErrInvalidCadence)
	}
	return pct, nil
}

// DiscountedPrice returns basePrice * periods * (1 - discount/100) rounded to cents
func (t DiscountTable) DiscountedPrice(basePrice decimal.Decimal, cycle types.BillingCycle, periods int) (decimal.Decimal, error) {
	pct, err := t.Discount(cycle)
	if err != nil {
		return decimal.Zero, err
	}

	if err := ValidatePrice(basePrice); err != nil {
		return decimal.Zero, err
	}

	if periods < 1 {
		return decimal.Zero, ierr.NewError("periods must be positive").
			WithHintf("Periods must be at least 1, got %d", periods).
			Mark(ierr.ErrValidation)
	}

	factor := decimal.NewFromInt(1).Sub(pct.Div(hundred))
	return types.RoundAmount(basePrice.Mul(decimal.NewFromInt(int64(periods))).Mul(factor)), nil
}

// CadencePrice converts a monthly base price into the price of one cadence unit,
// applying the discount of the matching billing cycle.
func (t DiscountTable) CadencePrice(monthlyPrice decimal.Decimal, cadence types.BillingCadence) (decimal.Decimal, error) {
	cycle, err := cadence.BillingCycle()
	if err != nil {
		return decimal.Zero, err
	}

	months, err := cadence.Months()
	if err != nil {
		return decimal.Zero, err
	}

	return t.DiscountedPrice(monthlyPrice, cycle, months)
}

// String renders the table in cycle order ex monthly=0% quarterly=5%
func (t DiscountTable) String() string {
	out := ""
	for i, cycle := range types.BillingCycleValues {
		if i > 0 {
			out += " "
		}
		out += fmt.Sprintf("%s=%s%%", cycle, t[cycle].String())
	}
	return out
}

// BillingCycleDiscount looks the cycle up in the reference discount table
func BillingCycleDiscount(cycle types.BillingCycle) (decimal.Decimal, error) {
	return DefaultDiscountTable().Discount(cycle)
}

// DiscountedPrice prices periods units of the cycle using the reference discount table
func DiscountedPrice(basePrice decimal.Decimal, cycle types.BillingCycle, periods int) (decimal.Decimal, error) {
	return DefaultDiscountTable().DiscountedPrice(basePrice, cycle, periods)
}
