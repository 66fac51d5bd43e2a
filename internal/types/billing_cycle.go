package types

import (
	ierr "github.com/rentshop/billing/internal/errors"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// BillingCycle is the prepaid commitment length used to look up a discount.
// It is a distinct enumeration from BillingCadence; semiAnnual has no cadence.
type BillingCycle string

const (
	BillingCycleMonthly    BillingCycle = "monthly"
	BillingCycleQuarterly  BillingCycle = "quarterly"
	BillingCycleSemiAnnual BillingCycle = "semiAnnual"
	BillingCycleYearly     BillingCycle = "yearly"
)

// BillingCycleValues is ordered by commitment length
var BillingCycleValues = []BillingCycle{
	BillingCycleMonthly,
	BillingCycleQuarterly,
	BillingCycleSemiAnnual,
	BillingCycleYearly,
}

var cycleMonths = map[BillingCycle]int{
	BillingCycleMonthly:    1,
	BillingCycleQuarterly:  3,
	BillingCycleSemiAnnual: 6,
	BillingCycleYearly:     12,
}

// DefaultCycleDiscounts is the reference discount percentage per cycle
var DefaultCycleDiscounts = map[BillingCycle]decimal.Decimal{
	BillingCycleMonthly:    decimal.Zero,
	BillingCycleQuarterly:  decimal.NewFromInt(5),
	BillingCycleSemiAnnual: decimal.NewFromInt(10),
	BillingCycleYearly:     decimal.NewFromInt(20),
}

var cycleToCadence = map[BillingCycle]BillingCadence{
	BillingCycleMonthly:   BillingCadenceMonth,
	BillingCycleQuarterly: BillingCadenceQuarter,
	BillingCycleYearly:    BillingCadenceYear,
}

func (c BillingCycle) String() string {
	return string(c)
}

func (c BillingCycle) Validate() error {
	if !lo.Contains(BillingCycleValues, c) {
		return ierr.NewError("invalid billing cycle").
			WithHint("Billing cycle must be one of monthly, quarterly, semiAnnual or yearly").
			WithReportableDetails(map[string]any{
				"allowed_values": BillingCycleValues,
				"provided_value": c,
			}).
			Mark(ierr.ErrInvalidCadence)
	}
	return nil
}

// Months returns the commitment length of the cycle in calendar months
func (c BillingCycle) Months() (int, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	return cycleMonths[c], nil
}

// Cadence maps the cycle back to a subscription cadence.
// semiAnnual has no subscription cadence and fails with an invalid cadence error.
func (c BillingCycle) Cadence() (BillingCadence, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	cadence, ok := cycleToCadence[c]
	if !ok {
		return "", ierr.NewError("billing cycle has no subscription cadence").
			WithHintf("Billing cycle %s cannot be used as a subscription cadence", c).
			WithReportableDetails(map[string]any{
				"billing_cycle": c,
			}).
			Mark(ierr.ErrInvalidCadence)
	}
	return cadence, nil
}
