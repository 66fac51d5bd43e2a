package types

import (
	ierr "github.com/rentshop/billing/internal/errors"
	"github.com/samber/lo"
)

// BillingCadence is the renewal unit of a subscription ex month, quarter, year
type BillingCadence string

const (
	BillingCadenceMonth   BillingCadence = "month"
	BillingCadenceQuarter BillingCadence = "quarter"
	BillingCadenceYear    BillingCadence = "year"
)

var BillingCadenceValues = []BillingCadence{
	BillingCadenceMonth,
	BillingCadenceQuarter,
	BillingCadenceYear,
}

// cadenceMonths is the calendar length of one cadence unit, used for period boundaries
var cadenceMonths = map[BillingCadence]int{
	BillingCadenceMonth:   1,
	BillingCadenceQuarter: 3,
	BillingCadenceYear:    12,
}

// cadenceDays is the fixed days-per-cycle convention used for rate resolution only.
// It deliberately ignores the real calendar length of the spanned months.
var cadenceDays = map[BillingCadence]int{
	BillingCadenceMonth:   30,
	BillingCadenceQuarter: 90,
	BillingCadenceYear:    365,
}

// cadenceToCycle maps a subscription cadence to its discount lookup key
var cadenceToCycle = map[BillingCadence]BillingCycle{
	BillingCadenceMonth:   BillingCycleMonthly,
	BillingCadenceQuarter: BillingCycleQuarterly,
	BillingCadenceYear:    BillingCycleYearly,
}

func (c BillingCadence) String() string {
	return string(c)
}

func (c BillingCadence) Validate() error {
	if !lo.Contains(BillingCadenceValues, c) {
		return ierr.NewError("invalid billing cadence").
			WithHint("Billing cadence must be one of month, quarter or year").
			WithReportableDetails(map[string]any{
				"allowed_values": BillingCadenceValues,
				"provided_value": c,
			}).
			Mark(ierr.ErrInvalidCadence)
	}
	return nil
}

// Months returns the number of calendar months in one cadence unit
func (c BillingCadence) Months() (int, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	return cadenceMonths[c], nil
}

// DaysInCycle returns the fixed number of days assumed for one cadence unit
// when converting a periodic price into a daily rate.
func (c BillingCadence) DaysInCycle() (int, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	return cadenceDays[c], nil
}

// BillingCycle returns the discount lookup key for the cadence
func (c BillingCadence) BillingCycle() (BillingCycle, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	return cadenceToCycle[c], nil
}
