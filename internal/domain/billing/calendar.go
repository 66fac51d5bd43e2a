package billing

import (
	"time"

	ierr "github.com/rentshop/billing/internal/errors"
	"github.com/rentshop/billing/internal/types"
)

// PeriodBounds returns the billing period that starts on the anchor's day and spans
// periodCount cadence units. The start is the anchor truncated to 00:00:00.000 UTC.
// The end is the start advanced by the cadence months (clamping the day of month),
// stepped back one calendar day, at 23:59:59.999 UTC.
func PeriodBounds(anchor time.Time, cadence types.BillingCadence, periodCount int) (Period, error) {
	if err := types.ValidateInstant("anchor", anchor); err != nil {
		return Period{}, err
	}

	months, err := cadence.Months()
	if err != nil {
		return Period{}, err
	}

	if periodCount < 1 {
		return Period{}, ierr.NewError("period count must be positive").
			WithHintf("Period count must be at least 1, got %d", periodCount).
			WithReportableDetails(map[string]any{
				"period_count": periodCount,
			}).
			Mark(ierr.ErrValidation)
	}

	start := types.StartOfDay(anchor)
	next := types.AddClampedMonths(start, months*periodCount)
	end := types.EndOfDay(types.AddCalendarDays(next, -1))

	return Period{Start: start, End: end}, nil
}

// NextPeriod returns the period that follows prev, anchored on the day after prev ends
func NextPeriod(prev Period, cadence types.BillingCadence, periodCount int) (Period, error) {
	if err := types.ValidateInstant("period end", prev.End); err != nil {
		return Period{}, err
	}
	return PeriodBounds(types.AddCalendarDays(types.StartOfDay(prev.End), 1), cadence, periodCount)
}
