package billing

import (
	"testing"
	"time"

	ierr "github.com/rentshop/billing/internal/errors"
	"github.com/rentshop/billing/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtend(t *testing.T) {
	plan := PlanSnapshot{ID: "plan_basic", Price: decimalFromString(t, "30"), Currency: "usd", Active: true}

	result, err := Extend(ExtensionParams{
		Plan:             plan,
		Periods:          1,
		CurrentPeriodEnd: date(2025, time.October, 7, 23, 59, 59, 0),
		ExtensionStart:   date(2025, time.October, 8, 0, 0, 0, 0),
		Cadence:          types.BillingCadenceMonth,
	})
	require.NoError(t, err)

	assert.Equal(t, 30, result.ExtensionDays)
	assert.True(t, decimalFromString(t, "1").Equal(result.DailyRate))
	assert.True(t, decimalFromString(t, "30").Equal(result.ExtensionCost))
	assert.True(t, result.ExtensionCost.Equal(result.TotalCost))
	assert.Equal(t, 0, result.GapDays)
	assert.True(t, date(2025, time.November, 7, 0, 0, 0, 0).Equal(result.ExtensionEnd))
	assert.Equal(t, "usd", result.Currency)
}

func TestExtend_Gap(t *testing.T) {
	plan := PlanSnapshot{Price: decimalFromString(t, "90")}

	tests := []struct {
		name    string
		end     time.Time
		start   time.Time
		wantGap int
	}{
		{name: "ten days late", end: date(2025, time.March, 31, 23, 59, 59, 999), start: date(2025, time.April, 11, 0, 0, 0, 0), wantGap: 10},
		{name: "half a day rounds up", end: date(2025, time.March, 31, 12, 0, 0, 0), start: date(2025, time.April, 1, 0, 0, 0, 0), wantGap: 1},
		{name: "start before end", end: date(2025, time.March, 31, 0, 0, 0, 0), start: date(2025, time.March, 1, 0, 0, 0, 0), wantGap: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Extend(ExtensionParams{
				Plan:             plan,
				Periods:          1,
				CurrentPeriodEnd: tt.end,
				ExtensionStart:   tt.start,
				Cadence:          types.BillingCadenceQuarter,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantGap, result.GapDays)
			assert.Equal(t, 90, result.ExtensionDays)
			assert.True(t, decimalFromString(t, "90").Equal(result.TotalCost))
		})
	}
}

func TestExtend_CostScaling(t *testing.T) {
	prices := []string{"0", "9.99", "30", "49.5", "100", "1234.56"}
	end := date(2025, time.June, 30, 23, 59, 59, 999)
	start := date(2025, time.July, 1, 0, 0, 0, 0)
	tolerance := decimalFromString(t, "0.02")

	for _, price := range prices {
		for _, cadence := range types.BillingCadenceValues {
			for n := 1; n <= 4; n++ {
				plan := PlanSnapshot{Price: decimalFromString(t, price)}
				single, err := Extend(ExtensionParams{Plan: plan, Periods: n, CurrentPeriodEnd: end, ExtensionStart: start, Cadence: cadence})
				require.NoError(t, err)
				double, err := Extend(ExtensionParams{Plan: plan, Periods: 2 * n, CurrentPeriodEnd: end, ExtensionStart: start, Cadence: cadence})
				require.NoError(t, err)

				diff := double.ExtensionCost.Sub(single.ExtensionCost.Mul(decimalFromString(t, "2"))).Abs()
				assert.True(t, diff.LessThanOrEqual(tolerance), "price %s cadence %s n %d diff %s", price, cadence, n, diff)
			}
		}
	}
}

func TestExtend_Errors(t *testing.T) {
	plan := PlanSnapshot{Price: decimalFromString(t, "30")}
	end := date(2025, time.October, 7, 23, 59, 59, 0)
	start := date(2025, time.October, 8, 0, 0, 0, 0)

	_, err := Extend(ExtensionParams{Plan: plan, Periods: 0, CurrentPeriodEnd: end, ExtensionStart: start, Cadence: types.BillingCadenceMonth})
	assert.True(t, ierr.IsValidation(err))

	_, err = Extend(ExtensionParams{Plan: plan, Periods: 1, CurrentPeriodEnd: end, ExtensionStart: start, Cadence: types.BillingCadence("fortnight")})
	assert.True(t, ierr.Is(err, ierr.ErrInvalidCadence))

	_, err = Extend(ExtensionParams{Plan: plan, Periods: 1, CurrentPeriodEnd: end, ExtensionStart: time.Time{}, Cadence: types.BillingCadenceMonth})
	assert.True(t, ierr.Is(err, ierr.ErrOutOfRangeInstant))

	_, err = Extend(ExtensionParams{Plan: PlanSnapshot{Price: decimalFromString(t, "-30")}, Periods: 1, CurrentPeriodEnd: end, ExtensionStart: start, Cadence: types.BillingCadenceMonth})
	assert.True(t, ierr.Is(err, ierr.ErrNegativePrice))
}
