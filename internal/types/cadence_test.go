package types

import (
	"testing"

	ierr "github.com/rentshop/billing/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBillingCadence(t *testing.T) {
	tests := []struct {
		cadence BillingCadence
		months  int
		days    int
		cycle   BillingCycle
	}{
		{BillingCadenceMonth, 1, 30, BillingCycleMonthly},
		{BillingCadenceQuarter, 3, 90, BillingCycleQuarterly},
		{BillingCadenceYear, 12, 365, BillingCycleYearly},
	}

	for _, tt := range tests {
		t.Run(tt.cadence.String(), func(t *testing.T) {
			months, err := tt.cadence.Months()
			require.NoError(t, err)
			assert.Equal(t, tt.months, months)

			days, err := tt.cadence.DaysInCycle()
			require.NoError(t, err)
			assert.Equal(t, tt.days, days)

			cycle, err := tt.cadence.BillingCycle()
			require.NoError(t, err)
			assert.Equal(t, tt.cycle, cycle)

			back, err := cycle.Cadence()
			require.NoError(t, err)
			assert.Equal(t, tt.cadence, back)
		})
	}
}

func TestBillingCadence_Invalid(t *testing.T) {
	for _, c := range []BillingCadence{"", "monthly", "week", "YEAR"} {
		_, err := c.DaysInCycle()
		require.Error(t, err)
		assert.True(t, ierr.Is(err, ierr.ErrInvalidCadence), "cadence %q", c)
	}
}

func TestBillingCycle(t *testing.T) {
	months, err := BillingCycleSemiAnnual.Months()
	require.NoError(t, err)
	assert.Equal(t, 6, months)

	_, err = BillingCycleSemiAnnual.Cadence()
	assert.True(t, ierr.Is(err, ierr.ErrInvalidCadence))

	err = BillingCycle("month").Validate()
	assert.True(t, ierr.Is(err, ierr.ErrInvalidCadence))
}
