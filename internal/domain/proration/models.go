package proration

import (
	"time"

	"github.com/rentshop/billing/internal/domain/billing"
	"github.com/rentshop/billing/internal/types"
	"github.com/shopspring/decimal"
)

// ProrationParams holds all necessary input for calculating proration.
type ProrationParams struct {
	CurrentPlan   billing.PlanSnapshot // Plan the subscription is on, priced for Cadence
	NewPlan       billing.PlanSnapshot // Plan being switched to, priced for Cadence
	PeriodStart   time.Time            // Start of the current billing period
	PeriodEnd     time.Time            // End of the current billing period
	ChangeInstant time.Time            // Effective date/time of the change
	Cadence       types.BillingCadence // Cadence both prices are expressed in
}

// ProrationResult holds the output of a proration calculation.
type ProrationResult struct {
	ProrationRatio    decimal.Decimal       `json:"proration_ratio"`
	RemainingDays     int                   `json:"remaining_days"`
	CurrentPlanCredit decimal.Decimal       `json:"current_plan_credit"`
	NewPlanCharge     decimal.Decimal       `json:"new_plan_charge"`
	NetProration      decimal.Decimal       `json:"net_proration"` // Positive is owed by the merchant, negative is credited
	IsUpgrade         bool                  `json:"is_upgrade"`
	IsDowngrade       bool                  `json:"is_downgrade"`
	Action            types.ProrationAction `json:"action"`
	CurrentDailyRate  decimal.Decimal       `json:"current_daily_rate"`
	NewDailyRate      decimal.Decimal       `json:"new_daily_rate"`
	Currency          string                `json:"currency,omitempty"`
	ChangeInstant     time.Time             `json:"change_instant"`
}
