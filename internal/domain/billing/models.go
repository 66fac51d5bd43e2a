package billing

import (
	"time"

	"github.com/rentshop/billing/internal/types"
	"github.com/shopspring/decimal"
)

// Period is one billing cycle. Both bounds are inclusive.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// PlanSnapshot is the part of a plan the engine needs. Price is the periodic
// price for the cadence it is evaluated with.
type PlanSnapshot struct {
	ID       string          `json:"id"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency"`
	Active   bool            `json:"active"`
}

// ExtensionParams holds the input of an extension calculation
type ExtensionParams struct {
	Plan             PlanSnapshot
	Periods          int
	CurrentPeriodEnd time.Time
	ExtensionStart   time.Time
	Cadence          types.BillingCadence
}

// ExtensionResult is the cost of lengthening a subscription by whole cadence units
type ExtensionResult struct {
	ExtensionDays  int             `json:"extension_days"`
	DailyRate      decimal.Decimal `json:"daily_rate"`
	ExtensionCost  decimal.Decimal `json:"extension_cost"`
	GapDays        int             `json:"gap_days"`
	ExtensionStart time.Time       `json:"extension_start"`
	ExtensionEnd   time.Time       `json:"extension_end"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	Currency       string          `json:"currency,omitempty"`
}
