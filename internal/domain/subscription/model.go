package subscription

import (
	"time"

	"github.com/rentshop/billing/internal/domain/billing"
	"github.com/rentshop/billing/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type Subscription struct {
	// ID is the unique identifier for the subscription
	ID string `db:"id" json:"id"`

	// MerchantID is the merchant that owns the subscription
	MerchantID string `db:"merchant_id" json:"merchant_id"`

	// PlanID is the plan the merchant is currently billed for
	PlanID string `db:"plan_id" json:"plan_id"`

	// SubscriptionStatus is the lifecycle state of the subscription
	SubscriptionStatus types.SubscriptionStatus `db:"subscription_status" json:"subscription_status"`

	// CurrentPeriodStart is the first instant of the period the subscription is paid for
	CurrentPeriodStart time.Time `db:"current_period_start" json:"current_period_start"`

	// CurrentPeriodEnd is the last instant (23:59:59.999 UTC) of the paid period
	CurrentPeriodEnd time.Time `db:"current_period_end" json:"current_period_end"`

	// Amount is what one billing period costs, already multiplied and discounted
	Amount decimal.Decimal `db:"amount" json:"amount"`

	// Currency is the currency of the subscription in lowercase 3 digit ISO codes
	Currency string `db:"currency" json:"currency"`

	// Cadence is the renewal unit of the subscription
	Cadence types.BillingCadence `db:"cadence" json:"cadence"`

	// CadenceMultiplier is the number of cadence units billed per period
	CadenceMultiplier int `db:"cadence_multiplier" json:"cadence_multiplier"`

	// CancelledAt is the date the subscription was cancelled
	CancelledAt *time.Time `db:"cancelled_at" json:"cancelled_at,omitempty"`

	// Version is incremented on every update and guards concurrent writers
	Version int `db:"version" json:"version"`

	types.BaseModel
}

// Period returns the current billing period
func (s *Subscription) Period() billing.Period {
	return billing.Period{Start: s.CurrentPeriodStart, End: s.CurrentPeriodEnd}
}

// SetPeriod replaces the current billing period
func (s *Subscription) SetPeriod(p billing.Period) {
	s.CurrentPeriodStart = p.Start
	s.CurrentPeriodEnd = p.End
}

// CanChangePlan reports whether the subscription is in a state that allows plan or cadence changes
func (s *Subscription) CanChangePlan() bool {
	return lo.Contains(types.PlanChangeableStatuses, s.SubscriptionStatus)
}

// CanExtend reports whether the subscription may be extended
func (s *Subscription) CanExtend() bool {
	return lo.Contains(types.ExtendableStatuses, s.SubscriptionStatus)
}

// IsTerminal reports whether the subscription can no longer renew
func (s *Subscription) IsTerminal() bool {
	return s.SubscriptionStatus == types.SubscriptionStatusCancelled
}

// Snapshot returns the engine view of the subscription's current plan at its billed amount
func (s *Subscription) Snapshot() billing.PlanSnapshot {
	return billing.PlanSnapshot{
		ID:       s.PlanID,
		Price:    s.Amount,
		Currency: s.Currency,
		Active:   true,
	}
}
