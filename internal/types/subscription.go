package types

import (
	ierr "github.com/rentshop/billing/internal/errors"
	"github.com/samber/lo"
)

// SubscriptionStatus is the lifecycle state of a merchant subscription
type SubscriptionStatus string

const (
	SubscriptionStatusTrial     SubscriptionStatus = "trial"
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusPastDue   SubscriptionStatus = "past_due"
	SubscriptionStatusPaused    SubscriptionStatus = "paused"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
)

var SubscriptionStatusValues = []SubscriptionStatus{
	SubscriptionStatusTrial,
	SubscriptionStatusActive,
	SubscriptionStatusPastDue,
	SubscriptionStatusPaused,
	SubscriptionStatusCancelled,
	SubscriptionStatusExpired,
}

// PlanChangeableStatuses are the states in which the plan of a subscription may change
var PlanChangeableStatuses = []SubscriptionStatus{
	SubscriptionStatusTrial,
	SubscriptionStatusActive,
	SubscriptionStatusPastDue,
}

// ExtendableStatuses are the states from which a subscription may be extended
var ExtendableStatuses = []SubscriptionStatus{
	SubscriptionStatusActive,
	SubscriptionStatusPastDue,
	SubscriptionStatusExpired,
}

func (s SubscriptionStatus) String() string {
	return string(s)
}

func (s SubscriptionStatus) Validate() error {
	if !lo.Contains(SubscriptionStatusValues, s) {
		return ierr.NewError("invalid subscription status").
			WithHint("Invalid subscription status").
			WithReportableDetails(map[string]any{
				"status":         s,
				"allowed_status": SubscriptionStatusValues,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// SubscriptionFilter represents filters for subscription queries
type SubscriptionFilter struct {
	*QueryFilter

	MerchantID string               `json:"merchant_id,omitempty" form:"merchant_id"`
	PlanID     string               `json:"plan_id,omitempty" form:"plan_id"`
	Statuses   []SubscriptionStatus `json:"statuses,omitempty" form:"statuses"`
}

func NewSubscriptionFilter() *SubscriptionFilter {
	return &SubscriptionFilter{
		QueryFilter: NewDefaultQueryFilter(),
	}
}

func (f *SubscriptionFilter) Validate() error {
	if f == nil {
		return nil
	}
	if f.QueryFilter != nil {
		if err := f.QueryFilter.Validate(); err != nil {
			return err
		}
	}
	for _, status := range f.Statuses {
		if err := status.Validate(); err != nil {
			return err
		}
	}
	return nil
}
