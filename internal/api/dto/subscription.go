package dto

import (
	"context"
	"time"

	"github.com/rentshop/billing/internal/domain/subscription"
	"github.com/rentshop/billing/internal/types"
	"github.com/rentshop/billing/internal/validator"
)

type CreateSubscriptionRequest struct {
	MerchantID string               `json:"merchant_id" validate:"required"`
	PlanID     string               `json:"plan_id" validate:"required"`
	Cadence    types.BillingCadence `json:"cadence"`
	// CadenceMultiplier is the number of cadence units in one billing period, 1 when omitted
	CadenceMultiplier int `json:"cadence_multiplier" validate:"omitempty,min=1,max=36"`
	// StartDate is an ISO-8601 instant, now when omitted
	StartDate *string `json:"start_date,omitempty"`
	Trial     bool    `json:"trial"`
}

func (r *CreateSubscriptionRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if err := r.Cadence.Validate(); err != nil {
		return err
	}

	_, err := types.ParseOptionalTime(r.StartDate)
	return err
}

// GetCadenceMultiplier returns the multiplier with the default applied
func (r *CreateSubscriptionRequest) GetCadenceMultiplier() int {
	if r.CadenceMultiplier < 1 {
		return 1
	}
	return r.CadenceMultiplier
}

// GetStartDate returns the requested start or now
func (r *CreateSubscriptionRequest) GetStartDate(now time.Time) (time.Time, error) {
	return instantOrNow(r.StartDate, now)
}

// ToSubscription builds a subscription without period and amount, which the service derives
func (r *CreateSubscriptionRequest) ToSubscription(ctx context.Context) *subscription.Subscription {
	status := types.SubscriptionStatusActive
	if r.Trial {
		status = types.SubscriptionStatusTrial
	}

	return &subscription.Subscription{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SUBSCRIPTION),
		MerchantID:         r.MerchantID,
		PlanID:             r.PlanID,
		SubscriptionStatus: status,
		Cadence:            r.Cadence,
		CadenceMultiplier:  r.GetCadenceMultiplier(),
		Version:            1,
		BaseModel:          types.GetDefaultBaseModel(ctx),
	}
}

type SubscriptionResponse struct {
	*subscription.Subscription
}

// ListSubscriptionsResponse represents the response for listing subscriptions
type ListSubscriptionsResponse = types.ListResponse[*SubscriptionResponse]
