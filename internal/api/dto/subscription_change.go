package dto

import (
	"time"

	"github.com/rentshop/billing/internal/domain/billing"
	"github.com/rentshop/billing/internal/domain/proration"
	"github.com/rentshop/billing/internal/types"
	"github.com/rentshop/billing/internal/validator"
	"github.com/shopspring/decimal"
)

// ChangePlanRequest moves a subscription to another plan within its running period
type ChangePlanRequest struct {
	TargetPlanID      string                  `json:"target_plan_id" validate:"required"`
	ProrationBehavior types.ProrationBehavior `json:"proration_behavior,omitempty"`
	// ChangeInstant is an ISO-8601 instant, now when omitted
	ChangeInstant *string `json:"change_instant,omitempty"`
}

func (r *ChangePlanRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if r.ProrationBehavior != "" {
		if err := r.ProrationBehavior.Validate(); err != nil {
			return err
		}
	}

	_, err := types.ParseOptionalTime(r.ChangeInstant)
	return err
}

// GetProrationBehavior returns the behavior with the default applied
func (r *ChangePlanRequest) GetProrationBehavior() types.ProrationBehavior {
	if r.ProrationBehavior == "" {
		return types.ProrationBehaviorCreateProrations
	}
	return r.ProrationBehavior
}

// GetChangeInstant returns the requested instant or now
func (r *ChangePlanRequest) GetChangeInstant(now time.Time) (time.Time, error) {
	return instantOrNow(r.ChangeInstant, now)
}

// PlanChangePreviewResponse shows what a plan change would cost without applying it
type PlanChangePreviewResponse struct {
	SubscriptionID    string                     `json:"subscription_id"`
	CurrentPlanID     string                     `json:"current_plan_id"`
	TargetPlanID      string                     `json:"target_plan_id"`
	CurrentAmount     decimal.Decimal            `json:"current_amount"`
	NewAmount         decimal.Decimal            `json:"new_amount"`
	ProrationBehavior types.ProrationBehavior    `json:"proration_behavior"`
	Proration         *proration.ProrationResult `json:"proration"`
	// AmountDue is the net proration, zero when prorations are not created
	AmountDue     decimal.Decimal `json:"amount_due"`
	Currency      string          `json:"currency"`
	EffectiveDate time.Time       `json:"effective_date"`
}

// PlanChangeResponse is the subscription after the change together with the settled preview
type PlanChangeResponse struct {
	Subscription *SubscriptionResponse      `json:"subscription"`
	Change       *PlanChangePreviewResponse `json:"change"`
}

// ExtendSubscriptionRequest lengthens a subscription by whole cadence units
type ExtendSubscriptionRequest struct {
	Periods int `json:"periods" validate:"required,min=1,max=120"`
	// ExtensionStart is an ISO-8601 instant. When omitted the extension follows the
	// current period, or starts today when the period has already ended.
	ExtensionStart *string `json:"extension_start,omitempty"`
}

func (r *ExtendSubscriptionRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	_, err := types.ParseOptionalTime(r.ExtensionStart)
	return err
}

type ExtensionPreviewResponse struct {
	SubscriptionID string                  `json:"subscription_id"`
	Extension      *billing.ExtensionResult `json:"extension"`
	// NewPeriodStart and NewPeriodEnd are the period the subscription has after the extension
	NewPeriodStart time.Time `json:"new_period_start"`
	NewPeriodEnd   time.Time `json:"new_period_end"`
}

type ExtendSubscriptionResponse struct {
	Subscription *SubscriptionResponse     `json:"subscription"`
	Extension    *ExtensionPreviewResponse `json:"extension"`
}

// ChangeCadenceRequest switches the renewal unit of a subscription
type ChangeCadenceRequest struct {
	Cadence           types.BillingCadence `json:"cadence"`
	CadenceMultiplier int                  `json:"cadence_multiplier" validate:"omitempty,min=1,max=36"`
	ChangeInstant     *string              `json:"change_instant,omitempty"`
}

func (r *ChangeCadenceRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if err := r.Cadence.Validate(); err != nil {
		return err
	}

	_, err := types.ParseOptionalTime(r.ChangeInstant)
	return err
}

func (r *ChangeCadenceRequest) GetCadenceMultiplier() int {
	if r.CadenceMultiplier < 1 {
		return 1
	}
	return r.CadenceMultiplier
}

func (r *ChangeCadenceRequest) GetChangeInstant(now time.Time) (time.Time, error) {
	return instantOrNow(r.ChangeInstant, now)
}

type ChangeCadenceResponse struct {
	Subscription    *SubscriptionResponse      `json:"subscription"`
	PreviousCadence types.BillingCadence       `json:"previous_cadence"`
	Proration       *proration.ProrationResult `json:"proration"`
	// Credit is the unused value of the period that was cut short
	Credit    decimal.Decimal `json:"credit"`
	NewAmount decimal.Decimal `json:"new_amount"`
	// AmountDue is new_amount minus credit, negative when the merchant keeps a credit
	AmountDue decimal.Decimal `json:"amount_due"`
	Currency  string          `json:"currency"`
}

func instantOrNow(instant *string, now time.Time) (time.Time, error) {
	parsed, err := types.ParseOptionalTime(instant)
	if err != nil {
		return time.Time{}, err
	}
	if parsed == nil {
		return now, nil
	}
	return *parsed, nil
}
