package service

import (
	"context"
	"time"

	"github.com/rentshop/billing/internal/api/dto"
	"github.com/rentshop/billing/internal/domain/billing"
	"github.com/rentshop/billing/internal/domain/proration"
	"github.com/rentshop/billing/internal/domain/subscription"
	ierr "github.com/rentshop/billing/internal/errors"
	"github.com/rentshop/billing/internal/sentry"
	"github.com/rentshop/billing/internal/types"
	"github.com/shopspring/decimal"
)

// BillingService settles plan changes, extensions and cadence changes on subscriptions
// and exposes the stateless billing calculators.
type BillingService interface {
	PreviewPlanChange(ctx context.Context, subscriptionID string, req dto.ChangePlanRequest) (*dto.PlanChangePreviewResponse, error)
	ChangePlan(ctx context.Context, subscriptionID string, req dto.ChangePlanRequest) (*dto.PlanChangeResponse, error)
	PreviewExtension(ctx context.Context, subscriptionID string, req dto.ExtendSubscriptionRequest) (*dto.ExtensionPreviewResponse, error)
	ExtendSubscription(ctx context.Context, subscriptionID string, req dto.ExtendSubscriptionRequest) (*dto.ExtendSubscriptionResponse, error)
	ChangeCadence(ctx context.Context, subscriptionID string, req dto.ChangeCadenceRequest) (*dto.ChangeCadenceResponse, error)
	Quote(ctx context.Context, req dto.QuoteRequest) (*dto.QuoteResponse, error)

	PeriodBounds(ctx context.Context, req dto.PeriodBoundsRequest) (*dto.PeriodBoundsResponse, error)
	DailyRate(ctx context.Context, req dto.DailyRateRequest) (*dto.DailyRateResponse, error)
	Prorate(ctx context.Context, req dto.ProrateRequest) (*proration.ProrationResult, error)
	Extend(ctx context.Context, req dto.ExtendRequest) (*billing.ExtensionResult, error)
	Discount(ctx context.Context, req dto.DiscountRequest) (*dto.DiscountResponse, error)
}

const (
	opPreviewPlanChange = "preview_plan_change"
	opChangePlan        = "change_plan"
	opPreviewExtension  = "preview_extension"
	opExtend            = "extend_subscription"
	opChangeCadence     = "change_cadence"
	opQuote             = "quote"
	opPeriodBounds      = "period_bounds"
	opDailyRate         = "daily_rate"
	opProrate           = "prorate"
	opExtensionCost     = "extension_cost"
	opDiscount          = "discount"
)

type billingService struct {
	ServiceParams
}

func NewBillingService(params ServiceParams) BillingService {
	return &billingService{
		ServiceParams: params,
	}
}

func (s *billingService) PreviewPlanChange(ctx context.Context, subscriptionID string, req dto.ChangePlanRequest) (resp *dto.PlanChangePreviewResponse, err error) {
	defer func() { s.Metrics.Observe(opPreviewPlanChange, err) }()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := requireID(subscriptionID, "subscription"); err != nil {
		return nil, err
	}

	sub, err := s.SubRepo.Get(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}

	return s.previewPlanChange(ctx, sub, req)
}

func (s *billingService) ChangePlan(ctx context.Context, subscriptionID string, req dto.ChangePlanRequest) (resp *dto.PlanChangeResponse, err error) {
	span, ctx := s.Sentry.StartBillingSpan(ctx, opChangePlan, map[string]interface{}{
		"subscription_id": subscriptionID,
		"target_plan_id":  req.TargetPlanID,
	})
	defer func() {
		sentry.FinishSpan(span, err)
		s.Metrics.Observe(opChangePlan, err)
	}()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	var change *dto.PlanChangePreviewResponse
	sub, err := updateSubscription(ctx, s.ServiceParams, subscriptionID, func(sub *subscription.Subscription) error {
		var err error
		change, err = s.previewPlanChange(ctx, sub, req)
		if err != nil {
			return err
		}

		sub.PlanID = change.TargetPlanID
		sub.Amount = change.NewAmount
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Metrics.ObserveAmount(opChangePlan, change.Currency, change.AmountDue)
	s.Logger.Infow("changed subscription plan",
		"subscription_id", sub.ID,
		"from_plan_id", change.CurrentPlanID,
		"to_plan_id", change.TargetPlanID,
		"action", change.Proration.Action,
		"proration_behavior", change.ProrationBehavior,
		"amount_due", change.AmountDue.String())

	return &dto.PlanChangeResponse{
		Subscription: &dto.SubscriptionResponse{Subscription: sub},
		Change:       change,
	}, nil
}

// previewPlanChange prorates moving sub to the target plan for the rest of its running period.
// The period bounds are kept, only the amount changes.
func (s *billingService) previewPlanChange(ctx context.Context, sub *subscription.Subscription, req dto.ChangePlanRequest) (*dto.PlanChangePreviewResponse, error) {
	if !sub.CanChangePlan() {
		return nil, ierr.NewErrorf("subscription %s cannot change plan", sub.ID).
			WithHintf("The plan of a %s subscription cannot be changed", sub.SubscriptionStatus).
			WithReportableDetails(map[string]any{
				"subscription_id": sub.ID,
				"status":          sub.SubscriptionStatus,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	if req.TargetPlanID == sub.PlanID {
		return nil, ierr.NewError("subscription is already on the target plan").
			WithHint("Choose a different plan to change to").
			WithReportableDetails(map[string]any{
				"subscription_id": sub.ID,
				"plan_id":         sub.PlanID,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	target, err := getPlan(ctx, s.ServiceParams, req.TargetPlanID)
	if err != nil {
		return nil, err
	}

	newAmount, err := subscriptionAmount(s.DiscountTable, target, sub.Cadence, sub.CadenceMultiplier)
	if err != nil {
		return nil, err
	}

	instant, err := req.GetChangeInstant(s.Clock.Now(ctx))
	if err != nil {
		return nil, err
	}

	result, err := s.Calculator.Calculate(proration.ProrationParams{
		CurrentPlan:   sub.Snapshot(),
		NewPlan:       target.Snapshot(newAmount),
		PeriodStart:   sub.CurrentPeriodStart,
		PeriodEnd:     sub.CurrentPeriodEnd,
		ChangeInstant: instant,
		Cadence:       sub.Cadence,
	})
	if err != nil {
		return nil, err
	}

	behavior := req.GetProrationBehavior()
	amountDue := result.NetProration
	if behavior == types.ProrationBehaviorNone {
		amountDue = decimal.Zero
	}

	return &dto.PlanChangePreviewResponse{
		SubscriptionID:    sub.ID,
		CurrentPlanID:     sub.PlanID,
		TargetPlanID:      target.ID,
		CurrentAmount:     sub.Amount,
		NewAmount:         newAmount,
		ProrationBehavior: behavior,
		Proration:         result,
		AmountDue:         amountDue,
		Currency:          sub.Currency,
		EffectiveDate:     instant,
	}, nil
}

func (s *billingService) PreviewExtension(ctx context.Context, subscriptionID string, req dto.ExtendSubscriptionRequest) (resp *dto.ExtensionPreviewResponse, err error) {
	defer func() { s.Metrics.Observe(opPreviewExtension, err) }()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := requireID(subscriptionID, "subscription"); err != nil {
		return nil, err
	}

	sub, err := s.SubRepo.Get(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}

	return s.previewExtension(ctx, sub, req)
}

func (s *billingService) ExtendSubscription(ctx context.Context, subscriptionID string, req dto.ExtendSubscriptionRequest) (resp *dto.ExtendSubscriptionResponse, err error) {
	span, ctx := s.Sentry.StartBillingSpan(ctx, opExtend, map[string]interface{}{
		"subscription_id": subscriptionID,
		"periods":         req.Periods,
	})
	defer func() {
		sentry.FinishSpan(span, err)
		s.Metrics.Observe(opExtend, err)
	}()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	var extension *dto.ExtensionPreviewResponse
	sub, err := updateSubscription(ctx, s.ServiceParams, subscriptionID, func(sub *subscription.Subscription) error {
		var err error
		extension, err = s.previewExtension(ctx, sub, req)
		if err != nil {
			return err
		}

		sub.CurrentPeriodStart = extension.NewPeriodStart
		sub.CurrentPeriodEnd = extension.NewPeriodEnd
		sub.SubscriptionStatus = types.SubscriptionStatusActive
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Metrics.ObserveAmount(opExtend, sub.Currency, extension.Extension.TotalCost)
	s.Logger.Infow("extended subscription",
		"subscription_id", sub.ID,
		"periods", req.Periods,
		"gap_days", extension.Extension.GapDays,
		"total_cost", extension.Extension.TotalCost.String(),
		"period_end", sub.CurrentPeriodEnd)

	return &dto.ExtendSubscriptionResponse{
		Subscription: &dto.SubscriptionResponse{Subscription: sub},
		Extension:    extension,
	}, nil
}

// previewExtension prices req.Periods more cadence units at the subscription's own unit price.
// Days between the end of the current period and the extension start are reported, never charged.
func (s *billingService) previewExtension(ctx context.Context, sub *subscription.Subscription, req dto.ExtendSubscriptionRequest) (*dto.ExtensionPreviewResponse, error) {
	if !sub.CanExtend() {
		return nil, ierr.NewErrorf("subscription %s cannot be extended", sub.ID).
			WithHintf("A %s subscription cannot be extended", sub.SubscriptionStatus).
			WithReportableDetails(map[string]any{
				"subscription_id": sub.ID,
				"status":          sub.SubscriptionStatus,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	start, err := types.ParseOptionalTime(req.ExtensionStart)
	if err != nil {
		return nil, err
	}

	extensionStart := defaultExtensionStart(sub, s.Clock.Now(ctx))
	if start != nil {
		extensionStart = *start
	}

	snapshot := sub.Snapshot()
	snapshot.Price = unitPrice(sub.Amount, sub.CadenceMultiplier)

	result, err := billing.Extend(billing.ExtensionParams{
		Plan:             snapshot,
		Periods:          req.Periods,
		CurrentPeriodEnd: sub.CurrentPeriodEnd,
		ExtensionStart:   extensionStart,
		Cadence:          sub.Cadence,
	})
	if err != nil {
		return nil, err
	}

	// a gap means the old period is over, so the extension opens a new one
	periodStart := sub.CurrentPeriodStart
	if result.GapDays > 0 {
		periodStart = result.ExtensionStart
	}

	return &dto.ExtensionPreviewResponse{
		SubscriptionID: sub.ID,
		Extension:      result,
		NewPeriodStart: periodStart,
		NewPeriodEnd:   types.EndOfDay(types.AddCalendarDays(result.ExtensionEnd, -1)),
	}, nil
}

// defaultExtensionStart continues a running period on the following day,
// and starts today once the period is over.
func defaultExtensionStart(sub *subscription.Subscription, now time.Time) time.Time {
	if !now.After(sub.CurrentPeriodEnd) {
		return types.AddCalendarDays(types.StartOfDay(sub.CurrentPeriodEnd), 1)
	}
	return types.StartOfDay(now)
}

func (s *billingService) ChangeCadence(ctx context.Context, subscriptionID string, req dto.ChangeCadenceRequest) (resp *dto.ChangeCadenceResponse, err error) {
	span, ctx := s.Sentry.StartBillingSpan(ctx, opChangeCadence, map[string]interface{}{
		"subscription_id": subscriptionID,
		"cadence":         req.Cadence,
	})
	defer func() {
		sentry.FinishSpan(span, err)
		s.Metrics.Observe(opChangeCadence, err)
	}()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	multiplier := req.GetCadenceMultiplier()
	resp = &dto.ChangeCadenceResponse{}
	sub, err := updateSubscription(ctx, s.ServiceParams, subscriptionID, func(sub *subscription.Subscription) error {
		// a new multiplier on the same unit is a different billing period
		if req.Cadence == sub.Cadence && multiplier == sub.CadenceMultiplier {
			return ierr.NewErrorf("subscription is already billed every %d %s", sub.CadenceMultiplier, sub.Cadence).
				WithHint("The new cadence must differ from the current one").
				WithReportableDetails(map[string]any{
					"subscription_id":    sub.ID,
					"cadence":            sub.Cadence,
					"cadence_multiplier": sub.CadenceMultiplier,
				}).
				Mark(ierr.ErrSameCadence)
		}

		if !sub.CanChangePlan() {
			return ierr.NewErrorf("subscription %s cannot change cadence", sub.ID).
				WithHintf("The cadence of a %s subscription cannot be changed", sub.SubscriptionStatus).
				Mark(ierr.ErrInvalidOperation)
		}

		p, err := getPlan(ctx, s.ServiceParams, sub.PlanID)
		if err != nil {
			return err
		}

		instant, err := req.GetChangeInstant(s.Clock.Now(ctx))
		if err != nil {
			return err
		}

		// same plan and amount on both sides, only the credit for the unused remainder matters
		result, err := s.Calculator.Calculate(proration.ProrationParams{
			CurrentPlan:   sub.Snapshot(),
			NewPlan:       p.Snapshot(sub.Amount),
			PeriodStart:   sub.CurrentPeriodStart,
			PeriodEnd:     sub.CurrentPeriodEnd,
			ChangeInstant: instant,
			Cadence:       sub.Cadence,
		})
		if err != nil {
			return err
		}

		newAmount, err := subscriptionAmount(s.DiscountTable, p, req.Cadence, multiplier)
		if err != nil {
			return err
		}

		period, err := billing.PeriodBounds(instant, req.Cadence, multiplier)
		if err != nil {
			return err
		}

		resp.PreviousCadence = sub.Cadence
		resp.Proration = result
		resp.Credit = result.CurrentPlanCredit
		resp.NewAmount = newAmount
		resp.AmountDue = types.RoundAmount(newAmount.Sub(result.CurrentPlanCredit))
		resp.Currency = sub.Currency

		sub.Cadence = req.Cadence
		sub.CadenceMultiplier = multiplier
		sub.Amount = newAmount
		sub.SetPeriod(period)
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp.Subscription = &dto.SubscriptionResponse{Subscription: sub}

	s.Metrics.ObserveAmount(opChangeCadence, resp.Currency, resp.AmountDue)
	s.Logger.Infow("changed subscription cadence",
		"subscription_id", sub.ID,
		"from_cadence", resp.PreviousCadence,
		"to_cadence", sub.Cadence,
		"credit", resp.Credit.String(),
		"amount_due", resp.AmountDue.String())

	return resp, nil
}

func (s *billingService) Quote(ctx context.Context, req dto.QuoteRequest) (resp *dto.QuoteResponse, err error) {
	defer func() { s.Metrics.Observe(opQuote, err) }()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	base, err := decimal.NewFromString(req.BasePrice)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Base price must be a valid decimal number").
			Mark(ierr.ErrValidation)
	}

	discount, err := s.DiscountTable.Discount(req.Cycle)
	if err != nil {
		return nil, err
	}

	price, err := s.DiscountTable.DiscountedPrice(base, req.Cycle, req.Periods)
	if err != nil {
		return nil, err
	}

	return &dto.QuoteResponse{
		BasePrice:       base,
		Cycle:           req.Cycle,
		Periods:         req.Periods,
		DiscountPercent: discount,
		Price:           price,
		Currency:        types.NormalizeCurrency(req.Currency),
	}, nil
}

func (s *billingService) PeriodBounds(ctx context.Context, req dto.PeriodBoundsRequest) (resp *dto.PeriodBoundsResponse, err error) {
	defer func() { s.Metrics.Observe(opPeriodBounds, err) }()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	anchor, cadence, count, err := req.ToParams()
	if err != nil {
		return nil, err
	}

	period, err := billing.PeriodBounds(anchor, cadence, count)
	if err != nil {
		return nil, err
	}

	return &dto.PeriodBoundsResponse{Period: period}, nil
}

func (s *billingService) DailyRate(ctx context.Context, req dto.DailyRateRequest) (resp *dto.DailyRateResponse, err error) {
	defer func() { s.Metrics.Observe(opDailyRate, err) }()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Price must be a valid decimal number").
			Mark(ierr.ErrValidation)
	}

	rate, err := billing.DailyRate(price, req.Cadence)
	if err != nil {
		return nil, err
	}

	return &dto.DailyRateResponse{
		Price:     price,
		Cadence:   req.Cadence,
		DailyRate: rate,
	}, nil
}

func (s *billingService) Prorate(ctx context.Context, req dto.ProrateRequest) (resp *proration.ProrationResult, err error) {
	defer func() { s.Metrics.Observe(opProrate, err) }()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	params, err := req.ToParams()
	if err != nil {
		return nil, err
	}

	result, err := s.Calculator.Calculate(params)
	if err != nil {
		return nil, err
	}

	s.Metrics.ObserveAmount(opProrate, result.Currency, result.NetProration)
	return result, nil
}

func (s *billingService) Extend(ctx context.Context, req dto.ExtendRequest) (resp *billing.ExtensionResult, err error) {
	defer func() { s.Metrics.Observe(opExtensionCost, err) }()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	params, err := req.ToParams()
	if err != nil {
		return nil, err
	}

	return billing.Extend(params)
}

func (s *billingService) Discount(ctx context.Context, req dto.DiscountRequest) (resp *dto.DiscountResponse, err error) {
	defer func() { s.Metrics.Observe(opDiscount, err) }()

	pct, err := s.DiscountTable.Discount(req.Cycle)
	if err != nil {
		return nil, err
	}

	return &dto.DiscountResponse{
		Cycle:           req.Cycle,
		DiscountPercent: pct,
	}, nil
}
